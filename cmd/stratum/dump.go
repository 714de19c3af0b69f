// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func dumpCmd(flags *stackFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print every value of the stack, fully resolved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}

			if asJSON {
				resolved, err := cfg.Dump()
				if err != nil {
					return err
				}
				out, err := json.MarshalIndent(resolved, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			w := cmd.OutOrStdout()
			for i, section := range cfg.Sections() {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "[%s]\n", section)
				for _, key := range cfg.Keys(section) {
					v, err := cfg.Resolved(section, key)
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "%s = %s\n", key, v)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as a JSON object of sections")
	return cmd
}
