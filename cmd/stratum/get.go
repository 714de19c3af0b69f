// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func getCmd(flags *stackFlags) *cobra.Command {
	var raw bool
	var typed bool
	var asPath bool

	cmd := &cobra.Command{
		Use:   "get SECTION:KEY",
		Short: "Print one resolved configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, key, ok := strings.Cut(args[0], ":")
			if !ok || section == "" || key == "" {
				return fmt.Errorf("expected SECTION:KEY, got %q", args[0])
			}

			cfg, err := flags.load()
			if err != nil {
				return err
			}

			switch {
			case raw:
				v, err := cfg.Raw(section, key)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
			case typed:
				v, err := cfg.Typed(section, key)
				if err != nil {
					return err
				}
				out, err := json.MarshalIndent(v, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			case asPath:
				v, err := cfg.Path(section, key, flags.baseDir())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
			default:
				v, err := cfg.Resolved(section, key)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the value before interpolation")
	cmd.Flags().BoolVar(&typed, "typed", false, "parse the resolved value as a structured literal and print it as JSON")
	cmd.Flags().BoolVar(&asPath, "path", false, "materialize the resolved value as a path against the project file's directory")
	cmd.MarkFlagsMutuallyExclusive("raw", "typed", "path")
	return cmd
}
