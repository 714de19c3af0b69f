// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func checkCmd(log *slog.Logger, flags *stackFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check PROJECT_FILE...",
		Short: "Validate one or more project files against the shared stack",
		Long: `Check builds, for every given project file, the full layer stack
(-c files, the project file, the optional local override, environment)
and resolves every value in it. Each file is checked independently so
one broken project does not hide errors in another.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var g errgroup.Group
			failed := make([]bool, len(args))

			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					cfg, err := flags.load(path)
					if err == nil {
						_, err = cfg.Dump()
					}
					if err != nil {
						failed[i] = true
						log.Error("project configuration is invalid",
							slog.String("project_file", path),
							slog.String("error", err.Error()),
						)
						return nil
					}
					log.Info("project configuration resolves cleanly", slog.String("project_file", path))
					return nil
				})
			}

			err := g.Wait()
			if err != nil {
				return err
			}
			for _, f := range failed {
				if f {
					return fmt.Errorf("one or more project configurations are invalid")
				}
			}
			return nil
		},
	}
	return cmd
}
