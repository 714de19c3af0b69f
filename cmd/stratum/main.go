// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command stratum inspects layered pipeline configuration stacks.
//
//	stratum get dirs:project_dir -c general.ini -c roads.ini --local local_overrule.ini
//	stratum dump -c general.ini -c roads.ini --json
//	stratum check -c general.ini roads.ini buildings.ini
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/z5labs/stratum"
	"github.com/z5labs/stratum/layer"

	"github.com/spf13/cobra"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cmd := rootCmd(log)
	err := cmd.Execute()
	if err != nil {
		log.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// stackFlags are the layer stack flags shared by every subcommand,
// lowest precedence first: -c files in order, then the optional local
// override, then the environment.
type stackFlags struct {
	configs   []string
	local     string
	envPrefix string
}

func (f *stackFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringArrayVarP(&f.configs, "config", "c", nil, "configuration file, repeatable, lowest precedence first")
	cmd.PersistentFlags().StringVar(&f.local, "local", "", "optional local override file, loaded last")
	cmd.PersistentFlags().StringVar(&f.envPrefix, "env-prefix", "", "also apply environment variables PREFIX_SECTION__KEY as the final layer")
}

// sources builds the layer sources for the flags, with extra project
// files appended after the -c files.
func (f *stackFlags) sources(projectFiles ...string) []layer.Source {
	var srcs []layer.Source
	for _, path := range f.configs {
		srcs = append(srcs, layer.NewFile(path))
	}
	for _, path := range projectFiles {
		srcs = append(srcs, layer.NewFile(path))
	}
	if f.local != "" {
		srcs = append(srcs, layer.NewFile(f.local, layer.Optional()))
	}
	if f.envPrefix != "" {
		srcs = append(srcs, layer.Env(f.envPrefix))
	}
	return srcs
}

func (f *stackFlags) load(projectFiles ...string) (*stratum.Config, error) {
	return stratum.Load(f.sources(projectFiles...)...)
}

// baseDir is the directory paths materialize against: the directory of
// the last project file in the stack.
func (f *stackFlags) baseDir() string {
	if len(f.configs) == 0 {
		return "."
	}
	return filepath.Dir(f.configs[len(f.configs)-1])
}

func rootCmd(log *slog.Logger) *cobra.Command {
	flags := &stackFlags{}

	cmd := &cobra.Command{
		Use:           "stratum",
		Short:         "Inspect layered pipeline configuration stacks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.register(cmd)

	cmd.AddCommand(
		getCmd(flags),
		dumpCmd(flags),
		checkCmd(log, flags),
	)
	return cmd
}
