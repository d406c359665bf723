// SPDX-License-Identifier: MIT
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"pitchbatch/internal/config"
	"pitchbatch/pkg/build"
)

// ParseArgs builds the runtime configuration from defaults, an optional
// YAML config file, and command line arguments. Flags set explicitly on
// the command line win over file values.
func ParseArgs() (*config.Config, error) {
	buildInfo := build.GetBuildFlags()
	options := config.New()

	var configPath string

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name + " <source-dir> <dest-dir> <report-name>",
		Short:         "Shift speech recordings to a randomized pitch target and report the statistics",
		Version:       buildInfo.Version,
		Args:          cobra.ExactArgs(3),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Cobra has already written flag values into options; the file
			// overlay would clobber them, so reapply changed flags after.
			if err := options.LoadFile(configPath); err != nil {
				return err
			}
			return applyChangedFlags(cmd, options)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			options.SourceDir = args[0]
			options.DestDir = args[1]
			options.ReportName = args[2]
			return options.Validate()
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	probeCmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "Analyze a single wav file and print its frequency profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Command = "probe"
			options.CommandArg = args[0]
			return options.Validate()
		},
	}
	rootCmd.AddCommand(probeCmd)

	playCmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Play a wav file on the default output device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Command = "play"
			options.CommandArg = args[0]
			return options.Validate()
		},
	}
	rootCmd.AddCommand(playCmd)

	rootCmd.PersistentFlags().IntVarP(&options.StepMS, "step-ms", "t", config.DefaultStepMS,
		"Pitch analysis hop in milliseconds")
	rootCmd.PersistentFlags().IntVarP(&options.Workers, "workers", "w", config.DefaultWorkers,
		"Number of concurrent file pipelines")
	rootCmd.PersistentFlags().Int64Var(&options.Seed, "seed", config.DefaultSeed,
		"Target selector seed; 0 draws fresh randomness every run")
	rootCmd.PersistentFlags().StringVar(&options.ProgressAddr, "progress-addr", config.DefaultProgressAddr,
		"Serve per-file progress records over websocket on this address")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&options.Verbose, "verbose", "v", false,
		"Show verbose output")

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	return options, nil
}

// applyChangedFlags re-reads flags the user set explicitly, restoring them
// over values the config file may have overwritten.
func applyChangedFlags(cmd *cobra.Command, options *config.Config) error {
	fl := cmd.Flags()
	if fl.Changed("step-ms") {
		v, err := fl.GetInt("step-ms")
		if err != nil {
			return err
		}
		options.StepMS = v
	}
	if fl.Changed("workers") {
		v, err := fl.GetInt("workers")
		if err != nil {
			return err
		}
		options.Workers = v
	}
	if fl.Changed("seed") {
		v, err := fl.GetInt64("seed")
		if err != nil {
			return err
		}
		options.Seed = v
	}
	if fl.Changed("progress-addr") {
		v, err := fl.GetString("progress-addr")
		if err != nil {
			return err
		}
		options.ProgressAddr = v
	}
	return nil
}
