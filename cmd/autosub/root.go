package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var inputDir string
	flags := &pipelineFlags{}

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "autosub [videos...]",
		Short: "Generate, translate and embed subtitles for .mp4 videos",
		Long: "autosub extracts the audio of each video, transcribes it with Whisper, " +
			"optionally translates the subtitles and muxes them back into a copy of the video.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := collectInputs(args, inputDir)
			if err != nil {
				return err
			}
			cfg, err := ctx.configWithOverrides(cmd, flags)
			if err != nil {
				return err
			}
			return runPipeline(cmd, cfg, sources)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().StringVarP(&inputDir, "input-dir", "i", "", "Directory whose .mp4 files are processed")
	addPipelineFlags(rootCmd, flags)

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))

	return rootCmd
}
