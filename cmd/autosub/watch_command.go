package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"autosub/internal/logging"
	"autosub/internal/services"
	"autosub/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	flags := &pipelineFlags{}
	var settle time.Duration

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Process each new .mp4 that appears in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				return services.Wrap(services.ErrConfiguration, "watch", "resolve", fmt.Sprintf("%s is not a directory", args[0]), err)
			}
			cfg, err := ctx.configWithOverrides(cmd, flags)
			if err != nil {
				return err
			}
			if filepath.Clean(cfg.Paths.OutputDir) == dir {
				return services.Wrap(services.ErrConfiguration, "watch", "resolve", "output directory must differ from the watched directory", nil)
			}
			if err := checkReady(cmd.Context(), cfg); err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			env, err := newPipelineEnv(cfg, logger, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()

			out := cmd.OutOrStdout()
			w := watch.New(dir, func(runCtx context.Context, path string) error {
				return env.process(runCtx, out, []string{path})
			}, settle, logger)
			err = w.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				logger.Info("watch stopped", logging.String("dir", dir))
				return nil
			}
			return err
		},
	}

	addPipelineFlags(cmd, flags)
	cmd.Flags().DurationVar(&settle, "settle", watch.DefaultSettle, "Quiet period before a new file is processed")
	return cmd
}
