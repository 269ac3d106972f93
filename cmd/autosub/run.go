package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"autosub/internal/config"
	"autosub/internal/logging"
	"autosub/internal/media"
	"autosub/internal/pipeline"
	"autosub/internal/preflight"
	"autosub/internal/services"
	"autosub/internal/transcription"
	"autosub/internal/translation"
	"autosub/internal/workspace"
)

// pipelineEnv owns the locked workspace and the runner built on it.
type pipelineEnv struct {
	ws     *workspace.Workspace
	runner *pipeline.Runner
	cfg    *config.Config
	logger *slog.Logger
}

func newPipelineEnv(cfg *config.Config, logger *slog.Logger, toolOutput io.Writer) (*pipelineEnv, error) {
	ws, err := workspace.Open(cfg.Paths.WorkDir, logger)
	if err != nil {
		return nil, err
	}

	ff := media.NewFFmpeg(cfg.Binaries.FFmpeg, cfg.Binaries.FFprobe, logger)
	if cfg.Logging.Verbose {
		ff.WithStreamingOutput(toolOutput)
	}

	transcriber, err := transcription.NewFromConfig(cfg, logger)
	if err != nil {
		_ = ws.Close()
		return nil, services.Wrap(services.ErrConfiguration, "transcription", "init", "build transcriber", err)
	}

	var translator pipeline.SubtitleTranslator
	if cfg.TranslationEnabled() {
		client, err := translation.NewClientFromConfig(cfg.Translation, logger)
		if err != nil {
			_ = ws.Close()
			return nil, services.Wrap(services.ErrConfiguration, "translation", "init", "build translation client", err)
		}
		var opts []translation.Option
		if !cfg.Logging.Verbose {
			if progress := translation.TerminalProgress(os.Stderr); progress != nil {
				opts = append(opts, translation.WithProgress(progress))
			}
		}
		translator = translation.New(client, logger, opts...)
	}

	runner := pipeline.NewRunner(ws, ff, transcriber, translator, pipeline.OptionsFromConfig(cfg), logger)
	return &pipelineEnv{ws: ws, runner: runner, cfg: cfg, logger: logger}, nil
}

func (e *pipelineEnv) Close() error {
	return e.ws.Close()
}

// process runs sources and prints the summary table to out.
func (e *pipelineEnv) process(ctx context.Context, out io.Writer, sources []string) error {
	report, runErr := e.runner.Run(ctx, sources)
	if len(report.Jobs) > 0 {
		if err := pipeline.RenderSummary(out, report, shouldColorize(out)); err != nil {
			e.logger.Debug("summary render failed", logging.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}
	if failed := report.FailedJobs(); failed > 0 && e.cfg.Pipeline.OnFailure == config.FailureAbort {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(report.Jobs))
	}
	return nil
}

// checkReady runs the preflight checks and fails on any required one.
func checkReady(ctx context.Context, cfg *config.Config) error {
	failed := preflight.Failed(preflight.RunAll(ctx, cfg, nil))
	if len(failed) == 0 {
		return nil
	}
	details := make([]string, 0, len(failed))
	for _, r := range failed {
		details = append(details, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "check",
		"not ready (run `autosub doctor`): "+strings.Join(details, "; "), nil)
}

func runPipeline(cmd *cobra.Command, cfg *config.Config, sources []string) error {
	ctx := cmd.Context()
	if err := checkReady(ctx, cfg); err != nil {
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
	return env.process(ctx, cmd.OutOrStdout(), sources)
}
