package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"autosub/internal/services"
	"autosub/internal/watch"
)

// collectInputs resolves the files to process from positional paths or an
// input directory. Exactly one source must be used.
func collectInputs(args []string, inputDir string) ([]string, error) {
	inputDir = strings.TrimSpace(inputDir)
	if len(args) > 0 && inputDir != "" {
		return nil, services.Wrap(services.ErrConfiguration, "input", "resolve",
			"positional paths and --input-dir cannot be combined", nil)
	}

	if inputDir != "" {
		return scanInputDir(inputDir)
	}

	if len(args) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "input", "resolve",
			"no inputs: pass .mp4 files or --input-dir", nil)
	}
	sources := make([]string, 0, len(args))
	for _, arg := range args {
		if !watch.IsVideo(arg) {
			return nil, services.Wrap(services.ErrConfiguration, "input", "resolve",
				fmt.Sprintf("%s is not an .mp4 file", arg), nil)
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "input", "resolve",
				fmt.Sprintf("cannot read %s", arg), err)
		}
		if info.IsDir() {
			return nil, services.Wrap(services.ErrConfiguration, "input", "resolve",
				fmt.Sprintf("%s is a directory (use --input-dir)", arg), nil)
		}
		sources = append(sources, arg)
	}
	return sources, nil
}

func scanInputDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "input", "scan",
			fmt.Sprintf("cannot read input directory %s", dir), err)
	}
	var sources []string
	for _, entry := range entries {
		if entry.IsDir() || !watch.IsVideo(entry.Name()) {
			continue
		}
		sources = append(sources, filepath.Join(dir, entry.Name()))
	}
	if len(sources) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "input", "scan",
			fmt.Sprintf("no .mp4 files found in %s", dir), nil)
	}
	sort.Strings(sources)
	return sources, nil
}
