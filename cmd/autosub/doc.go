// Package main hosts the autosub CLI entrypoint and command graph.
//
// The root command turns a list of .mp4 files (or a directory of them) into
// subtitle files and subtitled videos by driving internal/pipeline. The
// config, doctor and watch subcommands cover configuration scaffolding,
// dependency checks and hands-off processing of a drop folder.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
