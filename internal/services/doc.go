// Package services holds the plumbing shared by the pipeline and its
// external tool adapters: the per-file Scope carried on contexts, the error
// markers that Wrap attaches, and the CommandRunner used to invoke ffmpeg,
// ffprobe and uvx.
package services
