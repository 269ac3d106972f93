// Package ffprobe runs ffprobe and decodes the stream list autosub uses to
// pick an audio track and to check muxed output.
package ffprobe
