// Package media drives ffmpeg to pull audio out of a video and to embed
// subtitle tracks back into it.
//
// Every command is built as an argv slice and executed through a
// services.CommandRunner, so tests substitute the process and assert on the
// exact arguments. Streams are always copied; nothing is re-encoded except
// the subtitles, which become mov_text tracks.
//
// Subpackages:
//   - ffprobe: typed ffprobe JSON inspection
//   - audio: choice of the audio stream ffmpeg extracts by default
package media
