// Package audio picks the audio stream ffmpeg will extract from a container
// and reports what is known about it.
//
// Select mirrors ffmpeg's default stream choice for "-vn" extraction: the
// stream with the most channels wins, with the default disposition and
// stream order breaking ties. The selection carries the stream's language
// tag, which callers use as a hint when the transcript language is unknown.
package audio
