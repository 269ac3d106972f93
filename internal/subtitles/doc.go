// Package subtitles serializes timed transcript segments as SubRip (SRT)
// files and inspects SRT files written by this or other tools.
package subtitles
