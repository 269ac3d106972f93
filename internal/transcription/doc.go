// Package transcription turns extracted audio into timed transcript segments.
//
// Backends implement Transcriber:
//   - WhisperX runs `uvx whisperx` locally and reads its JSON output
//   - OpenAI calls the hosted Whisper API with a verbose_json response
//
// Service wraps a backend with the rules shared by all of them: English-only
// models (names ending in ".en") force the source language to English, and
// when the language was auto-detected but the backend did not report one,
// the transcript text is classified with lingua so the muxed subtitle track
// still gets a language tag.
package transcription
