// Package pipeline drives each input video through the subtitle stages:
// staging into the workspace, probing, audio extraction, transcription, SRT
// writing, optional translation, muxing and publishing.
//
// Files are processed one after another. Every stage produces a StageResult
// recorded on the file's Job; the configured failure policy decides whether a
// failed stage ends the file or lets the remaining stages run on whatever
// artifacts exist. After the run, RenderSummary prints the per-file table.
package pipeline
