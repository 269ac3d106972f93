// Package language validates and converts the language codes autosub accepts
// on the command line.
//
// The supported set mirrors the languages the Whisper models recognise.
// Conversions to ISO 639-2 (used in container metadata) and display names are
// delegated to golang.org/x/text so codes outside the hand-maintained table
// still resolve when the standard knows them.
package language
