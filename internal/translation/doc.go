// Package translation machine-translates SRT files one text line at a time.
//
// Translator walks the subtitle file, sends every text line (anything that
// is not blank, not a cue number and not a timing line) to a generative
// language model, and writes a parallel file with the same number of lines.
// A line that cannot be translated is written as "[TRANSATION-FAIL]: " plus
// the original text and the cue index is reported in Result.Failed. Every
// model call is followed by a fixed pause to stay under provider rate
// limits.
//
// Clients:
//   - GeminiClient talks to the Gemini API through google.golang.org/genai
//   - OpenAIClient talks to any OpenAI-compatible chat completion endpoint
package translation
