// Package preflight provides readiness checks for the external tools,
// credentials and directories autosub depends on.
//
// These checks run in two contexts:
//   - The root command calls RunAll before processing. If a required check
//     fails, the run stops before any file is staged.
//   - "autosub doctor" renders every result, passed or not.
//
// Checks are gated by configuration: uvx is only required for the WhisperX
// backend and API keys only for the providers in use.
package preflight
