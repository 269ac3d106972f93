// Package textutil formats values for human-readable run summaries.
//
// The helpers cover byte sizes (binary units with one decimal place),
// elapsed durations spelled out in days, hours, minutes and seconds, and
// filename sanitization for published artifacts.
package textutil
