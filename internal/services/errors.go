package services

import (
	"errors"
	"fmt"
	"strings"
)

// Markers classify failures. Wrap attaches exactly one of them.
var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTransient     = errors.New("transient failure")
)

// kinds is ordered by precedence for errors carrying more than one marker.
var kinds = []struct {
	marker error
	name   string
}{
	{ErrConfiguration, "configuration"},
	{ErrExternalTool, "external_tool"},
	{ErrValidation, "validation"},
	{ErrNotFound, "not_found"},
	{ErrTransient, "transient"},
}

// Wrap returns "<marker>: stage: operation: message[: err]", matching both
// marker and err under errors.Is. A nil marker means ErrTransient.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	detail := joinNonEmpty(": ", stage, operation, message)
	if detail == "" {
		detail = "service failure"
	}
	if err == nil {
		return fmt.Errorf("%w: %s", marker, detail)
	}
	return fmt.Errorf("%w: %s: %w", marker, detail, err)
}

// Kind names the marker carried by err, or "error" when none matches.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.marker) {
			return k.name
		}
	}
	return "error"
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
