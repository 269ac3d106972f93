package textutil

import (
	"path/filepath"
	"strings"
	"unicode"
)

// BaseName returns the file name of path without its extension, made safe to
// reuse as an output name: separators, colons and asterisks become dashes,
// other reserved and control characters are dropped. It returns "output" when
// nothing usable remains.
func BaseName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.TrimSpace(strings.Map(safeRune, name))
	if name == "" || name == "." || name == ".." {
		return "output"
	}
	return name
}

func safeRune(r rune) rune {
	switch r {
	case '/', '\\', ':', '*':
		return '-'
	case '?', '"', '<', '>', '|':
		return -1
	}
	if unicode.IsControl(r) {
		return -1
	}
	return r
}
