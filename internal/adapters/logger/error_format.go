package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager is implemented by zerr errors, which report their message without the chain.
type messager interface {
	Message() string
}

type metadataHolder interface {
	Metadata() map[string]any
}

// ErrorEntry is one level of an error chain.
type ErrorEntry struct {
	Message string
	// Metadata is nil for errors that cannot carry metadata.
	Metadata map[string]any
}

// collectErrorEntries walks the zerr chain of err. The first error that is not a zerr
// error ends the walk with its full Error() text.
func collectErrorEntries(err error) []ErrorEntry {
	var (
		entries []ErrorEntry
		carried map[string]any
	)

	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: carried})
			break
		}

		var meta map[string]any
		if h, ok := current.(metadataHolder); ok {
			meta = h.Metadata()
		}

		// zerr.With on a plain error adds a level without a message; its metadata
		// belongs to the error below it.
		if m.Message() == "" {
			carried = merge(carried, meta)
			current = errors.Unwrap(current)
			continue
		}

		entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: merge(carried, meta)})
		carried = nil
		current = errors.Unwrap(current)
	}

	return entries
}

func merge(a, b map[string]any) map[string]any {
	if a == nil {
		return b
	}
	res := maps.Clone(a)
	maps.Copy(res, b)
	return res
}

// formatErrorEntries renders entries as "Error: ..." followed by "Caused by:" lines.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		prefix, indent := "Error: ", "       "
		if i > 0 {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			prefix, indent = "    → ", "      "
		}

		lines = append(lines, prefix+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}
