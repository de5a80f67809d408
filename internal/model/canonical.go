package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CanonicalLabel returns the display label in NFC-normalized form with
// surrounding whitespace trimmed. Labels appear in schedules, alerts, and
// golden snapshots; normalizing once at ingestion keeps byte-level output
// stable across authoring tools that emit decomposed Unicode.
func CanonicalLabel(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
