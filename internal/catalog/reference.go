package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// TitleKind names the title variants a reference entry may carry.
type TitleKind string

const (
	TitlePrimary   TitleKind = "primary"
	TitleRomanized TitleKind = "romanized"
	TitleNative    TitleKind = "native"
)

// ReferenceEntry is one item from an external reference site (AniList). It
// only expands the set of titles considered equivalent to a record; it is
// never itself reported as a duplicate.
type ReferenceEntry struct {
	RefID     int64                `json:"refId"`
	Titles    map[TitleKind]string `json:"titles"`
	AltTitles []string             `json:"alternateTitles"`
}

// LoadReferences reads a reference-data JSON file (the anilist --export-json
// output).
func LoadReferences(path string) ([]ReferenceEntry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference data %s: %w", path, err)
	}
	var entries []ReferenceEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("parse reference data %s: %w", path, err)
	}
	return entries, nil
}

// WriteReferences writes reference entries as indented JSON.
func WriteReferences(path string, entries []ReferenceEntry) error {
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reference data: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write reference data %s: %w", path, err)
	}
	return nil
}
