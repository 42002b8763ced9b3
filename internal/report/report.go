// Package report renders audit trails and duplicate groups as Markdown. All
// renderers are deterministic for fixed Metadata: the only varying pieces
// (run id, timestamp) are injected by the caller.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Another0Noob/tachibk/internal/catalog"
	"github.com/Another0Noob/tachibk/internal/match"
	"github.com/Another0Noob/tachibk/internal/merge"
)

const timeLayout = "2006-01-02 15:04:05"

// Metadata is the header block shared by every report.
type Metadata struct {
	Mode      string
	RunID     string
	Generated time.Time
	Output    string // file the operation wrote, if any
	Backup    string // input backup for single-collection operations
	Reference string // reference-data file, if one was used
}

func header(b *strings.Builder, title string, md Metadata) {
	fmt.Fprintf(b, "# %s\n\n", title)
	if md.Output != "" {
		fmt.Fprintf(b, "**Output File:** %s\n", md.Output)
	}
	if md.Backup != "" {
		fmt.Fprintf(b, "**Backup File:** %s\n", md.Backup)
	}
	if md.Reference != "" {
		fmt.Fprintf(b, "**Reference Data:** %s\n", md.Reference)
	}
	if md.Mode != "" {
		fmt.Fprintf(b, "**Mode:** %s\n", md.Mode)
	}
	if md.RunID != "" {
		fmt.Fprintf(b, "**Run ID:** %s\n", md.RunID)
	}
	fmt.Fprintf(b, "**Generated:** %s\n\n", md.Generated.Format(timeLayout))
}

func recordLine(rec catalog.Record) string {
	title := rec.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	url := rec.URL
	if url == "" {
		url = "no URL"
	}
	return fmt.Sprintf("%s (source `%s`, %s)", title, rec.SourceID, url)
}

func decisionTitle(d merge.Decision) string {
	title := d.Record.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	return title
}

func writeDecisions(b *strings.Builder, decisions []merge.Decision) {
	b.WriteString("## Decisions\n\n")
	for i, d := range decisions {
		fmt.Fprintf(b, "### %d. %s: %s\n", i+1, d.Kind, decisionTitle(d))
		switch d.Kind {
		case merge.KindAdded:
			fmt.Fprintf(b, "- **Added:** %s\n", recordLine(d.Record))
		case merge.KindReplaced:
			fmt.Fprintf(b, "- **Kept (new):** %s\n", recordLine(d.Record))
			fmt.Fprintf(b, "- **Replaced (old):** %s\n", recordLine(*d.Other))
		case merge.KindSkippedDuplicate:
			fmt.Fprintf(b, "- **Kept:** %s\n", recordLine(*d.Other))
			fmt.Fprintf(b, "- **Skipped:** %s\n", recordLine(d.Record))
		case merge.KindKeptBoth:
			fmt.Fprintf(b, "- **Original:** %s\n", recordLine(*d.Other))
			fmt.Fprintf(b, "- **Duplicate (kept under `%s`):** %s\n", d.BucketKey, recordLine(d.Record))
		}
		b.WriteString("\n")
	}
}

// RenderMerge renders the audit report of a multi-collection merge.
func RenderMerge(md Metadata, res *merge.Result) string {
	var b strings.Builder
	header(&b, "Backup Merge Report", md)

	b.WriteString("## Input Collections\n\n")
	for i, name := range res.Processed {
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
	}
	if len(res.Skipped) > 0 {
		b.WriteString("\nSkipped (unreadable):\n")
		for _, s := range res.Skipped {
			fmt.Fprintf(&b, "- %s: %v\n", s.Name, s.Err)
		}
	}
	b.WriteString("\n")

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Collections processed: %d\n", len(res.Processed))
	fmt.Fprintf(&b, "- Records read: %d\n", res.TotalIn)
	fmt.Fprintf(&b, "- Entries in merged output: %d\n", len(res.Records))
	fmt.Fprintf(&b, "- Added: %d\n", res.Count(merge.KindAdded))
	fmt.Fprintf(&b, "- Replaced: %d\n", res.Count(merge.KindReplaced))
	fmt.Fprintf(&b, "- Skipped duplicates: %d\n", res.Count(merge.KindSkippedDuplicate))
	fmt.Fprintf(&b, "- Kept both: %d\n\n", res.Count(merge.KindKeptBoth))

	writeDecisions(&b, res.Decisions)
	return b.String()
}

// RenderCleanup renders the audit report of a single-collection cleanup.
func RenderCleanup(md Metadata, res *merge.Result) string {
	var b strings.Builder
	header(&b, "Backup Cleanup Report", md)

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Records read: %d\n", res.TotalIn)
	fmt.Fprintf(&b, "- Entries kept: %d\n", len(res.Records))
	fmt.Fprintf(&b, "- Duplicates removed: %d\n\n", res.Count(merge.KindSkippedDuplicate))

	writeDecisions(&b, res.Decisions)
	return b.String()
}

var titleKinds = []catalog.TitleKind{catalog.TitlePrimary, catalog.TitleRomanized, catalog.TitleNative}

const maxAltTitles = 5

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func writeReference(b *strings.Builder, ref *catalog.ReferenceEntry) {
	fmt.Fprintf(b, "- **Reference ID:** `%d`\n", ref.RefID)
	for _, kind := range titleKinds {
		if t := ref.Titles[kind]; t != "" {
			fmt.Fprintf(b, "- **%s title:** %s\n", capitalize(string(kind)), t)
		}
	}
	if len(ref.AltTitles) > 0 {
		shown := ref.AltTitles
		suffix := ""
		if len(shown) > maxAltTitles {
			shown = shown[:maxAltTitles]
			suffix = ", ..."
		}
		fmt.Fprintf(b, "- **Alternate titles:** %s%s\n", strings.Join(shown, ", "), suffix)
	}
}

// RenderDuplicates renders the duplicate-group report produced by the
// grouper. scanned is the number of records the grouper looked at.
func RenderDuplicates(md Metadata, groups []match.Group, scanned int) string {
	var b strings.Builder
	header(&b, "Potential Duplicate Report", md)

	extra := 0
	for _, g := range groups {
		extra += len(g.Records) - 1
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Records scanned: %d\n", scanned)
	fmt.Fprintf(&b, "- Duplicate groups found: %d\n", len(groups))
	fmt.Fprintf(&b, "- Duplicate records (beyond the first in each group): %d\n\n", extra)

	if len(groups) == 0 {
		b.WriteString("No potential duplicates found.\n")
		return b.String()
	}

	b.WriteString("## Groups\n\n")
	for i, g := range groups {
		fmt.Fprintf(&b, "### %d. %s match: %s\n", i+1, g.Basis, g.Records[0].Title)
		if g.Reference != nil {
			writeReference(&b, g.Reference)
		}
		for j, rec := range g.Records {
			fmt.Fprintf(&b, "%d. %s\n", j+1, recordLine(rec))
		}
		b.WriteString("\n---\n\n")
	}
	return b.String()
}

// SkippedEntry is an import entry left out because the comparison backup
// already holds it.
type SkippedEntry struct {
	Title  string
	Status string
}

// RenderImportSkipped renders the companion report of a remote import run
// with a comparison backup. Entries are sorted by title, case-insensitively.
func RenderImportSkipped(md Metadata, entries []SkippedEntry) string {
	var b strings.Builder
	header(&b, "Skipped Manga Report", md)

	sorted := make([]SkippedEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Title) < strings.ToLower(sorted[j].Title)
	})

	b.WriteString("The following manga were skipped because they already exist in the comparison backup:\n\n")
	for _, e := range sorted {
		fmt.Fprintf(&b, "- **%s** (Status: %s)\n", e.Title, e.Status)
	}
	return b.String()
}
