package match

import (
	"strings"

	"github.com/Another0Noob/tachibk/internal/catalog"
)

// Group is a cluster of records believed to denote one item.
type Group struct {
	Records   []catalog.Record
	Basis     Basis
	Reference *catalog.ReferenceEntry // anchor's associated entry, if any
}

// Grouper clusters a record sequence into duplicate groups.
type Grouper struct {
	Extractor *Extractor
	Matcher   *Matcher
}

func NewGrouper(ext *Extractor, m *Matcher) *Grouper {
	return &Grouper{Extractor: ext, Matcher: m}
}

// Group partitions records in a single greedy pass: each yet-unprocessed
// record anchors a group and claims every later unprocessed record the
// Matcher pairs with it, always comparing against the anchor's signals. A
// record consumed by one group is never revisited, so pairs rooted at a
// different anchor are not re-discovered; this is deliberately not a
// transitive closure. Records with a blank title are not candidates. Only
// groups with more than one member are returned; every record lands in at
// most one group.
func (g *Grouper) Group(records []catalog.Record) []Group {
	sigs := make([]Signals, len(records))
	skip := make([]bool, len(records))
	for i, rec := range records {
		if strings.TrimSpace(rec.Title) == "" {
			skip[i] = true
			continue
		}
		sigs[i] = g.Extractor.Extract(rec)
	}

	processed := make([]bool, len(records))
	var groups []Group
	for i := range records {
		if processed[i] || skip[i] {
			continue
		}
		processed[i] = true

		members := []catalog.Record{records[i]}
		basis := BasisNone
		for j := i + 1; j < len(records); j++ {
			if processed[j] || skip[j] {
				continue
			}
			res := g.Matcher.Match(sigs[i], sigs[j])
			if !res.OK {
				continue
			}
			processed[j] = true
			members = append(members, records[j])
			if res.Basis > basis {
				basis = res.Basis
			}
		}

		if len(members) > 1 {
			groups = append(groups, Group{
				Records:   members,
				Basis:     basis,
				Reference: sigs[i].Reference,
			})
		}
	}
	return groups
}
