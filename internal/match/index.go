package match

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Another0Noob/tachibk/internal/catalog"
)

// TitleIndex answers "is this item already in the collection?" for the import
// compare path. It indexes the collection's normalized titles and alternates
// plus the site-scoped cross-reference ids parsed from record URLs.
type TitleIndex struct {
	titles    map[string]struct{}
	refs      map[string]struct{} // "site:id"
	allTitles []string            // deduped and sorted, for fuzzy scans
}

func NewTitleIndex(records []catalog.Record) *TitleIndex {
	idx := &TitleIndex{
		titles: make(map[string]struct{}, len(records)),
		refs:   make(map[string]struct{}),
	}
	for _, rec := range records {
		if n := Normalize(rec.Title); n != "" {
			idx.titles[n] = struct{}{}
		}
		for _, alt := range rec.AltTitles {
			if n := Normalize(alt); n != "" {
				idx.titles[n] = struct{}{}
			}
		}
		if site, id := ParseCrossRef(rec.URL); id != "" {
			idx.refs[site+":"+id] = struct{}{}
		}
	}
	idx.allTitles = make([]string, 0, len(idx.titles))
	for t := range idx.titles {
		idx.allTitles = append(idx.allTitles, t)
	}
	sort.Strings(idx.allTitles)
	return idx
}

// HasTitle reports whether the normalized form of title is indexed.
func (idx *TitleIndex) HasTitle(title string) bool {
	n := Normalize(title)
	if n == "" {
		return false
	}
	_, ok := idx.titles[n]
	return ok
}

// HasCrossRef reports whether a reference-site id is already indexed.
func (idx *TitleIndex) HasCrossRef(site, id string) bool {
	if site == "" || id == "" {
		return false
	}
	_, ok := idx.refs[site+":"+id]
	return ok
}

// HasSimilarTitle reports whether some indexed title sits within a small edit
// distance of title's normalized form (~20% of its length, capped at 3).
func (idx *TitleIndex) HasSimilarTitle(title string) bool {
	pat := Normalize(title)
	if pat == "" {
		return false
	}

	thr := distanceThreshold(len(pat))
	candidates := filterCandidates(idx.allTitles, pat, thr)
	if len(candidates) == 0 {
		return false
	}

	ranks := fuzzy.RankFind(pat, candidates)
	if len(ranks) == 0 {
		return false
	}
	sort.Sort(ranks)
	return ranks[0].Distance <= thr
}

// distanceThreshold calculates acceptable edit distance (~20% of length)
func distanceThreshold(n int) int {
	th := n / 5
	if th < 1 {
		return 1
	}
	if th > 3 {
		return 3
	}
	return th
}

// filterCandidates pre-filters candidates by length and first rune
func filterCandidates(allTitles []string, pattern string, threshold int) []string {
	if len(allTitles) == 0 {
		return nil
	}

	firstRune := func(s string) rune {
		for _, r := range s {
			return r
		}
		return 0
	}

	fr := firstRune(pattern)
	patLen := len(pattern)

	candidates := make([]string, 0, len(allTitles)/4)
	for _, t := range allTitles {
		if abs(len(t)-patLen) > threshold {
			continue
		}
		if firstRune(t) != fr {
			continue
		}
		candidates = append(candidates, t)
	}

	return candidates
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
