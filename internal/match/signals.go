package match

import (
	"strconv"
	"strings"

	"github.com/Another0Noob/tachibk/internal/catalog"
)

// Reference sites whose catalog URLs carry a usable numeric id.
const (
	SiteAniList     = "anilist"
	SiteMyAnimeList = "myanimelist"
)

var crossRefSites = []struct {
	site   string
	prefix string
}{
	{SiteAniList, "anilist.co/manga/"},
	{SiteMyAnimeList, "myanimelist.net/manga/"},
}

// ParseCrossRef extracts a reference-site id from a record URL, e.g.
// "https://anilist.co/manga/30013/..." -> ("anilist", "30013"). The id
// segment must be all digits; anything else means no cross-reference.
func ParseCrossRef(url string) (site, id string) {
	for _, s := range crossRefSites {
		idx := strings.Index(url, s.prefix)
		if idx < 0 {
			continue
		}
		rest := url[idx+len(s.prefix):]
		if cut := strings.IndexByte(rest, '/'); cut >= 0 {
			rest = rest[:cut]
		}
		if !isDigits(rest) {
			return "", ""
		}
		return s.site, rest
	}
	return "", ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Signals are the comparable identity facts extracted from one record: its
// normalized title, the cross-reference id parsed from its URL, and the
// enhanced set of normalized titles it is known by (own title, own alternates
// and, when a reference entry could be associated, that entry's titles too).
type Signals struct {
	Record     catalog.Record
	NormTitle  string
	CrossRefID string // numeric id from a known URL pattern, "" if absent
	crossSite  string
	Enhanced   map[string]struct{}
	Reference  *catalog.ReferenceEntry
}

// Extractor derives Signals and expands them through a reference index.
// NewExtractor(nil) is valid and yields extraction without enrichment.
type Extractor struct {
	byID    map[string]*catalog.ReferenceEntry
	byTitle map[string]*catalog.ReferenceEntry
}

func NewExtractor(refs []catalog.ReferenceEntry) *Extractor {
	e := &Extractor{
		byID:    make(map[string]*catalog.ReferenceEntry, len(refs)),
		byTitle: make(map[string]*catalog.ReferenceEntry),
	}
	for i := range refs {
		ref := &refs[i]
		e.byID[strconv.FormatInt(ref.RefID, 10)] = ref
		for _, t := range ref.Titles {
			if n := Normalize(t); n != "" {
				e.byTitle[n] = ref
			}
		}
		for _, t := range ref.AltTitles {
			if n := Normalize(t); n != "" {
				e.byTitle[n] = ref
			}
		}
	}
	return e
}

// Extract is total: it never fails, it just leaves signals absent.
func (e *Extractor) Extract(rec catalog.Record) Signals {
	s := Signals{
		Record:    rec,
		NormTitle: Normalize(rec.Title),
		Enhanced:  make(map[string]struct{}, 1+len(rec.AltTitles)),
	}
	s.crossSite, s.CrossRefID = ParseCrossRef(rec.URL)

	if s.NormTitle != "" {
		s.Enhanced[s.NormTitle] = struct{}{}
	}
	for _, alt := range rec.AltTitles {
		if n := Normalize(alt); n != "" {
			s.Enhanced[n] = struct{}{}
		}
	}

	// Associate a reference entry: by id when the id came from the reference
	// site itself, otherwise by normalized-title lookup.
	var ref *catalog.ReferenceEntry
	if s.CrossRefID != "" && s.crossSite == SiteAniList {
		ref = e.byID[s.CrossRefID]
	}
	if ref == nil && s.NormTitle != "" {
		ref = e.byTitle[s.NormTitle]
	}
	if ref == nil {
		return s
	}

	s.Reference = ref
	for _, t := range ref.Titles {
		if n := Normalize(t); n != "" {
			s.Enhanced[n] = struct{}{}
		}
	}
	for _, t := range ref.AltTitles {
		if n := Normalize(t); n != "" {
			s.Enhanced[n] = struct{}{}
		}
	}
	return s
}
