package anilist

import (
	"fmt"

	"github.com/Another0Noob/tachibk/internal/backup"
	"github.com/Another0Noob/tachibk/internal/catalog"
)

// SourceID marks entries this importer created. Mihon resolves it to the
// MangaDex source; 0 would also work as a placeholder.
const SourceID = 6902

// Reading statuses as Mihon stores them.
var statusMap = map[string]int32{
	"CURRENT":   1, // READING
	"PLANNING":  2, // PLAN_TO_READ
	"COMPLETED": 3,
	"DROPPED":   4,
	"PAUSED":    5, // ON_HOLD
	"REPEATING": 1,
}

const statusDefault = 2 // PLAN_TO_READ

// MediaURL returns the catalog URL for an AniList media id. The duplicate
// finder parses these back out of backups.
func MediaURL(id int64) string {
	return fmt.Sprintf("https://anilist.co/manga/%d", id)
}

// ToManga converts one list entry into a backup entry. Synonyms ride along
// as genre tags so alternate titles survive into the reader. When AniList
// knows the chapter count, read progress is materialized as synthetic
// chapters marked read.
func (e Entry) ToManga() backup.Manga {
	media := e.Media
	url := MediaURL(media.ID)

	status, ok := statusMap[e.Status]
	if !ok {
		status = statusDefault
	}

	m := backup.Manga{
		Source: SourceID,
		URL:    url,
		Title:  media.Title.Preferred(),
		Status: status,
	}
	for _, synonym := range media.Synonyms {
		if synonym != "" {
			m.Genre = append(m.Genre, synonym)
		}
	}
	if media.Chapters > 0 && e.Progress > 0 {
		for i := 1; i <= e.Progress; i++ {
			m.Chapters = append(m.Chapters, backup.Chapter{
				URL:          fmt.Sprintf("%s/chapter/%d", url, i),
				Name:         fmt.Sprintf("Chapter %d", i),
				Number:       float32(i),
				Read:         true,
				LastPageRead: 1,
			})
		}
	}
	return m
}

// ToReference projects the entry's identity block (id, title variants,
// synonyms) for the duplicate finder.
func (e Entry) ToReference() catalog.ReferenceEntry {
	media := e.Media
	ref := catalog.ReferenceEntry{
		RefID:  media.ID,
		Titles: make(map[catalog.TitleKind]string),
	}
	if media.Title.English != "" {
		ref.Titles[catalog.TitlePrimary] = media.Title.English
	}
	if media.Title.Romaji != "" {
		ref.Titles[catalog.TitleRomanized] = media.Title.Romaji
	}
	if media.Title.Native != "" {
		ref.Titles[catalog.TitleNative] = media.Title.Native
	}
	for _, synonym := range media.Synonyms {
		if synonym != "" {
			ref.AltTitles = append(ref.AltTitles, synonym)
		}
	}
	return ref
}

// References flattens the filtered lists into reference entries.
func References(lists []List) []catalog.ReferenceEntry {
	var refs []catalog.ReferenceEntry
	for _, l := range lists {
		for _, e := range l.Entries {
			refs = append(refs, e.ToReference())
		}
	}
	return refs
}
