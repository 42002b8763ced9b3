// Package backup reads and writes Mihon/Tachiyomi library backups: a gzip
// container around a protobuf Backup message, or the equivalent editable JSON.
//
// The wire codec decodes only the fields this tool reads or writes and keeps
// everything else verbatim. Each decoded manga remembers its original bytes,
// so an entry the tool did not construct re-encodes byte-identically, and
// top-level fields other than the manga list (categories, preferences, source
// preferences, extensions, ...) are carried as opaque aux fields. Reader forks
// extend the schema freely; preserving unknown bytes is what keeps their data
// alive across a merge.
package backup

import (
	"fmt"
	"strconv"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/Another0Noob/tachibk/internal/catalog"
)

// Backup is one decoded backup file.
type Backup struct {
	Manga []Manga `json:"backupManga"`
	Aux   []Field `json:"settings,omitempty"`
}

// Field is one undecoded top-level protobuf field, tag and value bytes kept
// verbatim.
type Field struct {
	Num protowire.Number `json:"field"`
	Raw []byte           `json:"data"`
}

// Manga is the decoded projection of one library entry. Entries decoded from
// wire bytes keep them in raw and re-encode unchanged; entries built by the
// tool (JSON input, remote import) have no raw and are encoded from the
// struct, with Extra appended verbatim.
type Manga struct {
	Source       int64     `json:"source"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Artist       string    `json:"artist,omitempty"`
	Author       string    `json:"author,omitempty"`
	Description  string    `json:"description,omitempty"`
	Genre        []string  `json:"genre,omitempty"`
	Status       int32     `json:"status,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	DateAdded    int64     `json:"dateAdded,omitempty"`
	Chapters     []Chapter `json:"chapters,omitempty"`
	Categories   []int64   `json:"categories,omitempty"`
	Favorite     bool      `json:"favorite,omitempty"`
	Extra        []byte    `json:"extra,omitempty"`

	raw []byte
}

// Chapter is the decoded projection of one chapter entry.
type Chapter struct {
	URL          string  `json:"url,omitempty"`
	Name         string  `json:"name,omitempty"`
	Read         bool    `json:"read,omitempty"`
	LastPageRead int64   `json:"lastPageRead,omitempty"`
	Number       float32 `json:"chapterNumber,omitempty"`
	Extra        []byte  `json:"extra,omitempty"`
}

// Collection projects the backup into the engines' record model. index is
// this backup's position among the operation's inputs.
func (b *Backup) Collection(name string, index int) catalog.Collection {
	records := make([]catalog.Record, len(b.Manga))
	for i := range b.Manga {
		m := &b.Manga[i]
		records[i] = catalog.Record{
			Title:    m.Title,
			SourceID: strconv.FormatInt(m.Source, 10),
			URL:      m.URL,
			Origin:   catalog.Origin{Collection: index, Record: i},
			Payload:  m,
		}
	}
	col := catalog.Collection{Name: name, Records: records}
	if len(b.Aux) > 0 {
		col.Aux = b.Aux
	}
	return col
}

// FromRecords rebuilds a backup from engine output. The records must carry
// the *Manga payloads this package put there.
func FromRecords(records []catalog.Record, aux any) (*Backup, error) {
	out := &Backup{}
	if aux != nil {
		fields, ok := aux.([]Field)
		if !ok {
			return nil, fmt.Errorf("aux data is %T, not backup settings", aux)
		}
		out.Aux = fields
	}
	out.Manga = make([]Manga, 0, len(records))
	for _, rec := range records {
		m, ok := rec.Payload.(*Manga)
		if !ok {
			return nil, fmt.Errorf("record %q: payload is %T, not a backup entry", rec.Title, rec.Payload)
		}
		out.Manga = append(out.Manga, *m)
	}
	return out, nil
}

// MergeAux folds backup aux fields across merge inputs: a field number
// present in a later collection replaces that whole field group, groups the
// later collection lacks survive from the earlier ones. Matches how the
// reader itself restores settings (group-wise, not value-wise).
func MergeAux(acc, next any) any {
	accFields, _ := acc.([]Field)
	nextFields, _ := next.([]Field)
	if len(nextFields) == 0 {
		return acc
	}
	replaced := make(map[protowire.Number]struct{}, len(nextFields))
	for _, f := range nextFields {
		replaced[f.Num] = struct{}{}
	}
	out := make([]Field, 0, len(accFields)+len(nextFields))
	for _, f := range accFields {
		if _, ok := replaced[f.Num]; !ok {
			out = append(out, f)
		}
	}
	out = append(out, nextFields...)
	return out
}
