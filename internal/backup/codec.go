package backup

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

const fieldBackupManga = protowire.Number(1)

const (
	mangaSource      = protowire.Number(1)
	mangaURL         = protowire.Number(2)
	mangaTitle       = protowire.Number(3)
	mangaArtist      = protowire.Number(4)
	mangaAuthor      = protowire.Number(5)
	mangaDescription = protowire.Number(6)
	mangaGenre       = protowire.Number(7)
	mangaStatus      = protowire.Number(8)
	mangaThumbnail   = protowire.Number(9)
	mangaDateAdded   = protowire.Number(13)
	mangaChapters    = protowire.Number(16)
	mangaCategories  = protowire.Number(17)
	mangaFavorite    = protowire.Number(100)
)

const (
	chapterURL      = protowire.Number(1)
	chapterName     = protowire.Number(2)
	chapterRead     = protowire.Number(4)
	chapterLastRead = protowire.Number(6)
	chapterNumber   = protowire.Number(9)
)

// Unmarshal decodes a Backup message from raw protobuf bytes.
func Unmarshal(data []byte) (*Backup, error) {
	b := &Backup{}
	rest := data
	for len(rest) > 0 {
		num, typ, n := protowire.ConsumeField(rest)
		if n < 0 {
			return nil, fmt.Errorf("backup message: %w", protowire.ParseError(n))
		}
		raw := rest[:n:n]
		if num == fieldBackupManga && typ == protowire.BytesType {
			_, _, tagLen := protowire.ConsumeTag(raw)
			payload, m := protowire.ConsumeBytes(raw[tagLen:])
			if m < 0 {
				return nil, fmt.Errorf("backup manga entry: %w", protowire.ParseError(m))
			}
			manga, err := unmarshalManga(payload, raw)
			if err != nil {
				return nil, fmt.Errorf("backup manga entry %d: %w", len(b.Manga), err)
			}
			b.Manga = append(b.Manga, manga)
		} else {
			b.Aux = append(b.Aux, Field{Num: num, Raw: raw})
		}
		rest = rest[n:]
	}
	return b, nil
}

// Marshal encodes the backup. Untouched manga entries re-emit their original
// bytes; entries without them are encoded from the struct. Aux fields follow
// the manga list.
func (b *Backup) Marshal() []byte {
	var out []byte
	for i := range b.Manga {
		out = b.Manga[i].appendField(out)
	}
	for _, f := range b.Aux {
		out = append(out, f.Raw...)
	}
	return out
}

func unmarshalManga(payload, raw []byte) (Manga, error) {
	m := Manga{raw: raw}
	rest := payload
	for len(rest) > 0 {
		num, typ, n := protowire.ConsumeField(rest)
		if n < 0 {
			return m, protowire.ParseError(n)
		}
		if err := m.decodeField(num, typ, rest[:n:n]); err != nil {
			return m, err
		}
		rest = rest[n:]
	}
	return m, nil
}

func (m *Manga) decodeField(num protowire.Number, typ protowire.Type, field []byte) error {
	_, _, tagLen := protowire.ConsumeTag(field)
	val := field[tagLen:]
	switch {
	case num == mangaSource && typ == protowire.VarintType:
		v, n := protowire.ConsumeVarint(val)
		if n < 0 {
			return fmt.Errorf("source: %w", protowire.ParseError(n))
		}
		m.Source = int64(v)
	case num == mangaURL && typ == protowire.BytesType:
		s, err := consumeString(val)
		if err != nil {
			return fmt.Errorf("url: %w", err)
		}
		m.URL = s
	case num == mangaTitle && typ == protowire.BytesType:
		s, err := consumeString(val)
		if err != nil {
			return fmt.Errorf("title: %w", err)
		}
		m.Title = s
	case num == mangaArtist && typ == protowire.BytesType:
		s, err := consumeString(val)
		if err != nil {
			return fmt.Errorf("artist: %w", err)
		}
		m.Artist = s
	case num == mangaAuthor && typ == protowire.BytesType:
		s, err := consumeString(val)
		if err != nil {
			return fmt.Errorf("author: %w", err)
		}
		m.Author = s
	case num == mangaDescription && typ == protowire.BytesType:
		s, err := consumeString(val)
		if err != nil {
			return fmt.Errorf("description: %w", err)
		}
		m.Description = s
	case num == mangaGenre && typ == protowire.BytesType:
		s, err := consumeString(val)
		if err != nil {
			return fmt.Errorf("genre: %w", err)
		}
		m.Genre = append(m.Genre, s)
	case num == mangaStatus && typ == protowire.VarintType:
		v, n := protowire.ConsumeVarint(val)
		if n < 0 {
			return fmt.Errorf("status: %w", protowire.ParseError(n))
		}
		m.Status = int32(v)
	case num == mangaThumbnail && typ == protowire.BytesType:
		s, err := consumeString(val)
		if err != nil {
			return fmt.Errorf("thumbnail url: %w", err)
		}
		m.ThumbnailURL = s
	case num == mangaDateAdded && typ == protowire.VarintType:
		v, n := protowire.ConsumeVarint(val)
		if n < 0 {
			return fmt.Errorf("date added: %w", protowire.ParseError(n))
		}
		m.DateAdded = int64(v)
	case num == mangaChapters && typ == protowire.BytesType:
		payload, n := protowire.ConsumeBytes(val)
		if n < 0 {
			return fmt.Errorf("chapter: %w", protowire.ParseError(n))
		}
		ch, err := unmarshalChapter(payload)
		if err != nil {
			return fmt.Errorf("chapter %d: %w", len(m.Chapters), err)
		}
		m.Chapters = append(m.Chapters, ch)
	case num == mangaCategories && typ == protowire.VarintType:
		v, n := protowire.ConsumeVarint(val)
		if n < 0 {
			return fmt.Errorf("category: %w", protowire.ParseError(n))
		}
		m.Categories = append(m.Categories, int64(v))
	case num == mangaCategories && typ == protowire.BytesType:
		// packed encoding
		packed, n := protowire.ConsumeBytes(val)
		if n < 0 {
			return fmt.Errorf("categories: %w", protowire.ParseError(n))
		}
		for len(packed) > 0 {
			v, n := protowire.ConsumeVarint(packed)
			if n < 0 {
				return fmt.Errorf("categories: %w", protowire.ParseError(n))
			}
			m.Categories = append(m.Categories, int64(v))
			packed = packed[n:]
		}
	case num == mangaFavorite && typ == protowire.VarintType:
		v, n := protowire.ConsumeVarint(val)
		if n < 0 {
			return fmt.Errorf("favorite: %w", protowire.ParseError(n))
		}
		m.Favorite = v != 0
	default:
		m.Extra = append(m.Extra, field...)
	}
	return nil
}

func unmarshalChapter(payload []byte) (Chapter, error) {
	var c Chapter
	rest := payload
	for len(rest) > 0 {
		num, typ, n := protowire.ConsumeField(rest)
		if n < 0 {
			return c, protowire.ParseError(n)
		}
		if err := c.decodeField(num, typ, rest[:n:n]); err != nil {
			return c, err
		}
		rest = rest[n:]
	}
	return c, nil
}

func (c *Chapter) decodeField(num protowire.Number, typ protowire.Type, field []byte) error {
	_, _, tagLen := protowire.ConsumeTag(field)
	val := field[tagLen:]
	switch {
	case num == chapterURL && typ == protowire.BytesType:
		s, err := consumeString(val)
		if err != nil {
			return fmt.Errorf("url: %w", err)
		}
		c.URL = s
	case num == chapterName && typ == protowire.BytesType:
		s, err := consumeString(val)
		if err != nil {
			return fmt.Errorf("name: %w", err)
		}
		c.Name = s
	case num == chapterRead && typ == protowire.VarintType:
		v, n := protowire.ConsumeVarint(val)
		if n < 0 {
			return fmt.Errorf("read: %w", protowire.ParseError(n))
		}
		c.Read = v != 0
	case num == chapterLastRead && typ == protowire.VarintType:
		v, n := protowire.ConsumeVarint(val)
		if n < 0 {
			return fmt.Errorf("last page read: %w", protowire.ParseError(n))
		}
		c.LastPageRead = int64(v)
	case num == chapterNumber && typ == protowire.Fixed32Type:
		v, n := protowire.ConsumeFixed32(val)
		if n < 0 {
			return fmt.Errorf("chapter number: %w", protowire.ParseError(n))
		}
		c.Number = math.Float32frombits(v)
	default:
		c.Extra = append(c.Extra, field...)
	}
	return nil
}

func consumeString(val []byte) (string, error) {
	v, n := protowire.ConsumeBytes(val)
	if n < 0 {
		return "", protowire.ParseError(n)
	}
	return string(v), nil
}

func (m *Manga) appendField(b []byte) []byte {
	if len(m.raw) > 0 {
		return append(b, m.raw...)
	}
	b = protowire.AppendTag(b, fieldBackupManga, protowire.BytesType)
	return protowire.AppendBytes(b, m.appendPayload(nil))
}

func (m *Manga) appendPayload(b []byte) []byte {
	if m.Source != 0 {
		b = protowire.AppendTag(b, mangaSource, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.Source))
	}
	b = appendString(b, mangaURL, m.URL)
	b = appendString(b, mangaTitle, m.Title)
	b = appendString(b, mangaArtist, m.Artist)
	b = appendString(b, mangaAuthor, m.Author)
	b = appendString(b, mangaDescription, m.Description)
	for _, g := range m.Genre {
		b = appendString(b, mangaGenre, g)
	}
	if m.Status != 0 {
		b = protowire.AppendTag(b, mangaStatus, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.Status))
	}
	b = appendString(b, mangaThumbnail, m.ThumbnailURL)
	if m.DateAdded != 0 {
		b = protowire.AppendTag(b, mangaDateAdded, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.DateAdded))
	}
	for i := range m.Chapters {
		b = protowire.AppendTag(b, mangaChapters, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Chapters[i].appendPayload(nil))
	}
	for _, cat := range m.Categories {
		b = protowire.AppendTag(b, mangaCategories, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(cat))
	}
	if m.Favorite {
		b = protowire.AppendTag(b, mangaFavorite, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	return append(b, m.Extra...)
}

func (c *Chapter) appendPayload(b []byte) []byte {
	b = appendString(b, chapterURL, c.URL)
	b = appendString(b, chapterName, c.Name)
	if c.Read {
		b = protowire.AppendTag(b, chapterRead, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	if c.LastPageRead != 0 {
		b = protowire.AppendTag(b, chapterLastRead, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(c.LastPageRead))
	}
	if c.Number != 0 {
		b = protowire.AppendTag(b, chapterNumber, protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, math.Float32bits(c.Number))
	}
	return append(b, c.Extra...)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}
