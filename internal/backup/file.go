package backup

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadFile loads a backup, picking the codec from the file name:
// .tachibk and .proto.gz are gzipped protobuf, .json is the JSON form,
// anything else is read as raw protobuf.
func ReadFile(path string) (*Backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	switch {
	case isJSON(path):
		b, err := DecodeJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return b, nil
	case isGzipped(path):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gunzip %s: %w", path, err)
		}
		defer zr.Close()
		raw, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("gunzip %s: %w", path, err)
		}
		b, err := Unmarshal(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return b, nil
	default:
		b, err := Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return b, nil
	}
}

// WriteFile writes the backup with the codec implied by the file name,
// mirroring ReadFile.
func WriteFile(path string, b *Backup) error {
	var data []byte
	switch {
	case isJSON(path):
		j, err := EncodeJSON(b)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		data = j
	case isGzipped(path):
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(b.Marshal()); err != nil {
			return fmt.Errorf("gzip %s: %w", path, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("gzip %s: %w", path, err)
		}
		data = buf.Bytes()
	default:
		data = b.Marshal()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

func isJSON(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".json")
}

func isGzipped(path string) bool {
	p := strings.ToLower(path)
	return strings.HasSuffix(p, ".tachibk") || strings.HasSuffix(p, ".proto.gz")
}
