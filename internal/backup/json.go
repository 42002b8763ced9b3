package backup

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// DecodeJSON decodes the editable JSON form. Binary blobs (manga extras, aux
// settings) ride through as base64 strings; aux entries are validated so a
// hand-edited file cannot smuggle bytes that fail to re-encode.
func DecodeJSON(data []byte) (*Backup, error) {
	b := &Backup{}
	if err := json.Unmarshal(data, b); err != nil {
		return nil, err
	}
	for i, f := range b.Aux {
		num, _, n := protowire.ConsumeField(f.Raw)
		if n < 0 {
			return nil, fmt.Errorf("settings entry %d: %w", i, protowire.ParseError(n))
		}
		if num != f.Num || n != len(f.Raw) {
			return nil, fmt.Errorf("settings entry %d: data does not encode field %d", i, f.Num)
		}
	}
	return b, nil
}

// EncodeJSON renders the backup in the editable JSON form.
func EncodeJSON(b *Backup) ([]byte, error) {
	out, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
