package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies a record within one collection. Zero means unassigned.
type ID int64

// String implements fmt.Stringer.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// UnmarshalJSON accepts a JSON number or a string holding a decimal integer.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		return id.parse(s)
	}
	return id.parse(string(data))
}

func (id *ID) parse(s string) error {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("decode id %q: not an integer", s)
	}
	*id = ID(n)
	return nil
}
