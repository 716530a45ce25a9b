package flagstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var errInvalidID = errors.New("id must be a string or an integer")

// ID identifies a flag. It holds either a text value or an integer value and
// keeps that kind through storage and JSON encoding, so "1" and 1 are
// distinct keys.
type ID struct {
	text    string
	num     int64
	integer bool
}

func TextID(s string) ID {
	return ID{text: s}
}

func IntID(n int64) ID {
	return ID{num: n, integer: true}
}

// IsInt reports whether the ID was supplied as an integer.
func (id ID) IsInt() bool {
	return id.integer
}

func (id ID) String() string {
	if id.integer {
		return strconv.FormatInt(id.num, 10)
	}
	return id.text
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.integer {
		return []byte(strconv.FormatInt(id.num, 10)), nil
	}
	return json.Marshal(id.text)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errInvalidID
	}
	if string(data) == "null" {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode id: %w", err)
		}
		*id = TextID(s)
		return nil
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("%w, got %s", errInvalidID, data)
	}
	*id = IntID(n)
	return nil
}

// candidates returns the keys a lookup tries for an identifier
// received as text: the literal text key, then the parsed integer key.
func candidates(idText string) (text ID, num ID, numeric bool) {
	text = TextID(idText)
	n, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		return text, ID{}, false
	}
	return text, IntID(n), true
}
