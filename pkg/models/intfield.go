package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// IntField is a numeric payload field that may arrive as a JSON number
// or as a string, since HTML form values serialize everything as text.
//
// States after unmarshaling:
//   - absent from the payload: Set=false
//   - null or "": Set=true, Valid=false (callers apply defaults)
//   - 42 or "42": Set=true, Valid=true
//   - "abc": Set=true, Valid=false, Malformed()=true
//
// Unmarshaling never fails; malformed input is reported through the
// validation layer as a per-field error instead of a decode error.
type IntField struct {
	Set   bool
	Valid bool
	Value int

	raw string
}

// Int builds a valid IntField, mostly for building payloads in tests.
func Int(n int) IntField {
	return IntField{Set: true, Valid: true, Value: n}
}

func (f *IntField) UnmarshalJSON(data []byte) error {
	f.Set = true
	f.Valid = false
	f.raw = ""

	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			f.raw = s
			return nil
		}
		str = strings.TrimSpace(str)
		if str == "" {
			return nil
		}
		n, err := strconv.Atoi(str)
		if err != nil {
			f.raw = str
			return nil
		}
		f.Valid = true
		f.Value = n
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		f.raw = s
		return nil
	}
	f.Valid = true
	f.Value = n
	return nil
}

func (f IntField) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.Value)), nil
}

// Malformed reports whether the field carried non-numeric text.
func (f IntField) Malformed() bool {
	return f.Set && !f.Valid && f.raw != ""
}

// Or returns the value, or def when the field is empty or absent.
func (f IntField) Or(def int) int {
	if f.Valid {
		return f.Value
	}
	return def
}
