package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// The backend is inconsistent about scalar types: numbers arrive as strings,
// booleans as "AVAILABLE"/"YES"/"1", ids as numbers. The Flex types absorb that
// at the deserialization boundary so business logic sees clean Go values.

// FlexInt decodes from a JSON number or a numeric string.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil // unparseable strings read as zero, matching the source harness
		}
		*f = FlexInt(int(v))
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexInt(int(v))
	return nil
}

// NewFlexInt returns a pointer to v, for building fixtures and requests.
func NewFlexInt(v int) *FlexInt {
	f := FlexInt(v)
	return &f
}

// Int returns the value of a possibly-nil FlexInt, zero when absent.
func (f *FlexInt) Int() int {
	if f == nil {
		return 0
	}
	return int(*f)
}

// FlexString decodes from a JSON string or number.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(string(data))
	return nil
}

func (f FlexString) String() string { return string(f) }

// FlexBool decodes from a JSON bool, number, or the backend's availability strings.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	switch data[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*f = FlexBool(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch strings.ToUpper(strings.TrimSpace(s)) {
		case "AVAILABLE", "TRUE", "YES", "1":
			*f = true
		default:
			*f = false
		}
	default:
		*f = FlexBool(string(data) != "0")
	}
	return nil
}

func (f FlexBool) Bool() bool { return bool(f) }
