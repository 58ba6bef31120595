package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric spreadsheet cell. Blank cells, non-numeric text and
// NaN/Inf all decode to zero so arithmetic never sees a missing value.
type Number float64

// Float returns the value as a float64
func (n Number) Float() float64 {
	return float64(n)
}

// UnmarshalJSON accepts JSON numbers, numeric strings, empty strings and null
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = ParseNumber(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*n = 0
		return nil
	}
	*n = sanitize(f)
	return nil
}

// ParseNumber converts cell text into a Number. Thousands separators and
// surrounding whitespace are tolerated; anything else non-numeric is zero.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return sanitize(f)
}

func sanitize(f float64) Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Number(f)
}

// Flag is a permission cell. The USER sheet stores booleans, "TRUE"/"FALSE"
// text or access labels such as "No Access".
type Flag bool

// UnmarshalJSON accepts booleans and text labels
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = false
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = ParseFlag(s)
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = num != 0
		return nil
	}
	*f = false
	return nil
}

// ParseFlag interprets a permission label
func ParseFlag(s string) Flag {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "no", "0", "no access", "none":
		return false
	default:
		return true
	}
}
