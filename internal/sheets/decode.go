package sheets

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Decode converts generic rows into typed records. Cell values are
// normalised to text first so that numeric cells land in string fields and
// numeric text lands in domain.Number fields.
func Decode[T any](rows []Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		data, err := json.Marshal(normalize(row))
		if err != nil {
			return nil, fmt.Errorf("failed to encode row %d: %w", i+1, err)
		}
		var rec T
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode row %d: %w", i+1, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Encode converts typed records into rows for writing
func Encode[T any](records []T) ([]Row, error) {
	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to encode record %d: %w", i+1, err)
		}
		var row Row
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, fmt.Errorf("failed to decode record %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func normalize(row Row) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	for k, v := range row {
		out[k] = cellText(v)
	}
	return out
}

// cellText renders a cell as text. Booleans stay booleans so permission
// flags keep their meaning.
func cellText(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// HeaderKey turns a sheet header such as "Indent Number" or "PO Copy" into
// the row key "indentNumber" / "poCopy"
func HeaderKey(header string) string {
	words := strings.FieldsFunc(header, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	for i, word := range words {
		if i == 0 {
			b.WriteString(lowerFirstWord(word))
			continue
		}
		lower := strings.ToLower(word)
		b.WriteString(strings.ToUpper(lower[:1]) + lower[1:])
	}
	return b.String()
}

// lowerFirstWord lower-cases an acronym entirely ("PO" -> "po") and
// otherwise only the leading letter ("indentNumber" stays as is)
func lowerFirstWord(word string) string {
	if strings.ToUpper(word) == word {
		return strings.ToLower(word)
	}
	runes := []rune(word)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func cellString(v interface{}) string {
	if b, ok := v.(bool); ok {
		return strconv.FormatBool(b)
	}
	return cellText(v).(string)
}
