package transform

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The source collections were bulk-imported from CSV files, so any numeric
// field can arrive as int32, int64, float64, a formatted string ("$1,200.00",
// "95%") or null. These helpers normalise that mess; callers count the
// failures as data-quality skips.

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case primitive.Decimal128:
		f, err := strconv.ParseFloat(x.String(), 64)
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.NewReplacer("$", "", ",", "", "%", "").Replace(x))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case float64:
		return int64(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		// ids sometimes arrive in scientific notation
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func toText(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	default:
		return ""
	}
}

// floatOrZero is the zero-fill imputation used for review score columns.
func floatOrZero(v interface{}) float64 {
	f, ok := toFloat(v)
	if !ok {
		return 0
	}
	return f
}

// toFlag normalises availability flags: booleans, the CSV "t"/"f" encoding,
// and 0/1 numerics.
func toFlag(v interface{}) (int, bool) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "t", "true", "1":
			return 1, true
		case "f", "false", "0":
			return 0, true
		}
		return 0, false
	default:
		if f, ok := toFloat(v); ok {
			if f != 0 {
				return 1, true
			}
			return 0, true
		}
		return 0, false
	}
}

// toStringList parses list-valued fields. They arrive either as real BSON
// arrays or as serialized lists in JSON (`["Wifi", "Kitchen"]`) or Python
// (`['email', 'phone']`) notation.
func toStringList(v interface{}) []string {
	switch x := v.(type) {
	case primitive.A:
		items := make([]string, 0, len(x))
		for _, item := range x {
			if s := strings.TrimSpace(toText(item)); s != "" {
				items = append(items, s)
			}
		}
		return items
	case []string:
		items := make([]string, 0, len(x))
		for _, item := range x {
			if s := strings.TrimSpace(item); s != "" {
				items = append(items, s)
			}
		}
		return items
	case string:
		return parseListLiteral(x)
	default:
		return nil
	}
}

func parseListLiteral(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "[]" {
		return nil
	}

	var parsed []string
	if err := json.Unmarshal([]byte(s), &parsed); err == nil {
		return trimNonEmpty(parsed)
	}
	if err := json.Unmarshal([]byte(strings.ReplaceAll(s, "'", `"`)), &parsed); err == nil {
		return trimNonEmpty(parsed)
	}

	// last resort: split a plain comma-separated value
	var items []string
	for _, part := range strings.Split(strings.Trim(s, "[]"), ",") {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

func trimNonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// toDate parses calendar/review dates, which arrive as "2006-01-02" strings
// or as native BSON datetimes.
func toDate(v interface{}) (time.Time, bool) {
	switch x := v.(type) {
	case primitive.DateTime:
		return x.Time().UTC(), true
	case time.Time:
		return x.UTC(), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}
