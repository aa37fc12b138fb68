package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// POSDateLayout is the MM/DD/YYYY layout the POS listing expects.
const POSDateLayout = "01/02/2006"

// ToString converts various types to string.
// Numbers decoded from JSON are rendered without exponent.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// StripWhitespace removes every whitespace rune from s.
func StripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// FormatPOSDate formats t as MM/DD/YYYY.
func FormatPOSDate(t time.Time) string {
	return t.Format(POSDateLayout)
}
