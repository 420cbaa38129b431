package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Lookup resolves a dotted path ("facility.official_name") against a decoded JSON object.
// Any missing or non-object intermediate yields nil.
func Lookup(raw map[string]any, path string) any {
	var current any = raw
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = obj[part]
	}
	return current
}

// Truthy reports whether a decoded JSON value counts as present.
// nil, false, 0, NaN and "" are absent; arrays and objects are present even when empty.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0 && !math.IsNaN(val)
	case int:
		return val != 0
	case int64:
		return val != 0
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	}
	return true
}

// FirstTruthy returns the first present value among the paths
func FirstTruthy(raw map[string]any, paths ...string) (any, bool) {
	for _, p := range paths {
		if v := Lookup(raw, p); Truthy(v) {
			return v, true
		}
	}
	return nil, false
}

// FirstString returns the first present value among the paths as a string, or fallback
func FirstString(raw map[string]any, fallback string, paths ...string) string {
	if v, ok := FirstTruthy(raw, paths...); ok {
		return StringOf(v)
	}
	return fallback
}

// StringOf renders a decoded JSON scalar as text. Whole numbers render without a decimal point.
func StringOf(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	}
	out, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(out)
}

// ParseLeadingFloat parses the longest numeric prefix of s after leading whitespace,
// so "150.5" and "150.5 INR" both yield 150.5. ok is false when no digits are found.
func ParseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		expDigits := exp
		for expDigits < len(s) && s[expDigits] >= '0' && s[expDigits] <= '9' {
			expDigits++
		}
		if expDigits > exp {
			end = expDigits
		}
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FloatOf converts a decoded JSON value to a number
func FloatOf(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		return ParseLeadingFloat(val.String())
	case string:
		return ParseLeadingFloat(val)
	}
	return 0, false
}
