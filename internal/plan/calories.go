package plan

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CalorieValue is a calorie amount that tolerates sloppy generator output:
// a JSON number, a numeric string, or free text with embedded digits
// ("约250大卡"). Unmarshalling never fails on a malformed value.
type CalorieValue struct {
	raw string
}

// Calories builds a CalorieValue from a known integer amount.
func Calories(n int) CalorieValue {
	return CalorieValue{raw: strconv.Itoa(n)}
}

// CaloriesFromString builds a CalorieValue from free text.
func CaloriesFromString(s string) CalorieValue {
	return CalorieValue{raw: s}
}

// Int returns the integer calorie amount: a plain number parses directly,
// otherwise the first run of digits in the text, or 0 when there is none.
func (v CalorieValue) Int() int {
	s := strings.TrimSpace(v.raw)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	// Float from the generator ("320.5") truncates.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 {
			return 0
		}
		return int(f)
	}
	return firstDigitRun(s)
}

func firstDigitRun(s string) int {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			n, _ := strconv.Atoi(s[start:i])
			return n
		}
	}
	if start == -1 {
		return 0
	}
	n, _ := strconv.Atoi(s[start:])
	return n
}

func (v CalorieValue) String() string {
	return v.raw
}

// UnmarshalJSON accepts numbers, strings, and null. Anything else is kept
// verbatim so Int() falls back to digit extraction.
func (v *CalorieValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.raw = s
		return nil
	}
	v.raw = strings.TrimSpace(string(data))
	if v.raw == "null" {
		v.raw = ""
	}
	return nil
}

// MarshalJSON always emits the parsed integer amount.
func (v CalorieValue) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(v.Int())), nil
}
