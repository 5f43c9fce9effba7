package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSONObject cuts the first top-level JSON object out of model
// output. Models often wrap the object in prose or markdown fences.
func ExtractJSONObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no JSON object in response", ErrBadFormat)
	}
	return raw[start : end+1], nil
}

// RepairJSON fixes the malformations these models actually produce:
// single-quoted strings, unquoted keys and trailing commas.
// Returns ErrBadFormat when the text is still not valid JSON after repair.
func RepairJSON(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)

	if json.Valid([]byte(candidate)) {
		return candidate, nil
	}

	candidate = strings.ReplaceAll(candidate, "'", `"`)
	candidate = bareKeyRe.ReplaceAllString(candidate, `$1"$2":`)
	candidate = trailingCommaRe.ReplaceAllString(candidate, `$1`)

	if !json.Valid([]byte(candidate)) {
		return "", fmt.Errorf("%w: unrepairable JSON", ErrBadFormat)
	}
	return candidate, nil
}

// ExtractAndRepair combines extraction and repair in one call.
func ExtractAndRepair(raw string) (string, error) {
	extracted, err := ExtractJSONObject(raw)
	if err != nil {
		return "", err
	}
	return RepairJSON(extracted)
}
