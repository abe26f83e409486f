package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rcliao/recipebook/internal/model"
)

// decodeCatalog parses the backing file leniently. Only content that is not
// an array of objects is an error. Objects that fail to decode are returned
// verbatim in unreadable, with one *ShapeError each in problems.
func decodeCatalog(data []byte) (records []model.Recipe, unreadable []json.RawMessage, problems []*ShapeError, err error) {
	elems, err := splitArray(data)
	if err != nil {
		return nil, nil, nil, err
	}
	for i, raw := range elems {
		if !isObject(raw) {
			return nil, nil, nil, fmt.Errorf("element %d is not an object", i)
		}
	}
	records = make([]model.Recipe, 0, len(elems))
	for i, raw := range elems {
		var r model.Recipe
		if err := json.Unmarshal(raw, &r); err != nil {
			unreadable = append(unreadable, raw)
			problems = append(problems, &ShapeError{Index: i, Reason: err.Error()})
			continue
		}
		records = append(records, r)
	}
	return records, unreadable, problems, nil
}

// decodeStrict parses bulk input and requires every element to be
// record-shaped and to hold only valid values. Errors are *ShapeError.
func decodeStrict(data []byte) ([]model.Recipe, error) {
	elems, err := splitArray(data)
	if err != nil {
		return nil, &ShapeError{Index: -1, Reason: err.Error()}
	}
	records := make([]model.Recipe, 0, len(elems))
	for i, raw := range elems {
		if err := checkRecordShape(i, raw); err != nil {
			return nil, err
		}
		var r model.Recipe
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, &ShapeError{Index: i, Reason: err.Error()}
		}
		if err := checkRecordValues(i, r); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// checkRecordValues applies the rules the committer enforces on new records.
func checkRecordValues(i int, r model.Recipe) error {
	if !model.ValidDifficulties[r.Difficulty] {
		return &ShapeError{Index: i, Key: "difficulty", Reason: fmt.Sprintf("%q is not easy, medium or hard", r.Difficulty)}
	}
	for j, ing := range r.Ingredients {
		if err := ing.Validate(); err != nil {
			return &ShapeError{Index: i, Key: "ingredients", Reason: fmt.Sprintf("entry %d: %v", j, err)}
		}
	}
	return nil
}

func splitArray(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("top-level value is not an array")
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, err
	}
	return elems, nil
}

func isObject(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '{'
}

func checkRecordShape(i int, raw json.RawMessage) error {
	if !isObject(raw) {
		return &ShapeError{Index: i, Reason: "is not an object"}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return &ShapeError{Index: i, Reason: err.Error()}
	}

	fail := func(key, reason string) error {
		return &ShapeError{Index: i, Key: key, Reason: reason}
	}

	required := []struct {
		key   string
		check func(json.RawMessage) bool
		want  string
	}{
		{"name", isNonEmptyString, "must be a non-empty string"},
		{"difficulty", isString, "must be a string"},
		{"cooking_time", isPositiveInt, "must be a positive integer"},
		{"ingredients", isIngredientList, "must be an array of ingredient objects with a name"},
		{"instructions", isStringList, "must be an array of strings"},
	}
	for _, r := range required {
		v, ok := fields[r.key]
		if !ok {
			return fail(r.key, "is missing")
		}
		if !r.check(v) {
			return fail(r.key, r.want)
		}
	}

	optional := []struct {
		key   string
		check func(json.RawMessage) bool
		want  string
	}{
		{"id", isString, "must be a string"},
		{"author", isString, "must be a string"},
		{"created_date", isString, "must be a string"},
		{"category", isString, "must be a string"},
		{"categories", isStringList, "must be an array of strings"},
	}
	for _, o := range optional {
		if v, ok := fields[o.key]; ok && !o.check(v) {
			return fail(o.key, o.want)
		}
	}
	return nil
}

func isString(raw json.RawMessage) bool {
	var s string
	return json.Unmarshal(raw, &s) == nil && !isNull(raw)
}

func isNonEmptyString(raw json.RawMessage) bool {
	var s string
	return !isNull(raw) && json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != ""
}

func isPositiveInt(raw json.RawMessage) bool {
	var n int
	return !isNull(raw) && json.Unmarshal(raw, &n) == nil && n > 0
}

func isStringList(raw json.RawMessage) bool {
	var list []string
	return !isNull(raw) && json.Unmarshal(raw, &list) == nil
}

func isIngredientList(raw json.RawMessage) bool {
	var list []map[string]json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &list) != nil {
		return false
	}
	for _, ing := range list {
		if ing == nil {
			return false
		}
		name, ok := ing["name"]
		if !ok || !isNonEmptyString(name) {
			return false
		}
	}
	return true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
