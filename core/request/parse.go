package request

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/dmitrymomot/takedown/core/sanitizer"
	"github.com/dmitrymomot/takedown/core/validator"
)

// Load reads and validates the request document at path.
// The file must exist and carry a .json extension.
func Load(path string) (Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, &ConfigError{Kind: ErrNotFound, Path: path}
		}
		return Record{}, &ConfigError{Kind: ErrConfig, Path: path, Err: err}
	}
	if info.IsDir() {
		return Record{}, &ConfigError{Kind: ErrNotFound, Path: path}
	}
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return Record{}, &ConfigError{Kind: ErrFormat, Path: path}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, &ConfigError{Kind: ErrConfig, Path: path, Err: err}
	}

	rec, err := Parse(data)
	if err != nil {
		var cerr *ConfigError
		if errors.As(err, &cerr) {
			cerr.Path = path
		}
		return Record{}, err
	}
	return rec, nil
}

// Parse validates a raw JSON document against the request schema.
// Unknown keys, missing or blank fields, wrongly typed values and values outside
// an enum's literal set are all reported together as one ErrSchema failure.
func Parse(data []byte) (Record, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Record{}, &ConfigError{
				Kind: ErrSchema,
				Err:  errors.New("document must be a JSON object"),
			}
		}
		return Record{}, &ConfigError{Kind: ErrFormat, Err: err}
	}

	var (
		rec    Record
		issues validator.ValidationErrors
	)

	rv := reflect.ValueOf(&rec).Elem()
	rt := rv.Type()
	order := make(map[string]int, rt.NumField())

	for i := range rt.NumField() {
		name, _, _ := strings.Cut(rt.Field(i).Tag.Get("json"), ",")
		order[name] = i

		msg, ok := raw[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(msg, rv.Field(i).Addr().Interface()); err != nil {
			issues.Add(validator.ValidationError{Field: name, Message: typeMessage(rv.Field(i).Kind())})
		}
	}

	if err := sanitizer.SanitizeStruct(&rec); err != nil {
		return Record{}, &ConfigError{Kind: ErrSchema, Err: err}
	}

	if err := validator.ValidateStruct(&rec); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Record{}, &ConfigError{Kind: ErrSchema, Err: err}
		}
		for _, v := range verrs {
			if !issues.Has(v.Field) {
				issues.Add(v)
			}
		}
	}

	extra := make([]string, 0)
	for key := range raw {
		if _, ok := order[key]; !ok {
			extra = append(extra, key)
		}
	}
	slices.Sort(extra)
	for _, key := range extra {
		issues.Add(validator.ValidationError{Field: key, Message: "extra fields not permitted"})
	}

	if !issues.IsEmpty() {
		slices.SortStableFunc(issues, func(a, b validator.ValidationError) int {
			return schemaIndex(order, a.Field) - schemaIndex(order, b.Field)
		})
		return Record{}, &ConfigError{Kind: ErrSchema, Fields: issues.Fields(), Err: issues}
	}
	return rec, nil
}

func typeMessage(kind reflect.Kind) string {
	if kind == reflect.Slice {
		return "must be a list of strings"
	}
	return "must be a string"
}

// schemaIndex places unknown keys after every schema field.
func schemaIndex(order map[string]int, field string) int {
	if i, ok := order[field]; ok {
		return i
	}
	return len(order)
}
