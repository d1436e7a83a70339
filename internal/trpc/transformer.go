package trpc

import (
	"encoding"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Transformer converts procedure values to and from their wire form.
type Transformer interface {
	Serialize(v any) (json.RawMessage, error)
	Deserialize(data []byte, v any) error
}

// SuperJSON wraps values as {"json": value, "meta": {"values": {...}}},
// recording the dotted path of every time value as "Date" so a JavaScript
// client can rebuild them.
type SuperJSON struct{}

type superJSONMeta struct {
	Values map[string][]string `json:"values"`
}

type superJSONPayload struct {
	JSON json.RawMessage `json:"json"`
	Meta *superJSONMeta  `json:"meta,omitempty"`
}

func (SuperJSON) Serialize(v any) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	payload := superJSONPayload{JSON: raw}

	values := map[string][]string{}
	collectDates(reflect.ValueOf(v), "", values)
	if len(values) > 0 {
		payload.Meta = &superJSONMeta{Values: values}
	}
	return json.Marshal(payload)
}

// Deserialize accepts both wrapped payloads and plain JSON.
func (SuperJSON) Deserialize(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	raw := data
	if inner := gjson.GetBytes(data, "json"); inner.Exists() && gjson.ValidBytes(data) {
		raw = []byte(inner.Raw)
	}
	return json.Unmarshal(raw, v)
}

// PlainJSON is the identity transformer.
type PlainJSON struct{}

func (PlainJSON) Serialize(v any) (json.RawMessage, error) { return json.Marshal(v) }

func (PlainJSON) Deserialize(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

var (
	timeType          = reflect.TypeOf(time.Time{})
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

func collectDates(v reflect.Value, path string, out map[string][]string) {
	if !v.IsValid() {
		return
	}
	if v.Type() == timeType {
		if path != "" {
			out[path] = []string{"Date"}
		}
		return
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if !v.IsNil() {
			collectDates(v.Elem(), path, out)
		}
		return
	}

	// values with their own encoding are opaque
	if v.Type().Implements(jsonMarshalerType) || v.Type().Implements(textMarshalerType) {
		return
	}

	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			name, omitEmpty, skip := jsonFieldName(field)
			if skip {
				continue
			}
			fv := v.Field(i)
			if omitEmpty && isEmptyValue(fv) {
				continue
			}
			if field.Anonymous && name == "" {
				collectDates(fv, path, out)
				continue
			}
			if name == "" {
				name = field.Name
			}
			collectDates(fv, joinPath(path, name), out)
		}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return
		}
		iter := v.MapRange()
		for iter.Next() {
			collectDates(iter.Value(), joinPath(path, iter.Key().String()), out)
		}
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return
		}
		for i := 0; i < v.Len(); i++ {
			collectDates(v.Index(i), joinPath(path, strconv.Itoa(i)), out)
		}
	}
}

func jsonFieldName(f reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return parts[0], omitEmpty, false
}

// isEmptyValue mirrors encoding/json's omitempty rule.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	}
	return false
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}
