// Package fieldmap translates between the camelCase keys used by the API and
// the snake_case columns of the relational schema.
//
// One Mapping is derived per entity from its GORM schema, so the JSON tag and
// the column of a field can never drift apart. Relation fields (those without
// a column) are not part of the mapping.
package fieldmap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm/schema"
)

// Protected keys are never written from client payloads.
var protected = map[string]bool{
	"id":         true,
	"createdAt":  true,
	"created_at": true,
	"updatedAt":  true,
	"updated_at": true,
}

// Field describes one mapped entity field.
type Field struct {
	AppKey string
	Column string
	Type   reflect.Type
}

// Mapping is the bidirectional key table of one entity.
type Mapping struct {
	Table   string
	schema  *schema.Schema
	byApp   map[string]Field
	byStore map[string]Field
}

var (
	cache      sync.Map // reflect.Type -> *Mapping
	schemaSync = &sync.Map{}
)

// For returns the cached mapping of entity type T.
func For[T any]() *Mapping {
	var zero T
	typ := reflect.TypeOf(zero)
	if m, ok := cache.Load(typ); ok {
		return m.(*Mapping)
	}
	m, err := build(&zero)
	if err != nil {
		panic(fmt.Sprintf("fieldmap: %v", err))
	}
	actual, _ := cache.LoadOrStore(typ, m)
	return actual.(*Mapping)
}

func build(model any) (*Mapping, error) {
	sch, err := schema.Parse(model, schemaSync, schema.NamingStrategy{})
	if err != nil {
		return nil, fmt.Errorf("parse schema of %T: %w", model, err)
	}

	m := &Mapping{
		Table:   sch.Table,
		schema:  sch,
		byApp:   make(map[string]Field),
		byStore: make(map[string]Field),
	}
	for _, f := range sch.Fields {
		if f.DBName == "" {
			continue
		}
		key := jsonKey(f.Tag.Get("json"))
		if key == "-" {
			continue
		}
		if key == "" {
			key = f.Name
		}
		field := Field{AppKey: key, Column: f.DBName, Type: f.FieldType}
		m.byApp[key] = field
		m.byStore[f.DBName] = field
	}
	return m, nil
}

func jsonKey(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// Column resolves an app key (or an already-snake_case column) to its column.
// Unknown keys report false, so the result is safe to interpolate into SQL.
func (m *Mapping) Column(key string) (string, bool) {
	if f, ok := m.byApp[key]; ok {
		return f.Column, true
	}
	if f, ok := m.byStore[key]; ok {
		return f.Column, true
	}
	return "", false
}

// AppKey resolves a column to its app key.
func (m *Mapping) AppKey(column string) (string, bool) {
	f, ok := m.byStore[column]
	if !ok {
		return "", false
	}
	return f.AppKey, true
}

// HasColumn reports whether the entity stores the given column.
func (m *Mapping) HasColumn(column string) bool {
	_, ok := m.byStore[column]
	return ok
}

// ToStorage converts a partial payload to a column map for writes.
//
// Only keys present in the payload are mapped, so untouched columns are left
// alone. Protected and unknown keys are dropped. A JSON null clears the
// column: nullable (pointer) fields become SQL NULL, other fields their zero
// value. Every other value is decoded into the field's Go type.
func (m *Mapping) ToStorage(payload map[string]json.RawMessage) (map[string]any, error) {
	out := make(map[string]any, len(payload))
	for key, raw := range payload {
		if protected[key] {
			continue
		}
		f, ok := m.byApp[key]
		if !ok {
			f, ok = m.byStore[key]
		}
		if !ok {
			continue
		}
		if isNull(raw) {
			if f.Type.Kind() == reflect.Ptr {
				out[f.Column] = nil
			} else {
				out[f.Column] = reflect.Zero(f.Type).Interface()
			}
			continue
		}
		ptr := reflect.New(f.Type)
		if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
			return nil, &DecodeError{Key: f.AppKey, Err: err}
		}
		out[f.Column] = ptr.Elem().Interface()
	}
	return out, nil
}

// ParseValue decodes a query string value for key into the field's Go type.
// String fields take the raw text; other fields are decoded as JSON, so
// "12", "true" and "2024-01-02T00:00:00Z" work as expected.
func (m *Mapping) ParseValue(key, raw string) (string, any, error) {
	f, ok := m.byApp[key]
	if !ok {
		f, ok = m.byStore[key]
	}
	if !ok {
		return "", nil, fmt.Errorf("unknown field %q", key)
	}
	base := f.Type
	if base.Kind() == reflect.Ptr {
		base = base.Elem()
	}
	if base.Kind() == reflect.String {
		v := reflect.New(base).Elem()
		v.SetString(raw)
		return f.Column, v.Interface(), nil
	}
	if base == reflect.TypeOf(time.Time{}) {
		raw = `"` + raw + `"`
	}
	ptr := reflect.New(base)
	if err := json.Unmarshal([]byte(raw), ptr.Interface()); err != nil {
		return "", nil, &DecodeError{Key: f.AppKey, Err: err}
	}
	return f.Column, ptr.Elem().Interface(), nil
}

// Value reads the field stored in column from record, a pointer to the entity.
func (m *Mapping) Value(record any, column string) (any, bool) {
	f := m.schema.LookUpField(column)
	if f == nil {
		return nil, false
	}
	v, _ := f.ValueOf(context.Background(), reflect.Indirect(reflect.ValueOf(record)))
	return v, true
}

// SetValue writes the field stored in column on record, a pointer to the entity.
func (m *Mapping) SetValue(record any, column string, value any) error {
	f := m.schema.LookUpField(column)
	if f == nil {
		return fmt.Errorf("unknown column %q", column)
	}
	return f.Set(context.Background(), reflect.Indirect(reflect.ValueOf(record)), value)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// DecodeError reports a payload value that does not fit its field type.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid value for %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
