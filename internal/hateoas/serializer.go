// Package hateoas projects domain records into JSON documents, filtering
// fields by visibility group and attaching hypermedia links built from the
// route table. Serialization is a pure function of (record, group, routes):
// the same inputs always produce the same bytes.
package hateoas

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Linkable lets a record declare its hypermedia relations.
type Linkable interface {
	Relations() []Relation
}

// Relation names a link to attach: the rel key, the target route, and the
// route parameters derived from the record.
type Relation struct {
	Rel    string
	Route  string
	Params map[string]string
}

// Link is a resolved hypermedia link as it appears under "_links".
type Link struct {
	Href   string `json:"href"`
	Method string `json:"method,omitempty"`
}

// Serializer renders records with group-based field visibility.
type Serializer struct {
	registry *Registry
}

// NewSerializer builds a serializer over a route registry.
func NewSerializer(registry *Registry) *Serializer {
	return &Serializer{registry: registry}
}

// Serialize renders a single record or a slice of records to JSON. With a
// non-empty group only fields tagged with that group are included; with an
// empty group every exported field is included except those excluded from
// JSON. Records implementing Linkable get a "_links" object.
func (s *Serializer) Serialize(record any, group string) ([]byte, error) {
	doc, err := s.project(reflect.ValueOf(record), group)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func (s *Serializer) project(v reflect.Value, group string) (any, error) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		docs := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			doc, err := s.project(v.Index(i), group)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
		return docs, nil
	case reflect.Struct:
		return s.projectStruct(v, group)
	default:
		return v.Interface(), nil
	}
}

func (s *Serializer) projectStruct(v reflect.Value, group string) (any, error) {
	// Types with their own JSON representation (time.Time, decimal.Decimal)
	// pass through untouched.
	if opaque(v.Type()) {
		return v.Interface(), nil
	}

	doc := map[string]any{}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty, excluded := jsonName(field)
		if excluded {
			continue
		}
		if !inGroup(field, group) {
			continue
		}
		value := v.Field(i)
		if omitEmpty && value.IsZero() {
			continue
		}
		nested, err := s.projectField(value, group)
		if err != nil {
			return nil, err
		}
		doc[name] = nested
	}

	if linkable, ok := v.Interface().(Linkable); ok {
		links, err := s.links(linkable)
		if err != nil {
			return nil, err
		}
		if len(links) > 0 {
			doc["_links"] = links
		}
	}
	return doc, nil
}

func (s *Serializer) projectField(v reflect.Value, group string) (any, error) {
	kind := v.Kind()
	if kind == reflect.Struct || kind == reflect.Pointer || kind == reflect.Slice || kind == reflect.Array {
		if kind != reflect.Struct || !opaque(v.Type()) {
			return s.project(v, group)
		}
	}
	return v.Interface(), nil
}

func (s *Serializer) links(record Linkable) (map[string]Link, error) {
	links := map[string]Link{}
	for _, rel := range record.Relations() {
		href, err := s.registry.Href(rel.Route, rel.Params)
		if err != nil {
			return nil, fmt.Errorf("relation %q: %w", rel.Rel, err)
		}
		links[rel.Rel] = Link{Href: href, Method: s.registry.Method(rel.Route)}
	}
	return links, nil
}

func opaque(t reflect.Type) bool {
	if t == reflect.TypeOf(time.Time{}) {
		return true
	}
	_, ok := reflect.PointerTo(t).MethodByName("MarshalJSON")
	return ok
}

func jsonName(field reflect.StructField) (name string, omitEmpty, excluded bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = field.Name
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

func inGroup(field reflect.StructField, group string) bool {
	if group == "" {
		return true
	}
	for _, g := range strings.Split(field.Tag.Get("groups"), ",") {
		if g == group {
			return true
		}
	}
	return false
}
