// Package compliance makes it impossible to ship an entity type exposing
// personally-identifying data without an explicit declaration.
//
// Every persisted type registers its prototype once (package init); the
// validator then runs exactly once at process boot and refuses startup when
// a sensitive-looking field is not declared. This establishes a
// program-wide guarantee, not a per-request one.
package compliance

import (
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Declarer is implemented by entity types that declare which of their
// fields contain personally-identifying data. A type that does not
// implement Declarer has never declared; that is not an implicit empty
// declaration.
type Declarer interface {
	PIIFields() []string
}

// TypeInfo is the statically enumerable field-metadata table recorded for
// one registered entity type.
type TypeInfo struct {
	Name     string
	Fields   []string
	Declared []string
	// HasDeclaration distinguishes "declared empty" from "never declared".
	HasDeclaration bool
}

var registry = struct {
	sync.Mutex

	types map[string]TypeInfo
	order []string
}{
	types: map[string]TypeInfo{},
}

// Register records the field-metadata table for the prototype's type.
// Call once per persisted type, from the owning package's init.
// Registering the same type again replaces the previous entry.
func Register(prototype any) {
	typ := reflect.TypeOf(prototype)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	info := TypeInfo{
		Name:   typ.Name(),
		Fields: structFieldNames(typ),
	}

	if declarer, ok := prototype.(Declarer); ok {
		info.HasDeclaration = true
		info.Declared = append([]string{}, declarer.PIIFields()...)
	}

	registry.Lock()
	defer registry.Unlock()

	if _, seen := registry.types[info.Name]; !seen {
		registry.order = append(registry.order, info.Name)
	}

	registry.types[info.Name] = info
}

// RegisteredTypes returns the recorded tables in registration order.
func RegisteredTypes() []TypeInfo {
	registry.Lock()
	defer registry.Unlock()

	infos := make([]TypeInfo, 0, len(registry.order))
	for _, name := range registry.order {
		infos = append(infos, registry.types[name])
	}

	return infos
}

// resetRegistry clears all registrations. Test use only.
func resetRegistry() {
	registry.Lock()
	defer registry.Unlock()

	registry.types = map[string]TypeInfo{}
	registry.order = nil
}

// structFieldNames flattens the type's persisted field names, descending
// into embedded structs (the audit base contributes its fields like any
// other). Names come from the json tag when present, snake_case of the Go
// name otherwise.
func structFieldNames(typ reflect.Type) []string {
	if typ.Kind() != reflect.Struct {
		return nil
	}

	seen := map[string]bool{}

	var names []string

	var walk func(t reflect.Type)

	walk = func(t reflect.Type) {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)

			if field.Anonymous {
				embedded := field.Type
				for embedded.Kind() == reflect.Pointer {
					embedded = embedded.Elem()
				}

				if embedded.Kind() == reflect.Struct {
					walk(embedded)
					continue
				}
			}

			if !field.IsExported() {
				continue
			}

			name := fieldName(field)
			if name == "" || seen[name] {
				continue
			}

			seen[name] = true

			names = append(names, name)
		}
	}

	walk(typ)
	sort.Strings(names)

	return names
}

func fieldName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return ""
		}

		if name != "" {
			return name
		}
	}

	return snakeCase(field.Name)
}

func snakeCase(name string) string {
	var sb strings.Builder

	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// Break before an upper rune that starts a new word, keeping
			// acronym runs (ID, IP) together.
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				sb.WriteByte('_')
			}

			sb.WriteRune(unicode.ToLower(r))

			continue
		}

		sb.WriteRune(r)
	}

	return sb.String()
}
