// Package schema publishes JSON Schemas for the persisted documents so
// hand-edited files can be checked in an editor.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/invopop/jsonschema"

	"github.com/christopherklint97/daylog/internal/listitem"
	"github.com/christopherklint97/daylog/internal/project"
	"github.com/christopherklint97/daylog/internal/timecard"
)

// Kinds names the documents a schema can be generated for.
var kinds = map[string]func() any{
	"todos":    func() any { return []listitem.Record{} },
	"timecard": func() any { return map[string][]timecard.Entry{} },
	"projects": func() any { return map[string][]project.Definition{} },
}

// Kinds returns the supported document kinds, sorted.
func Kinds() []string {
	out := make([]string, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// For returns the JSON Schema of the named document.
func For(kind string) (*jsonschema.Schema, error) {
	build, ok := kinds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown document %q (want one of %v)", kind, Kinds())
	}
	r := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		Mapper:         mapType,
	}
	s := r.Reflect(build())
	s.Title = "daylog " + kind
	return s, nil
}

// JSON renders the schema of kind, indented.
func JSON(kind string) ([]byte, error) {
	s, err := For(kind)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(s, "", "  ")
}

var taskcodeType = reflect.TypeOf(project.Taskcode{})

// mapType describes types whose JSON form differs from their Go struct.
func mapType(t reflect.Type) *jsonschema.Schema {
	if t != taskcodeType {
		return nil
	}
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "object", Required: []string{"taskcode"}},
		},
	}
}
