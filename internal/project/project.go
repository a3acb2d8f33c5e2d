// Package project resolves task codes to project colours and free text to
// task codes, scoped by month.
package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/christopherklint97/daylog/internal/timefmt"
)

var ErrValidation = errors.New("invalid project definition")

// Taskcode is one task code of a project with its optional matching keywords.
// In the document it is either a bare string or an object.
type Taskcode struct {
	Code         string          `json:"taskcode"`
	Keywords     []string        `json:"keywords,omitempty"`
	QuickEntries json.RawMessage `json:"quickEntries,omitempty"`
}

func (t *Taskcode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var code string
		if err := json.Unmarshal(data, &code); err != nil {
			return err
		}
		*t = Taskcode{Code: code}
		return nil
	}
	type plain Taskcode
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("%w: taskcode must be a string or an object: %v", ErrValidation, err)
	}
	if p.Code == "" {
		return fmt.Errorf("%w: taskcode is required", ErrValidation)
	}
	*t = Taskcode(p)
	return nil
}

// Definition is one project of a month.
type Definition struct {
	ProjectCode string     `json:"projectcode"`
	Color       string     `json:"color"`
	Taskcodes   []Taskcode `json:"taskcodes"`
}

// Codes returns the task codes in declared order.
func (d Definition) Codes() []string {
	out := make([]string, len(d.Taskcodes))
	for i, tc := range d.Taskcodes {
		out[i] = tc.Code
	}
	return out
}

// Repository maps a YYYY-MM month to its project definitions.
type Repository map[string][]Definition

// FromJSONText parses the project-definitions document.
func FromJSONText(text string) (Repository, error) {
	var raw map[string][]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: document must map months to arrays", ErrValidation)
		}
		return nil, fmt.Errorf("parsing project definitions JSON: %w", err)
	}
	repo := make(Repository, len(raw))
	for month, defs := range raw {
		out := make([]Definition, 0, len(defs))
		for i, body := range defs {
			def, err := definitionFromJSON(body)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", month, i, err)
			}
			out = append(out, def)
		}
		repo[month] = out
	}
	return repo, nil
}

func definitionFromJSON(body json.RawMessage) (Definition, error) {
	var def Definition
	if err := json.Unmarshal(body, &def); err != nil {
		if errors.Is(err, ErrValidation) {
			return Definition{}, err
		}
		return Definition{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if def.ProjectCode == "" {
		return Definition{}, fmt.Errorf("%w: projectcode is required", ErrValidation)
	}
	if def.Taskcodes == nil {
		def.Taskcodes = []Taskcode{}
	}
	return def, nil
}

// ToJSONText serializes the repository.
func ToJSONText(repo Repository) (string, error) {
	if repo == nil {
		repo = Repository{}
	}
	b, err := json.MarshalIndent(repo, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling project definitions: %w", err)
	}
	return string(b), nil
}

// Months returns the defined months in ascending order.
func (r Repository) Months() []string {
	months := slices.Collect(maps.Keys(r))
	slices.Sort(months)
	return months
}

// DefinitionsFor returns the definitions of date's month.
func (r Repository) DefinitionsFor(date string) []Definition {
	return r[timefmt.ExtractMonth(date)]
}

// ColorForTaskcode returns the colour of the first project in date's month
// that lists taskcode.
func (r Repository) ColorForTaskcode(date, taskcode string) (string, bool) {
	for _, def := range r.DefinitionsFor(date) {
		if slices.Contains(def.Codes(), taskcode) {
			return def.Color, true
		}
	}
	return "", false
}

// FindTaskcodeByKeyword returns the first task code in date's month whose
// keywords occur in text. Matching is a case-sensitive substring test.
func (r Repository) FindTaskcodeByKeyword(date, text string) (string, bool) {
	for _, def := range r.DefinitionsFor(date) {
		for _, tc := range def.Taskcodes {
			for _, kw := range tc.Keywords {
				if kw != "" && strings.Contains(text, kw) {
					return tc.Code, true
				}
			}
		}
	}
	return "", false
}
