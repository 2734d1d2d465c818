package table

import (
	"fmt"
	"reflect"
)

// Model is a fitted regression model as seen by the table builder.
// *ols.Results satisfies it.
type Model interface {
	// ParamNames returns coefficient names in design order.
	ParamNames() []string
	Param(name string) (float64, bool)
	PValue(name string) (float64, bool)
	// Statistic returns a named summary statistic such as "aic".
	Statistic(name string) (float64, bool)
}

// ModelSet is an insertion-ordered collection of uniquely named models.
type ModelSet struct {
	names  []string
	models map[string]Model
}

// NewModelSet creates an empty model set.
func NewModelSet() *ModelSet {
	return &ModelSet{models: make(map[string]Model)}
}

// Add appends a model under name. Names must be non-empty and unique, and m
// must not be nil, including a nil pointer such as (*ols.Results)(nil).
func (s *ModelSet) Add(name string, m Model) error {
	if name == "" {
		return fmt.Errorf("%w: empty model name", ErrInvalidInput)
	}
	if isNil(m) {
		return fmt.Errorf("%w: nil model %q", ErrInvalidInput, name)
	}
	if _, ok := s.models[name]; ok {
		return fmt.Errorf("%w: duplicate model name %q", ErrInvalidInput, name)
	}
	s.names = append(s.names, name)
	s.models[name] = m
	return nil
}

// Names returns model names in insertion order.
func (s *ModelSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Get returns the model stored under name.
func (s *ModelSet) Get(name string) (Model, bool) {
	m, ok := s.models[name]
	return m, ok
}

// Len returns the number of models.
func (s *ModelSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

func isNil(m Model) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}
