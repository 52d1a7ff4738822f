package core

import (
	"slices"
	"strings"
)

// OptionSet is a closed list of selectable values, kept in display order.
type OptionSet struct {
	name    string
	options []string
	index   map[string]struct{}
}

func NewOptionSet(name string, options ...string) OptionSet {
	set := OptionSet{name: name, index: make(map[string]struct{}, len(options))}

	for _, option := range options {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}

		if _, seen := set.index[option]; seen {
			continue
		}

		set.index[option] = struct{}{}
		set.options = append(set.options, option)
	}

	return set
}

func (s OptionSet) Name() string {
	return s.name
}

func (s OptionSet) Options() []string {
	return slices.Clone(s.options)
}

func (s OptionSet) Contains(value string) bool {
	_, ok := s.index[value]
	return ok
}

// Normalize trims and deduplicates selections, keeping first-seen order. An
// empty selection normalises to nil.
func (s OptionSet) Normalize(values []string) ([]string, error) {
	var out []string

	seen := make(map[string]struct{}, len(values))

	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		if _, dup := seen[value]; dup {
			continue
		}

		if !s.Contains(value) {
			return nil, invalid("Unknown %s: %s", s.name, value)
		}

		seen[value] = struct{}{}
		out = append(out, value)
	}

	return out, nil
}
