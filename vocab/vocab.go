// Package vocab builds the controlled vocabularies item files are checked
// against from the master list document.
//
// A Sets value is built once and only read afterwards, so it can be shared by
// any number of concurrent validations.
package vocab

import (
	"sort"

	"github.com/reoring/itemschema/document"
)

// Keys of the master list document.
const (
	KeyItemCategories      = "Item Categories"
	KeyItemClassifications = "Item Classifications"
	KeyElements            = "Elements"
	KeyGatheringTools      = "Gathering Tools"
)

// Set is a set of allowed string values.
type Set map[string]struct{}

// NewSet builds a Set from the given values; duplicates collapse.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Contains reports whether v is allowed. A nil Set contains nothing.
func (s Set) Contains(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Sets holds the five vocabularies.
type Sets struct {
	Categories      Set
	Classifications Set
	Elements        Set
	GatheringTools  Set
	// Materials shares its source list with Categories.
	Materials Set
}

// Build reads the vocabularies out of a parsed master list. A key that is
// absent or not a sequence yields an empty set; non-string entries are skipped.
func Build(doc *document.Node) *Sets {
	return &Sets{
		Categories:      collect(doc, KeyItemCategories),
		Classifications: collect(doc, KeyItemClassifications),
		Elements:        collect(doc, KeyElements),
		GatheringTools:  collect(doc, KeyGatheringTools),
		Materials:       collect(doc, KeyItemCategories),
	}
}

// Parse parses a master list document and builds its vocabularies. Only a
// parse failure produces an error.
func Parse(data []byte, opts ...document.ParseOption) (*Sets, error) {
	doc, err := document.Parse(data, opts...)
	if err != nil {
		return nil, err
	}
	return Build(doc), nil
}

func collect(doc *document.Node, key string) Set {
	set := Set{}
	items, ok := doc.Get(key).AsSequence()
	if !ok {
		return set
	}
	for _, it := range items {
		if s, ok := it.AsString(); ok {
			set[s] = struct{}{}
		}
	}
	return set
}

// Named pairs a vocabulary with the master list key it came from, for display.
type Named struct {
	Name   string
	Values Set
}

// All lists the vocabularies in a stable order.
func (s *Sets) All() []Named {
	return []Named{
		{Name: "Categories", Values: s.Categories},
		{Name: "Classifications", Values: s.Classifications},
		{Name: "Elements", Values: s.Elements},
		{Name: "Gathering Tools", Values: s.GatheringTools},
		{Name: "Materials", Values: s.Materials},
	}
}
