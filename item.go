package itemschema

import (
	"github.com/reoring/itemschema/document"
	"github.com/reoring/itemschema/vocab"
)

// ShouldHaveSynthesis reports whether an item must carry a Synthesis block and
// a Materials list: true unless its Classifications list contains
// "Materials". A missing or malformed Classifications value counts as true.
func ShouldHaveSynthesis(doc *document.Node) bool {
	items, ok := doc.Get(KeyClassifications).AsSequence()
	if !ok {
		return true
	}
	for _, it := range items {
		if s, ok := it.AsString(); ok && s == ClassificationMaterials {
			return false
		}
	}
	return true
}

// ValidateItem runs every check on one parsed item document. All checks run
// regardless of earlier failures and their results are merged in order.
func ValidateItem(doc *document.Node, sets *vocab.Sets) Result {
	sets = orEmpty(sets)
	synthesis := ShouldHaveSynthesis(doc)
	r := Merge(
		ValidateKey(doc, KeyName, true),
		ValidateKey(doc, KeyItemNumber, true),
		ValidateKey(doc, KeyLevel, true),
		ValidateList(doc, KeyCategory, sets.Categories, true),
		ValidateList(doc, KeyClassifications, sets.Classifications, true),
		ValidateList(doc, KeyElement, sets.Elements, true),
		ValidateList(doc, KeyMaterials, sets.Materials, synthesis),
	)
	if synthesis {
		r = r.Merge(ValidateSynthesis(doc.Get(KeySynthesis), sets))
	}
	return r
}

// Validator validates raw item files against a fixed set of vocabularies. It
// holds no mutable state and is safe for concurrent use.
type Validator struct {
	sets  *vocab.Sets
	parse []document.ParseOption
}

// NewValidator returns a Validator sharing sets read-only. The parse options
// apply to every file it validates.
func NewValidator(sets *vocab.Sets, opts ...document.ParseOption) *Validator {
	return &Validator{sets: orEmpty(sets), parse: opts}
}

// Sets returns the vocabularies the Validator checks against.
func (v *Validator) Sets() *vocab.Sets { return v.sets }

// Validate parses data and validates the resulting item. A document that does
// not parse is returned as a *document.ParseError instead of a Result.
func (v *Validator) Validate(data []byte) (Result, error) {
	doc, err := document.Parse(data, v.parse...)
	if err != nil {
		return Result{}, err
	}
	return ValidateItem(doc, v.sets), nil
}
