package itemschema

import (
	"fmt"

	"github.com/reoring/itemschema/document"
	"github.com/reoring/itemschema/vocab"
)

// ValidateKey checks that key is present in node. An absent optional key is
// skipped silently; an absent required key fails. Any value shape counts as
// present.
func ValidateKey(node *document.Node, key string, required bool) Result {
	v := node.Get(key)
	if v.IsMissing() {
		if !required {
			return OK()
		}
		return Fail(IssueAt(v, CodeRequired, fmt.Sprintf("'%s' key is missing", key), map[string]any{"key": key}))
	}
	msg := key + " is present"
	if lit, ok := v.Literal(); ok {
		msg += ": " + lit
	}
	return Pass(IssueAt(v, CodePresent, msg, nil))
}

// ValidateKeyAndValue checks presence like ValidateKey and, when the key is
// present, that its value is a string member of set.
func ValidateKeyAndValue(node *document.Node, key string, set vocab.Set, required bool) Result {
	r := ValidateKey(node, key, required)
	v := node.Get(key)
	if v.IsMissing() {
		return r
	}
	s, ok := v.AsString()
	if !ok {
		return r.Merge(Fail(IssueAt(v, CodeInvalidType, key+" is not a string", map[string]any{"kind": v.Kind.String()})))
	}
	if set.Contains(s) {
		return r.Merge(Pass(IssueAt(v, CodeKnownValue, fmt.Sprintf("%s: %s is a known value", key, s), nil)))
	}
	return r.Merge(Fail(IssueAt(v, CodeUnknownValue,
		fmt.Sprintf("%s: %s is an unknown value (typo, or an item file is needed)", key, s),
		map[string]any{"value": s})))
}

// ValidateList checks presence like ValidateKey and only then the list values.
// A missing required list is therefore reported once, never also as "not a
// list".
func ValidateList(node *document.Node, key string, set vocab.Set, required bool) Result {
	r := ValidateKey(node, key, required)
	if !r.Valid() {
		return r
	}
	return r.Merge(ValidateListValues(node, key, set, required))
}

// ValidateListValues requires the value at key to be a sequence whose string
// entries, and the string keys of its mapping entries (quantity maps such as
// {Ore: 3}), are members of set. A value that is not a sequence only fails
// when required. Entries of any other kind are ignored.
func ValidateListValues(node *document.Node, key string, set vocab.Set, required bool) Result {
	v := node.Get(key)
	items, ok := v.AsSequence()
	if !ok {
		if !required {
			return OK()
		}
		return Fail(IssueAt(v, CodeInvalidType, key+" is not a list", map[string]any{"kind": v.Kind.String()}))
	}
	r := OK()
	for _, it := range items {
		switch it.Kind {
		case document.String:
			r = r.Merge(checkMember(it, key, it.Text, set))
		case document.Mapping:
			for _, p := range it.Pairs {
				if name, ok := p.Key.AsString(); ok {
					r = r.Merge(checkMember(p.Key, key, name, set))
				}
			}
		}
	}
	if r.Valid() {
		return Pass(IssueAt(v, CodeValuesValid, key+" values are valid", nil))
	}
	return r
}

func checkMember(at *document.Node, key, value string, set vocab.Set) Result {
	if set.Contains(value) {
		return OK()
	}
	return Fail(IssueAt(at, CodeUnknownValue, fmt.Sprintf("%s: %s is an unknown value", key, value), map[string]any{"value": value}))
}
