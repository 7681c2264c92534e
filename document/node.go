// Package document models a parsed item file as a tree of tagged nodes.
//
// Lookups never return nil: asking a node for a key it does not carry yields a
// node of kind Missing, which lets validators tell "field absent" apart from
// "field present with the wrong shape".
package document

import "strconv"

// Kind tags the variant held by a Node.
type Kind uint8

const (
	Missing Kind = iota
	Null
	String
	Int
	Float
	Bool
	Sequence
	Mapping
)

var kindNames = [...]string{
	Missing:  "missing",
	Null:     "null",
	String:   "string",
	Int:      "integer",
	Float:    "float",
	Bool:     "bool",
	Sequence: "sequence",
	Mapping:  "mapping",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Pair is one key/value entry of a mapping, kept in source order.
type Pair struct {
	Key   *Node
	Value *Node
}

// Node is one value of a parsed document.
type Node struct {
	Kind Kind
	// Text holds the scalar source text for String, Float and Bool nodes.
	Text  string
	Int   int64
	Float float64
	Bool  bool
	Items []*Node
	Pairs []Pair

	Path   Pointer
	Line   int
	Column int
}

// MissingAt returns a Missing node positioned at p.
func MissingAt(p Pointer) *Node { return &Node{Kind: Missing, Path: p} }

// NewString, NewInt, NewSequence and NewMapping build detached nodes. They are
// mostly useful in tests and for callers assembling documents by hand.
func NewString(s string) *Node { return &Node{Kind: String, Text: s} }

func NewInt(i int64) *Node { return &Node{Kind: Int, Int: i} }

func NewSequence(items ...*Node) *Node { return &Node{Kind: Sequence, Items: items} }

// NewMapping builds a mapping from alternating string keys and values. It
// panics on an odd argument count or a non-string key.
func NewMapping(kv ...any) *Node {
	if len(kv)%2 != 0 {
		panic("document: NewMapping needs key/value pairs")
	}
	n := &Node{Kind: Mapping}
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("document: NewMapping keys must be strings")
		}
		n.Pairs = append(n.Pairs, Pair{Key: NewString(k), Value: Value(kv[i+1])})
	}
	return n.Reroot(Root())
}

// Value converts plain Go values into nodes: *Node passes through, strings,
// ints, []any and []string are wrapped. Anything else becomes Null.
func Value(v any) *Node {
	switch t := v.(type) {
	case *Node:
		return t
	case string:
		return NewString(t)
	case int:
		return NewInt(int64(t))
	case int64:
		return NewInt(t)
	case []string:
		items := make([]*Node, len(t))
		for i, s := range t {
			items[i] = NewString(s)
		}
		return NewSequence(items...)
	case []any:
		items := make([]*Node, len(t))
		for i, e := range t {
			items[i] = Value(e)
		}
		return NewSequence(items...)
	default:
		return &Node{Kind: Null}
	}
}

// Reroot rewrites the paths of n and its descendants so that n sits at p.
func (n *Node) Reroot(p Pointer) *Node {
	if n == nil {
		return nil
	}
	n.Path = p
	for i, it := range n.Items {
		it.Reroot(p.Index(i))
	}
	for _, pr := range n.Pairs {
		if s, ok := pr.Key.Literal(); ok {
			pr.Value.Reroot(p.Field(s))
		}
	}
	return n
}

// IsMissing reports whether n is absent. A nil node counts as missing.
func (n *Node) IsMissing() bool { return n == nil || n.Kind == Missing }

// Get looks key up in a mapping node. Non-mappings and absent keys yield a
// Missing node located where the key would have been.
func (n *Node) Get(key string) *Node {
	if n == nil {
		return MissingAt(Root().Field(key))
	}
	if n.Kind == Mapping {
		for _, p := range n.Pairs {
			if p.Key.Kind == String && p.Key.Text == key {
				return p.Value
			}
		}
	}
	m := MissingAt(n.Path.Field(key))
	m.Line, m.Column = n.Line, n.Column
	return m
}

// AsString returns the value of a String node.
func (n *Node) AsString() (string, bool) {
	if n == nil || n.Kind != String {
		return "", false
	}
	return n.Text, true
}

// AsInt returns the value of an Int node.
func (n *Node) AsInt() (int64, bool) {
	if n == nil || n.Kind != Int {
		return 0, false
	}
	return n.Int, true
}

// AsSequence returns the items of a Sequence node.
func (n *Node) AsSequence() ([]*Node, bool) {
	if n == nil || n.Kind != Sequence {
		return nil, false
	}
	return n.Items, true
}

// AsMapping returns the pairs of a Mapping node.
func (n *Node) AsMapping() ([]Pair, bool) {
	if n == nil || n.Kind != Mapping {
		return nil, false
	}
	return n.Pairs, true
}

// Literal renders String and Int nodes as text; every other kind reports false.
func (n *Node) Literal() (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind {
	case String:
		return n.Text, true
	case Int:
		return strconv.FormatInt(n.Int, 10), true
	default:
		return "", false
	}
}
