package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrEmpty is wrapped by the ParseError returned for input holding no document.
var ErrEmpty = errors.New("no YAML document found")

// ErrExcessiveAliasing is wrapped by the ParseError returned when expanding
// aliases would build more than MaxNodes nodes.
var ErrExcessiveAliasing = errors.New("excessive aliasing")

// MaxNodes bounds the size of a converted tree, aliases expanded.
const MaxNodes = 1 << 18

// ParseError reports input that could not be turned into a tree at all.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string { return "document: " + e.Cause.Error() }

func (e *ParseError) Unwrap() error { return e.Cause }

// DuplicateKeyError reports a duplicate key found in a YAML mapping with both
// the first occurrence position and the duplicate occurrence position.
type DuplicateKeyError struct {
	Key       string
	Path      string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q under %s at %d:%d (first at %d:%d)", e.Key, e.Path, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// ParseOption tunes Parse.
type ParseOption func(*parseConfig)

type parseConfig struct {
	strictKeys bool
}

// WithStrictKeys makes duplicate mapping keys a parse failure. Without it the
// last occurrence wins.
func WithStrictKeys() ParseOption { return func(c *parseConfig) { c.strictKeys = true } }

// Parse decodes the first YAML document of data into a Node tree. Any further
// documents in the stream are ignored. Every failure is a *ParseError.
func Parse(data []byte, opts ...ParseOption) (*Node, error) {
	var cfg parseConfig
	for _, o := range opts {
		o(&cfg)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var root yaml.Node
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Cause: ErrEmpty}
		}
		return nil, &ParseError{Cause: err}
	}
	w := &walker{cfg: cfg, expanding: make(map[*yaml.Node]bool)}
	n, err := w.convert(&root, Root())
	if err != nil {
		return nil, &ParseError{Cause: err}
	}
	return n, nil
}

// walker converts a yaml.Node tree. expanding holds the nodes on the current
// conversion path so an alias back to one of them is caught.
type walker struct {
	cfg       parseConfig
	expanding map[*yaml.Node]bool
	count     int
}

func (w *walker) convert(n *yaml.Node, at Pointer) (*Node, error) {
	w.count++
	if w.count > MaxNodes {
		return nil, fmt.Errorf("line %d: %w", n.Line, ErrExcessiveAliasing)
	}
	w.expanding[n] = true
	defer delete(w.expanding, n)

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, ErrEmpty
		}
		return w.convert(n.Content[0], at)
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unresolved alias %q", n.Line, n.Value)
		}
		if w.expanding[n.Alias] {
			return nil, fmt.Errorf("line %d: alias %q refers to itself", n.Line, n.Value)
		}
		out, err := w.convert(n.Alias, at)
		if err != nil {
			return nil, err
		}
		out.Line, out.Column = n.Line, n.Column
		return out, nil
	case yaml.MappingNode:
		out := &Node{Kind: Mapping, Path: at, Line: n.Line, Column: n.Column}
		index := make(map[string]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			kn, vn := n.Content[i], n.Content[i+1]
			key, err := w.convert(kn, at)
			if err != nil {
				return nil, err
			}
			lit, named := key.Literal()
			child := at
			if named {
				child = at.Field(lit)
			}
			val, err := w.convert(vn, child)
			if err != nil {
				return nil, err
			}
			if named && key.Kind == String {
				if j, dup := index[lit]; dup {
					if w.cfg.strictKeys {
						first := out.Pairs[j].Key
						return nil, &DuplicateKeyError{
							Key: lit, Path: at.String(),
							FirstLine: first.Line, FirstCol: first.Column,
							Line: kn.Line, Col: kn.Column,
						}
					}
					out.Pairs[j].Value = val
					continue
				}
				index[lit] = len(out.Pairs)
			}
			out.Pairs = append(out.Pairs, Pair{Key: key, Value: val})
		}
		return out, nil
	case yaml.SequenceNode:
		out := &Node{Kind: Sequence, Path: at, Line: n.Line, Column: n.Column, Items: make([]*Node, 0, len(n.Content))}
		for i, c := range n.Content {
			v, err := w.convert(c, at.Index(i))
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, v)
		}
		return out, nil
	case yaml.ScalarNode:
		return scalar(n, at), nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}

func scalar(n *yaml.Node, at Pointer) *Node {
	out := &Node{Kind: String, Text: n.Value, Path: at, Line: n.Line, Column: n.Column}
	switch n.ShortTag() {
	case "!!null":
		out.Kind = Null
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			out.Kind, out.Bool = Bool, b
		}
	case "!!int":
		// int64 keeps overflow visible; out-of-range values stay strings
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			out.Kind, out.Int = Int, i
		} else {
			var i64 int64
			if err := n.Decode(&i64); err == nil {
				out.Kind, out.Int = Int, i64
			}
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			out.Kind, out.Float = Float, f
		}
	}
	return out
}
