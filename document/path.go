package document

import (
	"strconv"
	"strings"
)

// Pointer builds JSON Pointer paths in a chain-safe way. The zero value is the
// document root.
type Pointer struct {
	parts []string
}

// Root returns the pointer to the document root.
func Root() Pointer { return Pointer{} }

// Field appends a mapping key segment.
func (p Pointer) Field(name string) Pointer {
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return Pointer{parts: append(append([]string{}, p.parts...), esc)}
}

// Index appends a sequence index segment.
func (p Pointer) Index(i int) Pointer {
	return Pointer{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

// String renders the pointer; the root renders as "/".
func (p Pointer) String() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}
