package itemschema

import (
	"fmt"
	"strings"

	"github.com/reoring/itemschema/document"
)

// Failure codes.
const (
	CodeRequired          = "required"
	CodeInvalidType       = "invalid_type"
	CodeUnknownValue      = "unknown_value"
	CodeDuplicatePosition = "duplicate_position"
	CodeMissingPosition   = "missing_position"
	CodeLinkNotFound      = "link_not_found"
	CodeDistanceOrder     = "distance_order"
)

// Pass codes. These only ever appear in Result.Passed.
const (
	CodePresent        = "present"
	CodeKnownValue     = "known_value"
	CodeValuesValid    = "values_valid"
	CodeUniquePosition = "unique_position"
	CodeDistanceOK     = "distance_ok"
)

// Issue is a single validation message.
type Issue struct {
	Path    string // JSON Pointer of the node the message is about (for example: /Synthesis/Material Loops/0).
	Code    string // One of the codes listed above.
	Message string
	Line    int // 1-based source line; 0 when unknown.
	Column  int
	// Params carries structured values (e.g., {"value": "Fire"}) for machine
	// readable reports.
	Params map[string]any
}

// Issues is a collection of validation failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		// e.g. required at /Name
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// IssueAt creates an Issue located at n with the provided code, message and
// params map.
func IssueAt(n *document.Node, code, msg string, params map[string]any) Issue {
	it := Issue{Code: code, Message: msg, Params: params}
	if n != nil {
		it.Path = n.Path.String()
		it.Line, it.Column = n.Line, n.Column
	}
	return it
}
