// Package report renders validation reports for people (coloured text) and
// for machines (JSON).
package report

import (
	"fmt"
	"io"
	"strings"

	gojson "github.com/goccy/go-json"

	itemschema "github.com/reoring/itemschema"
	"github.com/reoring/itemschema/internal/runner"
	"github.com/reoring/itemschema/vocab"
)

// Format selects a renderer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text or json)", s)
	}
}

// Options tune rendering.
type Options struct {
	Format Format
	// OnlyInvalid hides pass messages and files without failures.
	OnlyInvalid bool
	Color       bool
}

// Write renders reports and their summary to w.
func Write(w io.Writer, reports []runner.Report, opts Options) error {
	if opts.Format == FormatJSON {
		return writeJSON(w, reports, opts)
	}
	return writeText(w, reports, opts)
}

func writeText(w io.Writer, reports []runner.Report, opts Options) error {
	st := newStyles(opts.Color)
	b := &strings.Builder{}
	for _, rep := range reports {
		if opts.OnlyInvalid && rep.OK() {
			continue
		}
		b.WriteString(st.render(st.title, rep.Name))
		b.WriteByte('\n')
		if rep.Err != nil {
			fmt.Fprintf(b, "  %s %s\n", st.render(st.warning, string(IconError)), st.render(st.warning, rep.Err.Error()))
			continue
		}
		if !opts.OnlyInvalid {
			for _, it := range rep.Result.Passed() {
				fmt.Fprintf(b, "  %s %s\n", st.render(st.pass, string(IconPass)), st.render(st.pass, it.Message))
			}
		}
		for _, it := range rep.Result.Failed() {
			line := st.render(st.fail, it.Message)
			if it.Line > 0 {
				line += st.render(st.muted, fmt.Sprintf(" (line %d)", it.Line))
			}
			fmt.Fprintf(b, "  %s %s\n", st.render(st.fail, string(IconFail)), line)
		}
	}
	s := runner.Summarize(reports)
	summary := fmt.Sprintf("%d files: %d valid, %d invalid, %d unreadable", s.Files, s.Valid, s.Invalid, s.Errored)
	if s.OK() {
		summary = st.render(st.pass, summary)
	} else {
		summary = st.render(st.fail, summary)
	}
	b.WriteString(summary)
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

type jsonIssue struct {
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Line    int            `json:"line,omitempty"`
	Column  int            `json:"column,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
}

type jsonFile struct {
	Name     string      `json:"name"`
	Path     string      `json:"path,omitempty"`
	Valid    bool        `json:"valid"`
	Error    string      `json:"error,omitempty"`
	Failures []jsonIssue `json:"failures,omitempty"`
	Passes   []jsonIssue `json:"passes,omitempty"`
}

type jsonReport struct {
	Summary runner.Summary `json:"summary"`
	Files   []jsonFile     `json:"files"`
}

func writeJSON(w io.Writer, reports []runner.Report, opts Options) error {
	out := jsonReport{Summary: runner.Summarize(reports), Files: []jsonFile{}}
	for _, rep := range reports {
		if opts.OnlyInvalid && rep.OK() {
			continue
		}
		f := jsonFile{Name: rep.Name, Path: rep.Path, Valid: rep.OK()}
		if rep.Err != nil {
			f.Error = rep.Err.Error()
		} else {
			f.Failures = toJSON(rep.Result.Failed())
			if !opts.OnlyInvalid {
				f.Passes = toJSON(rep.Result.Passed())
			}
		}
		out.Files = append(out.Files, f)
	}
	enc := gojson.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode the JSON report: %w", err)
	}
	return nil
}

func toJSON(iss itemschema.Issues) []jsonIssue {
	if len(iss) == 0 {
		return nil
	}
	out := make([]jsonIssue, len(iss))
	for i, it := range iss {
		out[i] = jsonIssue{Path: it.Path, Code: it.Code, Message: it.Message, Line: it.Line, Column: it.Column, Params: it.Params}
	}
	return out
}

// Vocabularies lists every vocabulary with its members.
func Vocabularies(w io.Writer, sets *vocab.Sets, opts Options) error {
	if opts.Format == FormatJSON {
		out := map[string][]string{}
		for _, n := range sets.All() {
			out[n.Name] = n.Values.Sorted()
		}
		enc := gojson.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	st := newStyles(opts.Color)
	b := &strings.Builder{}
	for _, n := range sets.All() {
		fmt.Fprintf(b, "%s %s\n", st.render(st.title, n.Name), st.render(st.muted, fmt.Sprintf("(%d)", len(n.Values))))
		for _, v := range n.Values.Sorted() {
			fmt.Fprintf(b, "  %s\n", v)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
