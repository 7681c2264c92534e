// Package runner validates a batch of item files. Each file is validated on
// its own: a file that cannot be read or parsed is reported and the batch
// carries on.
package runner

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	itemschema "github.com/reoring/itemschema"
	"github.com/reoring/itemschema/internal/files"
)

// Report is the outcome for one file. Err is a read failure or a
// *document.ParseError; Result is meaningful only when Err is nil.
type Report struct {
	Name   string
	Path   string
	Result itemschema.Result
	Err    error
}

// OK reports whether the file was read, parsed and valid.
func (r Report) OK() bool { return r.Err == nil && r.Result.Valid() }

// Options tune a Runner.
type Options struct {
	// Jobs bounds concurrent validations; zero or less means unbounded.
	Jobs   int
	Logger *zap.Logger
}

// Runner fans item files out over a shared Validator.
type Runner struct {
	v    *itemschema.Validator
	jobs int
	log  *zap.Logger
}

// New returns a Runner validating with v.
func New(v *itemschema.Validator, opts Options) *Runner {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{v: v, jobs: opts.Jobs, log: log}
}

// Run validates items and returns one Report per item in input order. Only a
// cancelled context stops the batch early.
func (r *Runner) Run(ctx context.Context, items []files.Item) ([]Report, error) {
	reports := make([]Report, len(items))
	g, gctx := errgroup.WithContext(ctx)
	if r.jobs > 0 {
		g.SetLimit(r.jobs)
	}
	for i, it := range items {
		i, it := i, it
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = r.validate(it)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("validation interrupted: %w", err)
	}
	return reports, nil
}

func (r *Runner) validate(it files.Item) Report {
	rep := Report{Name: it.Name, Path: it.Path}
	if it.Err != nil {
		r.log.Warn("unable to read item file", zap.String("file", it.Path), zap.Error(it.Err))
		rep.Err = it.Err
		return rep
	}
	res, err := r.v.Validate(it.Data)
	if err != nil {
		r.log.Warn("unable to parse item file", zap.String("file", it.Path), zap.Error(err))
		rep.Err = err
		return rep
	}
	rep.Result = res
	r.log.Debug("validated item file",
		zap.String("file", it.Path),
		zap.Bool("valid", res.Valid()),
		zap.Int("failures", len(res.FailMessages())),
		zap.NamedError("issues", res.Err()))
	return rep
}

// Summary counts outcomes over a batch.
type Summary struct {
	Files   int `json:"files"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
	Errored int `json:"errored"`
}

// OK reports whether every file was valid.
func (s Summary) OK() bool { return s.Invalid == 0 && s.Errored == 0 }

// Summarize counts the reports.
func Summarize(reports []Report) Summary {
	s := Summary{Files: len(reports)}
	for _, rep := range reports {
		switch {
		case rep.Err != nil:
			s.Errored++
		case rep.Result.Valid():
			s.Valid++
		default:
			s.Invalid++
		}
	}
	return s
}
