package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	itemschema "github.com/reoring/itemschema"
	"github.com/reoring/itemschema/document"
	"github.com/reoring/itemschema/internal/files"
	"github.com/reoring/itemschema/internal/report"
	"github.com/reoring/itemschema/internal/runner"
	"github.com/reoring/itemschema/internal/settings"
	"github.com/reoring/itemschema/internal/watch"
	"github.com/reoring/itemschema/vocab"
)

// errInvalid signals a finished run with invalid or unreadable files. The
// report has already been printed.
var errInvalid = errors.New("some item files are invalid")

type app struct {
	stdout io.Writer
	stderr io.Writer

	settingsPath string
	dataFolder   string
	listsFile    string
	itemsFolder  string
	onlyInvalid  bool
	format       string
	jobs         int
	strict       bool
	watch        bool
	noColor      bool
	verbose      bool

	newLogger func(verbose bool) (*zap.Logger, error)
	logger    *zap.Logger
}

func productionLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, newLogger: productionLogger}
	return a.command()
}

func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:   "itemcheck [item files...]",
		Short: "Validate item definition files against the master list",
		Long: `itemcheck validates YAML item definitions against the controlled
vocabularies in the master list (lists.yml).

With no arguments every file in the items folder is validated. The data
folder comes from settings.yml ("Data Folder") or --data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := a.newLogger(a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.runCheck,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.settingsPath, "settings", "", "settings file (default ./"+settings.DefaultFile+" if present)")
	pf.StringVar(&a.dataFolder, "data", "", "data folder, overrides 'Data Folder'")
	pf.StringVar(&a.listsFile, "lists", "", "master list file, overrides 'Lists File'")
	pf.StringVar(&a.format, "format", string(report.FormatText), "output format: text or json")
	pf.BoolVar(&a.strict, "strict", false, "reject duplicate mapping keys")
	pf.BoolVar(&a.noColor, "no-color", false, "disable coloured output")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	f := root.Flags()
	f.StringVar(&a.itemsFolder, "items", "", "items folder, overrides 'Items Folder'")
	f.BoolVar(&a.onlyInvalid, "only-invalid", false, "only show files with failures")
	f.IntVarP(&a.jobs, "jobs", "j", 0, "files validated at once (0 means one per file)")
	f.BoolVarP(&a.watch, "watch", "w", false, "re-validate when files change")

	root.AddCommand(a.listsCommand())
	return root
}

// loadSettings reads the settings file and applies flag overrides.
func (a *app) loadSettings(cmd *cobra.Command) (settings.Settings, error) {
	path, optional := a.settingsPath, false
	if path == "" {
		path, optional = settings.DefaultFile, true
	}
	s, err := settings.Load(path, optional)
	if err != nil {
		return s, err
	}
	flags := cmd.Flags()
	if flags.Changed("data") {
		s.DataFolder = a.dataFolder
	}
	if flags.Changed("lists") {
		s.ListsFile = a.listsFile
	}
	if flags.Changed("items") {
		s.ItemsFolder = a.itemsFolder
	}
	if flags.Changed("only-invalid") {
		s.OnlyOutputInvalid = a.onlyInvalid
	}
	if flags.Changed("strict") {
		s.StrictKeys = a.strict
	}
	if flags.Changed("jobs") {
		s.Jobs = a.jobs
	}
	return s.Resolve()
}

func (a *app) reportOptions(s settings.Settings) (report.Options, error) {
	format, err := report.ParseFormat(a.format)
	if err != nil {
		return report.Options{}, err
	}
	return report.Options{
		Format:      format,
		OnlyInvalid: s.OnlyOutputInvalid,
		Color:       format == report.FormatText && !a.noColor && isTerminal(a.stdout),
	}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func parseOptions(s settings.Settings) []document.ParseOption {
	if s.StrictKeys {
		return []document.ParseOption{document.WithStrictKeys()}
	}
	return nil
}

func loadVocab(s settings.Settings) (*vocab.Sets, error) {
	data, err := files.ReadLists(s.ListsFile)
	if err != nil {
		return nil, err
	}
	sets, err := vocab.Parse(data, parseOptions(s)...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse the lists file %s: %w", s.ListsFile, err)
	}
	return sets, nil
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	s, err := a.loadSettings(cmd)
	if err != nil {
		return err
	}
	opts, err := a.reportOptions(s)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	sets, err := loadVocab(s)
	if err != nil {
		return err
	}
	ok, err := a.checkOnce(ctx, s, sets, args, opts)
	if err != nil {
		return err
	}
	if a.watch {
		return a.watchLoop(ctx, s, sets, args, opts)
	}
	if !ok {
		return errInvalid
	}
	return nil
}

// checkOnce reads, validates and reports. ok is false when any file is
// invalid or unreadable.
func (a *app) checkOnce(ctx context.Context, s settings.Settings, sets *vocab.Sets, args []string, opts report.Options) (bool, error) {
	var (
		items []files.Item
		err   error
	)
	if len(args) > 0 {
		items, err = files.ReadPaths(ctx, args, s.Jobs)
	} else {
		items, err = files.ReadDir(ctx, s.ItemsFolder, s.Jobs)
	}
	if err != nil {
		return false, err
	}

	v := itemschema.NewValidator(sets, parseOptions(s)...)
	reports, err := runner.New(v, runner.Options{Jobs: s.Jobs, Logger: a.logger}).Run(ctx, items)
	if err != nil {
		return false, err
	}
	if err := report.Write(a.stdout, reports, opts); err != nil {
		return false, err
	}
	sum := runner.Summarize(reports)
	a.logger.Debug("validation finished",
		zap.Int("files", sum.Files),
		zap.Int("valid", sum.Valid),
		zap.Int("invalid", sum.Invalid),
		zap.Int("errored", sum.Errored))
	return sum.OK(), nil
}

// watchLoop re-validates on every settled change until ctx is done. A
// master list that fails to load keeps the previous vocabularies.
func (a *app) watchLoop(ctx context.Context, s settings.Settings, sets *vocab.Sets, args []string, opts report.Options) error {
	w, err := watch.New(s.ItemsFolder, s.ListsFile, func(ctx context.Context, c watch.Change) {
		if c.ListsChanged {
			next, err := loadVocab(s)
			if err != nil {
				a.logger.Warn("keeping previous lists", zap.Error(err))
			} else {
				sets = next
			}
		}
		if _, err := a.checkOnce(ctx, s, sets, args, opts); err != nil && ctx.Err() == nil {
			a.logger.Error("validation failed", zap.Error(err))
		}
	}, watch.Options{Logger: a.logger})
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}
	<-w.Done()
	w.Stop()
	return nil
}

func (a *app) listsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Print the vocabularies built from the master list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSettings(cmd)
			if err != nil {
				return err
			}
			opts, err := a.reportOptions(s)
			if err != nil {
				return err
			}
			sets, err := loadVocab(s)
			if err != nil {
				return err
			}
			return report.Vocabularies(a.stdout, sets, opts)
		},
	}
}
