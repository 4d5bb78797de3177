package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/lepinkainen/duplex/dupes"
	"github.com/lepinkainen/duplex/files"
	"github.com/lepinkainen/duplex/review"
	"github.com/lepinkainen/duplex/rules"
	"github.com/lepinkainen/duplex/types"
	"github.com/lepinkainen/duplex/ui"
	"github.com/lepinkainen/duplex/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ErrNoTargets is returned when neither a folder nor a manifest was given
var ErrNoTargets = errors.New("no search folders or manifests given")

// ReviewCmd finds duplicate files and deletes the ones the operator marks.
// Positional arguments are recursive search folders.
type ReviewCmd struct {
	Paths       []string `arg:"" optional:"" name:"folders" help:"Folders to search recursively (same as --rfolder)" type:"path"`
	Folder      []string `short:"f" help:"Add search folder (non-recursive)" type:"path" placeholder:"DIR"`
	Rfolder     []string `short:"r" help:"Add recursive search folder" type:"path" placeholder:"DIR"`
	Md5list     []string `short:"m" name:"md5list" help:"Add md5 manifest (output from md5deep -zr)" type:"existingfile" placeholder:"FILE"`
	Rule        []string `short:"u" sep:"none" help:"Add marking rule (case insensitive regex)" placeholder:"REGEX"`
	Automatic   bool     `short:"a" help:"Don't enter interactive mode (delete without confirmation)"`
	DryRun      bool     `short:"d" name:"dry-run" help:"Don't delete anything, just simulate"`
	FilterSmall uint64   `short:"s" name:"filter-small" help:"Ignore files of this size and smaller"`
	FilterLarge uint64   `short:"b" name:"filter-large" help:"Ignore files of this size and larger"`
	Hash        string   `help:"Digest algorithm (${enum})" enum:"md5,sha256,fnv64,xxhash" default:"${default_hash}"`
	MD5         bool     `short:"5" name:"md5" help:"Use md5 digests (same as --hash md5)"`
	Workers     int      `help:"Number of files hashed in parallel (0 = auto)" default:"0"`
	TUI         bool     `name:"tui" help:"Review duplicates in a full screen terminal UI"`
}

// Config turns the flags into the immutable run configuration
func (cmd *ReviewCmd) Config(globals *Globals, log logrus.FieldLogger) (types.Config, error) {
	cfg := types.Config{
		Manifests: cmd.Md5list,
		Rules:     cmd.Rule,
		Filter:    files.Filter{IgnoreSmaller: cmd.FilterSmall, IgnoreLarger: cmd.FilterLarge},
		Automatic: cmd.Automatic,
		DryRun:    cmd.DryRun,
		Quiet:     globals.Quiet,
		TUI:       cmd.TUI,
	}
	for _, p := range cmd.Folder {
		cfg.Targets = append(cfg.Targets, files.Target{Path: p})
	}
	for _, p := range slices.Concat(cmd.Rfolder, cmd.Paths) {
		cfg.Targets = append(cfg.Targets, files.Target{Path: p, Recursive: true})
	}
	if len(cfg.Targets) == 0 && len(cfg.Manifests) == 0 {
		return cfg, ErrNoTargets
	}
	if cfg.Automatic && cfg.TUI {
		return cfg, errors.New("--automatic and --tui can't be used together")
	}

	algo, err := files.ParseAlgorithm(cmd.Hash)
	if err != nil {
		return cfg, err
	}
	if cmd.MD5 {
		algo = files.MD5
	}
	if len(cfg.Manifests) > 0 && algo != files.MD5 {
		log.Infof("Enabled md5 digests because a manifest is used (was %s)", algo)
		algo = files.MD5
	}
	cfg.Algorithm = algo

	workers, network := utils.HashWorkers(cmd.Workers, cfg.TargetPaths())
	if network {
		log.Info("Network drive detected, using 1 worker")
	}
	cfg.Workers = workers

	return cfg, nil
}

// Run executes the review command
func (cmd *ReviewCmd) Run(appCtx *types.AppContext, globals *Globals, log *logrus.Logger) error {
	cfg, err := cmd.Config(globals, log)
	if err != nil {
		return err
	}

	fsys := afero.NewOsFs()
	if err := files.ValidateTargets(fsys, cfg.TargetPaths()); err != nil {
		return err
	}

	if !cfg.Quiet {
		fmt.Println(ui.HeaderStyle.Render(appCtx.Banner()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := &session{
		fs:           fsys,
		cfg:          cfg,
		log:          log,
		out:          os.Stdout,
		progress:     os.Stderr,
		showProgress: ui.ProgressVisible(cfg.Quiet),
		interact:     runREPL(cfg),
	}
	if cfg.TUI {
		s.showProgress = false
		s.interact = runTUI(cfg, log)
	}
	return s.run(ctx)
}

// session is one find, review and delete pass
type session struct {
	fs           afero.Fs
	cfg          types.Config
	log          logrus.FieldLogger
	out          io.Writer
	progress     io.Writer
	showProgress bool
	interact     func(nav *review.Navigator) error
}

func (s *session) run(ctx context.Context) error {
	rs, err := buildRules(s.cfg.Rules)
	if err != nil {
		return err
	}

	records := s.discover()
	groups, err := s.findDuplicates(ctx, records)
	if err != nil {
		return err
	}
	if groups.Len() == 0 {
		if !s.cfg.Quiet {
			fmt.Fprintln(s.out, ui.SuccessStyle.Render("No duplicates found"))
		}
		return nil
	}

	exec := &progressDeleter{
		deleter: &dupes.Deleter{Fs: s.fs, DryRun: s.cfg.DryRun, Log: s.log},
		out:     s.progress,
		visible: s.showProgress,
	}

	if s.cfg.Automatic {
		sum := exec.Delete(groups, rs)
		if !s.cfg.Quiet {
			fmt.Fprint(s.out, ui.RenderDeleteSummary(sum, s.cfg.DryRun))
		}
	} else if err := s.interact(review.New(groups, rs, exec)); err != nil {
		return err
	}

	if !s.cfg.Quiet {
		fmt.Fprint(s.out, ui.RenderStats(dupes.TotalStats(groups, rs)))
	}
	return nil
}

func buildRules(patterns []string) (*rules.Set, error) {
	rs := rules.NewSet()
	for _, p := range patterns {
		if err := rs.AddPattern(p); err != nil {
			return nil, fmt.Errorf("invalid rule: %w", err)
		}
	}
	return rs, nil
}

func (s *session) discover() []*files.Record {
	d := files.NewDiscoverer(s.fs, s.cfg.Filter, s.log)
	for _, t := range s.cfg.Targets {
		s.log.WithField("path", t.Path).Debugf("Processing (recursive: %v)", t.Recursive)
		d.AddTarget(t)
	}
	for _, m := range s.cfg.Manifests {
		s.log.WithField("manifest", m).Debug("Processing manifest")
		recs, err := files.ReadManifest(s.fs, m, s.log)
		if err != nil {
			s.log.WithError(err).WithField("manifest", m).Error("Couldn't read manifest")
			continue
		}
		for _, rec := range recs {
			d.AddRecord(rec)
		}
	}

	records := d.Records()
	s.log.Infof("Found %s files", humanize.Comma(int64(len(records))))
	return records
}

func (s *session) findDuplicates(ctx context.Context, records []*files.Record) (*dupes.Collection, error) {
	toHash := dupes.BytesToHash(dupes.GroupBySize(records))
	bar := ui.NewByteBar(s.progress, toHash, "Hashing", s.showProgress)

	groups, report, err := dupes.Find(ctx, records, files.NewHasher(s.fs, s.cfg.Algorithm), dupes.HashOptions{
		Workers:  s.cfg.Workers,
		Progress: bar,
		Log:      s.log,
	})
	_ = bar.Finish()
	if err != nil {
		return nil, fmt.Errorf("hashing: %w", err)
	}

	s.log.Debugf("%s files share their size with another file, %s read",
		humanize.Comma(int64(report.SizeCandidates)), humanize.Bytes(report.BytesToHash))
	if len(report.HashFailures) > 0 {
		s.log.Warnf("Ignored %s files that could not be read", humanize.Comma(int64(len(report.HashFailures))))
	}
	s.log.Infof("Found %s groups of duplicates", humanize.Comma(int64(groups.Len())))
	return groups, nil
}

// progressDeleter draws a file count bar while a deletion pass runs
type progressDeleter struct {
	deleter *dupes.Deleter
	out     io.Writer
	visible bool
}

func (p *progressDeleter) Delete(c *dupes.Collection, m dupes.Matcher) dupes.DeleteSummary {
	marked := dupes.TotalStats(c, m).MarkedFiles
	bar := ui.NewCountBar(p.out, int(marked), "Deleting", p.visible)
	p.deleter.Progress = bar
	sum := p.deleter.Delete(c, m)
	_ = bar.Finish()
	return sum
}

func runREPL(cfg types.Config) func(nav *review.Navigator) error {
	return func(nav *review.Navigator) error {
		rl, err := ui.NewLineReader()
		if err != nil {
			return fmt.Errorf("failed to open terminal: %w", err)
		}
		defer rl.Close()

		repl := ui.NewREPL(nav, rl, os.Stdout)
		repl.DryRun = cfg.DryRun
		repl.Quiet = cfg.Quiet
		return repl.Run()
	}
}

func runTUI(cfg types.Config, log *logrus.Logger) func(nav *review.Navigator) error {
	return func(nav *review.Navigator) error {
		// log lines would tear the alternate screen; failures show in the summary
		out := log.Out
		log.SetOutput(io.Discard)
		defer log.SetOutput(out)

		model := ui.NewDuplicatesModel(nav, cfg.DryRun)
		p := tea.NewProgram(model, tea.WithAltScreen())
		final, err := p.Run()
		if err != nil {
			return err
		}
		printFinalSummary(os.Stdout, final, cfg.DryRun)
		return nil
	}
}

func printFinalSummary(out io.Writer, final tea.Model, dryRun bool) {
	m, ok := final.(ui.DuplicatesModel)
	if !ok {
		return
	}
	if sum, ok := m.FinalSummary(); ok {
		fmt.Fprint(out, ui.RenderDeleteSummary(sum, dryRun))
	}
}
