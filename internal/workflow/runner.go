package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"rollclean/internal/config"
	"rollclean/internal/journal"
	"rollclean/internal/logging"
	"rollclean/internal/organizer"
	"rollclean/internal/roll"
	"rollclean/internal/services"
	"rollclean/internal/services/exiftool"
	"rollclean/internal/services/magick"
	"rollclean/internal/timestamp"
)

// ErrAlreadyRunning indicates another rollclean process holds the run lock.
var ErrAlreadyRunning = errors.New("another rollclean instance is already running")

// RollStatus classifies the outcome for one roll.
type RollStatus string

const (
	StatusCompleted RollStatus = "completed"
	StatusPlanned   RollStatus = "planned"
	StatusSkipped   RollStatus = "skipped"
	StatusFailed    RollStatus = "failed"
)

// Options controls a single processing run.
type Options struct {
	Root        string
	Mode        organizer.Mode
	ConvertBW   bool
	ConvertTIFF bool
	DryRun      bool
	Reprocess   bool
}

// BWPrompter asks whether a roll should be converted to black and white.
type BWPrompter interface {
	AskBW(ctx context.Context, rollName, firstImage string) (bool, error)
}

// Deps holds the external boundaries the runner drives. Journal may be nil
// for dry runs; Converter and Prompter are only consulted when the matching
// option is set.
type Deps struct {
	Journal   *journal.Store
	Writer    exiftool.Writer
	Converter magick.Converter
	Prompter  BWPrompter
}

// RollResult reports what happened to one roll.
type RollResult struct {
	Roll   roll.Roll
	Status RollStatus
	Reason string
	Plan   *organizer.Plan
}

// Summary aggregates a run.
type Summary struct {
	RunID   string
	Results []RollResult
}

// Count returns how many rolls finished with the given status.
func (s *Summary) Count(status RollStatus) int {
	n := 0
	for _, res := range s.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Runner processes export roll directories one at a time.
type Runner struct {
	cfg       *config.Config
	logger    *slog.Logger
	journal   *journal.Store
	writer    exiftool.Writer
	converter magick.Converter
	prompter  BWPrompter
	organizer *organizer.Organizer
}

// New constructs a runner.
func New(cfg *config.Config, logger *slog.Logger, deps Deps) *Runner {
	return &Runner{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "workflow"),
		journal:   deps.Journal,
		writer:    deps.Writer,
		converter: deps.Converter,
		prompter:  deps.Prompter,
		organizer: organizer.New(logger),
	}
}

// Run locates every roll under the export root and processes each in turn.
// A failing roll is logged and skipped; the run continues. Fatal
// configuration errors abort the run.
func (r *Runner) Run(ctx context.Context, opts Options) (*Summary, error) {
	root := opts.Root
	if root == "" {
		root = r.cfg.Paths.ExportRoot
	}
	opts.Root = root

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)

	if !opts.DryRun {
		if err := r.cfg.EnsureDirectories(); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "workflow", "ensure directories", "", err)
		}
		lock := flock.New(filepath.Join(r.cfg.Paths.LogDir, "rollclean.lock"))
		ok, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire run lock: %w", err)
		}
		if !ok {
			return nil, ErrAlreadyRunning
		}
		defer func() {
			_ = lock.Unlock()
		}()
	}

	profile, err := roll.ProfileFor(r.cfg.Scanner.Generation)
	if err != nil {
		return nil, err
	}

	rolls, err := roll.Locate(root)
	if err != nil {
		return nil, err
	}
	logger.Info("starting run",
		logging.String("root", root),
		logging.String("mode", opts.Mode.String()),
		logging.Int("rolls", len(rolls)),
		logging.Bool("dry_run", opts.DryRun),
	)

	runStart := time.Now()
	summary := &Summary{RunID: runID}
	for i, item := range rolls {
		rollCtx := services.WithRoll(ctx, item.Name())
		result, rollErr := r.processRoll(rollCtx, item, profile, opts, runStart, i)
		summary.Results = append(summary.Results, result)

		rollLogger := logging.WithContext(rollCtx, r.logger)
		switch result.Status {
		case StatusFailed:
			rollLogger.Error("roll failed", logging.String("reason", result.Reason))
		case StatusSkipped:
			rollLogger.Info("roll skipped", logging.String("reason", result.Reason))
		}
		if rollErr != nil && services.Fatal(rollErr) {
			return summary, rollErr
		}
	}

	logger.Info("run finished",
		logging.Int("completed", summary.Count(StatusCompleted)),
		logging.Int("planned", summary.Count(StatusPlanned)),
		logging.Int("skipped", summary.Count(StatusSkipped)),
		logging.Int("failed", summary.Count(StatusFailed)),
	)
	return summary, nil
}

func (r *Runner) processRoll(ctx context.Context, item roll.Roll, profile roll.Profile, opts Options, runStart time.Time, rollIndex int) (RollResult, error) {
	logger := logging.WithContext(ctx, r.logger)
	failed := func(err error) (RollResult, error) {
		return RollResult{Roll: item, Status: StatusFailed, Reason: err.Error()}, err
	}

	if r.journal != nil && !opts.Reprocess {
		done, err := r.journal.Completed(ctx, item.Path)
		if err != nil {
			return failed(err)
		}
		if done {
			return RollResult{Roll: item, Status: StatusSkipped, Reason: "already processed"}, nil
		}
	}

	if opts.ConvertTIFF && !opts.DryRun {
		if err := r.convertBMPs(ctx, item); err != nil {
			return failed(err)
		}
	}

	seq, err := roll.BuildSequence(item, profile)
	if err != nil {
		return failed(err)
	}
	logger.Info("sequenced roll",
		logging.Int("images", len(seq.Images)),
		logging.Bool("half_frame", seq.HalfFrame),
	)

	convertBW := false
	if opts.ConvertBW && !opts.DryRun && r.prompter != nil {
		convertBW, err = r.prompter.AskBW(ctx, item.Name(), seq.Images[0].Path)
		if err != nil {
			return failed(err)
		}
	}

	planner := organizer.Planner{
		Root:         opts.Root,
		RollPadding:  r.cfg.Naming.RollPadding,
		FramePadding: r.cfg.Naming.FramePadding,
	}
	plan, err := planner.Plan(seq, opts.Mode)
	if err != nil {
		return failed(err)
	}

	if opts.DryRun {
		return RollResult{Roll: item, Status: StatusPlanned, Plan: plan}, nil
	}

	if convertBW && r.converter != nil {
		for _, img := range seq.Images {
			logger.Info("converting to B+W", logging.String("image", filepath.Base(img.Path)))
			if err := r.converter.Grayscale(ctx, img.Path); err != nil {
				return failed(err)
			}
		}
	}

	r.writeTimestamps(ctx, seq, runStart, rollIndex)

	if err := r.organizer.Execute(ctx, plan); err != nil {
		return failed(err)
	}

	if r.journal != nil {
		runID, _ := services.RunIDFromContext(ctx)
		rec := journal.Record{
			Path:       item.Path,
			OrderID:    item.OrderID,
			RollNumber: item.Number,
			Mode:       plan.Mode.String(),
			ImageCount: len(plan.Moves),
			RunID:      runID,
		}
		if plan.Mode == organizer.ModeReorg {
			rec.Destination = plan.DestDir
		}
		if err := r.journal.MarkCompleted(ctx, rec); err != nil {
			return failed(err)
		}
	}

	return RollResult{Roll: item, Status: StatusCompleted, Plan: plan}, nil
}

// convertBMPs rewrites every BMP under the roll as a compressed TIFF before
// sequencing so the renamed files carry the final extension.
func (r *Runner) convertBMPs(ctx context.Context, item roll.Roll) error {
	if r.converter == nil {
		return nil
	}
	logger := logging.WithContext(ctx, r.logger)

	bmps, err := roll.ListBMPs(item)
	if err != nil {
		return err
	}
	for _, bmp := range bmps {
		logger.Info("converting bmp to tif", logging.String("image", filepath.Base(bmp)))
		if _, err := r.converter.ConvertToTIFF(ctx, bmp); err != nil {
			return err
		}
	}
	return nil
}

// writeTimestamps stamps capture times that preserve sequence order. A tag
// write failure is logged and the image keeps its existing metadata.
func (r *Runner) writeTimestamps(ctx context.Context, seq *roll.Sequence, runStart time.Time, rollIndex int) {
	if r.writer == nil {
		return
	}
	logger := logging.WithContext(ctx, r.logger)

	base := seq.BaseTime()
	if !r.cfg.Timestamps.MtimeBase {
		base = timestamp.RunBase(runStart, rollIndex)
	}
	synth := timestamp.Synthesizer{
		Make:  r.cfg.Scanner.Make,
		Model: r.cfg.Scanner.Model,
	}
	stamps := synth.Stamps(base, len(seq.Images))
	for i, img := range seq.Images {
		tags := synth.Tags(stamps[i])
		if err := r.writer.WriteTags(ctx, img.Path, tags); err != nil {
			logger.Warn("timestamp write failed, keeping existing metadata",
				logging.String("image", filepath.Base(img.Path)),
				logging.Error(err),
			)
		}
	}
}
