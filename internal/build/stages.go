package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/victor/internal/config"
	"git.home.luguber.info/inful/victor/internal/docmodel"
	"git.home.luguber.info/inful/victor/internal/logfields"
	"git.home.luguber.info/inful/victor/internal/markdown"
	"git.home.luguber.info/inful/victor/internal/theme"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}

func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// entry is a converted document together with its classification.
type entry struct {
	Doc   *docmodel.Document
	Class Classification
}

// BuildState carries mutable state across stages. It is owned by a single
// Run call and never shared.
type BuildState struct {
	opts      Options
	logger    *slog.Logger
	now       time.Time
	converter markdown.Converter

	Config *config.SiteConfig
	Theme  *theme.Theme
	Site   *SiteContext
	Report *BuildReport

	// Entries holds converted documents in discovery order.
	Entries  []entry
	Listings *Listings

	// writeFeed and writeSitemap are the enabled extras that can be
	// written with the configured base URL.
	writeFeed    bool
	writeSitemap bool

	// written maps output paths (slash separated, relative to the output
	// directory) to what produced them, for collision warnings.
	written map[string]string
}

func newBuildState(opts Options, logger *slog.Logger, report *BuildReport) *BuildState {
	return &BuildState{
		opts:    opts,
		logger:  logger,
		Report:  report,
		written: make(map[string]string),
	}
}

// runStages executes stages in order, recording timing and stopping on first fatal error.
func runStages(ctx context.Context, bs *BuildState, observer BuildObserver, stages []StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.Name, ctx.Err())
			bs.Report.Errors = append(bs.Report.Errors, se)
			bs.Report.StageErrorKinds[st.Name] = se.Kind
			bs.Report.countStage(st.Name, se.Kind)
			observer.OnStageComplete(st.Name, 0, StageResultCanceled)
			return se
		default:
		}

		observer.OnStageStart(st.Name)
		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)
		bs.Report.StageDurations[string(st.Name)] = dur
		bs.logger.Debug("stage finished", logfields.Stage(string(st.Name)), logfields.DurationMS(float64(dur)/float64(time.Millisecond)))

		if err == nil {
			bs.Report.countStage(st.Name, "")
			observer.OnStageComplete(st.Name, dur, StageResultSuccess)
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			// Unknown errors are fatal.
			se = newFatalStageError(st.Name, err)
		}
		bs.Report.StageErrorKinds[st.Name] = se.Kind
		bs.Report.countStage(st.Name, se.Kind)
		observer.OnStageComplete(st.Name, dur, resultForKind(se.Kind))

		switch se.Kind {
		case StageErrorWarning:
			bs.Report.Warnings = append(bs.Report.Warnings, se)
			continue
		default:
			bs.Report.Errors = append(bs.Report.Errors, se)
			return se
		}
	}
	return nil
}
