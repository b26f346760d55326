package build

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// Report file names written by Persist.
const (
	ReportJSONFile = "build-report.json"
	ReportTextFile = "build-report.txt"
)

// BuildReport captures what a single build did.
type BuildReport struct {
	SchemaVersion   int
	BuildID         string
	Start           time.Time
	End             time.Time
	Errors          []error // fatal errors causing build abortion (at most one)
	Warnings        []error // non-fatal issues such as skipped documents
	StageDurations  map[string]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount

	DocumentsDiscovered int
	DocumentsRendered   int
	DocumentsSkipped    int
	// ListingPages counts rendered listing pages per collection
	// (posts, projects, categories).
	ListingPages map[string]int
	// TemplateOverrides lists theme templates taken from the layouts directory.
	TemplateOverrides []string

	Outcome BuildOutcome
	Issues  []ReportIssue
}

// ReportIssueCode enumerates machine-parseable issue identifiers.
// These codes are stable contract and should only be appended.
type ReportIssueCode string

const (
	IssueMalformedDocument ReportIssueCode = "MALFORMED_DOCUMENT"
	IssueMissingField      ReportIssueCode = "MISSING_REQUIRED_FIELD"
	IssueContentError      ReportIssueCode = "CONTENT_ERROR"
	IssueTemplateExecution ReportIssueCode = "TEMPLATE_EXECUTION"
	IssueOutputCollision   ReportIssueCode = "OUTPUT_COLLISION"
	IssueOutputWrite       ReportIssueCode = "OUTPUT_WRITE"
	IssueConfig            ReportIssueCode = "CONFIG"
	IssueCanceled          ReportIssueCode = "BUILD_CANCELED"
	IssueGenericStageError ReportIssueCode = "GENERIC_STAGE_ERROR"
	IssueNoContent         ReportIssueCode = "NO_CONTENT"
	IssueRelativeBaseURL   ReportIssueCode = "RELATIVE_BASE_URL"
)

// IssueSeverity represents normalized severity levels.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ReportIssue is a structured taxonomy entry describing a discrete problem encountered.
type ReportIssue struct {
	Code     ReportIssueCode `json:"code"`
	Stage    StageName       `json:"stage"`
	Severity IssueSeverity   `json:"severity"`
	Message  string          `json:"message"`
	Path     string          `json:"path,omitempty"`
}

// StageCount aggregates counts of outcomes for a stage.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

func newBuildReport(buildID string, start time.Time) *BuildReport {
	return &BuildReport{
		SchemaVersion:   1,
		BuildID:         buildID,
		Start:           start,
		StageDurations:  make(map[string]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
		ListingPages:    make(map[string]int),
	}
}

// AddIssue appends a structured issue.
func (r *BuildReport) AddIssue(code ReportIssueCode, stage StageName, severity IssueSeverity, path, msg string) {
	r.Issues = append(r.Issues, ReportIssue{Code: code, Stage: stage, Severity: severity, Message: msg, Path: path})
}

func (r *BuildReport) countStage(stage StageName, kind StageErrorKind) {
	sc := r.StageCounts[stage]
	switch kind {
	case "":
		sc.Success++
	case StageErrorWarning:
		sc.Warning++
	case StageErrorCanceled:
		sc.Canceled++
	default:
		sc.Fatal++
	}
	r.StageCounts[stage] = sc
}

func (r *BuildReport) finish(end time.Time) {
	r.End = end
	r.deriveOutcome()
}

// Duration is the wall time of the build.
func (r *BuildReport) Duration() time.Duration { return r.End.Sub(r.Start) }

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	return fmt.Sprintf("build=%s documents=%d rendered=%d skipped=%d listing_pages=%d duration=%s errors=%d warnings=%d outcome=%s",
		r.BuildID, r.DocumentsDiscovered, r.DocumentsRendered, r.DocumentsSkipped, r.totalListingPages(),
		r.Duration().Truncate(time.Millisecond), len(r.Errors), len(r.Warnings), r.Outcome)
}

func (r *BuildReport) totalListingPages() int {
	n := 0
	for _, v := range r.ListingPages {
		n += v
	}
	return n
}

// deriveOutcome sets the Outcome field based on recorded errors/warnings.
func (r *BuildReport) deriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if errors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Persist writes the report atomically into dir:
//
//	build-report.json  (machine readable)
//	build-report.txt   (human summary)
//
// Errors are returned for caller logging but do not change the build outcome.
func (r *BuildReport) Persist(dir string) error {
	if r.End.IsZero() {
		r.finish(time.Now())
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("ensure dir for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.sanitizedCopy(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	if err := writeAtomic(filepath.Join(dir, ReportJSONFile), jb); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(dir, ReportTextFile), []byte(r.Summary()+"\n"))
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	// #nosec G306 -- reports are not secret
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

// sanitizedCopy converts errors to strings and typed maps to string keys.
func (r *BuildReport) sanitizedCopy() *BuildReportSerializable {
	stageCounts := make(map[string]StageCount, len(r.StageCounts))
	for k, v := range r.StageCounts {
		stageCounts[string(k)] = v
	}
	sek := make(map[string]string, len(r.StageErrorKinds))
	for k, v := range r.StageErrorKinds {
		sek[string(k)] = string(v)
	}
	durations := make(map[string]int64, len(r.StageDurations))
	for k, v := range r.StageDurations {
		durations[k] = v.Milliseconds()
	}
	issues := r.Issues
	if issues == nil {
		issues = []ReportIssue{}
	}

	s := &BuildReportSerializable{
		SchemaVersion:       r.SchemaVersion,
		BuildID:             r.BuildID,
		Start:               r.Start,
		End:                 r.End,
		Errors:              make([]string, len(r.Errors)),
		Warnings:            make([]string, len(r.Warnings)),
		StageDurationsMS:    durations,
		StageErrorKinds:     sek,
		StageCounts:         stageCounts,
		DocumentsDiscovered: r.DocumentsDiscovered,
		DocumentsRendered:   r.DocumentsRendered,
		DocumentsSkipped:    r.DocumentsSkipped,
		ListingPages:        r.ListingPages,
		TemplateOverrides:   r.TemplateOverrides,
		Outcome:             string(r.Outcome),
		Issues:              issues,
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	return s
}

// BuildReportSerializable mirrors BuildReport but with string errors for JSON output.
type BuildReportSerializable struct {
	SchemaVersion       int                   `json:"schema_version"`
	BuildID             string                `json:"build_id"`
	Start               time.Time             `json:"start"`
	End                 time.Time             `json:"end"`
	Errors              []string              `json:"errors"`
	Warnings            []string              `json:"warnings"`
	StageDurationsMS    map[string]int64      `json:"stage_durations_ms"`
	StageErrorKinds     map[string]string     `json:"stage_error_kinds"`
	StageCounts         map[string]StageCount `json:"stage_counts"`
	DocumentsDiscovered int                   `json:"documents_discovered"`
	DocumentsRendered   int                   `json:"documents_rendered"`
	DocumentsSkipped    int                   `json:"documents_skipped"`
	ListingPages        map[string]int        `json:"listing_pages"`
	TemplateOverrides   []string              `json:"template_overrides,omitempty"`
	Outcome             string                `json:"outcome"`
	Issues              []ReportIssue         `json:"issues"`
}
