package script

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vectorcad/pkg/entity"
	"github.com/matzehuels/vectorcad/pkg/errors"
	"github.com/matzehuels/vectorcad/pkg/interaction"
	"github.com/matzehuels/vectorcad/pkg/observability"
)

// Undoer is the part of the history manager a script drives.
type Undoer interface {
	Undo() bool
	Redo() bool
}

// Selector sets the document selection.
type Selector interface {
	SetSelection(ids []entity.ID)
}

// StepResult reports what one step did.
type StepResult struct {
	Index int
	Op    Op
	// Applied is false when the session or history ignored the call, for
	// example a begin while a gesture is active or an undo with nothing
	// to undo.
	Applied  bool
	Results  []interaction.Result
	Duration time.Duration
}

// Report collects the outcome of a full run.
type Report struct {
	Steps []StepResult
	// Results concatenates the commit results of every committed gesture.
	Results []interaction.Result
}

// Applied counts the steps that took effect.
func (r *Report) Applied() int {
	n := 0
	for _, s := range r.Steps {
		if s.Applied {
			n++
		}
	}
	return n
}

// Runner plays scripts against one session.
//
// A Runner is not safe for concurrent use; the session it drives isn't
// either.
type Runner struct {
	Session  *interaction.Session
	History  Undoer
	Selector Selector
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil history or selector turns the matching
// steps into no-ops; a nil logger discards output.
func NewRunner(s *interaction.Session, h Undoer, sel Selector, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Session: s, History: h, Selector: sel, Logger: logger}
}

// Run executes every step of sc in order. It stops at the first step that
// fails or when ctx is cancelled; the report covers the steps run so far.
func (r *Runner) Run(ctx context.Context, sc *Script) (*Report, error) {
	report := &Report{}
	for i := range sc.Steps {
		res, err := r.Step(ctx, sc, i)
		if err != nil {
			return report, err
		}
		report.Steps = append(report.Steps, res)
		report.Results = append(report.Results, res.Results...)
	}
	r.Logger.Info("script finished",
		"script", sc.Name,
		"steps", len(report.Steps),
		"applied", report.Applied(),
		"results", len(report.Results))
	return report, nil
}

// Step executes step i of sc.
func (r *Runner) Step(ctx context.Context, sc *Script, i int) (StepResult, error) {
	if i < 0 || i >= len(sc.Steps) {
		return StepResult{}, errors.New(errors.ErrCodeInvalidInput, "step %d out of range [0, %d)", i, len(sc.Steps))
	}
	if err := ctx.Err(); err != nil {
		return StepResult{}, err
	}

	st := sc.Steps[i]
	op := string(st.Op)
	hooks := observability.Script()
	hooks.OnStepStart(ctx, sc.Name, i, op)

	start := time.Now()
	res, err := r.apply(sc, st)
	res.Index, res.Op, res.Duration = i, st.Op, time.Since(start)

	hooks.OnStepComplete(ctx, sc.Name, i, op, res.Duration, err)
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		return res, errors.Wrap(code, err, "step %d (%s)", i, op)
	}
	r.Logger.Debug("step", "script", sc.Name, "index", i, "op", op, "applied", res.Applied)
	return res, nil
}

func (r *Runner) apply(sc *Script, st Step) (StepResult, error) {
	s := r.Session
	switch st.Op {
	case OpSelect:
		if r.Selector == nil || s.Active() {
			return StepResult{}, nil
		}
		r.Selector.SetSelection(slices.Clone(st.IDs))
		return StepResult{Applied: true}, nil

	case OpBegin:
		return StepResult{Applied: s.Begin(sc.Params(st))}, nil

	case OpUpdate:
		if !s.Active() {
			return StepResult{}, nil
		}
		mods, _ := interaction.ParseModifiers(st.Modifiers)
		s.Update(st.Screen(), sc.viewFor(st), mods)
		return StepResult{Applied: s.Dragging()}, nil

	case OpCommit:
		if !s.Active() {
			return StepResult{}, nil
		}
		results := s.Commit()
		return StepResult{Applied: true, Results: results}, nil

	case OpCancel:
		if !s.Active() {
			return StepResult{}, nil
		}
		s.Cancel()
		return StepResult{Applied: true}, nil

	case OpUndo:
		if r.History == nil {
			return StepResult{}, nil
		}
		return StepResult{Applied: r.History.Undo()}, nil

	case OpRedo:
		if r.History == nil {
			return StepResult{}, nil
		}
		return StepResult{Applied: r.History.Redo()}, nil

	case OpReplay:
		if err := s.Replay(); err != nil {
			return StepResult{}, err
		}
		if s.Active() {
			return StepResult{Applied: true}, nil
		}
		return StepResult{Applied: true, Results: s.Results()}, nil
	}
	return StepResult{}, errors.New(errors.ErrCodeInvalidScript, "unknown op %q", st.Op)
}
