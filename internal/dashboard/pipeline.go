package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/farxc/productivity-dashboard/internal/dashboard/aggregate"
	"github.com/farxc/productivity-dashboard/internal/dashboard/filter"
	"github.com/farxc/productivity-dashboard/internal/dashboard/frame"
	"github.com/farxc/productivity-dashboard/internal/dashboard/normalize"
	"github.com/farxc/productivity-dashboard/internal/dashboard/reconcile"
	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/farxc/productivity-dashboard/internal/dashboard/validate"
	"github.com/farxc/productivity-dashboard/internal/logger"
	"github.com/go-gota/gota/dataframe"
)

type Action int

const (
	ActionNone Action = iota
	ActionSave
	ActionReset
)

// Inputs is everything the presentation layer sends for one interaction.
type Inputs struct {
	Uploads map[types.Dataset]normalize.Upload
	Action  Action

	// A nil date means "not chosen".
	StartDate *time.Time
	EndDate   *time.Time

	Operators         []string
	LegalizationTypes []string
	RipsStatuses      []string
	BillingTypes      []string
	Period            types.Granularity
}

// Outputs is everything the presentation layer renders for one interaction.
type Outputs struct {
	Messages []types.Message     `json:"messages"`
	Options  filter.Options      `json:"options"`
	Sections []aggregate.Section `json:"sections"`
	Start    time.Time           `json:"start"`
	End      time.Time           `json:"end"`
	// Halted is set when the run stopped before aggregating; Err says why.
	Halted bool  `json:"halted"`
	Err    error `json:"-"`
	// ActionFailed is set when the requested save or reset reported an
	// error of its own.
	ActionFailed bool `json:"action_failed,omitempty"`
}

// Engine runs the dashboard pipeline. It holds no session state of its own.
type Engine struct {
	reconciler *reconcile.Reconciler
	appLogger  *logger.Logger
	now        func() time.Time
}

func NewEngine(reconciler *reconcile.Reconciler, appLogger *logger.Logger) *Engine {
	return &Engine{
		reconciler: reconciler,
		appLogger:  appLogger,
		now:        time.Now,
	}
}

// Open starts a session from whatever snapshots were saved earlier.
func (e *Engine) Open(ctx context.Context) (*reconcile.Session, []types.Message) {
	s := reconcile.NewSession()
	return s, e.reconciler.Restore(ctx, s)
}

// Compute runs one interaction against s and returns the next session along
// with what to render. s itself is left unchanged.
func (e *Engine) Compute(ctx context.Context, s *reconcile.Session, in Inputs) (*reconcile.Session, Outputs) {
	const component = "Pipeline"
	next := s.Clone()
	var out Outputs

	if in.Action == ActionReset {
		msgs := e.reconciler.Reset(ctx, next)
		out.ActionFailed = types.CountLevel(msgs, types.LevelError) > 0
		out.Messages = append(out.Messages, msgs...)
	}

	for _, ds := range types.Datasets {
		if up, ok := in.Uploads[ds]; ok {
			out.Messages = append(out.Messages, e.reconciler.Upload(ctx, next, ds, up)...)
		} else if next.Loaded(ds) {
			out.Messages = append(out.Messages, reconcile.Status(next, ds)...)
		}
	}

	for _, ds := range types.Datasets {
		slot := next.Slot(ds)
		if slot.State != reconcile.Loaded {
			continue
		}
		df, res, msgs, err := validate.Validate(ds, slot.Table)
		out.Messages = append(out.Messages, msgs...)
		if err != nil {
			e.appLogger.Warn(component, "Validation rejected table: dataset=%s error=%v", ds.Slot(), err)
			e.reconciler.Invalidate(next, ds)
			continue
		}
		slot.Table = df
		e.appLogger.Debug(component, "Table validated: dataset=%s rows=%d dropped=%d", ds.Slot(), res.Rows, res.Dropped)
	}

	// Only validated tables reach the snapshots; rejected slots are empty
	// by now and have nothing to write.
	if in.Action == ActionSave {
		msgs := e.reconciler.Save(ctx, next)
		out.ActionFailed = types.CountLevel(msgs, types.LevelError) > 0
		out.Messages = append(out.Messages, msgs...)
	}

	if !next.AnyLoaded() {
		out.Options = filter.Available(nil, e.now())
		out.Start, out.End = out.Options.MinDate, out.Options.MaxDate
		out.Messages = append(out.Messages, types.Info("", "Upload the legalization, RIPS or billing files to start the analysis."))
		return next, out
	}

	tables := tablesOf(next)
	out.Options = filter.Available(tables, e.now())
	start, end := out.Options.Range(in.StartDate, in.EndDate)
	out.Start, out.End = start, end
	if err := filter.CheckRange(start, end); err != nil {
		out.Messages = append(out.Messages, types.Error("", "The start date cannot be after the end date. Please fix your selection."))
		out.Halted, out.Err = true, err
		return next, out
	}

	operators := types.NewSelection(in.Operators)
	if n := operators.Notice("operator"); n != "" {
		out.Messages = append(out.Messages, types.Info("", "%s", n))
	}

	for _, a := range types.Analyses {
		df, ok := tables[a]
		if !ok {
			continue
		}
		categories := types.NewSelection(categoriesFor(a, in))
		if n := categories.Notice(categoryLabels[a]); n != "" {
			out.Messages = append(out.Messages, types.Info(a.String(), "%s", n))
		}

		filtered, err := filter.Apply(df, types.Schemas[a], filter.Criteria{
			Start:      start,
			End:        end,
			Categories: categories,
			Operators:  operators,
		})
		if err != nil {
			e.appLogger.Error(component, "Filter failed: analysis=%s error=%v", a, err)
			out.Messages = append(out.Messages, types.Error(a.String(), "Could not filter %s data: %v", a, err))
			continue
		}
		if filtered.Nrow() == 0 {
			out.Messages = append(out.Messages, types.Info(a.String(), "%s data: %v. Adjust your filters.", a, types.ErrEmptyResult))
		}

		out.Sections = append(out.Sections, aggregate.Build(a, filtered, operators, in.Period))
	}
	return next, out
}

var categoryLabels = map[types.Analysis]string{
	types.LegalizationAnalysis: "legalization type",
	types.RipsAnalysis:         "RIPS status",
	types.BillingAnalysis:      "billing type",
}

func categoriesFor(a types.Analysis, in Inputs) []string {
	switch a {
	case types.RipsAnalysis:
		return in.RipsStatuses
	case types.BillingAnalysis:
		return in.BillingTypes
	default:
		return in.LegalizationTypes
	}
}

// tablesOf returns the validated table of every analysis that has one. The
// legalization sub-types are unified and re-sorted by date.
func tablesOf(s *reconcile.Session) map[types.Analysis]dataframe.DataFrame {
	tables := make(map[types.Analysis]dataframe.DataFrame)
	if df, ok := reconcile.Legalization(s); ok {
		tables[types.LegalizationAnalysis] = validate.SortByTime(df, types.ColRealDate)
	}
	if s.Loaded(types.Rips) {
		tables[types.RipsAnalysis] = s.Slot(types.Rips).Table
	}
	if s.Loaded(types.Billing) {
		tables[types.BillingAnalysis] = s.Slot(types.Billing).Table
	}
	for a, df := range tables {
		if frame.IsAbsent(df) {
			delete(tables, a)
		}
	}
	return tables
}

// IsDateSelectionError reports whether a run halted on an inverted range.
func IsDateSelectionError(err error) bool {
	return errors.Is(err, types.ErrInvalidDateSelection)
}
