package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/farxc/productivity-dashboard/internal/dashboard/frame"
	"github.com/farxc/productivity-dashboard/internal/dashboard/normalize"
	"github.com/farxc/productivity-dashboard/internal/dashboard/snapshot"
	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/farxc/productivity-dashboard/internal/logger"
	"github.com/farxc/productivity-dashboard/internal/store"
	"github.com/go-gota/gota/dataframe"
)

// History receives one record per slot event.
type History interface {
	Record(ctx context.Context, record *store.UploadRecord) error
}

// Reconciler decides which table each slot holds: a fresh upload, a saved
// snapshot, or nothing.
type Reconciler struct {
	snapshots *snapshot.Store
	cache     *normalize.Cache
	history   History
	appLogger *logger.Logger
	now       func() time.Time
}

func New(snapshots *snapshot.Store, history History, appLogger *logger.Logger) *Reconciler {
	return &Reconciler{
		snapshots: snapshots,
		cache:     normalize.NewCache(),
		history:   history,
		appLogger: appLogger,
		now:       time.Now,
	}
}

// Cache exposes the parse cache, mostly for inspection.
func (r *Reconciler) Cache() *normalize.Cache {
	return r.cache
}

// Restore loads the saved snapshot of every empty slot. A snapshot that
// cannot be read leaves its slot empty and yields a warning.
func (r *Reconciler) Restore(ctx context.Context, s *Session) []types.Message {
	const component = "Reconciler-Restore"
	var msgs []types.Message

	for _, ds := range types.Datasets {
		slot := s.Slot(ds)
		if slot.State == Loaded {
			continue
		}

		df, ok, err := r.snapshots.Load(ds.Slot())
		if err != nil {
			r.appLogger.Warn(component, "Snapshot unreadable: dataset=%s error=%v", ds.Slot(), err)
			msgs = append(msgs, types.Warning(ds.String(),
				"The previously saved %s file could not be loaded. Please upload it again or check the file. Error: %v", ds, err))
			r.record(ctx, ds, store.EventRestore, store.StatusFailure, "", "", 0, err.Error())
			continue
		}
		if !ok {
			continue
		}

		df, notes := normalize.Apply(ds, df)
		msgs = append(msgs, notes...)
		slot.load(df, SourceSnapshot, r.snapshots.Path(ds.Slot()), "", r.now())
		r.appLogger.Info(component, "Snapshot restored: dataset=%s rows=%d", ds.Slot(), df.Nrow())
		r.record(ctx, ds, store.EventRestore, store.StatusSuccess, slot.FileName, "", df.Nrow(), "")
	}
	return msgs
}

// Upload parses and normalizes a file into an empty slot. A loaded slot
// ignores uploads until the session is reset.
func (r *Reconciler) Upload(ctx context.Context, s *Session, ds types.Dataset, up normalize.Upload) []types.Message {
	const component = "Reconciler-Upload"
	slot := s.Slot(ds)
	checksum := normalize.ChecksumHex(up.Content)

	if slot.State == Loaded {
		r.appLogger.Debug(component, "Upload ignored, slot already loaded: dataset=%s file=%s", ds.Slot(), up.Name)
		r.record(ctx, ds, store.EventUpload, store.StatusIgnored, up.Name, checksum, 0, "slot already loaded")
		return []types.Message{types.Info(ds.String(),
			"%s file already loaded (from upload or saved data). Reset to upload a new one.", ds)}
	}

	raw, err := r.cache.Parse(up.Content)
	if err != nil {
		r.appLogger.Error(component, "Parse failed: dataset=%s file=%s error=%v", ds.Slot(), up.Name, err)
		r.record(ctx, ds, store.EventUpload, store.StatusFailure, up.Name, checksum, 0, err.Error())
		return []types.Message{types.Error(ds.String(), "Failed to load %s file %q: %v", ds, up.Name, err)}
	}

	df, notes, err := normalize.Normalize(ds, raw)
	if err != nil {
		err = fmt.Errorf("%w: %v", types.ErrParseFailure, err)
		r.appLogger.Error(component, "Normalize failed: dataset=%s file=%s error=%v", ds.Slot(), up.Name, err)
		r.record(ctx, ds, store.EventUpload, store.StatusFailure, up.Name, checksum, 0, err.Error())
		return []types.Message{types.Error(ds.String(), "Failed to load %s file %q: %v", ds, up.Name, err)}
	}

	slot.load(df, SourceUpload, up.Name, checksum, r.now())
	r.appLogger.Info(component, "Upload loaded: dataset=%s file=%s format=%s rows=%d skipped=%d",
		ds.Slot(), up.Name, raw.Format, df.Nrow(), raw.Skipped)
	r.record(ctx, ds, store.EventUpload, store.StatusSuccess, up.Name, checksum, df.Nrow(), "")

	msgs := []types.Message{types.Success(ds.String(), "%s file loaded successfully.", ds)}
	if raw.Skipped > 0 {
		msgs = append(msgs, types.Warning(ds.String(), "%d malformed lines were skipped.", raw.Skipped))
	}
	return append(msgs, notes...)
}

// Save writes every slot's table to its snapshot. Empty slots have nothing
// to write and still count as saved.
func (r *Reconciler) Save(ctx context.Context, s *Session) []types.Message {
	const component = "Reconciler-Save"
	var msgs []types.Message
	failed := 0

	for _, ds := range types.Datasets {
		slot := s.Slot(ds)
		file := r.snapshots.Path(ds.Slot())

		saved, err := r.snapshots.Save(ds.Slot(), slot.Table)
		switch {
		case err != nil:
			failed++
			r.appLogger.Error(component, "Snapshot write failed: dataset=%s error=%v", ds.Slot(), err)
			msgs = append(msgs, types.Error(ds.String(), "Error saving %s: %v", file, err))
			r.record(ctx, ds, store.EventSave, store.StatusFailure, file, slot.Checksum, 0, err.Error())
		case saved:
			r.appLogger.Info(component, "Snapshot written: dataset=%s rows=%d", ds.Slot(), slot.Table.Nrow())
			msgs = append(msgs, types.Info(ds.String(), "Saved %s.", file))
			r.record(ctx, ds, store.EventSave, store.StatusSuccess, file, slot.Checksum, slot.Table.Nrow(), "")
		default:
			msgs = append(msgs, types.Info(ds.String(), "No data to save in %s.", file))
		}
	}

	if failed > 0 {
		return append(msgs, types.Error("", "Some data could not be saved. Check the messages above for details."))
	}
	return append(msgs, types.Success("", "All processed data was saved successfully."))
}

// Reset empties every slot, deletes every snapshot and drops the parse
// cache.
func (r *Reconciler) Reset(ctx context.Context, s *Session) []types.Message {
	const component = "Reconciler-Reset"
	var msgs []types.Message

	for _, ds := range types.Datasets {
		s.Slot(ds).clear()

		removed, err := r.snapshots.Delete(ds.Slot())
		if err != nil {
			r.appLogger.Error(component, "Snapshot delete failed: dataset=%s error=%v", ds.Slot(), err)
			msgs = append(msgs, types.Error(ds.String(), "Could not delete the saved %s file: %v", ds, err))
			r.record(ctx, ds, store.EventReset, store.StatusFailure, "", "", 0, err.Error())
			continue
		}
		if removed {
			r.appLogger.Info(component, "Snapshot deleted: dataset=%s", ds.Slot())
		}
		r.record(ctx, ds, store.EventReset, store.StatusSuccess, "", "", 0, "")
	}
	r.cache.Clear()

	return append(msgs, types.Success("", "All loaded files and saved data were cleared."))
}

// Invalidate empties a slot whose table was rejected so that the dataset
// can be uploaded again. The snapshot, if any, is kept.
func (r *Reconciler) Invalidate(s *Session, ds types.Dataset) {
	const component = "Reconciler-Invalidate"
	r.appLogger.Warn(component, "Slot invalidated: dataset=%s", ds.Slot())
	s.Slot(ds).clear()
}

// Legalization unifies the two legalization slots. PPL rows come first,
// each sub-type in its original order.
func Legalization(s *Session) (dataframe.DataFrame, bool) {
	ppl, conv := s.Slot(types.LegalizationPPL), s.Slot(types.LegalizationConvenios)
	switch {
	case ppl.State == Loaded && conv.State == Loaded:
		return frame.Concat(ppl.Table, conv.Table), true
	case ppl.State == Loaded:
		return ppl.Table, true
	case conv.State == Loaded:
		return conv.Table, true
	default:
		return dataframe.DataFrame{}, false
	}
}

// Status lists which of the given slots (all when none are given) are
// already loaded.
func Status(s *Session, datasets ...types.Dataset) []types.Message {
	if len(datasets) == 0 {
		datasets = types.Datasets
	}
	var msgs []types.Message
	for _, ds := range datasets {
		if s.Loaded(ds) {
			msgs = append(msgs, types.Info(ds.String(), "%s file already loaded (from upload or saved data).", ds))
		}
	}
	return msgs
}

func (r *Reconciler) record(ctx context.Context, ds types.Dataset, event, status, fileName, checksum string, rows int, detail string) {
	const component = "Reconciler-History"
	if r.history == nil {
		return
	}
	err := r.history.Record(ctx, &store.UploadRecord{
		Dataset:  ds.Slot(),
		Event:    event,
		Status:   status,
		FileName: fileName,
		Checksum: checksum,
		RowCount: rows,
		Detail:   detail,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		r.appLogger.Error(component, "Failed to record event: dataset=%s event=%s error=%v", ds.Slot(), event, err)
	}
}
