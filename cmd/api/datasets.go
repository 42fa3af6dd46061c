package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/farxc/productivity-dashboard/internal/dashboard"
	"github.com/farxc/productivity-dashboard/internal/dashboard/normalize"
	"github.com/farxc/productivity-dashboard/internal/dashboard/reconcile"
	"github.com/farxc/productivity-dashboard/internal/dashboard/snapshot"
	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/farxc/productivity-dashboard/internal/response"
	"github.com/go-chi/chi/v5"
)

type slotView struct {
	Dataset  string     `json:"dataset"`
	Slot     string     `json:"slot"`
	State    string     `json:"state"`
	Source   string     `json:"source,omitempty"`
	FileName string     `json:"file_name,omitempty"`
	Checksum string     `json:"checksum,omitempty"`
	Rows     int        `json:"rows"`
	Saved    bool       `json:"saved"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
}

// slotsOf describes every slot; saved tells whether a snapshot of the slot
// is on disk.
func slotsOf(s *reconcile.Session, snapshots *snapshot.Store) []slotView {
	views := make([]slotView, 0, len(types.Datasets))
	for _, ds := range types.Datasets {
		slot := s.Slot(ds)
		v := slotView{
			Dataset:  ds.String(),
			Slot:     ds.Slot(),
			State:    slot.State.String(),
			Source:   string(slot.Source),
			FileName: slot.FileName,
			Checksum: slot.Checksum,
			Saved:    snapshots.Exists(ds.Slot()),
		}
		if slot.State == reconcile.Loaded {
			v.Rows = slot.Table.Nrow()
			at := slot.LoadedAt
			v.LoadedAt = &at
		}
		views = append(views, v)
	}
	return views
}

// @Summary		List dataset slots
// @Description	returns the state of the four dataset slots of the served session
// @Tags			Datasets
// @Produce		json
// @Success		200	{object}	response.APIResponse[[]slotView]
// @Router			/datasets [get]
func (app *application) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	app.mu.Lock()
	views := slotsOf(app.session, app.snapshots)
	app.mu.Unlock()

	writeJSON(w, http.StatusOK, response.APIResponse[[]slotView]{
		Success: true,
		Data:    views,
	})
}

// @Summary		Upload a dataset
// @Description	loads a delimited text file or spreadsheet into a dataset slot, sent as the raw body or as the multipart field "file"
// @Tags			Datasets
// @Accept			octet-stream,mpfd
// @Produce		json
// @Param			dataset	path		string	true	"ppl, convenios, rips or facturacion"
// @Param			name	query		string	false	"file name when the raw body is sent"
// @Success		200		{object}	response.APIResponse[[]slotView]
// @Failure		400		{object}	response.ErrorResponse
// @Failure		422		{object}	response.ErrorResponse
// @Router			/datasets/{dataset} [put]
func (app *application) handleUploadDataset(w http.ResponseWriter, r *http.Request) {
	const component = "API-Datasets"

	ds, err := types.ParseDataset(chi.URLParam(r, "dataset"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	up, err := app.readUpload(w, r, ds)
	if err != nil {
		app.appLogger.Warn(component, "Unreadable upload: dataset=%s error=%v", ds.Slot(), err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(up.Content) == 0 {
		writeJSONError(w, http.StatusBadRequest, "upload is empty")
		return
	}

	app.mu.Lock()
	next, out := app.engine.Compute(r.Context(), app.session, dashboard.Inputs{
		Uploads: map[types.Dataset]normalize.Upload{ds: up},
	})
	app.session = next
	loaded := next.Loaded(ds)
	views := slotsOf(next, app.snapshots)
	app.mu.Unlock()

	if !loaded {
		app.appLogger.Info(component, "Upload rejected: dataset=%s file=%s", ds.Slot(), up.Name)
		writeJSONError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("%s file could not be loaded", ds), out.Messages...)
		return
	}

	writeJSON(w, http.StatusOK, response.APIResponse[[]slotView]{
		Success:  true,
		Messages: out.Messages,
		Data:     views,
	})
}

func (app *application) readUpload(w http.ResponseWriter, r *http.Request, ds types.Dataset) (normalize.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, app.config.maxUpload)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return normalize.Upload{}, fmt.Errorf("multipart field \"file\": %w", err)
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			return normalize.Upload{}, err
		}
		return normalize.Upload{Name: header.Filename, Content: content}, nil
	}

	content, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return normalize.Upload{}, fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit)
		}
		return normalize.Upload{}, err
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = ds.Slot()
	}
	return normalize.Upload{Name: name, Content: content}, nil
}
