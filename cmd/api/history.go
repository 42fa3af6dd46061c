package main

import (
	"net/http"

	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/farxc/productivity-dashboard/internal/response"
	"github.com/farxc/productivity-dashboard/internal/store"
)

const defaultHistoryLimit = 50

// @Summary		Upload history
// @Description	returns the latest upload, restore, save and reset events
// @Tags			Uploads
// @Produce		json
// @Param			limit	query		int		false	"maximum number of events (default 50, 0 for all)"
// @Param			dataset	query		string	false	"dataset slot, may be repeated"
// @Success		200		{object}	response.APIResponse[[]store.UploadRecord]
// @Failure		400		{object}	response.ErrorResponse
// @Failure		500		{object}	response.ErrorResponse
// @Router			/uploads/history [get]
func (app *application) handleGetUploadHistory(w http.ResponseWriter, r *http.Request) {
	const component = "API-History"

	limit, err := parseLimitOrDefault(r.URL.Query().Get("limit"), defaultHistoryLimit)
	if err != nil || limit < 0 {
		writeJSONError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}

	var slots []string
	for _, name := range r.URL.Query()["dataset"] {
		ds, err := types.ParseDataset(name)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		slots = append(slots, ds.Slot())
	}

	records, err := app.store.Uploads.Latest(r.Context(), limit, slots...)
	if err != nil {
		app.appLogger.Error(component, "Failed to read upload history: error=%v", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to read upload history")
		return
	}
	if records == nil {
		records = []store.UploadRecord{}
	}

	writeJSON(w, http.StatusOK, response.APIResponse[[]store.UploadRecord]{
		Success: true,
		Data:    records,
	})
}
