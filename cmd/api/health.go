package main

import (
	"net/http"

	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
)

// @Summary		Health check
// @Description	returns the status of the service and how many datasets are loaded
// @Tags			Health
// @Produce		json
// @Success		200	{object}	map[string]any
// @Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	app.mu.Lock()
	loaded := 0
	for _, ds := range types.Datasets {
		if app.session.Loaded(ds) {
			loaded++
		}
	}
	app.mu.Unlock()

	data := map[string]any{
		"status":          "available",
		"version":         "0.1.0",
		"loaded_datasets": loaded,
	}

	if err := writeJSON(w, http.StatusOK, data); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
