package main

import (
	"net/http"

	"github.com/farxc/productivity-dashboard/internal/dashboard"
	"github.com/farxc/productivity-dashboard/internal/response"
)

// @Summary		Save snapshots
// @Description	persists every loaded dataset so it is restored on the next start
// @Tags			Snapshots
// @Produce		json
// @Success		200	{object}	response.APIResponse[any]
// @Failure		500	{object}	response.ErrorResponse
// @Router			/snapshots [post]
func (app *application) handleSaveSnapshots(w http.ResponseWriter, r *http.Request) {
	app.snapshotAction(w, r, dashboard.ActionSave)
}

// @Summary		Reset
// @Description	clears every slot, deletes the saved snapshots and empties the cache
// @Tags			Snapshots
// @Produce		json
// @Success		200	{object}	response.APIResponse[any]
// @Router			/snapshots [delete]
func (app *application) handleResetSnapshots(w http.ResponseWriter, r *http.Request) {
	app.snapshotAction(w, r, dashboard.ActionReset)
}

func (app *application) snapshotAction(w http.ResponseWriter, r *http.Request, action dashboard.Action) {
	const component = "API-Snapshots"

	out := app.compute(r.Context(), dashboard.Inputs{Action: action})

	if out.ActionFailed {
		app.appLogger.Error(component, "Snapshot action failed: action=%d", action)
		writeJSONError(w, http.StatusInternalServerError, "snapshot action failed", out.Messages...)
		return
	}

	writeJSON(w, http.StatusOK, response.APIResponse[any]{
		Success:  true,
		Messages: out.Messages,
	})
}
