package main

import (
	"net/http"

	"github.com/farxc/productivity-dashboard/internal/dashboard"
	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
	"github.com/farxc/productivity-dashboard/internal/response"
)

type reportRequest struct {
	StartDate         string   `json:"start_date"`
	EndDate           string   `json:"end_date"`
	Operators         []string `json:"operators"`
	LegalizationTypes []string `json:"legalization_types"`
	RipsStatuses      []string `json:"rips_statuses"`
	BillingTypes      []string `json:"billing_types"`
	Period            string   `json:"period"`
}

func (req reportRequest) inputs() (dashboard.Inputs, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return dashboard.Inputs{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return dashboard.Inputs{}, err
	}
	period, err := types.ParseGranularity(req.Period)
	if err != nil {
		return dashboard.Inputs{}, err
	}
	return dashboard.Inputs{
		StartDate:         start,
		EndDate:           end,
		Operators:         req.Operators,
		LegalizationTypes: req.LegalizationTypes,
		RipsStatuses:      req.RipsStatuses,
		BillingTypes:      req.BillingTypes,
		Period:            period,
	}, nil
}

// @Summary		Build the dashboard report
// @Description	filters the loaded datasets and returns the per-operator summaries and series
// @Tags			Report
// @Accept			json
// @Produce		json
// @Param			filters	body		reportRequest	false	"date range, selections and period"
// @Success		200		{object}	response.APIResponse[dashboard.Outputs]
// @Failure		400		{object}	response.ErrorResponse
// @Router			/report [post]
func (app *application) handleReport(w http.ResponseWriter, r *http.Request) {
	const component = "API-Report"

	var req reportRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := req.inputs()
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	out := app.compute(r.Context(), in)
	if dashboard.IsDateSelectionError(out.Err) {
		app.appLogger.Info(component, "Rejected date range: start=%s end=%s", req.StartDate, req.EndDate)
		writeJSONError(w, http.StatusBadRequest, out.Err.Error(), out.Messages...)
		return
	}

	app.appLogger.Debug(component, "Report built: sections=%d messages=%d", len(out.Sections), len(out.Messages))
	writeJSON(w, http.StatusOK, response.APIResponse[dashboard.Outputs]{
		Success:  true,
		Messages: out.Messages,
		Data:     out,
	})
}
