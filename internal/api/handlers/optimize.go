package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"bess-dispatch/internal/api/models"
	"bess-dispatch/internal/config"
	"bess-dispatch/internal/data"
	"bess-dispatch/internal/dispatch"
	"bess-dispatch/internal/lp"
	"bess-dispatch/internal/optimizer"
)

// OptimizeHandler runs the day-by-day optimization on request.
type OptimizeHandler struct {
	cfg *config.Config
	log zerolog.Logger
}

func NewOptimizeHandler(cfg *config.Config, log zerolog.Logger) *OptimizeHandler {
	return &OptimizeHandler{cfg: cfg, log: log}
}

// Optimize handles POST /api/v1/optimize.
func (h *OptimizeHandler) Optimize(c *gin.Context) {
	var req models.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if len(req.Months) == 0 {
		apiError(c, http.StatusBadRequest, "INVALID_REQUEST", "months is required")
		return
	}
	for _, m := range req.Months {
		if m < 1 || m > 12 {
			apiError(c, http.StatusBadRequest, "INVALID_REQUEST", "months must be within 1..12")
			return
		}
	}

	params := h.cfg.BatteryParams()
	if req.Battery.MaxChargeMWh != 0 {
		params.MaxCharge = req.Battery.MaxChargeMWh
	}
	if req.Battery.QMaxDMW != 0 {
		params.QMaxD = req.Battery.QMaxDMW
	}
	if req.Battery.QMaxRMW != 0 {
		params.QMaxR = req.Battery.QMaxRMW
	}
	if req.Battery.LambdaC != 0 {
		params.LambdaC = req.Battery.LambdaC
	}
	if req.Battery.LambdaReg != 0 {
		params.LambdaReg = req.Battery.LambdaReg
	}
	if err := params.Validate(); err != nil {
		apiError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	initialSOC := h.cfg.InitialSOC()
	if req.InitialSOC != nil {
		initialSOC = *req.InitialSOC
	}

	form, err := h.cfg.Formulation()
	if err != nil {
		apiError(c, http.StatusInternalServerError, "CONFIG_ERROR", err.Error())
		return
	}
	budget, err := h.cfg.SolveBudget()
	if err != nil {
		apiError(c, http.StatusInternalServerError, "CONFIG_ERROR", err.Error())
		return
	}

	source := data.NewPricesCSV(h.cfg.Data.InputDir)
	source.EnergyFile = h.cfg.Data.EnergyFile
	source.RegulationFile = h.cfg.Data.RegulationFile

	sched := dispatch.NewScheduler(params, form, lp.Simplex{Tol: h.cfg.Optimizer.Tolerance, Budget: budget}, source, h.log)
	sched.CycleFactor = h.cfg.Optimizer.CycleFactor

	res, err := sched.Run(c.Request.Context(), req.Months, initialSOC)
	if err != nil {
		h.log.Error().Err(err).Ints("months", req.Months).Msg("optimization run failed")

		var seqErr *dispatch.SequenceError
		var infErr *optimizer.InfeasibleError
		var solErr *optimizer.SolverError
		switch {
		case errors.As(err, &seqErr):
			apiError(c, http.StatusBadRequest, "SEQUENCE_ERROR", seqErr.Error())
		case errors.As(err, &infErr):
			apiError(c, http.StatusUnprocessableEntity, "INFEASIBLE", infErr.Error())
		case errors.As(err, &solErr):
			apiError(c, http.StatusInternalServerError, "SOLVER_ERROR", solErr.Error())
		default:
			apiError(c, http.StatusInternalServerError, "RUN_FAILED", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, buildOptimizeResponse(req, res))
}

func buildOptimizeResponse(req models.OptimizeRequest, res *dispatch.RunResult) models.OptimizeResponse {
	resp := models.OptimizeResponse{
		Status: "completed",
		Summary: models.RunSummary{
			Months:        req.Months,
			DaysOptimized: len(res.Days),
			TotalRevenue:  res.TotalRevenue,
			FinalSOC:      res.FinalSOC,
		},
	}
	for _, mc := range res.MonthlyCycles {
		resp.Summary.MonthlyCycles = append(resp.Summary.MonthlyCycles, models.MonthCycles{Month: mc.Month, Cycles: mc.Cycles})
	}
	for i, d := range res.Days {
		resp.Days = append(resp.Days, models.DayResult{
			Month:     d.Month,
			Day:       d.Day,
			Revenue:   d.Revenue,
			Cycles:    res.DailyCycles[i].Cycles,
			EndingSOC: d.EndingSOC(),
		})
	}
	if req.IncludeSchedule {
		for _, d := range res.Days {
			for _, h := range d.Hours {
				resp.Schedule = append(resp.Schedule, models.HourRow{
					Month:           d.Month,
					Day:             d.Day,
					Hour:            h.Hour,
					Charge:          h.Charge,
					Discharge:       h.Discharge,
					RegUpDeployed:   h.RegUpDeployed,
					RegDownDeployed: h.RegDownDeployed,
					RegUpCapacity:   h.RegUpCapacity,
					RegDownCapacity: h.RegDownCapacity,
					StateOfCharge:   h.StateOfCharge,
				})
			}
		}
	}
	return resp
}

func apiError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
