package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"bess-dispatch/internal/analysis"
	"bess-dispatch/internal/api/models"
	"bess-dispatch/internal/config"
	"bess-dispatch/internal/data"
)

// RankHandler serves the month arbitrage-potential ranking.
type RankHandler struct {
	cfg *config.Config
	log zerolog.Logger
}

func NewRankHandler(cfg *config.Config, log zerolog.Logger) *RankHandler {
	return &RankHandler{cfg: cfg, log: log}
}

// Rank handles GET /api/v1/rank.
func (h *RankHandler) Rank(c *gin.Context) {
	months := h.cfg.Data.Months
	if q := c.Query("months"); q != "" {
		parsed, err := parseMonths(q)
		if err != nil {
			apiError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
		months = parsed
	}

	source := data.NewPricesCSV(h.cfg.Data.InputDir)
	source.EnergyFile = h.cfg.Data.EnergyFile
	source.RegulationFile = h.cfg.Data.RegulationFile

	potentials := make([]analysis.MonthPotential, 0, len(months))
	for _, m := range months {
		md, err := source.Load(c.Request.Context(), m)
		if err != nil {
			h.log.Error().Err(err).Int("month", m).Msg("rank: load prices failed")
			apiError(c, http.StatusInternalServerError, "DATA_ERROR", err.Error())
			return
		}
		potentials = append(potentials, analysis.ComputePotential(md))
	}

	var resp models.RankResponse
	for _, p := range analysis.RankBySpreadProfit(potentials) {
		resp.Months = append(resp.Months, models.MonthRank{
			Month:             p.Month,
			Days:              p.Days,
			MinPrice:          p.MinPrice,
			MaxPrice:          p.MaxPrice,
			MeanPrice:         p.MeanPrice,
			SpreadP95P05:      p.SpreadP95P05,
			IdealSpreadProfit: p.IdealSpreadProfit,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func parseMonths(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		m, err := strconv.Atoi(p)
		if err != nil || m < 1 || m > 12 {
			return nil, fmt.Errorf("invalid month %q", p)
		}
		out = append(out, m)
	}
	return out, nil
}
