package api

import (
	"context"
	"math/rand/v2"
	"net/http"
	"strconv"

	"godiv/app"
	"godiv/domain/abundance"
	"godiv/domain/core"
	"godiv/stats/rarefaction"
	"godiv/stats/sdm"
	"godiv/stats/ssm"

	"github.com/gin-gonic/gin"
)

type countsRequest struct {
	Counts []int `json:"counts" binding:"required"`
}

type fitRequest struct {
	Counts  []int  `json:"counts" binding:"required"`
	Variant string `json:"variant"`
	Samples int    `json:"samples"` // posterior draws to include; 0 skips
	Seed    uint64 `json:"seed"`
}

type analyzeRequest struct {
	Counts     []int  `json:"counts" binding:"required"`
	SSMVariant string `json:"ssm_variant"`
	SDMVariant string `json:"sdm_variant"`
	Horizon    int    `json:"horizon"`
	Label      string `json:"label"`
}

func (s *Server) handleRarefy(c *gin.Context) {
	var req countsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vec, err := abundance.New(req.Counts)
	if err != nil {
		writeError(c, err)
		return
	}
	rc, err := rarefaction.Compute(c.Request.Context(), vec, rarefaction.Options{})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"abundance":   vec.Abundance(),
		"richness":    vec.Richness(),
		"coverage":    vec.Coverage(),
		"gini":        vec.GiniSimpson(),
		"rarefaction": rc,
	})
}

func (s *Server) handleFitSSM(c *gin.Context) {
	var req fitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Variant == "" {
		req.Variant = string(ssm.PitmanYor)
	}
	variant, err := ssm.ParseVariant(req.Variant)
	if err != nil {
		writeError(c, err)
		return
	}

	model, err := s.service.FitSSM(req.Counts, variant)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{
		"variant":       model.Variant(),
		"alpha":         model.Alpha(),
		"sigma":         model.Sigma(),
		"log_lik":       model.LogLik(),
		"coverage_mean": model.CoverageMean(),
		"gini_mean":     model.GiniMean(),
	}
	if req.Samples > 0 {
		src := seededSource(req.Seed)
		cov, err := model.CoverageSamples(c.Request.Context(), req.Samples, src, nil)
		if err != nil {
			writeError(c, err)
			return
		}
		gini, err := model.GiniSamples(c.Request.Context(), req.Samples, src, nil)
		if err != nil {
			writeError(c, err)
			return
		}
		resp["coverage_samples"] = cov
		resp["gini_samples"] = gini
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleFitSDM(c *gin.Context) {
	var req fitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Variant == "" {
		req.Variant = string(sdm.LL3)
	}
	variant, err := sdm.ParseVariant(req.Variant)
	if err != nil {
		writeError(c, err)
		return
	}

	model, err := s.service.FitSDM(c.Request.Context(), req.Counts, variant)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{
		"variant":        model.Variant(),
		"theta":          model.Theta(),
		"log_lik":        model.LogLik(),
		"asymptote_mean": model.AsymptoteMean(),
		"asymptote_sd":   model.AsymptoteSD(),
		"saturation":     model.Saturation(),
	}
	if req.Samples > 0 {
		samples, err := model.AsymptoteSamples(c.Request.Context(), req.Samples, seededSource(req.Seed), nil)
		if err != nil {
			writeError(c, err)
			return
		}
		resp["asymptote_samples"] = samples
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SSMVariant == "" {
		req.SSMVariant = string(ssm.PitmanYor)
	}
	if req.SDMVariant == "" {
		req.SDMVariant = string(sdm.LL3)
	}
	ssmVariant, err := ssm.ParseVariant(req.SSMVariant)
	if err != nil {
		writeError(c, err)
		return
	}
	sdmVariant, err := sdm.ParseVariant(req.SDMVariant)
	if err != nil {
		writeError(c, err)
		return
	}

	report, err := s.service.Analyze(c.Request.Context(), app.AnalyzeRequest{
		Counts:     req.Counts,
		SSMVariant: ssmVariant,
		SDMVariant: sdmVariant,
		Horizon:    req.Horizon,
		Label:      req.Label,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if s.store != nil {
		if err := s.store.SaveReport(c.Request.Context(), report); err != nil {
			s.log.Error("failed to persist report", "id", report.ID, "error", err)
		}
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleGetReport(c *gin.Context) {
	id, err := core.ParseFitID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	report, err := s.store.GetReport(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleListReports(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 200 {
		limit = 20
	}
	reports, err := s.store.ListReports(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "internal"
	switch {
	case core.IsInvalidInput(err):
		status, code = http.StatusBadRequest, "invalid_input"
	case core.IsUnsupportedModel(err):
		status, code = http.StatusBadRequest, "unsupported_model"
	case core.IsOptimizationFailure(err):
		status, code = http.StatusUnprocessableEntity, "optimization_failure"
	case core.IsUnreachableTarget(err):
		status, code = http.StatusUnprocessableEntity, "unreachable_target"
	case core.IsCancelled(err):
		status, code = http.StatusRequestTimeout, "cancelled"
	case context.Cause(c.Request.Context()) != nil:
		status, code = http.StatusRequestTimeout, "cancelled"
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func seededSource(seed uint64) rand.Source {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}
