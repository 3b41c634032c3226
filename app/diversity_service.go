// Package app orchestrates the inference engines into caller-facing
// workflows: single-sample diversity reports and concurrent batch fitting.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"godiv/domain/abundance"
	"godiv/domain/core"
	"godiv/domain/curve"
	"godiv/stats/rarefaction"
	"godiv/stats/sdm"
	"godiv/stats/ssm"
)

// DiversityService runs the full estimation workflow over one abundance
// vector: exact rarefaction, a species-sampling fit, a discovery-model fit,
// and the derived diversity scalars.
type DiversityService struct {
	log *slog.Logger
}

// NewDiversityService creates a service; a nil logger disables lifecycle
// logging.
func NewDiversityService(log *slog.Logger) *DiversityService {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &DiversityService{log: log}
}

// AnalyzeRequest selects the model variants and the extrapolation horizon
// for one report.
type AnalyzeRequest struct {
	Counts     []int
	SSMVariant ssm.Variant
	SDMVariant sdm.Variant
	Horizon    int // extrapolation depth; 0 defaults to n
	Label      string
}

// SSMSummary are the exported scalars of a fitted species-sampling model.
type SSMSummary struct {
	Variant      ssm.Variant `json:"variant" db:"ssm_variant"`
	Alpha        float64     `json:"alpha" db:"ssm_alpha"`
	Sigma        float64     `json:"sigma" db:"ssm_sigma"`
	LogLik       float64     `json:"log_lik" db:"ssm_log_lik"`
	CoverageMean float64     `json:"coverage_mean" db:"ssm_coverage_mean"`
	GiniMean     float64     `json:"gini_mean" db:"ssm_gini_mean"`
}

// SDMSummary are the exported scalars of a fitted sequential discovery
// model.
type SDMSummary struct {
	Variant       sdm.Variant `json:"variant" db:"sdm_variant"`
	Theta         []float64   `json:"theta" db:"-"`
	LogLik        float64     `json:"log_lik" db:"sdm_log_lik"`
	AsymptoteMean float64     `json:"asymptote_mean" db:"sdm_asymptote_mean"`
	AsymptoteSD   float64     `json:"asymptote_sd" db:"sdm_asymptote_sd"`
	Saturation    float64     `json:"saturation" db:"sdm_saturation"`
}

// Report bundles everything the external collaborators (plotting,
// reporting, persistence) consume for one sample.
type Report struct {
	ID        core.FitID     `json:"id"`
	Label     string         `json:"label,omitempty"`
	CreatedAt core.Timestamp `json:"created_at"`

	Abundance int `json:"abundance"`
	Richness  int `json:"richness"`

	Coverage    float64 `json:"coverage"`
	GiniSimpson float64 `json:"gini_simpson"`

	Rarefaction      curve.Rarefaction   `json:"rarefaction"`
	SSMExtrapolation curve.Extrapolation `json:"ssm_extrapolation"`
	SDMExtrapolation curve.Extrapolation `json:"sdm_extrapolation"`

	SSM SSMSummary `json:"ssm"`
	SDM SDMSummary `json:"sdm"`
}

// Analyze runs the complete workflow. Both fits consume the same immutable
// vector and share no mutable state, so failures are local: an error from
// either engine aborts the report without partial output.
func (s *DiversityService) Analyze(ctx context.Context, req AnalyzeRequest) (*Report, error) {
	vec, err := abundance.New(req.Counts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	s.log.Info("analysis started",
		"label", req.Label,
		"abundance", vec.Abundance(),
		"richness", vec.Richness())

	rc, err := rarefaction.Compute(ctx, vec, rarefaction.Options{})
	if err != nil {
		return nil, err
	}

	ssmModel, err := ssm.Fit(vec, req.SSMVariant, ssm.FitOptions{})
	if err != nil {
		return nil, fmt.Errorf("species-sampling fit: %w", err)
	}
	// The discovery fit consumes the curve computed above rather than
	// deriving its own.
	sdmModel, err := sdm.FitCurve(vec, rc, req.SDMVariant, sdm.FitOptions{})
	if err != nil {
		return nil, fmt.Errorf("discovery fit: %w", err)
	}

	horizon := req.Horizon
	if horizon <= 0 {
		horizon = vec.Abundance()
	}
	ssmExtra, err := ssmModel.Extrapolate(horizon)
	if err != nil {
		return nil, err
	}
	sdmExtra, err := sdmModel.Extrapolate(horizon)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:        core.NewFitID(),
		Label:     req.Label,
		CreatedAt: core.Now(),

		Abundance: vec.Abundance(),
		Richness:  vec.Richness(),

		Coverage:    vec.Coverage(),
		GiniSimpson: vec.GiniSimpson(),

		Rarefaction:      rc,
		SSMExtrapolation: ssmExtra,
		SDMExtrapolation: sdmExtra,

		SSM: SSMSummary{
			Variant:      ssmModel.Variant(),
			Alpha:        ssmModel.Alpha(),
			Sigma:        ssmModel.Sigma(),
			LogLik:       ssmModel.LogLik(),
			CoverageMean: ssmModel.CoverageMean(),
			GiniMean:     ssmModel.GiniMean(),
		},
		SDM: SDMSummary{
			Variant:       sdmModel.Variant(),
			Theta:         sdmModel.Theta(),
			LogLik:        sdmModel.LogLik(),
			AsymptoteMean: sdmModel.AsymptoteMean(),
			AsymptoteSD:   sdmModel.AsymptoteSD(),
			Saturation:    sdmModel.Saturation(),
		},
	}

	s.log.Info("analysis finished",
		"id", report.ID,
		"saturation", report.SDM.Saturation,
		"elapsed", time.Since(start))
	return report, nil
}

// FitSSM is the single-engine path for callers that need posterior queries
// beyond the report scalars.
func (s *DiversityService) FitSSM(counts []int, variant ssm.Variant) (*ssm.Model, error) {
	vec, err := abundance.New(counts)
	if err != nil {
		return nil, err
	}
	return ssm.Fit(vec, variant, ssm.FitOptions{})
}

// FitSDM is the single-engine path for the discovery model.
func (s *DiversityService) FitSDM(ctx context.Context, counts []int, variant sdm.Variant) (*sdm.Model, error) {
	vec, err := abundance.New(counts)
	if err != nil {
		return nil, err
	}
	return sdm.Fit(ctx, vec, variant, sdm.FitOptions{})
}
