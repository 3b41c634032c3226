package app

import (
	"context"
	"testing"

	"godiv/domain/core"
	"godiv/internal/testkit"
	"godiv/stats/sdm"
	"godiv/stats/ssm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_FullReport(t *testing.T) {
	svc := NewDiversityService(nil)
	report, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Counts:     testkit.ExampleAbundance(),
		SSMVariant: ssm.PitmanYor,
		SDMVariant: sdm.LL3,
		Label:      "example",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID.String())
	assert.Equal(t, 243, report.Abundance)
	assert.Equal(t, 34, report.Richness)
	assert.Greater(t, report.Coverage, 0.0)
	assert.LessOrEqual(t, report.Coverage, 1.0)

	assert.Equal(t, report.Abundance, report.Rarefaction.Len())
	assert.InDelta(t, float64(report.Richness), report.Rarefaction.Final(), 1e-9)
	assert.True(t, report.Rarefaction.NonDecreasing())

	// Default horizon is the sample size for both extrapolations.
	assert.Equal(t, report.Abundance, report.SSMExtrapolation.Len())
	assert.Equal(t, report.Abundance, report.SDMExtrapolation.Len())
	assert.True(t, report.SSMExtrapolation.NonDecreasing())
	assert.True(t, report.SDMExtrapolation.NonDecreasing())

	// Discovery-model asymptote dominates the observed richness and bounds
	// its extrapolation.
	assert.GreaterOrEqual(t, report.SDM.AsymptoteMean, float64(report.Richness))
	assert.LessOrEqual(t, report.SDMExtrapolation.Final(), report.SDM.AsymptoteMean+1e-6)
	assert.Greater(t, report.SDM.Saturation, 0.0)
	assert.LessOrEqual(t, report.SDM.Saturation, 1.0)
}

func TestAnalyze_InvalidCounts(t *testing.T) {
	svc := NewDiversityService(nil)
	_, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Counts:     []int{0, -1},
		SSMVariant: ssm.Dirichlet,
		SDMVariant: sdm.LL3,
	})
	if !core.IsInvalidInput(err) {
		t.Fatalf("expected invalid-input error, got %v", err)
	}
}

func TestBatchFit_PreservesOrder(t *testing.T) {
	svc := NewDiversityService(nil)
	reqs := []AnalyzeRequest{
		{Counts: []int{10, 1, 1, 1, 1}, SSMVariant: ssm.Dirichlet, SDMVariant: sdm.LL3, Label: "a"},
		{Counts: []int{5, 4, 3, 2, 1, 1}, SSMVariant: ssm.PitmanYor, SDMVariant: sdm.LL3, Label: "b"},
		{Counts: []int{7, 7, 2, 1}, SSMVariant: ssm.Dirichlet, SDMVariant: sdm.Weibull, Label: "c"},
	}
	reports, err := svc.BatchFit(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, reports, len(reqs))

	for i, r := range reports {
		assert.Equal(t, reqs[i].Label, r.Label)
		n := 0
		for _, c := range reqs[i].Counts {
			n += c
		}
		assert.Equal(t, n, r.Abundance)
	}
}

func TestBatchFit_FailureAbortsBatch(t *testing.T) {
	svc := NewDiversityService(nil)
	reqs := []AnalyzeRequest{
		{Counts: []int{5, 3, 1}, SSMVariant: ssm.Dirichlet, SDMVariant: sdm.LL3},
		{Counts: []int{0}, SSMVariant: ssm.Dirichlet, SDMVariant: sdm.LL3},
	}
	_, err := svc.BatchFit(context.Background(), reqs)
	require.Error(t, err)
}
