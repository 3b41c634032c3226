package report

import (
	"context"
	"strings"
	"testing"

	"godiv/app"
	"godiv/internal/testkit"
	"godiv/stats/sdm"
	"godiv/stats/ssm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleReport(t *testing.T) *app.Report {
	t.Helper()
	svc := app.NewDiversityService(nil)
	r, err := svc.Analyze(context.Background(), app.AnalyzeRequest{
		Counts:     testkit.ExampleAbundance(),
		SSMVariant: ssm.PitmanYor,
		SDMVariant: sdm.LL3,
		Label:      "forest plot",
	})
	require.NoError(t, err)
	return r
}

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	require.NoError(t, err)
	assert.InDelta(t, 5.5, s.Mean, 1e-9)
	assert.InDelta(t, 5.5, s.Median, 1e-9)
	assert.Greater(t, s.StdDev, 0.0)
	assert.Less(t, s.Q05, s.Median)
	assert.Greater(t, s.Q95, s.Median)
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize(nil)
	require.Error(t, err)
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(exampleReport(t))

	assert.True(t, strings.HasPrefix(md, "# Diversity report: forest plot"))
	assert.Contains(t, md, "| Abundance (n) | 243 |")
	assert.Contains(t, md, "| Richness (K) | 34 |")
	assert.Contains(t, md, "## Species-sampling model (PY)")
	assert.Contains(t, md, "## Sequential discovery model (LL3)")
	assert.Contains(t, md, "saturation")
}

func TestRenderMarkdown_FallsBackToID(t *testing.T) {
	r := exampleReport(t)
	r.Label = ""
	md := RenderMarkdown(r)
	assert.Contains(t, md, r.ID.String())
}

func TestRenderHTML(t *testing.T) {
	out := string(RenderHTML(exampleReport(t)))

	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "forest plot")
}
