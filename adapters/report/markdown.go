// Package report renders a diversity report as markdown or HTML for the
// textual/plotting collaborators.
package report

import (
	"fmt"
	"strings"

	"godiv/app"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/montanaflynn/stats"
)

// SampleSummary condenses a posterior sample collection for display.
type SampleSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Q05    float64 `json:"q05"`
	Median float64 `json:"median"`
	Q95    float64 `json:"q95"`
}

// Summarize computes display moments and a 90% interval of a posterior
// sample collection.
func Summarize(samples []float64) (SampleSummary, error) {
	if len(samples) == 0 {
		return SampleSummary{}, fmt.Errorf("no samples to summarize")
	}
	mean, err := stats.Mean(samples)
	if err != nil {
		return SampleSummary{}, err
	}
	sd, _ := stats.StandardDeviation(samples)
	q05, _ := stats.Percentile(samples, 5)
	median, _ := stats.Median(samples)
	q95, _ := stats.Percentile(samples, 95)
	return SampleSummary{Mean: mean, StdDev: sd, Q05: q05, Median: median, Q95: q95}, nil
}

// RenderMarkdown writes the report as a markdown document.
func RenderMarkdown(r *app.Report) string {
	var b strings.Builder

	title := r.Label
	if title == "" {
		title = r.ID.String()
	}
	fmt.Fprintf(&b, "# Diversity report: %s\n\n", title)

	fmt.Fprintf(&b, "## Sample\n\n")
	fmt.Fprintf(&b, "| Quantity | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Abundance (n) | %d |\n", r.Abundance)
	fmt.Fprintf(&b, "| Richness (K) | %d |\n", r.Richness)
	fmt.Fprintf(&b, "| Turing-Good coverage | %.4f |\n", r.Coverage)
	fmt.Fprintf(&b, "| Gini-Simpson | %.4f |\n\n", r.GiniSimpson)

	fmt.Fprintf(&b, "## Species-sampling model (%s)\n\n", r.SSM.Variant)
	fmt.Fprintf(&b, "| Quantity | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| alpha | %.4f |\n", r.SSM.Alpha)
	fmt.Fprintf(&b, "| sigma | %.4f |\n", r.SSM.Sigma)
	fmt.Fprintf(&b, "| log-likelihood | %.4f |\n", r.SSM.LogLik)
	fmt.Fprintf(&b, "| posterior coverage | %.4f |\n", r.SSM.CoverageMean)
	fmt.Fprintf(&b, "| posterior Gini-Simpson | %.4f |\n\n", r.SSM.GiniMean)

	fmt.Fprintf(&b, "## Sequential discovery model (%s)\n\n", r.SDM.Variant)
	fmt.Fprintf(&b, "| Quantity | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| theta | %s |\n", formatTheta(r.SDM.Theta))
	fmt.Fprintf(&b, "| log-likelihood | %.4f |\n", r.SDM.LogLik)
	fmt.Fprintf(&b, "| asymptotic richness | %.2f (sd %.2f) |\n", r.SDM.AsymptoteMean, r.SDM.AsymptoteSD)
	fmt.Fprintf(&b, "| saturation | %.4f |\n\n", r.SDM.Saturation)

	if n := r.Rarefaction.Len(); n > 0 {
		fmt.Fprintf(&b, "Rarefaction reaches %.2f species at depth %d; ", r.Rarefaction.Final(), n)
	}
	if m := r.SDMExtrapolation.Len(); m > 0 {
		fmt.Fprintf(&b, "%d further observations are expected to reveal %.2f species in total.\n",
			m, r.SDMExtrapolation.Final())
	}
	return b.String()
}

// RenderHTML renders the markdown report to an HTML fragment.
func RenderHTML(r *app.Report) []byte {
	md := []byte(RenderMarkdown(r))
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(p.Parse(md), renderer)
}

func formatTheta(theta []float64) string {
	parts := make([]string, len(theta))
	for i, v := range theta {
		parts[i] = fmt.Sprintf("%.4f", v)
	}
	return strings.Join(parts, ", ")
}
