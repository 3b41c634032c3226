package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"godiv/adapters/excel"
	"godiv/adapters/report"
	"godiv/app"
	"godiv/domain/abundance"
	"godiv/internal/testkit"
	"godiv/stats/rarefaction"
	"godiv/stats/sdm"
	"godiv/stats/ssm"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	rootCmd := &cobra.Command{
		Use:   "godiv",
		Short: "Species-diversity estimation: rarefaction, extrapolation, saturation",
	}

	rootCmd.AddCommand(
		newRarefyCmd(logger),
		newFitSSMCmd(logger),
		newFitSDMCmd(logger),
		newAnalyzeCmd(logger),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadCounts resolves the abundance input: an inline comma list, a file
// (xlsx/csv) plus sample label, or the bundled example dataset.
func loadCounts(ctx context.Context, inline, file, sample string) ([]int, error) {
	switch {
	case inline != "":
		parts := strings.Split(inline, ",")
		counts := make([]int, 0, len(parts))
		for _, p := range parts {
			c, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("count %q is not an integer", p)
			}
			counts = append(counts, c)
		}
		return counts, nil
	case file != "":
		samples, err := excel.NewDataReader(file).ReadAbundance(ctx)
		if err != nil {
			return nil, err
		}
		if sample == "" {
			for label, counts := range samples {
				slog.Info("using first sample column", "label", label)
				return counts, nil
			}
		}
		counts, ok := samples[sample]
		if !ok {
			return nil, fmt.Errorf("sample %q not found in %s", sample, file)
		}
		return counts, nil
	default:
		slog.Info("no input given, using bundled example dataset")
		return testkit.ExampleAbundance(), nil
	}
}

func addInputFlags(cmd *cobra.Command, inline, file, sample *string) {
	cmd.Flags().StringVar(inline, "counts", "", "comma-separated abundance counts")
	cmd.Flags().StringVar(file, "file", "", "xlsx/csv abundance file (one sample per column)")
	cmd.Flags().StringVar(sample, "sample", "", "sample column label within --file")
}

func newRarefyCmd(logger *slog.Logger) *cobra.Command {
	var inline, file, sample string

	cmd := &cobra.Command{
		Use:   "rarefy",
		Short: "Exact model-free rarefaction curve plus coverage and Gini-Simpson",
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := loadCounts(cmd.Context(), inline, file, sample)
			if err != nil {
				return err
			}
			vec, err := abundance.New(counts)
			if err != nil {
				return err
			}
			logger.Info("computing exact rarefaction", "abundance", vec.Abundance(), "richness", vec.Richness())
			rc, err := rarefaction.Compute(cmd.Context(), vec, rarefaction.Options{})
			if err != nil {
				return err
			}
			return printJSON(map[string]any{
				"abundance":   vec.Abundance(),
				"richness":    vec.Richness(),
				"coverage":    vec.Coverage(),
				"gini":        vec.GiniSimpson(),
				"rarefaction": rc,
			})
		},
	}
	addInputFlags(cmd, &inline, &file, &sample)
	return cmd
}

func newFitSSMCmd(logger *slog.Logger) *cobra.Command {
	var inline, file, sample, variant string
	var samples int
	var seed uint64

	cmd := &cobra.Command{
		Use:   "fit-ssm",
		Short: "Fit a species-sampling model (DP or PY) by maximum likelihood",
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := loadCounts(cmd.Context(), inline, file, sample)
			if err != nil {
				return err
			}
			v, err := ssm.ParseVariant(variant)
			if err != nil {
				return err
			}
			model, err := app.NewDiversityService(logger).FitSSM(counts, v)
			if err != nil {
				return err
			}

			out := map[string]any{
				"variant":       model.Variant(),
				"alpha":         model.Alpha(),
				"sigma":         model.Sigma(),
				"log_lik":       model.LogLik(),
				"coverage_mean": model.CoverageMean(),
				"gini_mean":     model.GiniMean(),
			}
			if samples > 0 {
				src := rand.NewPCG(seed, seed)
				draws, err := model.CoverageSamples(cmd.Context(), samples, src, nil)
				if err != nil {
					return err
				}
				cov, err := report.Summarize(draws)
				if err != nil {
					return err
				}
				out["coverage_posterior"] = cov
			}
			return printJSON(out)
		},
	}
	addInputFlags(cmd, &inline, &file, &sample)
	cmd.Flags().StringVar(&variant, "variant", string(ssm.PitmanYor), "model variant: DP or PY")
	cmd.Flags().IntVar(&samples, "samples", 0, "posterior draws to summarize")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "random seed for posterior sampling")
	return cmd
}

func newFitSDMCmd(logger *slog.Logger) *cobra.Command {
	var inline, file, sample, variant string
	var samples int
	var seed uint64
	var target float64

	cmd := &cobra.Command{
		Use:   "fit-sdm",
		Short: "Fit a sequential discovery model (LL3 or Weibull)",
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := loadCounts(cmd.Context(), inline, file, sample)
			if err != nil {
				return err
			}
			v, err := sdm.ParseVariant(variant)
			if err != nil {
				return err
			}
			model, err := app.NewDiversityService(logger).FitSDM(cmd.Context(), counts, v)
			if err != nil {
				return err
			}

			out := map[string]any{
				"variant":        model.Variant(),
				"theta":          model.Theta(),
				"log_lik":        model.LogLik(),
				"asymptote_mean": model.AsymptoteMean(),
				"asymptote_sd":   model.AsymptoteSD(),
				"saturation":     model.Saturation(),
			}
			if samples > 0 {
				draws, err := model.AsymptoteSamples(cmd.Context(), samples, rand.NewPCG(seed, seed), nil)
				if err != nil {
					return err
				}
				summary, err := report.Summarize(draws)
				if err != nil {
					return err
				}
				out["asymptote_posterior"] = summary
			}
			if target > 0 {
				extra, err := model.SampleToSaturation(target)
				if err != nil {
					return err
				}
				out["samples_to_target"] = extra
			}
			return printJSON(out)
		},
	}
	addInputFlags(cmd, &inline, &file, &sample)
	cmd.Flags().StringVar(&variant, "variant", string(sdm.LL3), "model variant: LL3 or Weibull")
	cmd.Flags().IntVar(&samples, "samples", 0, "Monte Carlo draws of the asymptotic richness")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "random seed for Monte Carlo sampling")
	cmd.Flags().Float64Var(&target, "target-saturation", 0, "solve for samples needed to reach this saturation level")
	return cmd
}

func newAnalyzeCmd(logger *slog.Logger) *cobra.Command {
	var inline, file, sample string
	var horizon int
	var markdown bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Full report: rarefaction, both model fits, extrapolation, saturation",
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := loadCounts(cmd.Context(), inline, file, sample)
			if err != nil {
				return err
			}
			rep, err := app.NewDiversityService(logger).Analyze(cmd.Context(), app.AnalyzeRequest{
				Counts:     counts,
				SSMVariant: ssm.PitmanYor,
				SDMVariant: sdm.LL3,
				Horizon:    horizon,
				Label:      sample,
			})
			if err != nil {
				return err
			}
			if markdown {
				fmt.Println(report.RenderMarkdown(rep))
				return nil
			}
			return printJSON(rep)
		},
	}
	addInputFlags(cmd, &inline, &file, &sample)
	cmd.Flags().IntVar(&horizon, "horizon", 0, "extrapolation depth (default: sample size)")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render the report as markdown instead of JSON")
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
