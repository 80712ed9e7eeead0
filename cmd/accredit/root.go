package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/accredit/internal/config"
	"github.com/okian/accredit/internal/domain/narrative"
	"github.com/okian/accredit/internal/domain/report"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "accredit",
		Short:         "Outcome attainment reports for course offerings",
		Long:          "accredit aggregates exam scores into outcome attainment across course, program, objective, national and sector tiers.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newComputeCmd())
	root.AddCommand(newSampleCmd())
	return root
}

// newEngine builds the report engine from configuration defaults.
func newEngine(cfg *config.Config) *report.Engine {
	return report.New(
		report.WithThresholds(cfg.Thresholds()),
		report.WithGradeBands(cfg.Bands()),
		report.WithFailRatio(cfg.FailRatio),
		report.WithUnspecifiedLabel(cfg.UnspecifiedCognitiveLabel),
		report.WithNarrator(narrative.New()),
	)
}
