package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/accredit/internal/domain/sample"
)

func newSampleCmd() *cobra.Command {
	var (
		seed uint64
		out  string
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write the demo payload",
		Long:  "Writes a deterministic demo payload: one course, 3 course outcomes, 3 program outcomes, 2 objectives, 5 questions and 30 students.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOutput(cmd, out, sample.Build(seed))
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", sample.DefaultSeed, "random seed for the scores")
	cmd.Flags().StringVar(&out, "out", "-", "payload file (- for stdout)")
	return cmd
}
