package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/accredit/internal/adapters/payload"
	"github.com/okian/accredit/internal/config"
)

func newComputeCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute a report from a payload file",
		Long:  "Reads a payload (JSON), validates it and writes the computed result as JSON. Use - for stdin/stdout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			parser, err := payload.NewParser(payload.WithMaxBytes(cfg.MaxPayloadBytes))
			if err != nil {
				return fmt.Errorf("init payload parser: %w", err)
			}

			r, closeIn, err := openInput(cmd, in)
			if err != nil {
				return err
			}
			defer closeIn()

			p, err := parser.Decode(r)
			if err != nil {
				return fmt.Errorf("read payload: %w", err)
			}
			res := newEngine(cfg).Compute(p)
			return writeOutput(cmd, out, res)
		},
	}
	cmd.Flags().StringVar(&in, "in", "-", "payload file (- for stdin)")
	cmd.Flags().StringVar(&out, "out", "-", "result file (- for stdout)")
	return cmd
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// writeOutput encodes v as indented JSON to path or the command's stdout.
func writeOutput(cmd *cobra.Command, path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	raw = append(raw, '\n')
	if path == "" || path == "-" {
		_, err = cmd.OutOrStdout().Write(raw)
		return err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
