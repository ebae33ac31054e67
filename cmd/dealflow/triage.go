package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/core/triage"
	"github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/platform/config"
	dealsmod "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/deals/module"
)

// loadConfig reads --thesis when given, otherwise the DEALS_* environment
func loadConfig(cmd *cobra.Command) (triage.Config, error) {
	if path, _ := cmd.Flags().GetString("thesis"); path != "" {
		return triage.LoadConfigFile(path)
	}
	return dealsmod.FromConfig(config.New()).TriageConfig()
}

// readObject decodes a JSON object keeping numbers as json.Number
func readObject(path string) (map[string]any, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(b)
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%s: expected a JSON object", path)
	}
	return obj, nil
}

func readSubmission(path string, cfg triage.Config) (triage.Submission, error) {
	raw, err := readObject(path)
	if err != nil {
		return triage.Submission{}, err
	}
	return triage.ParseSubmission(raw, cfg.Scores)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <submission.json|->",
		Short: "Print the canonical form and source hash of a submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			sub, err := readSubmission(args[0], cfg)
			if err != nil {
				return err
			}
			c := triage.Canonicalize(sub)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "canonical:   %s\n", strconv.Quote(string(c.Form)))
			fmt.Fprintf(out, "source_hash: %s\n", c.Hash)
			fmt.Fprintf(out, "website_key: %s\n", c.WebsiteKey)
			return nil
		},
	}
}

func newAssessCmd() *cobra.Command {
	var subPath, memoPath string
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Run memo validation, score reconciliation and classification offline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			sub, err := readSubmission(subPath, cfg)
			if err != nil {
				return err
			}
			memo, err := os.ReadFile(memoPath)
			if err != nil {
				return err
			}
			a, err := triage.AssessRaw(sub, triage.Canonicalize(sub), memo, cfg)
			var mse *triage.MemoSchemaError
			if errors.As(err, &mse) {
				_ = printJSON(cmd.OutOrStdout(), map[string]any{"outcome": "schema_error", "violations": mse.Violations})
				return err
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), a)
		},
	}
	cmd.Flags().StringVar(&subPath, "submission", "", "submission JSON file")
	cmd.Flags().StringVar(&memoPath, "memo", "", "analysis memo JSON file")
	_ = cmd.MarkFlagRequired("submission")
	_ = cmd.MarkFlagRequired("memo")
	return cmd
}

func newClassifyCmd() *cobra.Command {
	var sector, stage string
	var score int
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a sector, stage and score against the thesis",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cfg.Scores.Contains(score) {
				return fmt.Errorf("score %d outside %d..%d", score, cfg.Scores.Min, cfg.Scores.Max)
			}
			d := triage.Classify(sector, stage, score, cfg.Thesis)
			fmt.Fprintln(cmd.OutOrStdout(), d)
			return nil
		},
	}
	cmd.Flags().StringVar(&sector, "sector", "", "deal sector")
	cmd.Flags().StringVar(&stage, "stage", "", "deal stage")
	cmd.Flags().IntVar(&score, "score", 0, "fit score")
	_ = cmd.MarkFlagRequired("sector")
	_ = cmd.MarkFlagRequired("stage")
	_ = cmd.MarkFlagRequired("score")
	return cmd
}

func newThesisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "thesis",
		Short: "Print the effective triage configuration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			b, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}
