package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/ats"
	"github.com/spf13/cobra"
)

var scoreRole string

var scoreATSCmd = &cobra.Command{
	Use:   "score-ats <file>",
	Short: "Score a resume against a target job role",
	Args:  cobra.ExactArgs(1),
	RunE:  runScoreATS,
}

func init() {
	scoreATSCmd.Flags().StringVar(&scoreRole, "role", "", "Target job role (required)")
	if err := scoreATSCmd.MarkFlagRequired("role"); err != nil {
		panic(fmt.Sprintf("failed to mark role flag as required: %v", err))
	}
	rootCmd.AddCommand(scoreATSCmd)
}

func runScoreATS(cmd *cobra.Command, args []string) error {
	role := strings.TrimSpace(scoreRole)
	if role == "" || len(role) > 200 {
		return fmt.Errorf("role must be between 1 and 200 characters")
	}

	ctx := context.Background()
	client, err := newLLMClient()
	if err != nil {
		return err
	}

	extracted, err := extractFile(ctx, args[0], "")
	if err != nil {
		return err
	}

	result, err := ats.NewScorer(client, nil).Analyze(ctx, extracted.Text, role)
	if err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}
	return printJSON(cmd, result)
}
