package main

import (
	"context"
	"fmt"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/resume"
	"github.com/spf13/cobra"
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume <file>",
	Short: "Extract a resume and structure it into highlights",
	Args:  cobra.ExactArgs(1),
	RunE:  runParseResume,
}

func init() {
	rootCmd.AddCommand(parseResumeCmd)
}

func runParseResume(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client, err := newLLMClient()
	if err != nil {
		return err
	}

	extracted, err := extractFile(ctx, args[0], "")
	if err != nil {
		return err
	}

	highlights, err := resume.NewStructurer(client, nil).Structure(ctx, extracted.Text)
	if err != nil {
		return fmt.Errorf("failed to structure resume: %w", err)
	}
	return printJSON(cmd, highlights)
}
