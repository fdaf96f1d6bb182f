package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"slices"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/interviews"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/questions"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/types"
	"github.com/spf13/cobra"
)

var (
	planSeed     int64
	planMode     string
	planDuration int
	planName     string
)

var questionPlanCmd = &cobra.Command{
	Use:   "question-plan [highlights.json]",
	Short: "Print the voice agent configuration for an interview",
	Long:  "Builds the system prompt, first message and question strategy the voice agent would receive. Without a highlights file only the static question banks are used.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runQuestionPlan,
}

func init() {
	questionPlanCmd.Flags().Int64Var(&planSeed, "seed", 0, "Random seed for question order (0 seeds from the clock)")
	questionPlanCmd.Flags().StringVar(&planMode, "mode", types.ModeResumeJD, "Interview mode (resume_jd, technical, hr)")
	questionPlanCmd.Flags().IntVar(&planDuration, "duration", 15, "Interview length in minutes (5, 10, 15, 30)")
	questionPlanCmd.Flags().StringVar(&planName, "name", "", "Candidate name (defaults to the name in the highlights)")
	rootCmd.AddCommand(questionPlanCmd)
}

func runQuestionPlan(cmd *cobra.Command, args []string) error {
	if !slices.Contains(interviews.Modes, planMode) {
		return fmt.Errorf("invalid mode %q", planMode)
	}
	if !slices.Contains(interviews.Durations, planDuration) {
		return fmt.Errorf("duration must be one of %v, got %d", interviews.Durations, planDuration)
	}

	var highlights *types.ResumeHighlights
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read highlights: %w", err)
		}
		highlights = &types.ResumeHighlights{}
		if err := json.Unmarshal(data, highlights); err != nil {
			return fmt.Errorf("failed to parse highlights: %w", err)
		}
		highlights.Normalize()
	}

	var src rand.Source
	if planSeed != 0 {
		src = rand.NewSource(planSeed)
	}
	agent, err := questions.NewBuilder(src).SystemPrompt(questions.PromptInput{
		Mode:          planMode,
		Duration:      planDuration,
		CandidateName: planName,
		Highlights:    highlights,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd, agent)
}
