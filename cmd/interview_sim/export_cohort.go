package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/admin"
	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/db"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	exportUniversityID string
	exportOut          string
	exportDatabaseURL  string
)

var exportCohortCmd = &cobra.Command{
	Use:   "export-cohort",
	Short: "Write a university's cohort report to an XLSX workbook",
	RunE:  runExportCohort,
}

func init() {
	exportCohortCmd.Flags().StringVar(&exportUniversityID, "university", "", "University ID (required)")
	exportCohortCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output .xlsx path (required)")
	exportCohortCmd.Flags().StringVar(&exportDatabaseURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")

	if err := exportCohortCmd.MarkFlagRequired("university"); err != nil {
		panic(fmt.Sprintf("failed to mark university flag as required: %v", err))
	}
	if err := exportCohortCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(exportCohortCmd)
}

func runExportCohort(cmd *cobra.Command, _ []string) error {
	universityID, err := uuid.Parse(exportUniversityID)
	if err != nil {
		return fmt.Errorf("invalid university: %w", err)
	}
	url, err := databaseURL(exportDatabaseURL)
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	report, err := admin.NewService(database).BuildReport(ctx, universityID)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	data, err := admin.WriteWorkbook(report)
	if err != nil {
		return err
	}
	if err := os.WriteFile(exportOut, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}

	log.Info().Int("students", len(report.Students)).Str("path", exportOut).Msg("cohort exported")
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", exportOut)
	return nil
}
