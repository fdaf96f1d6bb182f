package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Adhilz/Interview-Sim-AI-sub000/internal/db"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	universityName        string
	universityDatabaseURL string

	grantEmail        string
	grantUniversityID string
	grantDatabaseURL  string
)

var createUniversityCmd = &cobra.Command{
	Use:   "create-university",
	Short: "Create a university tenant and print its ID",
	RunE:  runCreateUniversity,
}

var grantAdminCmd = &cobra.Command{
	Use:   "grant-admin",
	Short: "Make an existing user an administrator of a university",
	Long: `Grants the admin role to the profile registered under --email, scoped to
--university. The user must sign up first; the grant takes effect on their next request.`,
	RunE: runGrantAdmin,
}

func init() {
	createUniversityCmd.Flags().StringVar(&universityName, "name", "", "University name (required)")
	createUniversityCmd.Flags().StringVar(&universityDatabaseURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")
	if err := createUniversityCmd.MarkFlagRequired("name"); err != nil {
		panic(fmt.Sprintf("failed to mark name flag as required: %v", err))
	}

	grantAdminCmd.Flags().StringVar(&grantEmail, "email", "", "Email of the user to promote (required)")
	grantAdminCmd.Flags().StringVar(&grantUniversityID, "university", "", "University ID (required)")
	grantAdminCmd.Flags().StringVar(&grantDatabaseURL, "db-url", "", "Database URL (defaults to DATABASE_URL)")
	if err := grantAdminCmd.MarkFlagRequired("email"); err != nil {
		panic(fmt.Sprintf("failed to mark email flag as required: %v", err))
	}
	if err := grantAdminCmd.MarkFlagRequired("university"); err != nil {
		panic(fmt.Sprintf("failed to mark university flag as required: %v", err))
	}

	rootCmd.AddCommand(createUniversityCmd)
	rootCmd.AddCommand(grantAdminCmd)
}

func runCreateUniversity(cmd *cobra.Command, _ []string) error {
	name := strings.TrimSpace(universityName)
	if name == "" || len(name) > 200 {
		return fmt.Errorf("name must be between 1 and 200 characters")
	}
	url, err := databaseURL(universityDatabaseURL)
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	uni, err := database.CreateUniversity(ctx, name)
	if err != nil {
		return err
	}
	log.Info().Str("university_id", uni.ID.String()).Str("name", uni.Name).Msg("university created")
	fmt.Fprintln(cmd.OutOrStdout(), uni.ID)
	return nil
}

func runGrantAdmin(cmd *cobra.Command, _ []string) error {
	email := strings.TrimSpace(grantEmail)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	universityID, err := uuid.Parse(grantUniversityID)
	if err != nil {
		return fmt.Errorf("invalid university: %w", err)
	}
	url, err := databaseURL(grantDatabaseURL)
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	profile, err := database.GetProfileByEmail(ctx, email)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("no user registered with email %s", email)
	}
	if err := database.GrantAdmin(ctx, profile.ID, universityID); err != nil {
		return err
	}

	log.Info().Str("user_id", profile.ID.String()).Str("university_id", universityID.String()).Msg("admin granted")
	fmt.Fprintf(cmd.OutOrStdout(), "Granted admin on %s to %s\n", universityID, profile.Email)
	return nil
}
