package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/internhub/internal/matching"
	"github.com/spigell/internhub/internal/profile"
	"github.com/spigell/internhub/internal/report"
)

var batchCmd = &cobra.Command{
	Use:     "batch",
	Short:   "Rank a list of internships for one student profile",
	Example: "  internhub batch --profile student.json --internships internships.json --min-score 50 --limit 5",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return batch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("profile", "p", "", "student profile JSON file")
	batchCmd.Flags().StringP("internships", "i", "", "JSON file with an array of internship descriptions")
	batchCmd.Flags().Float64("min-score", 0, "drop internships scoring below this value (0-100)")
	batchCmd.Flags().Int("limit", 0, "keep only the best N internships (0 keeps all)")
	batchCmd.Flags().StringSlice("exclude-company", nil, "skip internships of this company (repeatable)")
	batchCmd.Flags().Int("concurrency", 0, "parallel AI requests (default from config)")
	batchCmd.Flags().Bool("ats-only", false, "skip the AI analysis")
	batchCmd.Flags().StringP("output", "o", "text", "output format: text or json")

	viper.BindPFlag("batch.min-score", batchCmd.Flags().Lookup("min-score"))
	viper.BindPFlag("batch.limit", batchCmd.Flags().Lookup("limit"))
	viper.BindPFlag("batch.concurrency", batchCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("batch.exclude-companies", batchCmd.Flags().Lookup("exclude-company"))
}

func batch(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup()

	format, err := report.ParseFormat(flagString(cmd, "output"))
	if err != nil {
		return err
	}

	profilePath := flagString(cmd, "profile")
	internshipsPath := flagString(cmd, "internships")
	if profilePath == "" || internshipsPath == "" {
		return errors.New("--profile and --internships are required")
	}

	if config.Batch.MinScore < 0 || config.Batch.MinScore > 100 {
		return fmt.Errorf("min-score must be within 0..100, got %v", config.Batch.MinScore)
	}
	if config.Batch.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", config.Batch.Limit)
	}

	candidate, err := profile.LoadCandidate(profilePath)
	if err != nil {
		return err
	}

	opportunities, err := profile.LoadOpportunities(internshipsPath)
	if err != nil {
		return err
	}

	logger.Info("starting the batch",
		zap.String("version", version),
		zap.Int("internships", len(opportunities)),
		zap.Float64("min_score", config.Batch.MinScore),
		zap.Int("limit", config.Batch.Limit),
	)

	svc := newService(ctx, config, flagBool(cmd, "ats-only") || viper.GetBool("ats-only"), logger)

	result, err := svc.Batch(ctx, candidate, opportunities, matching.BatchOptions{
		MinScore:         config.Batch.MinScore,
		Limit:            config.Batch.Limit,
		ExcludeCompanies: config.Batch.ExcludeCompanies,
	})
	if err != nil {
		return err
	}

	if len(result.Matches) == 0 {
		logger.Info("no internships left after filters", zap.Int("filtered", result.Filtered))
	}

	return report.WriteBatch(cmd.OutOrStdout(), result, format)
}
