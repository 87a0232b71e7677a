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

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a student profile against one internship",
	Example: "  internhub match --profile student.json --internship internship.json\n" +
		"  internhub match --interactive --save-resume resume.md",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("profile", "p", "", "student profile JSON file")
	matchCmd.Flags().StringP("internship", "i", "", "internship description JSON file")
	matchCmd.Flags().Bool("interactive", false, "enter the profile and internship with prompts")
	matchCmd.Flags().Bool("ats-only", false, "skip the AI analysis and print only the ATS score")
	matchCmd.Flags().StringP("output", "o", "text", "output format: text or json")
	matchCmd.Flags().String("save-resume", "", "write the tailored resume to this file")
	matchCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation before writing files")
}

func match(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup()

	format, err := report.ParseFormat(flagString(cmd, "output"))
	if err != nil {
		return err
	}

	interactive := flagBool(cmd, "interactive")

	candidate, opportunity, err := loadPair(cmd, interactive)
	if err != nil {
		return err
	}

	logger.Info("starting the match", zap.String("version", version), zap.String("internship", opportunity.DisplayName()))

	svc := newService(ctx, config, flagBool(cmd, "ats-only") || viper.GetBool("ats-only"), logger)

	result, err := svc.Match(ctx, candidate, opportunity)
	if err != nil {
		return err
	}

	if err := report.WriteMatch(cmd.OutOrStdout(), result, format); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return saveResume(cmd, result, interactive, logger)
}

func loadPair(cmd *cobra.Command, interactive bool) (*profile.Candidate, *profile.Opportunity, error) {
	if interactive {
		candidate, err := promptCandidate()
		if err != nil {
			return nil, nil, err
		}
		opportunity, err := promptOpportunity()
		if err != nil {
			return nil, nil, err
		}
		return candidate, opportunity, nil
	}

	profilePath := flagString(cmd, "profile")
	internshipPath := flagString(cmd, "internship")
	if profilePath == "" || internshipPath == "" {
		return nil, nil, errors.New("--profile and --internship are required unless --interactive is set")
	}

	candidate, err := profile.LoadCandidate(profilePath)
	if err != nil {
		return nil, nil, err
	}

	opportunity, err := profile.LoadOpportunity(internshipPath)
	if err != nil {
		return nil, nil, err
	}

	return candidate, opportunity, nil
}

func saveResume(cmd *cobra.Command, result *matching.MatchResult, interactive bool, logger *zap.Logger) error {
	if result.TailoredResume == "" {
		return nil
	}

	path := flagString(cmd, "save-resume")
	assumeYes := flagBool(cmd, "yes")

	if path == "" {
		if !interactive {
			return nil
		}

		save, err := confirm("Save the tailored resume to a file?")
		if err != nil || !save {
			return err
		}

		path, err = promptText("File name", defaultResumeFile, nil)
		if err != nil {
			return err
		}
	} else if _, err := os.Stat(path); err == nil && !assumeYes {
		overwrite, err := confirm(fmt.Sprintf("%s exists. Overwrite?", path))
		if err != nil {
			return err
		}
		if !overwrite {
			logger.Info("skipping tailored resume", zap.String("reason", "file exists"))
			return nil
		}
	}

	if err := os.WriteFile(path, []byte(result.TailoredResume+"\n"), 0o644); err != nil {
		return fmt.Errorf("saving tailored resume: %w", err)
	}

	logger.Info("tailored resume saved", zap.String("filename", path))
	return nil
}

func flagString(cmd *cobra.Command, name string) string {
	value, _ := cmd.Flags().GetString(name)
	return value
}

func flagBool(cmd *cobra.Command, name string) bool {
	value, _ := cmd.Flags().GetBool(name)
	return value
}
