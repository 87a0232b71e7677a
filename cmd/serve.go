package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/internhub/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the matching API over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "address to listen on (default from config, 0.0.0.0)")
	serveCmd.Flags().Int("port", 0, "port to listen on (default from config, 8000)")
	serveCmd.Flags().Bool("ats-only", false, "disable the AI analysis on /match and /batch-match")

	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func serve(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup()
	logger.Info("starting the internhub api", zap.String("version", version))

	svc := newService(ctx, config, flagBool(cmd, "ats-only") || viper.GetBool("ats-only"), logger)

	return server.New(config.Server, svc, logger).Run(ctx)
}
