// cmd/order-etl/main.go
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"order-etl/internal/common/config"
	apperrors "order-etl/internal/common/errors"
	"order-etl/internal/common/logger"
	"order-etl/internal/common/metrics"
	"order-etl/internal/common/validation"
)

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	configPath string
	domain     string

	cfg      *config.Config
	zapLog   *zap.Logger
	log      logger.Logger
	errors   *apperrors.ErrorHandler
	schemas  *validation.Store
	exitCode int
}

func main() {
	a := &app{}
	root := newRootCommand(a)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "order-etl:", err)
		os.Exit(apperrors.ExitCode(err))
	}
	if a.zapLog != nil {
		_ = a.zapLog.Sync()
	}
	os.Exit(a.exitCode)
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "order-etl",
		Short:         "Build few-shot, evaluation and alias artifacts from spoken order transcripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			a.flushMetrics()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config.yaml (default: search ./configs)")
	root.PersistentFlags().StringVar(&a.domain, "domain", "", "Domain to process, overrides the configured one")

	root.AddCommand(
		newFilterCommand(a),
		newMenuCommand(a),
		newAliasesCommand(a),
		newFewShotsCommand(a),
		newEvalsetCommand(a),
		newValidateCommand(a),
		newRunCommand(a),
		newExtractCommand(a),
	)
	return root
}

func (a *app) setup() error {
	if a.domain != "" {
		if err := os.Setenv("ORDER_ETL_DOMAIN", a.domain); err != nil {
			return err
		}
	}

	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFromFile(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		a.exitCode = apperrors.ExitCode(err)
		return fmt.Errorf("config load failed: %w", err)
	}

	a.zapLog = logger.New(a.cfg.Logging.Level, a.cfg.Logging.Format)
	a.log = logger.NewZapAdapter(a.zapLog).With(map[string]interface{}{
		"runId":  uuid.NewString(),
		"domain": a.cfg.Domain,
	})
	a.errors = apperrors.NewErrorHandler(a.log)

	a.schemas, err = validation.NewStore(a.cfg.Paths.Schemas())
	if err != nil {
		return fmt.Errorf("schema load failed: %w", err)
	}
	return nil
}

// fail records the exit status for a failed stage. The first failure wins.
func (a *app) fail(stage string, err error) {
	code := a.errors.HandleStageError(stage, err)
	if a.exitCode == 0 {
		a.exitCode = code
	}
}

func (a *app) flushMetrics() {
	if a.cfg == nil {
		return
	}
	if err := metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		a.log.Warn("metrics textfile not written", map[string]interface{}{
			"path":  a.cfg.Metrics.Textfile,
			"error": err,
		})
	}
}
