package cli

import (
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tasktracker/internal/config"
	"tasktracker/internal/logging"
	"tasktracker/internal/task"
)

const version = "0.1.0"

// app carries the per-invocation state shared by all commands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	// Global flags
	configPath string
	dataFile   string
	verbose    bool

	cfg          *config.Config
	logger       *zap.Logger
	invocationID string
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "tasktracker",
		Short: "A simple CLI task tracker backed by a JSON file",
		Long: `tasktracker keeps a list of tasks (id, title, description) in a JSON
document on local disk. Every change rewrites the whole document.

Examples:
  tasktracker init
  tasktracker create -t "Buy milk" -d "2%"
  tasktracker update 1 -d "skim"
  tasktracker list`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(a.stdout, "No subcommand was used. Use --help for usage information.\n")
			return err
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "Path to the YAML config file")
	root.PersistentFlags().StringVarP(&a.dataFile, "file", "f", "", "Path to the task data file (overrides data_file)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newCreateCommand(a),
		newReadCommand(a),
		newUpdateCommand(a),
		newDeleteCommand(a),
		newListCommand(a),
		newStatsCommand(a),
		newInitCommand(a),
	)
	return root
}

// setup loads configuration and builds the logger before any command runs.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return configErrorf("%v", err)
	}
	if a.dataFile != "" {
		cfg.DataFile = a.dataFile
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Logging, a.stderr)
	if err != nil {
		return configErrorf("failed to initialize logger: %v", err)
	}

	a.cfg = cfg
	a.invocationID = uuid.NewString()
	a.logger = logger.With(zap.String("invocation_id", a.invocationID))
	a.logger.Debug("Starting invocation", zap.String("data_file", cfg.DataFile), zap.String("config", a.configPath))
	return nil
}

func (a *app) openManager() (*task.Manager, error) {
	m, err := task.NewManager(a.cfg.DataFile, a.logger)
	if err != nil {
		a.logger.Error("Failed to load tasks", zap.String("path", a.cfg.DataFile), zap.Error(err))
		return nil, commandFailure(err)
	}
	return m, nil
}
