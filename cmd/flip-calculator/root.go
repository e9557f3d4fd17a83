package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iwvelando/flip-calculator/internal/calculator"
	"github.com/iwvelando/flip-calculator/internal/config"
	"github.com/iwvelando/flip-calculator/pkg/constants"
	"github.com/iwvelando/flip-calculator/pkg/validation"
)

// errReported marks a failure that has already been shown to the user.
var errReported = errors.New("failure already reported")

// annotationFileLogsOnly keeps the logger quiet unless it writes to a file,
// for commands that own the terminal.
const annotationFileLogsOnly = "fileLogsOnly"

type app struct {
	configPath string
	logLevel   string
	endpoint   string

	conf   *config.Configuration
	logger *zap.Logger
	calc   *calculator.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:               "flip-calculator",
		Short:             "Property flipping profitability calculator",
		Long:              "Collects acquisition and disposal costs, validates them and asks a calculation server for the profit summary.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.endpoint, "endpoint", "", "calculation server base URL override (e.g. http://localhost:5000)")

	root.AddCommand(newServeCmd(a), newTUICmd(a), newCalcCmd(a), newVersionCmd())
	return root
}

// setup loads configuration, builds the logger and the calculator client.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	if err := validation.ValidateLogLevel(a.logLevel); err != nil {
		return err
	}

	path := a.configPath
	if !cmd.Root().PersistentFlags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	conf, err := config.LoadConfiguration(path)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", a.configPath, err)
	}
	if a.endpoint != "" {
		conf.Calculator.Endpoint = a.endpoint
	}
	a.conf = conf

	if cmd.Annotations[annotationFileLogsOnly] == "true" && conf.Logging.OutputFile == "" {
		a.logger = zap.NewNop()
	} else {
		logger, err := initializeLogger(conf.Logging, a.logLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.logger = logger
	}

	for _, warning := range conf.ValidateConfiguration() {
		a.logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	client, err := calculator.New(conf.Calculator.Endpoint,
		calculator.WithTimeout(conf.Calculator.Timeout),
		calculator.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	a.calc = client

	a.logger.Debug("configuration loaded",
		zap.String("op", "main"),
		zap.String("config", path),
		zap.String("endpoint", client.Endpoint()),
	)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
