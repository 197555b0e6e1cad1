package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantmind-br/smashy/internal/app"
	"github.com/quantmind-br/smashy/internal/config"
	"github.com/quantmind-br/smashy/internal/domain"
	"github.com/quantmind-br/smashy/internal/output"
	"github.com/quantmind-br/smashy/internal/utils"
	"github.com/quantmind-br/smashy/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "smashy",
	Short: "Flatten a source tree into a single XML document",
	Long: `Smashy walks a directory tree, honours .gitignore files and exclude
patterns, and concatenates every remaining file into one <codebase>
document with each file's content wrapped in CDATA.

By default Java, Python, Go and shell sources are reduced to skeletons:
comments are stripped and function bodies are elided so only the
declarations remain. Use --raw to keep files verbatim.`,
	Version: version.Short(),
	Args:    cobra.NoArgs,
	RunE:    run,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.smashy/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.Flags().StringP("input", "i", config.DefaultInput, "Input directory")
	rootCmd.Flags().StringP("output", "o", "", "Output file (default is standard output)")
	rootCmd.Flags().Bool("raw", false, "Disable skeletonization")
	rootCmd.Flags().StringArray("exclude", nil, "Exclude paths containing this substring (repeatable)")

	rootCmd.Flags().Duration("timeout", config.DefaultTaskTimeout, "Per-file processing timeout (0=unbounded)")
	rootCmd.Flags().String("max-file-size", "", "Skip files larger than this size (e.g. 512KB, 2MB)")
	rootCmd.Flags().Bool("cache", config.DefaultCacheEnabled, "Cache skeletons between runs")
	rootCmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	bindFlags()

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
}

// bindFlags binds the root flags to their viper keys
func bindFlags() {
	_ = viper.BindPFlag("input", rootCmd.Flags().Lookup("input"))
	_ = viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("raw", rootCmd.Flags().Lookup("raw"))
	_ = viper.BindPFlag("exclude", rootCmd.Flags().Lookup("exclude"))
	_ = viper.BindPFlag("pipeline.task_timeout", rootCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("processing.max_file_size", rootCmd.Flags().Lookup("max-file-size"))
	_ = viper.BindPFlag("cache.enabled", rootCmd.Flags().Lookup("cache"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Each --exclude occurrence is one literal pattern, commas included
	if cmd.Flags().Changed("exclude") {
		cfg.Exclude, _ = cmd.Flags().GetStringArray("exclude")
	}

	// --no-progress is the inverse of the progress key
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); noProgress {
		cfg.Progress = false
	}

	log = newLogger(cfg)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			log.Info().Msg("Shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
	}()

	orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
		Config:  cfg,
		Verbose: verbose,
		Logger:  log,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orchestrator.Close()

	document, _ := orchestrator.Run(ctx)

	writer := output.NewWriter(output.WriterOptions{
		Path:   cfg.Output,
		Stdout: cmd.OutOrStdout(),
	})
	if err := writer.Write(ctx, document); err != nil {
		// A failed write is reported but does not change the exit status
		if errors.Is(err, domain.ErrWriteFailed) {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			return nil
		}
		return err
	}

	if writer.ToFile() {
		log.Info().Str("path", utils.ExpandPath(writer.Path())).Msg("Result written")
	}
	return nil
}

func newLogger(cfg *config.Config) *utils.Logger {
	return utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Verbose: verbose,
	})
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long:  "Prints the configuration merged from defaults, the config file and SMASHY_* environment variables as YAML.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
