package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/freshlearn/config"
	"github.com/s0up4200/freshlearn/freshlearn"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *freshlearn.Client

	// Command flags
	dryRun       bool
	outputFormat string
	timeout      time.Duration
	extraHeaders map[string]string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "freshlearn",
	Short: "Manage Freshlearn members and course enrollments",
	Long: `freshlearn is a CLI for the Freshlearn integration API. It lists, creates and
updates members, enrolls and unenrolls them from courses and product bundles,
and reports completed courses.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Interrupting the process cancels in-flight requests.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "print request payloads without sending them")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-request timeout (overrides freshlearn.timeout)")
	rootCmd.PersistentFlags().StringToStringVar(&extraHeaders, "header", nil, "extra request header as name=value (repeatable)")

	// Add subcommands
	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration and client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	if outputFormat != "table" && outputFormat != "json" {
		return fmt.Errorf("invalid output format: %s (must be 'table' or 'json')", outputFormat)
	}

	// Override timeout from command line if specified
	if cmd.Flags().Changed("timeout") {
		cfg.Freshlearn.Timeout = timeout
	}

	client, err = freshlearn.NewClient(cfg.Freshlearn.APIKey,
		freshlearn.WithBaseURL(cfg.Freshlearn.BaseURL),
		freshlearn.WithLogger(logger),
		freshlearn.WithUserAgent("freshlearn-cli/"+appVersion),
	)
	if err != nil {
		return fmt.Errorf("failed to create Freshlearn client: %w", err)
	}

	logger.Debug().
		Str("base_url", cfg.Freshlearn.BaseURL).
		Dur("timeout", cfg.Freshlearn.Timeout).
		Msg("Freshlearn client ready")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, colored only on a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// requestOptions builds the per-call options shared by every command
func requestOptions() []freshlearn.RequestOption {
	opts := []freshlearn.RequestOption{freshlearn.WithTimeout(cfg.Freshlearn.Timeout)}
	if len(extraHeaders) > 0 {
		opts = append(opts, freshlearn.WithHeaders(extraHeaders))
	}
	return opts
}

// checkResponse turns a transport error or failed envelope into a command error
func checkResponse[T any](resp *freshlearn.Response[T], err error) error {
	if err != nil {
		return err
	}
	if !resp.Success {
		logger.Debug().
			Int("status", resp.StatusCode).
			Str("body", resp.Body.String()).
			Msg("Freshlearn request was rejected")
		return resp.Err()
	}
	return nil
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to Freshlearn",
	Long:  `Test the connection and API key by listing members.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to Freshlearn at %s...\n", cfg.Freshlearn.BaseURL)

	resp, err := client.GetMembers(cmd.Context(), requestOptions()...)
	if err := checkResponse(resp, err); err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}

	fmt.Println("✓ Connection successful!")
	fmt.Printf("- Total members: %d\n", len(resp.Data))

	return nil
}
