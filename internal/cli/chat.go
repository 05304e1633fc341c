package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alif/naia/internal/config"
	"github.com/alif/naia/internal/logger"
	"github.com/alif/naia/internal/observability"
	"github.com/alif/naia/pkg/agent"
	"github.com/alif/naia/pkg/apitools"
	"github.com/alif/naia/pkg/session"
	"github.com/alif/naia/pkg/toolexecutor"
)

var (
	chatVerbose      bool
	chatMaxExchanges int
	chatMetricsAddr  string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session with the API agent",
	Long: `Start an interactive session. Type a request in plain language and the
agent translates it into HTTP calls against the APIs you name.

Session commands:
  quit     exit the session
  clear    forget the conversation history
  session  show session statistics`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVarP(&chatVerbose, "verbose", "v", false, "show tools used, API calls, and run metadata")
	chatCmd.Flags().IntVar(&chatMaxExchanges, "max-exchanges", 0, "override session history capacity")
	chatCmd.Flags().StringVar(&chatMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	rootCmd.AddCommand(chatCmd)
}

// agentRunner is the slice of agent.Runner the REPL needs.
type agentRunner interface {
	Run(ctx context.Context, input string) agent.Response
}

func runChat(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader(cfgFile)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if chatMaxExchanges > 0 {
		cfg.Session.MaxExchanges = chatMaxExchanges
	}

	if err := config.NewValidator().ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	apiKey, err := cfg.ResolveAPIKey()
	if err != nil {
		return err
	}

	appLogger, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   chatVerbose,
		Pretty:    cfg.Logging.Pretty,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	// Log-level changes in the config file take effect without a restart.
	stopWatch, err := loader.Watch(func(updated *config.Config) {
		if err := appLogger.SetLevel(updated.Logging.Level); err != nil {
			appLogger.GetZerolog().Warn().Err(err).Msg("Ignoring invalid log level from config")
		}
	})
	if err != nil {
		appLogger.GetZerolog().Warn().Err(err).Msg("Config watching disabled")
	} else {
		defer stopWatch()
	}

	if chatMetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.MetricsHandler())
			if err := http.ListenAndServe(chatMetricsAddr, mux); err != nil {
				appLogger.GetZerolog().Warn().Err(err).Msg("Metrics server stopped")
			}
		}()
	}

	store := session.NewStore(cfg.Session.MaxExchanges)

	executor := toolexecutor.New()
	client := apitools.NewClient(apitools.Options{
		Timeout: time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
	})
	if err := apitools.RegisterAPITools(executor, client); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	runner, err := agent.NewRunner(agent.RunnerConfig{
		Store:    store,
		Executor: executor,
		Agent: agent.Config{
			Provider:      cfg.Agent.Provider,
			Model:         cfg.Agent.Model,
			Temperature:   cfg.Agent.Temperature,
			MaxTokens:     cfg.Agent.MaxTokens,
			SystemPrompt:  cfg.Agent.SystemPrompt,
			ContextWindow: cfg.Session.ContextWindow,
			MaxRetries:    cfg.Agent.MaxRetries,
		},
		APIKey:      apiKey,
		ToolPolicy:  &toolexecutor.ToolPolicy{Allow: cfg.Tools.Allow, Deny: cfg.Tools.Deny},
		ToolTimeout: time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
		Logger:      *appLogger.GetZerolog(),
	})
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "naia %s (%s/%s)\n", version, cfg.Agent.Provider, cfg.Agent.Model)
	fmt.Fprintln(out, `Type your request, or "quit" to exit.`)

	return runREPL(cmd.Context(), cmd.InOrStdin(), out, runner, store, chatVerbose)
}

// runREPL drives the read-eval-print loop until EOF or a quit command.
func runREPL(ctx context.Context, in io.Reader, out io.Writer, runner agentRunner, store *session.Store, verbose bool) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit", "exit":
			fmt.Fprintln(out, "Goodbye.")
			return nil
		case "clear":
			store.Clear()
			fmt.Fprintln(out, "Conversation history cleared.")
			continue
		case "session":
			printSummary(out, store.Summary(), verbose)
			continue
		}

		resp := runner.Run(ctx, input)
		printResponse(out, resp, verbose)
	}
}

func printSummary(out io.Writer, s session.Summary, verbose bool) {
	fmt.Fprintf(out, "Exchanges:   %d / %d\n", s.Count, s.Capacity)
	fmt.Fprintf(out, "Total chars: %d\n", s.TotalChars)
	fmt.Fprintf(out, "Avg length:  %.1f\n", s.AvgExchangeLen)
	if !s.OldestTimestamp.IsZero() {
		fmt.Fprintf(out, "Oldest:      %s\n", s.OldestTimestamp.Format(time.RFC3339))
		fmt.Fprintf(out, "Newest:      %s\n", s.NewestTimestamp.Format(time.RFC3339))
	}

	if verbose {
		if snapshot, err := observability.Snapshot(); err == nil && snapshot != "" {
			fmt.Fprintln(out, "\nMetrics:")
			fmt.Fprintln(out, snapshot)
		}
	}
}

func printResponse(out io.Writer, resp agent.Response, verbose bool) {
	if !resp.Success {
		fmt.Fprintf(out, "Error: %s\n", resp.Error)
		return
	}

	fmt.Fprintln(out, resp.Message)

	if !verbose {
		return
	}

	if len(resp.ToolsUsed) > 0 {
		fmt.Fprintf(out, "\n[tools: %s]\n", strings.Join(resp.ToolsUsed, ", "))
	}
	for _, call := range resp.APICalls {
		status := "-"
		if call.StatusCode != nil {
			status = fmt.Sprintf("%d", *call.StatusCode)
		}
		outcome := "ok"
		if !call.Success {
			outcome = "failed"
			if call.Error != "" {
				outcome = fmt.Sprintf("failed: %s", call.Error)
			}
		}
		fmt.Fprintf(out, "[%s %s -> %s (%s)]\n", call.Method, call.URL, status, outcome)
	}
	if len(resp.Metadata) > 0 {
		fmt.Fprintf(out, "[meta: %v]\n", resp.Metadata)
	}
}
