package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/safartravel/safar/internal/logger"
	"github.com/safartravel/safar/internal/profile"
	"github.com/safartravel/safar/plugin/llm"
	"github.com/safartravel/safar/plugin/vectorstore"
	"github.com/safartravel/safar/server"
	"github.com/safartravel/safar/server/agent"
	"github.com/safartravel/safar/server/booking"
	"github.com/safartravel/safar/server/chat"
	"github.com/safartravel/safar/server/metrics"
	v1 "github.com/safartravel/safar/server/router/api/v1"
	"github.com/safartravel/safar/server/router/mcp"
	"github.com/safartravel/safar/server/session"
	"github.com/safartravel/safar/server/tools"
	"github.com/safartravel/safar/store"
	"github.com/safartravel/safar/store/db"
)

const version = "0.1.0"

var (
	v = profile.NewViper()

	rootCmd = &cobra.Command{
		Use:           "safar",
		Short:         "Safar Travel conversational booking assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	chatCmd = &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant in the terminal",
		RunE:  runChat,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP chat API",
		RunE:  runServe,
	}

	mcpCmd = &cobra.Command{
		Use:   "mcp",
		Short: "Expose the booking tools to MCP clients over stdio",
		RunE:  runMCP,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("model", profile.DefaultModel, "completion model name")
	flags.String("driver", "memory", "ticket store driver: memory, sqlite, postgres or mysql")
	flags.String("dsn", "", "ticket store data source name")
	flags.String("policy", profile.DefaultPolicyPath, "policy corpus file")
	flags.Int("max-steps", profile.DefaultMaxSteps, "completion calls allowed per user turn")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.Bool("log-pretty", true, "colored console logs instead of JSON")
	serveCmd.Flags().String("addr", profile.DefaultAddr, "HTTP listen address")
	chatCmd.Flags().Bool("show-tickets", true, "print the ticket listing after each reply")

	for key, flag := range map[string]string{
		"MODEL_NAME":        "model",
		"SAFAR_DRIVER":      "driver",
		"SAFAR_DSN":         "dsn",
		"SAFAR_POLICY_PATH": "policy",
		"SAFAR_MAX_STEPS":   "max-steps",
		"SAFAR_LOG_LEVEL":   "log-level",
		"SAFAR_LOG_PRETTY":  "log-pretty",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
	if err := v.BindPFlag("SAFAR_ADDR", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(chatCmd, serveCmd, mcpCmd)
	rootCmd.RunE = runChat
	rootCmd.Flags().AddFlagSet(chatCmd.Flags())
}

// app is the assembled assistant shared by every front-end.
type app struct {
	profile  *profile.Profile
	logger   *slog.Logger
	store    *store.Store
	booking  *booking.Service
	registry *agent.Registry
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	agents   session.AgentConfig
}

func newApp(ctx context.Context) (*app, error) {
	p := profile.FromViper(v)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	log := logger.New(os.Stderr, p.LogLevel, p.LogPretty)
	slog.SetDefault(log)

	model, err := llm.NewOpenAI(llm.Config{
		APIKey:  p.APIKey,
		BaseURL: p.BaseURL,
		Model:   p.AIModel,
		Timeout: p.LLMTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create completion client: %w", err)
	}

	var embed = vectorstore.LocalEmbedding
	if p.EmbeddingModel != "" {
		embed = vectorstore.NewOpenAICompatEmbedding(p.BaseURL, p.APIKey, p.EmbeddingModel)
	}
	policies, err := vectorstore.New(embed)
	if err != nil {
		return nil, err
	}

	var driver store.Driver
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		driver, err = db.NewDBDriver(gctx, p)
		return err
	})
	g.Go(func() error {
		n, err := policies.LoadFile(gctx, p.PolicyPath)
		if err != nil {
			log.Warn("policy knowledge base unavailable", "path", p.PolicyPath, "err", err)
			return nil
		}
		log.Info("policy knowledge base loaded", "path", p.PolicyPath, "records", n)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st := store.New(driver)
	bookingService := booking.NewService(st)
	registry, err := agent.NewRegistry(log, tools.DefaultSet(tools.Dependencies{
		Booking:  bookingService,
		Policies: policies,
		Model:    model,
	})...)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	log.Info("[AGENT INIT]", "model", p.AIModel, "tools", len(registry.Definitions()), "driver", p.Driver)

	return &app{
		profile:  p,
		logger:   log,
		store:    st,
		booking:  bookingService,
		registry: registry,
		metrics:  m,
		gatherer: reg,
		agents: session.AgentConfig{
			Model:    model,
			Registry: registry,
			MaxSteps: p.MaxSteps,
			Logger:   log,
			Observer: m,
		},
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("close store", "err", err)
	}
}

func runChat(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	showTickets, _ := cmd.Flags().GetBool("show-tickets")
	repl := &chat.REPL{
		Agent:       a.agents.NewAgent(),
		Booking:     a.booking,
		AppName:     a.profile.AppName,
		ShowTickets: showTickets,
	}
	return repl.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sessions := session.NewManager(a.agents.NewAgent, a.metrics)
	api := v1.NewAPIV1Service(sessions, a.booking, a.profile.AppName, a.profile.JWTSecret, a.logger)
	if a.profile.JWTSecret == "" {
		a.logger.Warn("SAFAR_JWT_SECRET is empty, the API is unauthenticated")
	}
	return server.NewServer(a.profile.Addr, api, a.gatherer, a.logger).Start(cmd.Context())
}

func runMCP(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := mcp.NewServer(a.registry, version, a.logger)
	if err != nil {
		return err
	}
	return mcp.ServeStdio(cmd.Context(), s, cmd.InOrStdin(), cmd.OutOrStdout())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		stop()
		os.Exit(1)
	}
}
