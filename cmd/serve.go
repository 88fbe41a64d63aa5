package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/hmans/threads/internal/auth"
	"github.com/hmans/threads/internal/graph"
	"github.com/hmans/threads/internal/mail"
	"github.com/hmans/threads/internal/payment"
	"github.com/hmans/threads/internal/search"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the GraphQL server",
	Long: `Start an HTTP server that serves the storefront GraphQL API.

The server exposes:
  - GraphQL endpoint at /graphql (POST)
  - GraphQL Playground at /graphql (GET) for interactive queries
  - Health check at /healthz

Examples:
  # Start server on the configured port
  threads serve

  # Start server on a custom port
  threads serve --port 4000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// newResolver wires the root resolver with its live dependencies and a
// search index rebuilt from the database.
func newResolver(ctx context.Context) (*graph.Resolver, error) {
	idx, err := search.NewIndex()
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}
	items, err := db.AllItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading items for index: %w", err)
	}
	if err := idx.IndexItems(items); err != nil {
		return nil, fmt.Errorf("building search index: %w", err)
	}

	mailer, err := mail.NewSMTPMailer(cfg.Mail, cfg.Server.FrontendURL)
	if err != nil {
		return nil, err
	}

	return &graph.Resolver{
		Store:    db,
		Search:   idx,
		Mailer:   mailer,
		Gateway:  payment.NewStripeGateway(cfg.Payment.StripeSecret),
		Secret:   cfg.Auth.AppSecret,
		Currency: cfg.Payment.Currency,
		Log:      log,
	}, nil
}

func runServer() error {
	resolver, err := newResolver(context.Background())
	if err != nil {
		return err
	}
	defer resolver.Search.Close()

	port := servePort
	if port == 0 {
		port = cfg.Server.Port
	}

	es := graph.NewExecutableSchema(graph.Config{Resolvers: resolver})
	srv := handler.NewDefaultServer(es)
	pg := playground.Handler("Threads GraphQL", "/graphql")

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger())
	engine.Use(corsMiddleware(cfg.Server.FrontendURL))
	engine.Use(auth.Middleware(cfg.Auth.AppSecret, log))

	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	engine.GET("/graphql", gin.WrapH(pg))
	engine.POST("/graphql", gin.WrapH(srv))

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)

	go func() {
		log.Info().Int("port", port).Msg("server listening")
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		log.Info().Msg("server stopped")
	}

	return nil
}

// requestLogger logs one line per request through the injected zerolog
// logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// corsMiddleware allows the storefront frontend origin, with
// credentials so the session cookie flows.
func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}
