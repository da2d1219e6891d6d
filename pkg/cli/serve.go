package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fguintu/FlySQL/pkg/adapters/datasource"
	"github.com/fguintu/FlySQL/pkg/adapters/datasource/postgres"
	"github.com/fguintu/FlySQL/pkg/audit"
	"github.com/fguintu/FlySQL/pkg/config"
	"github.com/fguintu/FlySQL/pkg/database"
	"github.com/fguintu/FlySQL/pkg/handlers"
	"github.com/fguintu/FlySQL/pkg/middleware"
	"github.com/fguintu/FlySQL/pkg/services"
	sqlpkg "github.com/fguintu/FlySQL/pkg/sql"
)

// shutdownTimeout is how long in-flight requests get to finish on SIGINT/SIGTERM.
const shutdownTimeout = 10 * time.Second

func (c *CLI) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.runServe(ctx)
		},
	}
}

func (c *CLI) runServe(ctx context.Context) error {
	cfg, logger := c.cfg, c.logger

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("addr", cfg.Addr()),
		zap.String("database", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)),
		zap.Int("max_page_size", cfg.Query.MaxPageSize),
		zap.Duration("query_timeout", cfg.Query.Timeout()))

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	}, logger.Named("database"))
	if err != nil {
		return err
	}
	defer db.Close()

	executor := postgres.NewQueryExecutor(db.Pool, cfg.Query.Timeout(), logger)
	defer executor.Close()

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(cfg, executor, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Leave room for a query that runs up to its own deadline.
		WriteTimeout: cfg.Query.Timeout() + 15*time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting flysql", zap.String("addr", server.Addr), zap.String("version", cfg.Version))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// newRouter wires the stores, services and handlers behind the shared
// middleware chain. The stores live for the life of the process.
func newRouter(cfg *config.Config, executor datasource.QueryExecutor, logger *zap.Logger) http.Handler {
	history := services.NewHistoryService(cfg.Query.HistoryLimit, logger)
	bookmarks := services.NewBookmarkService(logger)
	translator := services.NewTranslator(logger)
	queryService := services.NewQueryService(
		executor,
		sqlpkg.NewRewriter(cfg.Query.MaxPageSize),
		history,
		audit.NewSecurityAuditor(logger),
		cfg.Query.DefaultPageSize,
		logger,
	)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, executor, logger).RegisterRoutes(mux)
	handlers.NewQueryHandler(queryService, history, logger).RegisterRoutes(mux)
	handlers.NewBookmarkHandler(bookmarks, logger).RegisterRoutes(mux)
	handlers.NewNLHandler(translator, logger).RegisterRoutes(mux)

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	})

	return middleware.RequestLogger(logger.Named("http"))(corsHandler(mux))
}
