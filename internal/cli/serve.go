package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/irfanahm3d/obsidian-timeline/pkg/cache"
	apperrors "github.com/irfanahm3d/obsidian-timeline/pkg/errors"
	"github.com/irfanahm3d/obsidian-timeline/pkg/pipeline"
	"github.com/irfanahm3d/obsidian-timeline/pkg/render"
)

// serveCommand creates the serve command for the HTTP endpoint.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr         string
		cacheBackend string
		redisAddr    string
	)
	opts := c.defaultOptions()

	cmd := &cobra.Command{
		Use:   "serve [vault]",
		Short: "Serve rendered timelines over HTTP",
		Long: `Serve rendered timelines over HTTP.

The serve command runs the pipeline on demand and exposes the results:

  GET /healthz         liveness probe
  GET /timeline.svg    rendered SVG
  GET /timeline.json   layout as JSON
  GET /timeline.txt    plain-text listing

Query parameters override the configured defaults per request: tag,
search_in, threshold, ascending, refresh, snippets.

The --cache-backend flag selects where pipeline results are cached:
file (default), redis, or none.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Vault = args[0]
			return c.runServe(cmd.Context(), opts, addr, cacheBackend, redisAddr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8475", "listen address")
	cmd.Flags().StringVar(&cacheBackend, "cache-backend", "file", "cache backend: file, redis, none")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "redis address for --cache-backend redis")

	cmd.Flags().StringVarP(&opts.Tag, "tag", "t", opts.Tag, "selection tag, including '#'")
	cmd.Flags().StringVar(&opts.DateProperty, "date-property", opts.DateProperty, "frontmatter key holding the document date")
	cmd.Flags().StringVar(&opts.SearchIn, "search-in", opts.SearchIn, "where to look for the tag: metadata, inline, both")
	cmd.Flags().Float64Var(&opts.Threshold, "threshold", opts.Threshold, "minimum separation between positions (percent)")
	cmd.Flags().BoolVar(&opts.Ascending, "ascending", opts.Ascending, "place the earliest item at 0% instead of the latest")

	return cmd
}

// runServe builds the router and serves until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts pipeline.Options, addr, cacheBackend, redisAddr string) error {
	backend, err := c.serveCache(ctx, cacheBackend, redisAddr)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(backend, serveKeyer(cacheBackend, opts.Vault), c.Logger)
	defer runner.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           c.serveRouter(runner, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr, "vault", opts.Vault)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// serveCache builds the cache backend selected by --cache-backend.
func (c *CLI) serveCache(ctx context.Context, backend, redisAddr string) (cache.Cache, error) {
	switch backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
	case "file":
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", backend)
	}
}

// serveKeyer scopes redis cache keys per vault, so several servers can
// share one redis instance without layout or artifact keys colliding.
// The file backend is already private to the machine; a nil keyer keeps
// its keys unscoped.
func serveKeyer(backend, vault string) cache.Keyer {
	if backend != "redis" {
		return nil
	}
	abs, err := filepath.Abs(vault)
	if err != nil {
		abs = vault
	}
	return cache.NewScopedKeyer(nil, cache.Hash([]byte(abs))[:12]+":")
}

// serveRouter wires the chi routes.
func (c *CLI) serveRouter(runner *pipeline.Runner, base pipeline.Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(c.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	r.Get("/timeline.svg", c.timelineHandler(runner, base, render.FormatSVG, "image/svg+xml"))
	r.Get("/timeline.json", c.timelineHandler(runner, base, render.FormatJSON, "application/json"))
	r.Get("/timeline.txt", c.timelineHandler(runner, base, render.FormatText, "text/plain; charset=utf-8"))

	return r
}

// logRequests logs each request through the CLI logger.
func (c *CLI) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)
		c.Logger.Info("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(req.Context()))
	})
}

// timelineHandler runs the pipeline for one format.
func (c *CLI) timelineHandler(runner *pipeline.Runner, base pipeline.Options, format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		opts, err := requestOptions(base, req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		opts.Formats = []string{format}

		result, err := runner.Execute(req.Context(), opts)
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case pipeline.IsNoMatches(err):
				status = http.StatusNotFound
			case apperrors.Is(err, apperrors.ErrCodeInvalidMode),
				apperrors.Is(err, apperrors.ErrCodeInvalidThreshold),
				apperrors.Is(err, apperrors.ErrCodeInvalidFormat):
				status = http.StatusBadRequest
			case apperrors.Is(err, apperrors.ErrCodeVaultNotFound):
				status = http.StatusServiceUnavailable
			}
			http.Error(w, apperrors.UserMessage(err), status)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("X-Run-Id", result.RunID)
		_, _ = w.Write(result.Artifacts[format])
	}
}

// requestOptions applies per-request query overrides to the base options.
func requestOptions(base pipeline.Options, req *http.Request) (pipeline.Options, error) {
	opts := base
	q := req.URL.Query()

	if tag := q.Get("tag"); tag != "" {
		opts.Tag = tag
	}
	if mode := q.Get("search_in"); mode != "" {
		opts.SearchIn = mode
	}
	if raw := q.Get("threshold"); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, fmt.Errorf("invalid threshold: %q", raw)
		}
		opts.Threshold = threshold
	}
	if raw := q.Get("ascending"); raw != "" {
		ascending, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, fmt.Errorf("invalid ascending: %q", raw)
		}
		opts.Ascending = ascending
	}
	if raw := q.Get("refresh"); raw != "" {
		refresh, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, fmt.Errorf("invalid refresh: %q", raw)
		}
		opts.Refresh = refresh
	}
	if raw := q.Get("snippets"); raw != "" {
		snippets, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, fmt.Errorf("invalid snippets: %q", raw)
		}
		opts.Snippets = snippets
	}

	return opts, nil
}
