package commands

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/chartdata/pkg/chartcache"
	"github.com/Sumatoshi-tech/chartdata/pkg/chartexport"
	"github.com/Sumatoshi-tech/chartdata/pkg/config"
	"github.com/Sumatoshi-tech/chartdata/pkg/dataset"
	"github.com/Sumatoshi-tech/chartdata/pkg/observability"
	"github.com/Sumatoshi-tech/chartdata/pkg/persist"
	"github.com/Sumatoshi-tech/chartdata/pkg/timeseries"
	"github.com/Sumatoshi-tech/chartdata/pkg/units"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
	maxItemBodyBytes  = 64 * units.KiB
	chartCacheBytes   = 32 * units.MiB
	contentTypeJSON   = "application/json"
	contentTypeHTML   = "text/html; charset=utf-8"
	contentTypePNG    = "image/png"
)

// ErrUnknownDocument is returned for a document name the server does not hold.
var ErrUnknownDocument = errors.New("unknown document")

func newServeCommand(root *rootOptions) *cobra.Command {
	var dir, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve live documents, charts and metrics over HTTP",
		Long: `Load every document in a directory and serve it:

  GET  /documents                 names and kinds
  GET  /documents/{name}          current contents as JSON
  GET  /documents/{name}/chart    chart, ?format=html|png
  POST /documents/{name}/items    add or update one item
  GET  /metrics                   Prometheus scrape endpoint
  GET  /healthz                   liveness
  GET  /readyz                    readiness, 503 until a document is loaded

Documents are kept in memory; changes are not written back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd, root, observability.ModeServe)
			if err != nil {
				return err
			}
			defer rt.close(context.WithoutCancel(cmd.Context()))

			if addr == "" {
				addr = rt.cfg.Observability.MetricsAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := newServer(ctx, rt, dir)
			if err != nil {
				return err
			}
			defer srv.shutdown(context.WithoutCancel(ctx))

			return srv.listen(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory of documents to serve")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default observability.metrics_addr)")

	return cmd
}

// server holds the live documents. Datasets are not safe for concurrent
// use, so every access goes through mu. Each change bumps the document's
// version, which keys the chart cache.
type server struct {
	mu        sync.RWMutex
	documents map[string]*liveDataset
	versions  map[string]uint64
	charts    *chartcache.Cache

	cfg      *config.Config
	logger   *slog.Logger
	tracer   trace.Tracer
	ops      *observability.OperationMetrics
	metrics  http.Handler
	shutdown func(context.Context)
}

func newServer(ctx context.Context, rt *runtime, dir string) (*server, error) {
	mp, metricsHandler, err := observability.PrometheusHandler()
	if err != nil {
		return nil, err
	}

	meter := mp.Meter("chartdata")

	ops, err := observability.NewOperationMetrics(meter)
	if err != nil {
		return nil, err
	}

	dm, err := observability.NewDatasetMetrics(meter)
	if err != nil {
		return nil, err
	}

	s := &server{
		documents: make(map[string]*liveDataset),
		versions:  make(map[string]uint64),
		charts:    chartcache.New(chartcache.WithMaxBytes(chartCacheBytes)),
		cfg:       rt.cfg,
		logger:    rt.logger(),
		tracer:    rt.providers.Tracer,
		ops:       ops,
		metrics:   metricsHandler,
		shutdown: func(shutdownCtx context.Context) {
			if shutdownErr := mp.Shutdown(shutdownCtx); shutdownErr != nil {
				rt.logger().WarnContext(shutdownCtx, "metrics shutdown failed", "error", shutdownErr)
			}
		},
	}

	if err = s.loadDir(ctx, dir, dm); err != nil {
		return nil, err
	}

	return s, nil
}

// loadDir restores every document in dir. Files that are not documents or
// fail to load are logged and skipped.
func (s *server) loadDir(ctx context.Context, dir string, dm *observability.DatasetMetrics) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		if _, codecErr := persist.CodecFor(path); codecErr != nil {
			continue
		}

		doc, loadErr := persist.LoadDocument(path)
		if loadErr == nil {
			var ld *liveDataset

			ld, loadErr = restore(doc, s.cfg, timeseries.WithLogger(s.logger))
			if loadErr == nil {
				name := documentName(path)
				if n := ld.notifier(); n != nil {
					n.AddChangeListener(dm.Listener(ctx, name))
				}

				s.documents[name] = ld

				s.logger.InfoContext(ctx, "loaded document", "name", name, "kind", doc.Kind)

				continue
			}
		}

		s.logger.WarnContext(ctx, "skipping document", "path", path, "error", loadErr)
	}

	return nil
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /metrics", s.metrics)
	mux.Handle("GET /healthz", observability.HealthHandler())
	mux.Handle("GET /readyz", observability.ReadyHandler(s.documentsLoaded))
	mux.HandleFunc("GET /documents", s.handleList)
	mux.HandleFunc("GET /documents/{name}", s.handleDocument)
	mux.HandleFunc("GET /documents/{name}/chart", s.handleChart)
	mux.HandleFunc("POST /documents/{name}/items", s.handleItem)

	return observability.HTTPMiddleware(s.tracer, s.ops, mux)
}

func (s *server) listen(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.InfoContext(ctx, "serving", "addr", addr, "documents", len(s.documents))

		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

// ErrNoDocuments is reported by the readiness probe while nothing is served.
var ErrNoDocuments = errors.New("no documents loaded")

func (s *server) documentsLoaded(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.documents) == 0 {
		return ErrNoDocuments
	}

	return nil
}

type documentInfo struct {
	Name string       `json:"name"`
	Kind persist.Kind `json:"kind"`
}

func (s *server) handleList(rw http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()

	list := make([]documentInfo, 0, len(s.documents))
	for name, ld := range s.documents {
		list = append(list, documentInfo{Name: name, Kind: ld.kind})
	}

	s.mu.RUnlock()

	slices.SortFunc(list, func(a, b documentInfo) int { return cmp.Compare(a.Name, b.Name) })

	writeJSON(rw, http.StatusOK, list)
}

// snapshot copies the current document and its version out under the
// read lock.
func (s *server) snapshot(name string) (*persist.Document, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ld, ok := s.documents[name]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownDocument, name)
	}

	return ld.document(), s.versions[name], nil
}

func (s *server) handleDocument(rw http.ResponseWriter, hr *http.Request) {
	doc, _, err := s.snapshot(hr.PathValue("name"))
	if err != nil {
		writeError(rw, err)

		return
	}

	writeJSON(rw, http.StatusOK, doc)
}

func (s *server) handleChart(rw http.ResponseWriter, hr *http.Request) {
	name := hr.PathValue("name")

	doc, version, err := s.snapshot(name)
	if err != nil {
		writeError(rw, err)

		return
	}

	formatName := hr.URL.Query().Get("format")
	if formatName == "" {
		formatName = s.cfg.Render.Format
	}

	format, err := chartexport.ParseFormat(formatName)
	if err != nil {
		writeError(rw, err)

		return
	}

	key := chartcache.Key{Document: name, Version: version, Format: string(format)}

	chart, cached := s.charts.Get(key)
	if !cached {
		chart, err = s.render(name, doc, format)
		if err != nil {
			s.logger.WarnContext(hr.Context(), "render failed", "name", name, "error", err)
			writeError(rw, err)

			return
		}

		s.charts.Put(key, chart)
	}

	s.logger.DebugContext(hr.Context(), "chart served", "name", name, "format", format, "cached", cached)

	contentType := contentTypeHTML
	if format == chartexport.FormatPNG {
		contentType = contentTypePNG
	}

	rw.Header().Set("Content-Type", contentType)
	rw.WriteHeader(http.StatusOK)

	_, _ = rw.Write(chart)
}

func (s *server) render(name string, doc *persist.Document, format chartexport.Format) ([]byte, error) {
	var buf bytes.Buffer

	err := chartexport.RenderDocument(&buf, doc, format, chartexport.Options{
		Title:  name,
		Theme:  chartexport.Theme(s.cfg.Render.Theme),
		Width:  s.cfg.Render.Width,
		Height: s.cfg.Render.Height,
	})
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (s *server) handleItem(rw http.ResponseWriter, hr *http.Request) {
	name := hr.PathValue("name")

	var req itemRequest

	dec := json.NewDecoder(http.MaxBytesReader(rw, hr.Body, maxItemBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(rw, fmt.Errorf("%w: %w", ErrBadItem, err))

		return
	}

	s.mu.Lock()

	ld, ok := s.documents[name]

	var err error
	if ok {
		err = ld.apply(req)
		if err == nil {
			s.versions[name]++
		}
	} else {
		err = fmt.Errorf("%w: %q", ErrUnknownDocument, name)
	}

	s.mu.Unlock()

	if err != nil {
		writeError(rw, err)

		return
	}

	s.charts.Invalidate(name)

	s.logger.DebugContext(hr.Context(), "item applied", "name", name)
	rw.WriteHeader(http.StatusNoContent)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(rw http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, ErrUnknownDocument), errors.Is(err, dataset.ErrUnknownKey):
		status = http.StatusNotFound
	case errors.Is(err, ErrBadItem), errors.Is(err, dataset.ErrInvalidArgument),
		errors.Is(err, chartexport.ErrUnsupportedFormat), errors.Is(err, timeseries.ErrSeries):
		status = http.StatusBadRequest
	}

	writeJSON(rw, status, errorBody{Error: err.Error()})
}

func writeJSON(rw http.ResponseWriter, status int, body any) {
	rw.Header().Set("Content-Type", contentTypeJSON)
	rw.WriteHeader(status)

	_ = json.NewEncoder(rw).Encode(body)
}
