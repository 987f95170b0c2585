package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fdg312/meal-planner/internal/blob"
	"github.com/fdg312/meal-planner/internal/catalogsync"
	"github.com/fdg312/meal-planner/internal/config"
	"github.com/fdg312/meal-planner/internal/mealplans"
	"github.com/fdg312/meal-planner/internal/meals"
	"github.com/fdg312/meal-planner/internal/metrics"
	"github.com/fdg312/meal-planner/internal/planner"
	"github.com/fdg312/meal-planner/internal/shopping"
	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/fdg312/meal-planner/internal/storage/backend"
	"github.com/rs/zerolog"
)

// Server представляет HTTP сервер
type Server struct {
	config  *config.Config
	logger  zerolog.Logger
	mux     *http.ServeMux
	storage storage.PlannerStorage
	planner *planner.Service
	metrics *metrics.Registry
	blob    blob.Store
}

// New создаёт сервер: поднимает storage, загружает состояние планировщика,
// подмешивает удалённый каталог (если задан) и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	s := &Server{
		config:  cfg,
		logger:  logger,
		mux:     http.NewServeMux(),
		metrics: metrics.New(),
	}

	var mode string
	s.storage, mode = backend.Open(ctx, cfg, logger)
	s.logger.Info().Str("storage", mode).Msg("storage ready")

	store, blobMode, err := blob.NewBlobStore(ctx, cfg.Blob, logger)
	if err != nil {
		s.storage.Close()
		return nil, fmt.Errorf("init blob store: %w", err)
	}
	s.blob = store
	s.logger.Info().Str("blob", blobMode).Msg("export storage ready")

	s.planner = planner.NewService(s.storage, logger).WithMetrics(s.metrics)
	s.planner.Load(ctx)
	s.syncRemoteCatalog(ctx)

	s.routes()
	return s, nil
}

// syncRemoteCatalog merges meals from REMOTE_CATALOG_URL. Failures only
// leave a warning.
func (s *Server) syncRemoteCatalog(ctx context.Context) {
	if s.config.RemoteCatalogURL == "" {
		return
	}
	timeout := time.Duration(s.config.RemoteCatalogTimeoutSeconds) * time.Second
	client := catalogsync.NewClient(s.config.RemoteCatalogURL, timeout)

	added, err := s.planner.MergeRemote(ctx, client)
	if err != nil {
		return
	}
	s.logger.Info().Str("url", s.config.RemoteCatalogURL).Int("added", added).Msg("remote catalog synced")
}

// routes регистрирует маршруты
func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.Handle("GET /metrics", s.metrics.Handler())

	// Meals API
	mealsHandler := meals.NewHandler(s.planner)
	s.mux.HandleFunc("GET /v1/meals", mealsHandler.HandleList)
	s.mux.HandleFunc("POST /v1/meals", mealsHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/meals/{id}", mealsHandler.HandleGet)
	s.mux.HandleFunc("GET /v1/meals/by-name/{name}", mealsHandler.HandleGetByName)
	s.mux.HandleFunc("PATCH /v1/meals/{id}", mealsHandler.HandleUpdate)
	s.mux.HandleFunc("PUT /v1/meals/{id}/ingredients", mealsHandler.HandleReplaceIngredients)
	s.mux.HandleFunc("DELETE /v1/meals/{id}", mealsHandler.HandleDelete)

	// Weekly plan API
	planHandler := mealplans.NewHandler(s.planner)
	s.mux.HandleFunc("GET /v1/plan", planHandler.HandleGet)
	s.mux.HandleFunc("DELETE /v1/plan", planHandler.HandleClear)
	s.mux.HandleFunc("GET /v1/plan/{day}", planHandler.HandleGetDay)
	s.mux.HandleFunc("PUT /v1/plan/{day}", planHandler.HandleAssign)
	s.mux.HandleFunc("DELETE /v1/plan/{day}", planHandler.HandleUnassign)

	// Shopping list API
	exporter := shopping.NewExporter(s.blob, shopping.NewPrinter(), s.config.ExportTTLSeconds)
	shoppingHandler := shopping.NewHandler(s.planner).WithExporter(exporter)
	s.mux.HandleFunc("GET /v1/shopping-list", shoppingHandler.HandleGet)
	s.mux.HandleFunc("DELETE /v1/shopping-list", shoppingHandler.HandleClear)
	s.mux.HandleFunc("POST /v1/shopping-list/generate", shoppingHandler.HandleGenerate)
	s.mux.HandleFunc("POST /v1/shopping-list/items/{id}/check", shoppingHandler.HandleCheck)
	s.mux.HandleFunc("POST /v1/shopping-list/items/{id}/uncheck", shoppingHandler.HandleUncheck)
	s.mux.HandleFunc("POST /v1/shopping-list/positions/{index}/check", shoppingHandler.HandleCheckPosition(true))
	s.mux.HandleFunc("POST /v1/shopping-list/positions/{index}/uncheck", shoppingHandler.HandleCheckPosition(false))
	s.mux.HandleFunc("POST /v1/shopping-list/clear-checked", shoppingHandler.HandleClearChecked)
	s.mux.HandleFunc("GET /v1/shopping-list/print", shoppingHandler.HandlePrint)
	s.mux.HandleFunc("POST /v1/shopping-list/export", shoppingHandler.HandleExport)

	// Exports kept in local blob storage
	s.mux.HandleFunc("GET "+blob.LocalURLBase+"/{key...}", shoppingHandler.HandleDownloadExport)
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Handler returns the router wrapped in middleware, outermost first:
// access log → CORS → rate limit → router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	handler = RateLimitMiddleware(s.config, s.logger, handler)
	handler = CORSMiddleware(s.config, handler)
	handler = AccessLogMiddleware(s.logger, s.metrics, handler)
	return handler
}

// Planner exposes the service behind the routes.
func (s *Server) Planner() *planner.Service {
	return s.planner
}

// Start запускает HTTP сервер и останавливает его, когда ctx отменён.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msgf("Сервер запущен на http://localhost%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := time.Duration(s.config.ShutdownTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	// Final flush of the whole state before storage is closed.
	s.planner.Save(shutdownCtx)
	return nil
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
