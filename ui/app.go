package ui

import (
	"encoding/json"
	"net/http"

	"schooldash/adapters/export"
	"schooldash/internal"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// App serves the JSON API alone, for scripts and other front ends
type App struct {
	router *chi.Mux
	svc    *service
	logger *internal.Logger
}

// NewApp creates the API application
func NewApp(runner Runner, opts Options) *App {
	svc := newService(runner, opts)
	app := &App{
		router: chi.NewRouter(),
		svc:    svc,
		logger: svc.logger.Named("api"),
	}
	app.setupMiddleware()
	app.setupRoutes()
	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	a.router.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", a.handleDashboard)
		r.Get("/options", a.handleOptions)
		r.Get("/export/population.csv", a.handleExport(export.FormatCSV))
		r.Get("/export/population.arrow", a.handleExport(export.FormatArrow))
	})
}

// Handler exposes the router
func (a *App) Handler() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start(addr string) error {
	a.logger.Info("serving API on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := a.svc.dashboard(r.Context(), r.URL.Query())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, dash)
}

func (a *App) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := a.svc.options(r.Context(), r.URL.Query())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, opts)
}

func (a *App) handleExport(f export.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := a.svc.exportPopulation(r.Context(), r.URL.Query(), f, w); err != nil {
			a.fail(w, r, err)
		}
	}
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	a.svc.logFailure(r.Method+" "+r.URL.Path, err)
	a.writeJSON(w, statusFor(err), newErrorResponse(err))
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("encoding %T response: %v", v, err)
	}
}
