package ui

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"schooldash/adapters/export"
	"schooldash/domain/school"
	"schooldash/internal"

	"github.com/gin-gonic/gin"
)

// Server is the HTML dashboard plus its JSON endpoints
type Server struct {
	router    *gin.Engine
	svc       *service
	logger    *internal.Logger
	templates *template.Template
	about     template.HTML
}

type vizOption struct {
	Value   school.Visualization
	Checked bool
}

type schoolOption struct {
	Name    string
	Checked bool
}

type indexView struct {
	Dashboard      *Dashboard
	Error          string
	Visualizations []vizOption
	Schools        []schoolOption
	About          template.HTML
	ExportQuery    template.URL
}

// NewServer creates the dashboard server
func NewServer(runner Runner, opts Options) (*Server, error) {
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}
	svc := newService(runner, opts)

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	about, err := renderMarkdown("about.md")
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		svc:       svc,
		logger:    svc.logger.Named("ui"),
		templates: templates,
		about:     about,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/dashboard", s.handleDashboard)
	api.GET("/options", s.handleOptions)
	api.GET("/export/population.csv", s.handleExport(export.FormatCSV))
	api.GET("/export/population.arrow", s.handleExport(export.FormatArrow))
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("serving dashboard on http://%s", addr)
	return s.router.Run(addr)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	view := indexView{About: s.about}

	status := http.StatusOK
	dash, err := s.svc.dashboard(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		s.svc.logFailure("GET /", err)
		status = statusFor(err)
		view.Error = err.Error()
	} else {
		view.Dashboard = dash
		view.Visualizations = vizOptions(dash.Widgets.Visualization)
		view.Schools = schoolOptions(dash.Widgets.Options, dash.Widgets.Selected)
		view.ExportQuery = template.URL(controlsQuery(school.Controls{
			Visualization: dash.Widgets.Visualization,
			Size:          &dash.Widgets.Size,
			Schools:       dash.Widgets.Selected,
			SchoolsSet:    true,
		}).Encode())
	}

	s.renderTemplate(c, status, "index.html", view)
}

func (s *Server) handleDashboard(c *gin.Context) {
	dash, err := s.svc.dashboard(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		s.svc.logFailure("GET /api/dashboard", err)
		c.JSON(statusFor(err), newErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, dash)
}

func (s *Server) handleOptions(c *gin.Context) {
	opts, err := s.svc.options(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		s.svc.logFailure("GET /api/options", err)
		c.JSON(statusFor(err), newErrorResponse(err))
		return
	}
	c.JSON(http.StatusOK, opts)
}

func (s *Server) handleExport(f export.Format) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.svc.exportPopulation(c.Request.Context(), c.Request.URL.Query(), f, c.Writer); err != nil {
			s.svc.logFailure("GET /api/export/population."+string(f), err)
			c.JSON(statusFor(err), newErrorResponse(err))
		}
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// renderTemplate renders to a buffer first so a template error never leaves a
// half-written page
func (s *Server) renderTemplate(c *gin.Context, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("template %s: %v", name, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "template rendering failed"})
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func vizOptions(current school.Visualization) []vizOption {
	out := make([]vizOption, 0, len(school.Visualizations))
	for _, v := range school.Visualizations {
		out = append(out, vizOption{Value: v, Checked: v == current})
	}
	return out
}

func schoolOptions(options, selected []string) []schoolOption {
	chosen := make(map[string]bool, len(selected))
	for _, name := range selected {
		chosen[name] = true
	}
	out := make([]schoolOption, 0, len(options))
	for _, name := range options {
		out = append(out, schoolOption{Name: name, Checked: chosen[name]})
	}
	return out
}
