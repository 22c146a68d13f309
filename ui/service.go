package ui

import (
	"context"
	"net/http"
	"net/url"

	"schooldash/adapters/export"
	"schooldash/domain/school"
	"schooldash/internal"
	"schooldash/internal/errors"
	"schooldash/internal/pipeline"
)

// Runner evaluates the pipeline for one set of control values
type Runner interface {
	Run(ctx context.Context, controls school.Controls) (*pipeline.Result, error)
}

// Options configures both HTTP front ends
type Options struct {
	GinMode       string
	HistogramBins int
	Logger        *internal.Logger
}

// OptionsView is the part of the sidebar that depends on the size slider
type OptionsView struct {
	SizeBounds school.SizeRange `json:"size_bounds"`
	HasBounds  bool             `json:"has_bounds"`
	Size       school.SizeRange `json:"size"`
	Options    []string         `json:"options"`
	Selected   []string         `json:"selected"`
}

// service holds the request logic shared by the gin and chi routers
type service struct {
	runner Runner
	bins   int
	logger *internal.Logger
}

func newService(runner Runner, opts Options) *service {
	logger := opts.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}
	bins := opts.HistogramBins
	if bins < 1 {
		bins = 20
	}
	return &service{runner: runner, bins: bins, logger: logger}
}

func (s *service) run(ctx context.Context, q url.Values) (*pipeline.Result, error) {
	controls, err := parseControls(q)
	if err != nil {
		return nil, err
	}
	return s.runner.Run(ctx, controls)
}

func (s *service) dashboard(ctx context.Context, q url.Values) (*Dashboard, error) {
	res, err := s.run(ctx, q)
	if err != nil {
		return nil, err
	}
	return newDashboard(res, s.bins), nil
}

func (s *service) options(ctx context.Context, q url.Values) (*OptionsView, error) {
	res, err := s.run(ctx, q)
	if err != nil {
		return nil, err
	}
	w := res.Widgets
	return &OptionsView{
		SizeBounds: w.SizeBounds,
		HasBounds:  w.HasBounds,
		Size:       w.Size,
		Options:    w.Options,
		Selected:   w.Selected,
	}, nil
}

// exportPopulation runs the pipeline before touching the response so failures
// still get a proper status code
func (s *service) exportPopulation(ctx context.Context, q url.Values, f export.Format, w http.ResponseWriter) error {
	res, err := s.run(ctx, q)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="population.`+string(f)+`"`)
	w.WriteHeader(http.StatusOK)
	if err := export.Write(w, f, res.Population); err != nil {
		s.logger.Error("export %s failed after headers were sent: %v", f, err)
	}
	return nil
}

// statusFor maps an error code to the HTTP status shown to the user
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeDataQuality, errors.CodeSchemaMismatch:
		return http.StatusUnprocessableEntity
	case errors.CodeSourceUnavailable:
		return http.StatusServiceUnavailable
	case errors.CodeInvalidInput, errors.CodeValidationError:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func newErrorResponse(err error) errorResponse {
	return errorResponse{Error: err.Error(), Code: errors.GetCode(err)}
}

func (s *service) logFailure(route string, err error) {
	if statusFor(err) >= http.StatusInternalServerError {
		s.logger.Error("%s: %v", route, err)
		return
	}
	s.logger.Warn("%s: %v", route, err)
}
