package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "github.com/mialing7/pricing-dashboard/internal/errors"
	"github.com/mialing7/pricing-dashboard/internal/exporter"
	"github.com/mialing7/pricing-dashboard/internal/services"
)

// AnalysisHandler exposes the pricing pipeline to the external dashboard
// shell: upload a file, re-run the cached table with new parameters, export
// the statistics table as CSV.
type AnalysisHandler struct {
	service        *services.AnalysisService
	csv            *exporter.CSVWriter
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(service *services.AnalysisService, csv *exporter.CSVWriter, maxUploadBytes int64, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:        service,
		csv:            csv,
		logger:         logger.With(slog.String("handler", "analysis")),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the analysis routes.
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Analyze)
	r.Route("/{hash}", func(r chi.Router) {
		r.Post("/", h.Reanalyze)
		r.Get("/export", h.Export)
	})
	return r
}

// AnalysisResponse is the envelope returned for every pipeline run. An empty
// working set is a warning, not a failure: Status is "empty", Report is
// absent and the shell skips its panels for this run.
type AnalysisResponse struct {
	Status  string           `json:"status"`
	Stage   string           `json:"stage,omitempty"`
	Message string           `json:"message,omitempty"`
	Report  *services.Report `json:"report,omitempty"`
}

// Analyze handles POST /api/analysis: a multipart file upload plus an
// optional "options" JSON form field.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.renderError(w, r, apperrors.NewWithDetails(http.StatusBadRequest,
			"INVALID_UPLOAD", "Failed to parse multipart upload", err.Error()))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.renderError(w, r, apperrors.New(http.StatusBadRequest,
			"MISSING_FILE", `Multipart field "file" is required`))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.renderError(w, r, apperrors.NewWithDetails(http.StatusBadRequest,
			"INVALID_UPLOAD", "Failed to read uploaded file", err.Error()))
		return
	}

	var opts services.Options
	if raw := r.FormValue("options"); raw != "" {
		if err := render.DecodeJSON(strings.NewReader(raw), &opts); err != nil {
			h.renderError(w, r, apperrors.NewWithDetails(http.StatusBadRequest,
				"INVALID_OPTIONS", "Options field is not valid JSON", err.Error()))
			return
		}
	}

	report, err := h.service.AnalyzeUpload(r.Context(), header.Filename, data, opts)
	h.renderReport(w, r, report, err)
}

// Reanalyze handles POST /api/analysis/{hash}: re-runs the cached table with
// the options in the JSON body. This is the path every parameter change in
// the dashboard takes.
func (h *AnalysisHandler) Reanalyze(w http.ResponseWriter, r *http.Request) {
	var opts services.Options
	if r.ContentLength > 0 {
		if err := render.DecodeJSON(r.Body, &opts); err != nil {
			h.renderError(w, r, apperrors.NewWithDetails(http.StatusBadRequest,
				"INVALID_OPTIONS", "Request body is not valid JSON", err.Error()))
			return
		}
	}

	report, err := h.service.AnalyzeCached(r.Context(), chi.URLParam(r, "hash"), opts)
	h.renderReport(w, r, report, err)
}

// Export handles GET /api/analysis/{hash}/export: streams the partner
// statistics table as BOM-prefixed CSV. Pipeline parameters come from query
// values so the link stays bookmarkable.
func (h *AnalysisHandler) Export(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r.URL.Query())
	if err != nil {
		h.renderError(w, r, apperrors.NewWithDetails(http.StatusBadRequest,
			"INVALID_OPTIONS", "Invalid query parameters", err.Error()))
		return
	}

	hash := chi.URLParam(r, "hash")
	report, err := h.service.AnalyzeCached(r.Context(), hash, opts)
	if err != nil {
		h.renderRunError(w, r, err)
		return
	}

	short := hash
	if len(short) > 8 {
		short = short[:8]
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="pricing_report_%s.csv"`, short))
	if err := h.csv.Write(w, exporter.PartnerReport(report.Partners)); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed", slog.String("error", err.Error()))
	}
}

func (h *AnalysisHandler) renderReport(w http.ResponseWriter, r *http.Request, report *services.Report, err error) {
	if err != nil {
		h.renderRunError(w, r, err)
		return
	}
	render.JSON(w, r, AnalysisResponse{Status: "ok", Report: report})
}

func (h *AnalysisHandler) renderRunError(w http.ResponseWriter, r *http.Request, err error) {
	var emptyErr *apperrors.EmptyResultError
	if errors.As(err, &emptyErr) {
		render.JSON(w, r, AnalysisResponse{
			Status:  "empty",
			Stage:   emptyErr.Stage,
			Message: emptyErr.Error(),
		})
		return
	}
	h.renderError(w, r, apperrors.FromError(err))
}

func (h *AnalysisHandler) renderError(w http.ResponseWriter, r *http.Request, apiErr *apperrors.APIError) {
	h.logger.WarnContext(r.Context(), "request failed",
		slog.String("error_code", apiErr.ErrorCode),
		slog.String("message", apiErr.Message))
	if err := render.Render(w, r, apiErr); err != nil {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}

// optionsFromQuery builds Options from individual query values.
func optionsFromQuery(q url.Values) (services.Options, error) {
	var opts services.Options
	if raw := q.Get("enable_outlier_filter"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, fmt.Errorf("enable_outlier_filter: %w", err)
		}
		opts.EnableOutlierFilter = &v
	}
	if raw := q.Get("min_partner_revenue"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, fmt.Errorf("min_partner_revenue: %w", err)
		}
		opts.MinPartnerRevenue = &v
	}
	if raw := q.Get("partners"); raw != "" {
		opts.PartnerAllowlist = strings.Split(raw, ",")
	}
	if raw := q.Get("top_n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return opts, fmt.Errorf("top_n: %w", err)
		}
		opts.TopN = v
	}
	if raw := q.Get("box_plot_top_k"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return opts, fmt.Errorf("box_plot_top_k: %w", err)
		}
		opts.BoxPlotTopK = v
	}
	return opts, nil
}
