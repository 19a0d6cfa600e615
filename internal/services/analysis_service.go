package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/mialing7/pricing-dashboard/internal/config"
	apperrors "github.com/mialing7/pricing-dashboard/internal/errors"
	"github.com/mialing7/pricing-dashboard/internal/ingest"
	"github.com/mialing7/pricing-dashboard/internal/pipeline"
	"github.com/mialing7/pricing-dashboard/internal/schema"
	"github.com/mialing7/pricing-dashboard/internal/stats"
)

// Options are the user-visible pipeline parameters. Nil pointer fields fall
// back to the configured defaults, so a request can override any subset.
type Options struct {
	EnableOutlierFilter *bool    `json:"enable_outlier_filter"`
	MinPartnerRevenue   *float64 `json:"min_partner_revenue" validate:"omitempty,gte=0"`
	PartnerAllowlist    []string `json:"partner_allowlist"`
	TopN                int      `json:"top_n" validate:"omitempty,gt=0"`
	BoxPlotTopK         int      `json:"box_plot_top_k" validate:"omitempty,gt=0"`
}

// resolved holds Options after defaults have been applied.
type resolved struct {
	enableOutlierFilter bool
	minPartnerRevenue   float64
	partnerAllowlist    []string
	topN                int
	boxPlotTopK         int
}

// Report is the full pipeline output handed to the dashboard and export
// collaborators.
type Report struct {
	Hash          string                    `json:"hash"`
	Partners      []stats.PartnerAggregate  `json:"partners"`
	Summary       stats.Summary             `json:"summary"`
	TopByPrice    []stats.PartnerAggregate  `json:"top_by_price"`
	BottomByPrice []stats.PartnerAggregate  `json:"bottom_by_price"`
	Distributions []stats.PriceDistribution `json:"distributions"`
	RowCount      int                       `json:"row_count"`
}

// AnalysisService runs the full ingestion-normalization-aggregation-
// classification pipeline. Stages after the cached raw parse are recomputed
// from scratch on every call; there is no partial invalidation.
type AnalysisService struct {
	loader     *ingest.Loader
	normalizer *schema.Normalizer
	validate   *validator.Validate
	defaults   config.AnalysisConfig
	logger     *slog.Logger
}

// NewAnalysisService creates the service with its collaborators.
func NewAnalysisService(loader *ingest.Loader, normalizer *schema.Normalizer, defaults config.AnalysisConfig, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		loader:     loader,
		normalizer: normalizer,
		validate:   validator.New(),
		defaults:   defaults,
		logger:     logger.With(slog.String("component", "analysis_service")),
	}
}

// AnalyzeUpload parses the uploaded file (or reuses the cached parse of
// identical bytes) and runs the pipeline with the given options.
func (s *AnalysisService) AnalyzeUpload(ctx context.Context, name string, data []byte, opts Options) (*Report, error) {
	hash, tbl, err := s.loader.Load(name, data)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, hash, tbl, opts)
}

// AnalyzeCached re-runs the pipeline against a previously uploaded table,
// the path taken on every parameter change.
func (s *AnalysisService) AnalyzeCached(ctx context.Context, hash string, opts Options) (*Report, error) {
	tbl, ok := s.loader.Get(hash)
	if !ok {
		return nil, fmt.Errorf("no cached table for hash %s: %w", hash, apperrors.ErrNotFound)
	}
	return s.run(ctx, hash, tbl, opts)
}

func (s *AnalysisService) run(ctx context.Context, hash string, tbl *ingest.Table, opts Options) (*Report, error) {
	if err := s.validate.Struct(&opts); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	params := s.resolve(opts)

	mapping, err := s.normalizer.Normalize(tbl.Header)
	if err != nil {
		return nil, err
	}

	ws := pipeline.Clean(tbl.Rows, mapping, s.logger)
	s.logStage(ctx, "clean", ws.Len())
	if ws.Len() == 0 {
		return nil, &apperrors.EmptyResultError{Stage: "clean"}
	}

	if params.enableOutlierFilter {
		ws = pipeline.FilterOutliers(ws)
		s.logStage(ctx, "outlier_filter", ws.Len())
		if ws.Len() == 0 {
			return nil, &apperrors.EmptyResultError{Stage: "outlier_filter"}
		}
	}

	ws = pipeline.FilterMinRevenue(ws, params.minPartnerRevenue)
	s.logStage(ctx, "revenue_threshold", ws.Len())
	if ws.Len() == 0 {
		return nil, &apperrors.EmptyResultError{Stage: "revenue_threshold"}
	}

	ws = pipeline.FilterPartners(ws, params.partnerAllowlist)
	s.logStage(ctx, "partner_allowlist", ws.Len())
	if ws.Len() == 0 {
		return nil, &apperrors.EmptyResultError{Stage: "partner_allowlist"}
	}

	aggs := stats.Aggregate(ws)
	quantiles := stats.Classify(aggs, ws)
	summary := stats.Summarize(ws, aggs, quantiles)

	report := &Report{
		Hash:          hash,
		Partners:      aggs,
		Summary:       summary,
		TopByPrice:    stats.TopByPrice(aggs, params.topN),
		BottomByPrice: stats.BottomByPrice(aggs, params.topN),
		Distributions: stats.PriceDistributions(ws, aggs, params.boxPlotTopK),
		RowCount:      ws.Len(),
	}

	s.logger.InfoContext(ctx, "analysis complete",
		slog.String("hash", hash),
		slog.Int("rows", ws.Len()),
		slog.Int("partners", len(aggs)))
	return report, nil
}

func (s *AnalysisService) resolve(opts Options) resolved {
	params := resolved{
		enableOutlierFilter: s.defaults.EnableOutlierFilter,
		minPartnerRevenue:   s.defaults.MinPartnerRevenue,
		partnerAllowlist:    opts.PartnerAllowlist,
		topN:                s.defaults.TopN,
		boxPlotTopK:         s.defaults.BoxPlotTopK,
	}
	if opts.EnableOutlierFilter != nil {
		params.enableOutlierFilter = *opts.EnableOutlierFilter
	}
	if opts.MinPartnerRevenue != nil {
		params.minPartnerRevenue = *opts.MinPartnerRevenue
	}
	if opts.TopN > 0 {
		params.topN = opts.TopN
	}
	if opts.BoxPlotTopK > 0 {
		params.boxPlotTopK = opts.BoxPlotTopK
	}
	return params
}

func (s *AnalysisService) logStage(ctx context.Context, stage string, remaining int) {
	s.logger.InfoContext(ctx, "pipeline stage complete",
		slog.String("stage", stage),
		slog.Int("remaining_rows", remaining))
}
