package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/JonMunkholm/datacatalog/internal/catalog"
	"github.com/JonMunkholm/datacatalog/internal/insight"
	"github.com/JonMunkholm/datacatalog/internal/logging"
)

// DefaultImportTimeout bounds a single import batch when Options leaves it unset.
const DefaultImportTimeout = 5 * time.Minute

// InsightStore is the persistence surface the Service and handlers need.
// *insight.Store satisfies it.
type InsightStore interface {
	insight.Inserter
	Get(ctx context.Context, id int64) (*insight.Insight, error)
	List(ctx context.Context, f insight.Filter) ([]*insight.Insight, error)
	All(ctx context.Context) ([]*insight.Insight, error)
	Update(ctx context.Context, id int64, in insight.Input) (*insight.Insight, error)
	Delete(ctx context.Context, id int64) error
}

// Options configures a Service.
type Options struct {
	BackupDir            string
	ImportTimeout        time.Duration
	MaxConcurrentImports int
	MaxWaitTime          time.Duration
}

// Service provides the operations shared by the HTTP server and the CLI.
type Service struct {
	Catalog  *catalog.Store
	Insights InsightStore
	Images   *insight.ImageStore

	importer      *insight.Importer
	limiter       *ImportLimiter
	importTimeout time.Duration
	backupDir     string
}

// NewService creates a Service. images may be nil for callers that never
// accept uploads.
func NewService(cat *catalog.Store, insights InsightStore, images *insight.ImageStore, opts Options) *Service {
	if opts.ImportTimeout <= 0 {
		opts.ImportTimeout = DefaultImportTimeout
	}
	return &Service{
		Catalog:       cat,
		Insights:      insights,
		Images:        images,
		importer:      insight.NewImporter(insights),
		limiter:       NewImportLimiter(opts.MaxConcurrentImports, opts.MaxWaitTime),
		importTimeout: opts.ImportTimeout,
		backupDir:     opts.BackupDir,
	}
}

// ImportInsights runs one CSV import batch.
//
// It returns ErrTooManyImports if no slot frees up within the limiter's wait
// time. The batch itself is bounded by the import timeout; on timeout or
// cancellation the partial result is returned with the context error.
func (s *Service) ImportInsights(ctx context.Context, fileText string) (result *insight.ImportResult, err error) {
	if !s.limiter.TryAcquire() {
		logging.FromContext(ctx).Info("all import slots busy, waiting",
			"max_concurrent", s.limiter.Status().MaxConcurrent)
		if err := s.limiter.Acquire(ctx); err != nil {
			return nil, err
		}
	}
	defer s.limiter.Release()

	importCtx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in insight import", "panic", r)
			err = fmt.Errorf("insight import: internal error: %v", r)
		}
	}()

	result, err = s.importer.ImportBatch(importCtx, fileText)
	if result != nil {
		logging.WithFields(ctx,
			"import_id", result.ImportID,
			"client_ip", IPAddressFromContext(ctx),
			"user_agent", UserAgentFromContext(ctx),
		).Info("insight import finished",
			"imported", result.Imported,
			"failed", result.Failed,
			"duration", time.Since(start),
		)
	}
	return result, err
}

// ImportInsightsFrom reads r with a size limit and imports it.
func (s *Service) ImportInsightsFrom(ctx context.Context, r io.Reader, maxSize int64) (*insight.ImportResult, error) {
	text, err := ReadImportText(r, maxSize)
	if err != nil {
		return nil, err
	}
	return s.ImportInsights(ctx, text)
}

// ExportInsights renders every insight as CSV text.
func (s *Service) ExportInsights(ctx context.Context) (string, error) {
	records, err := s.Insights.All(ctx)
	if err != nil {
		return "", fmt.Errorf("export insights: %w", err)
	}
	return insight.ExportCSV(records), nil
}

// Backup writes a JSON snapshot of the catalog to the backup directory and
// returns the file path.
func (s *Service) Backup(ctx context.Context) (string, error) {
	path, err := s.Catalog.Backup(ctx, s.backupDir)
	if err != nil {
		return "", err
	}
	logging.FromContext(ctx).Info("catalog backup written", "path", path)
	return path, nil
}

// SaveImage stores an uploaded image and returns its public URL.
func (s *Service) SaveImage(name string, r io.Reader) (string, error) {
	if s.Images == nil {
		return "", fmt.Errorf("image uploads are not configured")
	}
	return s.Images.Save(name, r)
}

// WaitForImports blocks until running imports finish or ctx is done.
// Used during graceful shutdown.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// ImportLimiterStatus reports current import slot usage.
func (s *Service) ImportLimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}
