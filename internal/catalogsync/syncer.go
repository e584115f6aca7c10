// Package catalogsync recorre el listado paginado de Shopify e inserta cada
// producto en el repositorio.
//
// La corrida es secuencial y tolera fallos parciales: un producto que falla
// se registra y la corrida sigue. Solo un error de conexión o de esquema del
// vector store, o un error al pedir una página, detiene el recorrido.
package catalogsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"catalog-search/internal/ledger"
	"catalog-search/internal/models"
	"catalog-search/internal/repository"
	"catalog-search/internal/shopify"
	"catalog-search/internal/vectorstore"
)

type ProductSource interface {
	ListProducts(ctx context.Context, pageInfo string, limit int) (*shopify.ProductPage, error)
}

type ProductInserter interface {
	Insert(ctx context.Context, product models.Product) error
}

// Report resume una corrida. Synced no repite IDs.
type Report struct {
	Synced     []string  `json:"synced"`
	Skipped    int       `json:"skipped"`
	Failed     []string  `json:"failed"`
	Pages      int       `json:"pages"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	seen map[string]bool
}

func (r *Report) addSynced(id string) {
	if r.seen[id] {
		return
	}
	r.seen[id] = true
	r.Synced = append(r.Synced, id)
}

// SyncMetrics recibe los totales de cada corrida
type SyncMetrics interface {
	RecordSync(synced, skipped, failed int)
}

type Syncer struct {
	source   ProductSource
	products ProductInserter
	ledger   ledger.Recorder
	metrics  SyncMetrics
	logger   *zap.Logger
	pageSize int
	now      func() time.Time
}

type Option func(*Syncer)

func WithLedger(r ledger.Recorder) Option {
	return func(s *Syncer) {
		if r != nil {
			s.ledger = r
		}
	}
}

func WithMetrics(m SyncMetrics) Option {
	return func(s *Syncer) {
		s.metrics = m
	}
}

// WithPageSize limita los productos por página al máximo de Shopify
func WithPageSize(n int) Option {
	return func(s *Syncer) {
		if n > 0 && n <= shopify.MaxPageSize {
			s.pageSize = n
		}
	}
}

func New(source ProductSource, products ProductInserter, logger *zap.Logger, opts ...Option) *Syncer {
	s := &Syncer{
		source:   source,
		products: products,
		ledger:   ledger.Nop{},
		logger:   logger,
		pageSize: shopify.MaxPageSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run sincroniza todo el catálogo. Ante un error fatal devuelve el reporte
// parcial junto al error; lo ya insertado no se revierte.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		Synced:    []string{},
		Failed:    []string{},
		StartedAt: s.now(),
		seen:      map[string]bool{},
	}

	pageInfo := ""
	for {
		if err := ctx.Err(); err != nil {
			return s.finish(ctx, report, err)
		}

		page, err := s.source.ListProducts(ctx, pageInfo, s.pageSize)
		if err != nil {
			return s.finish(ctx, report, fmt.Errorf("fetch page %d: %w", report.Pages+1, err))
		}
		if len(page.Products) == 0 {
			break
		}
		report.Pages++
		s.logger.Info("sync page fetched", zap.Int("page", report.Pages), zap.Int("products", len(page.Products)))

		for _, sp := range page.Products {
			if err := s.syncOne(ctx, report, sp); err != nil {
				return s.finish(ctx, report, err)
			}
		}

		if page.NextPageInfo == "" {
			break
		}
		if page.NextPageInfo == pageInfo {
			s.logger.Warn("sync cursor did not advance, stopping", zap.String("page_info", pageInfo))
			break
		}
		pageInfo = page.NextPageInfo
	}

	return s.finish(ctx, report, nil)
}

// syncOne devuelve error solo cuando la corrida debe abortar
func (s *Syncer) syncOne(ctx context.Context, report *Report, sp models.ShopifyProduct) error {
	product := sp.ToProduct(s.now())
	id := product.ProductID

	err := s.products.Insert(ctx, product)
	switch {
	case err == nil:
		report.addSynced(id)
	case errors.Is(err, repository.ErrAlreadyExists):
		report.Skipped++
	case errors.Is(err, vectorstore.ErrConnection), errors.Is(err, vectorstore.ErrSchema):
		report.Failed = append(report.Failed, id)
		return fmt.Errorf("insert product %s: %w", id, err)
	default:
		report.Failed = append(report.Failed, id)
		s.logger.Warn("product sync failed, continuing",
			zap.String("product_id", id),
			zap.Int("page", report.Pages),
			zap.Error(err),
		)
	}
	return nil
}

func (s *Syncer) finish(ctx context.Context, report *Report, runErr error) (*Report, error) {
	report.FinishedAt = s.now()

	fields := []zap.Field{
		zap.Int("synced", len(report.Synced)),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", len(report.Failed)),
		zap.Int("pages", report.Pages),
		zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	}
	if runErr != nil {
		s.logger.Error("sync aborted", append(fields, zap.Error(runErr))...)
	} else {
		s.logger.Info("sync finished", fields...)
	}

	if s.metrics != nil {
		s.metrics.RecordSync(len(report.Synced), report.Skipped, len(report.Failed))
	}

	run := &ledger.SyncRun{
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Pages:      report.Pages,
		Synced:     report.Synced,
		Skipped:    report.Skipped,
		Failed:     report.Failed,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := s.ledger.RecordSyncRun(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Warn("sync run not recorded", zap.Error(err))
	}

	return report, runErr
}
