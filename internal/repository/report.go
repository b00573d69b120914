package repository

import (
	"context"
	"fmt"

	"ymlfeed/report/internal/domain"

	"github.com/jackc/pgx/v5"
)

type ReportRepository interface {
	SaveReport(ctx context.Context, report *domain.Report) error
}

// txBeginner is satisfied by *pgxpool.Pool.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type reportRepository struct {
	db txBeginner
}

func NewReportRepository(db txBeginner) ReportRepository {
	return &reportRepository{
		db: db,
	}
}

const upsertCategoryOffers = `
	INSERT INTO category_offers (source, position, category_path, offers, generated_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (source, position)
	DO UPDATE SET category_path = $3, offers = $4, generated_at = $5`

const trimCategoryOffers = `DELETE FROM category_offers WHERE source = $1 AND position >= $2`

// SaveReport replaces the stored rows of report.Source in one transaction,
// sending every statement in a single batch round trip.
func (r *reportRepository) SaveReport(ctx context.Context, report *domain.Report) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	batch := &pgx.Batch{}
	for i, row := range report.Rows {
		batch.Queue(upsertCategoryOffers, report.Source, i, row.Path, row.Count, report.GeneratedAt)
	}
	batch.Queue(trimCategoryOffers, report.Source, len(report.Rows))

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err = results.Exec(); err != nil {
			_ = results.Close()
			if i < len(report.Rows) {
				return fmt.Errorf("failed to save report row %d: %w", i, err)
			}
			return fmt.Errorf("failed to trim stale report rows: %w", err)
		}
	}
	if err = results.Close(); err != nil {
		return fmt.Errorf("failed to send report batch: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit report: %w", err)
	}

	return nil
}
