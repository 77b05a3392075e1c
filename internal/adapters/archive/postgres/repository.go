// Package postgres implements the invoice archive repository on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbellec/facturx/internal/core/archive"
)

// Repository implements archive.Repository using a pgx connection pool.
type Repository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewRepository creates a PostgreSQL archive repository.
func NewRepository(pool *pgxpool.Pool, log *slog.Logger) *Repository {
	return &Repository{pool: pool, log: log}
}

// Save persists a generated invoice. The invoice number is the primary key;
// regenerating an invoice overwrites its previous archive entry and clears
// any earlier validation timestamp.
func (r *Repository) Save(ctx context.Context, rec archive.Record) error {
	query := `
		INSERT INTO invoice_archive (
			invoice_number, buyer_name, buyer_siret, xml, pdf_path, issue_date
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (invoice_number) DO UPDATE SET
			buyer_name = EXCLUDED.buyer_name,
			buyer_siret = EXCLUDED.buyer_siret,
			xml = EXCLUDED.xml,
			pdf_path = EXCLUDED.pdf_path,
			issue_date = EXCLUDED.issue_date,
			validated_at = NULL
	`

	_, err := r.pool.Exec(ctx, query,
		rec.InvoiceNumber,
		rec.BuyerName,
		rec.BuyerSIRET,
		rec.XML,
		nullableString(rec.PDFPath),
		rec.IssueDate,
	)
	if err != nil {
		return fmt.Errorf("insert invoice archive entry: %w", err)
	}

	if r.log != nil {
		r.log.Debug("invoice archive entry saved",
			"invoice_number", rec.InvoiceNumber,
			"buyer_siret", rec.BuyerSIRET,
		)
	}
	return nil
}

// FindByNumber loads one archived invoice.
func (r *Repository) FindByNumber(ctx context.Context, number string) (archive.Record, error) {
	query := `
		SELECT invoice_number, buyer_name, buyer_siret, xml, pdf_path, issue_date, validated_at
		FROM invoice_archive
		WHERE invoice_number = $1
	`

	var rec archive.Record
	var pdfPath *string
	err := r.pool.QueryRow(ctx, query, number).Scan(
		&rec.InvoiceNumber,
		&rec.BuyerName,
		&rec.BuyerSIRET,
		&rec.XML,
		&pdfPath,
		&rec.IssueDate,
		&rec.ValidatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return archive.Record{}, archive.ErrNotFound
	}
	if err != nil {
		return archive.Record{}, fmt.Errorf("query invoice archive entry: %w", err)
	}
	if pdfPath != nil {
		rec.PDFPath = *pdfPath
	}
	return rec, nil
}

// MarkValidated records the timestamp of a successful external schema check.
func (r *Repository) MarkValidated(ctx context.Context, number string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invoice_archive SET validated_at = $2 WHERE invoice_number = $1`,
		number, at,
	)
	if err != nil {
		return fmt.Errorf("mark invoice validated: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return archive.ErrNotFound
	}
	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
