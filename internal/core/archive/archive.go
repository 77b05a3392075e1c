// Package archive defines the persistence record for generated invoices.
// The core only hands data to a Repository; the Postgres implementation
// lives in the adapters layer.
package archive

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no archived invoice matches the number.
var ErrNotFound = errors.New("archived invoice not found")

// Record is one generated invoice as persisted. ValidatedAt stays nil until
// an external schema check confirms the XML; this service never sets it at
// generation time.
type Record struct {
	InvoiceNumber string
	BuyerName     string
	BuyerSIRET    string
	XML           []byte
	PDFPath       string
	IssueDate     time.Time
	ValidatedAt   *time.Time
}

// Repository persists and retrieves generated invoices. The invoice number
// is the primary key.
type Repository interface {
	Save(ctx context.Context, rec Record) error
	FindByNumber(ctx context.Context, number string) (Record, error)
	MarkValidated(ctx context.Context, number string, at time.Time) error
}
