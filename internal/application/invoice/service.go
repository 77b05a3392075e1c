// Package invoice orchestrates the invoice generation use case: raw form
// input is validated into the domain model, serialized to CII XML, and
// optionally archived.
package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/mbellec/facturx/internal/core/archive"
	"github.com/mbellec/facturx/internal/core/cii"
	coreinvoice "github.com/mbellec/facturx/internal/core/invoice"
)

// Service wires the pure invoice core to its collaborators. The emitter
// identity is injected once and shared read-only by every request.
type Service struct {
	emitter coreinvoice.Emitter
	repo    archive.Repository // optional: nil disables archiving
	log     *slog.Logger
}

// NewService creates the invoice service. repo may be nil when no database
// is configured; generation then skips archiving.
func NewService(emitter coreinvoice.Emitter, repo archive.Repository, log *slog.Logger) *Service {
	return &Service{emitter: emitter, repo: repo, log: log}
}

// GenerateResult is the output handed to the rendering layer: the immutable
// model (for PDF layout and tabular display) and the serialized XML (for
// embedding and export).
type GenerateResult struct {
	Invoice *coreinvoice.FacturXInvoice
	XML     []byte
	Profile string
	PDFPath string
}

// Validate runs form validation only, without generating anything. The form
// UI uses it to check step-1 input before the user enters lines.
func (s *Service) Validate(form coreinvoice.InvoiceForm) error {
	_, err := form.Build(s.emitter)
	return err
}

// Generate validates the form, builds the invoice, serializes it and, when
// a repository is configured, archives the result. Validation failures come
// back as *coreinvoice.ValidationError with every violated field listed.
func (s *Service) Generate(ctx context.Context, form coreinvoice.InvoiceForm) (*GenerateResult, error) {
	inv, err := form.Build(s.emitter)
	if err != nil {
		return nil, err
	}

	xmlDoc, err := cii.Generate(inv)
	if err != nil {
		// The model construction invariant should make this unreachable;
		// fail loudly rather than hand out malformed XML.
		s.log.Error("CII serialization failed for a validated invoice",
			"invoice_number", inv.Number,
			"error", err,
		)
		return nil, fmt.Errorf("serialize invoice %s: %w", inv.Number, err)
	}

	result := &GenerateResult{
		Invoice: inv,
		XML:     xmlDoc,
		Profile: cii.Profile(inv),
	}
	if s.emitter.PDFStorage != "" {
		result.PDFPath = path.Join(s.emitter.PDFStorage, inv.Number+".pdf")
	}

	if s.repo != nil {
		rec := archive.Record{
			InvoiceNumber: inv.Number,
			BuyerName:     inv.Buyer.Name,
			BuyerSIRET:    inv.Buyer.SIRET,
			XML:           xmlDoc,
			PDFPath:       result.PDFPath,
			IssueDate:     inv.IssueDate,
		}
		if err := s.repo.Save(ctx, rec); err != nil {
			return nil, fmt.Errorf("archive invoice %s: %w", inv.Number, err)
		}
		s.log.Info("invoice archived",
			"invoice_number", inv.Number,
			"buyer_siret", inv.Buyer.SIRET,
			"profile", result.Profile,
		)
	}

	return result, nil
}

// MarkValidated records that an external schema check accepted the archived
// document, stamping the validation time on the record.
func (s *Service) MarkValidated(ctx context.Context, number string) error {
	if s.repo == nil {
		return fmt.Errorf("invoice archive is not configured")
	}
	at := time.Now().UTC()
	if err := s.repo.MarkValidated(ctx, number, at); err != nil {
		return err
	}
	s.log.Info("invoice marked validated", "invoice_number", number, "validated_at", at)
	return nil
}

// ArchivedXML returns the stored CII XML of a previously generated invoice.
func (s *Service) ArchivedXML(ctx context.Context, number string) ([]byte, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("invoice archive is not configured")
	}
	rec, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return rec.XML, nil
}
