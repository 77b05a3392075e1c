// Package invoice bridges HTTP traffic with the invoice application
// service. The handlers treat request bodies as already-decoded but
// unvalidated form fields; all validation happens in the core.
package invoice

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	appinvoice "github.com/mbellec/facturx/internal/application/invoice"
	"github.com/mbellec/facturx/internal/core/archive"
	coreinvoice "github.com/mbellec/facturx/internal/core/invoice"
	httperrors "github.com/mbellec/facturx/internal/infrastructure/http"
)

// Handler exposes invoice generation over HTTP.
type Handler struct {
	service *appinvoice.Service
	log     *slog.Logger
}

// NewHandler creates a new invoice HTTP handler.
func NewHandler(service *appinvoice.Service, log *slog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Routes mounts the invoice endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/invoices", h.CreateInvoice)
	r.Post("/invoices/validate", h.ValidateInvoice)
	r.Get("/invoices/{number}/xml", h.GetInvoiceXML)
	r.Post("/invoices/{number}/validated", h.MarkInvoiceValidated)
}

// TotalsPayload renders the three invoice totals as fixed 2-decimal strings.
type TotalsPayload struct {
	Net   string `json:"net"`
	VAT   string `json:"vat"`
	Gross string `json:"gross"`
}

// BreakdownPayload is one VAT breakdown row, pre-sorted by descending rate
// for direct tabular display.
type BreakdownPayload struct {
	Rate          string `json:"rate"`
	TaxableAmount string `json:"taxable_amount"`
	TaxAmount     string `json:"tax_amount"`
}

// CreateInvoiceResponse is returned on successful generation.
type CreateInvoiceResponse struct {
	Success       bool               `json:"success"`
	InvoiceNumber string             `json:"invoice_number"`
	TypeCode      int                `json:"type_code"`
	TypeLabel     string             `json:"type_label"`
	CurrencyCode  string             `json:"currency_code"`
	Profile       string             `json:"profile"`
	Totals        TotalsPayload      `json:"totals"`
	VATBreakdown  []BreakdownPayload `json:"vat_breakdown"`
	PDFPath       string             `json:"pdf_path,omitempty"`
	XML           string             `json:"xml"`
}

// CreateInvoice handles POST /api/v1/invoices: it validates the submitted
// form, generates the invoice and returns the model summary plus the CII
// XML. Validation failures return 422 with every violated field.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var form coreinvoice.InvoiceForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "invalid JSON body", []string{err.Error()}, h.log)
		return
	}

	result, err := h.service.Generate(r.Context(), form)
	if err != nil {
		var verr *coreinvoice.ValidationError
		if errors.As(err, &verr) {
			httperrors.WriteValidationError(w, verr, h.log)
			return
		}
		h.log.Error("invoice generation failed", "error", err)
		httperrors.WriteError(w, http.StatusInternalServerError, "invoice generation failed", nil, h.log)
		return
	}

	inv := result.Invoice
	totals := inv.Totals()
	resp := CreateInvoiceResponse{
		Success:       true,
		InvoiceNumber: inv.Number,
		TypeCode:      int(inv.TypeCode),
		TypeLabel:     inv.TypeCode.Label(),
		CurrencyCode:  inv.CurrencyCode,
		Profile:       result.Profile,
		Totals: TotalsPayload{
			Net:   totals.Net.StringFixed(),
			VAT:   totals.VAT.StringFixed(),
			Gross: totals.Gross.StringFixed(),
		},
		PDFPath: result.PDFPath,
		XML:     string(result.XML),
	}
	for _, entry := range inv.Breakdown() {
		resp.VATBreakdown = append(resp.VATBreakdown, BreakdownPayload{
			Rate:          entry.Rate.Percent().StringFixed(2),
			TaxableAmount: entry.TaxableAmount.StringFixed(),
			TaxAmount:     entry.TaxAmount.StringFixed(),
		})
	}

	writeJSON(w, http.StatusCreated, resp, h.log)
}

// ValidateInvoice handles POST /api/v1/invoices/validate: it runs the full
// form validation without generating anything, so the form UI can check
// step-1 input early.
func (h *Handler) ValidateInvoice(w http.ResponseWriter, r *http.Request) {
	var form coreinvoice.InvoiceForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "invalid JSON body", []string{err.Error()}, h.log)
		return
	}

	if err := h.service.Validate(form); err != nil {
		var verr *coreinvoice.ValidationError
		if errors.As(err, &verr) {
			httperrors.WriteValidationError(w, verr, h.log)
			return
		}
		h.log.Error("invoice validation failed", "error", err)
		httperrors.WriteError(w, http.StatusInternalServerError, "invoice validation failed", nil, h.log)
		return
	}

	writeJSON(w, http.StatusOK, httperrors.ValidationResponse{Success: true, Errors: []coreinvoice.FieldError{}}, h.log)
}

// GetInvoiceXML handles GET /api/v1/invoices/{number}/xml and serves the
// archived CII document.
func (h *Handler) GetInvoiceXML(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if number == "" {
		httperrors.WriteError(w, http.StatusBadRequest, "invoice number is required", nil, h.log)
		return
	}

	xmlDoc, err := h.service.ArchivedXML(r.Context(), number)
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			httperrors.WriteError(w, http.StatusNotFound, "invoice not found", nil, h.log)
			return
		}
		h.log.Error("archived XML lookup failed", "invoice_number", number, "error", err)
		httperrors.WriteError(w, http.StatusServiceUnavailable, "invoice archive unavailable", nil, h.log)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(xmlDoc); err != nil {
		h.log.Error("failed to write XML response", "invoice_number", number, "error", err)
	}
}

// MarkInvoiceValidated handles POST /api/v1/invoices/{number}/validated.
// The external schema checker calls it after accepting the archived XML.
func (h *Handler) MarkInvoiceValidated(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if number == "" {
		httperrors.WriteError(w, http.StatusBadRequest, "invoice number is required", nil, h.log)
		return
	}

	if err := h.service.MarkValidated(r.Context(), number); err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			httperrors.WriteError(w, http.StatusNotFound, "invoice not found", nil, h.log)
			return
		}
		h.log.Error("marking invoice validated failed", "invoice_number", number, "error", err)
		httperrors.WriteError(w, http.StatusServiceUnavailable, "invoice archive unavailable", nil, h.log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, statusCode int, body any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}
