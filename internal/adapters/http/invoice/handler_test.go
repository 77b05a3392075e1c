package invoice

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	appinvoice "github.com/mbellec/facturx/internal/application/invoice"
	"github.com/mbellec/facturx/internal/testutil"
)

func newTestRouter(t *testing.T, repo *testutil.MockArchiveRepository) http.Handler {
	t.Helper()
	log := testutil.NewLogger()
	service := appinvoice.NewService(testutil.EmitterFixture(), repo, log)
	handler := NewHandler(service, log)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		handler.Routes(r)
	})
	return r
}

const validBody = `{
	"invoice_number": "FA-2026-007",
	"issue_date": "2026-06-01",
	"type_code": "380",
	"currency_code": "EUR",
	"recipient_name": "Client SAS",
	"recipient_siret": "55210055400013",
	"recipient_country_code": "FR",
	"lines": [
		{"description": "Conseil", "quantity": "2", "unit_price": "100.00", "vat_rate": "20"},
		{"description": "Formation", "quantity": "1", "unit_price": "80.00", "vat_rate": "5.5"}
	]
}`

func TestCreateInvoice_Success(t *testing.T) {
	repo := testutil.NewMockArchiveRepository()
	router := newTestRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
	}

	var resp CreateInvoiceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if !resp.Success {
		t.Error("expected success")
	}
	if resp.InvoiceNumber != "FA-2026-007" {
		t.Errorf("invoice number = %s", resp.InvoiceNumber)
	}
	if resp.TypeLabel != "Facture" {
		t.Errorf("type label = %s, want Facture", resp.TypeLabel)
	}
	if resp.Totals.Net != "280.00" || resp.Totals.VAT != "44.40" || resp.Totals.Gross != "324.40" {
		t.Errorf("totals = %+v", resp.Totals)
	}
	if len(resp.VATBreakdown) != 2 {
		t.Fatalf("breakdown rows = %d, want 2", len(resp.VATBreakdown))
	}
	if resp.VATBreakdown[0].Rate != "20.00" || resp.VATBreakdown[1].Rate != "5.50" {
		t.Errorf("breakdown order = %+v", resp.VATBreakdown)
	}
	if !strings.Contains(resp.XML, "CrossIndustryInvoice") {
		t.Error("response XML is not a CII document")
	}
	if repo.SaveCalls() != 1 {
		t.Errorf("save calls = %d, want 1", repo.SaveCalls())
	}
}

func TestCreateInvoice_ValidationFailureLists422(t *testing.T) {
	router := newTestRouter(t, testutil.NewMockArchiveRepository())

	body := `{
		"invoice_number": "",
		"issue_date": "2026-06-01",
		"recipient_name": "Client SAS",
		"recipient_siret": "123",
		"recipient_country_code": "FR",
		"lines": []
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success {
		t.Error("expected success=false")
	}

	fields := make(map[string]bool)
	for _, fe := range resp.Errors {
		fields[fe.Field] = true
	}
	for _, want := range []string{"invoice_number", "recipient_siret", "lines"} {
		if !fields[want] {
			t.Errorf("missing field error %q in %v", want, fields)
		}
	}
}

func TestCreateInvoice_MalformedJSON(t *testing.T) {
	router := newTestRouter(t, testutil.NewMockArchiveRepository())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestValidateInvoice(t *testing.T) {
	router := newTestRouter(t, testutil.NewMockArchiveRepository())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/validate", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestGetInvoiceXML(t *testing.T) {
	repo := testutil.NewMockArchiveRepository()
	router := newTestRouter(t, repo)

	// Generate first so the archive holds the document.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("setup generation failed: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/invoices/FA-2026-007/xml", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Errorf("content type = %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "<ram:ID>FA-2026-007</ram:ID>") {
		t.Error("served XML does not carry the invoice number")
	}
}

func TestMarkInvoiceValidated(t *testing.T) {
	repo := testutil.NewMockArchiveRepository()
	router := newTestRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("setup generation failed: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/invoices/FA-2026-007/validated", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/invoices/FA-0000-000/validated", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetInvoiceXML_NotFound(t *testing.T) {
	router := newTestRouter(t, testutil.NewMockArchiveRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/FA-0000-000/xml", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
