package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"clinicdesk/m/internal/api"
	"clinicdesk/m/internal/database"
	"clinicdesk/m/internal/migrations"
	"clinicdesk/m/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	migrations.Run(db)

	h := api.New(store.New(db), zerolog.Nop())
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func createPatient(t *testing.T, base string) int64 {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, base+"/patients", map[string]any{
		"full_name": "Maria Gomez", "age": 34, "gender": "F",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create patient status %d: %v", resp.StatusCode, body)
	}
	return int64(body["id"].(float64))
}

func createItem(t *testing.T, base, name string, qty int64, price float64) {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, base+"/inventory", map[string]any{
		"name": name, "category": "Medicine", "quantity": qty, "price_per_unit": price,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create item status %d: %v", resp.StatusCode, body)
	}
}

func TestCreatePatientEndpoint(t *testing.T) {
	srv := newTestServer(t)

	id := createPatient(t, srv.URL)

	resp, body := doJSON(t, http.MethodGet, fmt.Sprintf("%s/patients/%d", srv.URL, id), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get patient status %d", resp.StatusCode)
	}
	if body["full_name"] != "Maria Gomez" {
		t.Fatalf("unexpected patient body: %v", body)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/patients", map[string]any{
		"full_name": "Bad Age", "age": -1, "gender": "M",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid age, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/patients/9999", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for missing patient, got %d", resp.StatusCode)
	}
}

func TestAppointmentEndpoint(t *testing.T) {
	srv := newTestServer(t)

	patientID := createPatient(t, srv.URL)
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/staff", map[string]any{
		"full_name": "Dr. Lee", "role": "Doctor", "specialization": "Cardiology",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create staff status %d: %v", resp.StatusCode, body)
	}
	doctorID := int64(body["id"].(float64))

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/appointments", map[string]any{
		"patient_id": patientID, "doctor_id": doctorID,
		"scheduled_time": "2026-09-01 10:00", "notes": "Routine checkup",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create appointment status %d: %v", resp.StatusCode, body)
	}
	if body["status"] != "Scheduled" {
		t.Fatalf("expected status Scheduled, got %v", body["status"])
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/appointments", map[string]any{
		"patient_id": int64(9999), "doctor_id": doctorID, "scheduled_time": "2026-09-01 10:00",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown patient, got %d", resp.StatusCode)
	}
}

func TestDuplicateItemEndpoint(t *testing.T) {
	srv := newTestServer(t)

	createItem(t, srv.URL, "Ibuprofen", 10, 3.25)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/inventory", map[string]any{
		"name": "Ibuprofen", "category": "Medicine", "quantity": 5, "price_per_unit": 3.25,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate item, got %d", resp.StatusCode)
	}
}

func TestInvoiceFlow(t *testing.T) {
	srv := newTestServer(t)

	patientID := createPatient(t, srv.URL)
	createItem(t, srv.URL, "Paracetamol", 50, 2.50)
	createItem(t, srv.URL, "Bandages", 3, 1.10)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/invoices", map[string]any{"patient_id": patientID})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("begin invoice status %d: %v", resp.StatusCode, body)
	}
	token := body["token"].(string)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/invoices/"+token+"/fees", map[string]any{"amount": 50.00})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add fee status %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/invoices/"+token+"/items", map[string]any{
		"item_name": "Paracetamol", "quantity": 5,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add draw status %d", resp.StatusCode)
	}

	// A draw over available stock is rejected with the available count but
	// leaves the draft open.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/invoices/"+token+"/items", map[string]any{
		"item_name": "Bandages", "quantity": 5,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for insufficient stock, got %d", resp.StatusCode)
	}
	if body["available"].(float64) != 3 {
		t.Fatalf("expected available 3, got %v", body["available"])
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/invoices/"+token+"/finalize", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("finalize status %d: %v", resp.StatusCode, body)
	}
	if body["total_amount"] != "62.5" {
		t.Fatalf("total = %v, want 62.5", body["total_amount"])
	}
	if body["payment_status"] != "Unpaid" {
		t.Fatalf("payment status = %v", body["payment_status"])
	}
	if body["summary"] != "Consultation: $50.00; Paracetamol x5: $12.50" {
		t.Fatalf("summary = %v", body["summary"])
	}

	// Stock was debited along the way.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/inventory/lookup?name=Paracetamol", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("lookup status %d", resp.StatusCode)
	}
	if body["quantity"].(float64) != 45 {
		t.Fatalf("stock = %v, want 45", body["quantity"])
	}

	resp, body = doJSON(t, http.MethodGet, fmt.Sprintf("%s/patients/%d/bills", srv.URL, patientID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list bills status %d", resp.StatusCode)
	}
}

func TestBeginInvoiceUnknownPatient(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/invoices", map[string]any{"patient_id": 7})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestDiscardInvoiceEndpoint(t *testing.T) {
	srv := newTestServer(t)

	patientID := createPatient(t, srv.URL)
	createItem(t, srv.URL, "Paracetamol", 50, 2.50)

	_, body := doJSON(t, http.MethodPost, srv.URL+"/invoices", map[string]any{"patient_id": patientID})
	token := body["token"].(string)

	doJSON(t, http.MethodPost, srv.URL+"/invoices/"+token+"/items", map[string]any{
		"item_name": "Paracetamol", "quantity": 5,
	})

	resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/invoices/"+token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("discard status %d", resp.StatusCode)
	}

	_, body = doJSON(t, http.MethodGet, srv.URL+"/inventory/lookup?name=Paracetamol", nil)
	if body["quantity"].(float64) != 50 {
		t.Fatalf("stock = %v, want 50 after discard", body["quantity"])
	}
}

func TestAdjustStockEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/inventory", map[string]any{
		"name": "Gloves", "category": "Supplies", "quantity": 4, "price_per_unit": 0.30,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create item status %d", resp.StatusCode)
	}
	itemID := int64(body["id"].(float64))

	resp, body = doJSON(t, http.MethodPost, fmt.Sprintf("%s/inventory/%d/adjust", srv.URL, itemID), map[string]any{"delta": -3})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("adjust status %d", resp.StatusCode)
	}
	if body["quantity"].(float64) != 1 {
		t.Fatalf("quantity = %v, want 1", body["quantity"])
	}

	resp, body = doJSON(t, http.MethodPost, fmt.Sprintf("%s/inventory/%d/adjust", srv.URL, itemID), map[string]any{"delta": -2})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if body["available"].(float64) != 1 {
		t.Fatalf("available = %v, want 1", body["available"])
	}

	// Default reorder level flags the item as low stock.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/inventory/low-stock", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("low-stock status %d", resp.StatusCode)
	}
}
