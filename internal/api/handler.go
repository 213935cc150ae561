package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"clinicdesk/m/domain"
	"clinicdesk/m/internal/billing"
	"clinicdesk/m/internal/inventory"
	"clinicdesk/m/internal/scheduling"
	"clinicdesk/m/internal/store"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store     *store.Store
	ledger    *inventory.Ledger
	scheduler *scheduling.Scheduler
	composer  *billing.Composer
	log       zerolog.Logger
}

// New constructs a Handler.
func New(st *store.Store, log zerolog.Logger) *Handler {
	ledger := inventory.NewLedger(st)
	return &Handler{
		store:     st,
		ledger:    ledger,
		scheduler: scheduling.NewScheduler(st),
		composer:  billing.NewComposer(st, ledger),
		log:       log,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/patients", func(r chi.Router) {
		r.Post("/", h.createPatient)
		r.Get("/", h.listPatients)
		r.Get("/search", h.searchPatients)
		r.Get("/{id}", h.getPatient)
		r.Delete("/{id}", h.deletePatient)
		r.Get("/{id}/bills", h.listPatientBills)
	})

	r.Route("/staff", func(r chi.Router) {
		r.Post("/", h.createStaff)
		r.Get("/", h.listStaff)
	})
	r.Get("/doctors", h.listDoctors)

	r.Route("/inventory", func(r chi.Router) {
		r.Post("/", h.addItem)
		r.Post("/{id}/adjust", h.adjustStock)
		r.Get("/lookup", h.lookupItem)
		r.Get("/low-stock", h.lowStock)
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", h.createAppointment)
		r.Get("/{id}", h.getAppointment)
	})

	r.Route("/invoices", func(r chi.Router) {
		r.Post("/", h.beginInvoice)
		r.Post("/{token}/fees", h.addFlatFee)
		r.Post("/{token}/items", h.addInventoryDraw)
		r.Post("/{token}/finalize", h.finalizeInvoice)
		r.Delete("/{token}", h.discardInvoice)
	})

	r.Get("/bills/{id}", h.getBill)

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Patient handlers

type patientRequest struct {
	FullName       string `json:"full_name"`
	Age            int64  `json:"age"`
	Gender         string `json:"gender"`
	ContactNumber  string `json:"contact_number"`
	Address        string `json:"address"`
	BloodGroup     string `json:"blood_group"`
	MedicalHistory string `json:"medical_history"`
}

func (h *Handler) createPatient(w http.ResponseWriter, r *http.Request) {
	var req patientRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.store.CreatePatient(r.Context(), &domain.Patient{
		FullName:       req.FullName,
		Age:            req.Age,
		Gender:         req.Gender,
		ContactNumber:  req.ContactNumber,
		Address:        req.Address,
		BloodGroup:     req.BloodGroup,
		MedicalHistory: req.MedicalHistory,
	})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *Handler) listPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.store.ListPatients(r.Context())
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, patients)
}

func (h *Handler) searchPatients(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	patients, err := h.store.FindPatientsByName(r.Context(), query)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, patients)
}

func (h *Handler) getPatient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid patient id")
		return
	}
	patient, err := h.store.GetPatient(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, patient)
}

func (h *Handler) deletePatient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid patient id")
		return
	}
	if err := h.store.DeletePatient(r.Context(), id); err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Staff handlers

type staffRequest struct {
	FullName       string  `json:"full_name"`
	Role           string  `json:"role"`
	Specialization *string `json:"specialization,omitempty"`
	ShiftTiming    string  `json:"shift_timing"`
	ContactNumber  string  `json:"contact_number"`
}

func (h *Handler) createStaff(w http.ResponseWriter, r *http.Request) {
	var req staffRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.store.CreateStaff(r.Context(), &domain.Staff{
		FullName:       req.FullName,
		Role:           req.Role,
		Specialization: req.Specialization,
		ShiftTiming:    req.ShiftTiming,
		ContactNumber:  req.ContactNumber,
	})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *Handler) listStaff(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role != "" && !domain.ValidRole(role) {
		respondError(w, http.StatusBadRequest, "unknown role filter")
		return
	}
	staff, err := h.store.ListStaff(r.Context(), role)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, staff)
}

func (h *Handler) listDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.scheduler.ListDoctors(r.Context())
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doctors)
}

// Inventory handlers

type itemRequest struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Quantity     int64   `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	ExpiryDate   *string `json:"expiry_date,omitempty"`
	ReorderLevel *int64  `json:"reorder_level,omitempty"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	reorder := int64(domain.DefaultReorderLevel)
	if req.ReorderLevel != nil {
		reorder = *req.ReorderLevel
	}
	id, err := h.ledger.AddItem(r.Context(), &domain.InventoryItem{
		Name:         req.Name,
		Category:     req.Category,
		Quantity:     req.Quantity,
		PricePerUnit: req.PricePerUnit,
		ExpiryDate:   req.ExpiryDate,
		ReorderLevel: reorder,
	})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var payload struct {
		Delta int64 `json:"delta"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	newQty, err := h.ledger.AdjustStock(r.Context(), id, payload.Delta)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"quantity": newQty})
}

func (h *Handler) lookupItem(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	item, err := h.ledger.LookupItem(r.Context(), name)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.ledger.ListLowStock(r.Context())
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Appointment handlers

type appointmentRequest struct {
	PatientID     int64  `json:"patient_id"`
	DoctorID      int64  `json:"doctor_id"`
	ScheduledTime string `json:"scheduled_time"`
	Notes         string `json:"notes"`
}

func (h *Handler) createAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.scheduler.Schedule(r.Context(), req.PatientID, req.DoctorID, req.ScheduledTime, req.Notes)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": id, "status": domain.AppointmentScheduled})
}

func (h *Handler) getAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}
	appt, err := h.store.GetAppointment(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, appt)
}

// Invoice handlers

type draftResponse struct {
	Token     string            `json:"token"`
	PatientID int64             `json:"patient_id"`
	Lines     []domain.BillLine `json:"lines"`
	Total     decimal.Decimal   `json:"total"`
}

func toDraftResponse(d *billing.Draft) draftResponse {
	lines := d.Lines
	if lines == nil {
		lines = []domain.BillLine{}
	}
	return draftResponse{Token: d.Token, PatientID: d.PatientID, Lines: lines, Total: d.Total}
}

func (h *Handler) beginInvoice(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PatientID int64 `json:"patient_id"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	draft, err := h.composer.Begin(r.Context(), payload.PatientID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toDraftResponse(draft))
}

func (h *Handler) addFlatFee(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	var payload struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	draft, err := h.composer.AddFlatFee(token, payload.Amount)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toDraftResponse(draft))
}

func (h *Handler) addInventoryDraw(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	var payload struct {
		ItemName string `json:"item_name"`
		Quantity int64  `json:"quantity"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	draft, err := h.composer.AddInventoryDraw(r.Context(), token, payload.ItemName, payload.Quantity)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toDraftResponse(draft))
}

func (h *Handler) finalizeInvoice(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	billID, err := h.composer.Finalize(r.Context(), token)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	bill, err := h.store.GetBill(r.Context(), billID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, billResponse(bill))
}

func (h *Handler) discardInvoice(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if err := h.composer.Discard(r.Context(), token); err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "discarded"})
}

// Bill handlers

func billResponse(b *domain.Bill) map[string]any {
	items := b.Items
	if items == nil {
		items = []domain.BillLine{}
	}
	return map[string]any{
		"id":             b.ID,
		"patient_id":     b.PatientID,
		"total_amount":   b.TotalAmount,
		"payment_status": b.PaymentStatus,
		"generated_at":   b.GeneratedAt,
		"items":          items,
		"summary":        b.Summary(),
	}
}

func (h *Handler) getBill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	bill, err := h.store.GetBill(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, billResponse(bill))
}

func (h *Handler) listPatientBills(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid patient id")
		return
	}
	if _, err := h.store.GetPatient(r.Context(), id); err != nil {
		h.respondDomainError(w, err)
		return
	}
	bills, err := h.store.ListBillsByPatient(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	out := make([]map[string]any, len(bills))
	for i := range bills {
		out[i] = billResponse(&bills[i])
	}
	respondJSON(w, http.StatusOK, out)
}

// Error mapping

func (h *Handler) respondDomainError(w http.ResponseWriter, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		respondError(w, http.StatusBadRequest, validation.Error())
		return
	}
	var stock *domain.InsufficientStockError
	if errors.As(err, &stock) {
		respondJSON(w, http.StatusConflict, map[string]any{
			"error":     stock.Error(),
			"available": stock.Available,
		})
		return
	}
	var integrity *domain.IntegrityError
	if errors.As(err, &integrity) {
		respondError(w, http.StatusConflict, integrity.Error())
		return
	}
	switch {
	case errors.Is(err, domain.ErrDuplicateItem):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrPatientNotFound),
		errors.Is(err, domain.ErrStaffNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrAppointmentNotFound),
		errors.Is(err, domain.ErrBillNotFound),
		errors.Is(err, domain.ErrDraftNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidDoctor):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("unhandled store error")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// Helpers

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
