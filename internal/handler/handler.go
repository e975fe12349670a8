package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/BinaryNexusLab/real-estate/internal/analysis"
	"github.com/BinaryNexusLab/real-estate/internal/models"
	"github.com/BinaryNexusLab/real-estate/internal/report"
	"github.com/BinaryNexusLab/real-estate/internal/repository"
	"github.com/BinaryNexusLab/real-estate/internal/search"
	"github.com/BinaryNexusLab/real-estate/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles agent registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !h.decode(w, r, &in) {
		return
	}
	agent, err := h.svc.Register(r.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, agent)
}

// Login handles agent authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !h.decode(w, r, &in) {
		return
	}
	token, err := h.svc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"expires_in": int(service.TokenTTL.Seconds()),
	})
}

// ListClients returns the agent's clients
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.ListClients(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}
	writeJSON(w, http.StatusOK, clients)
}

// CreateClient adds a client
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var in models.Client
	if !h.decode(w, r, &in) {
		return
	}
	c, err := h.svc.CreateClient(r.Context(), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// GetClient returns one client
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetClient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateClient replaces a client's details
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var in models.Client
	if !h.decode(w, r, &in) {
		return
	}
	c, err := h.svc.UpdateClient(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteClient removes a client
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteClient(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchForClient ranks the listings that suit a client
func (h *Handler) SearchForClient(w http.ResponseWriter, r *http.Request) {
	criteria, priority, order, err := parseSearch(r)
	if err != nil {
		h.badRequest(w, err)
		return
	}
	ranked, err := h.svc.SearchForClient(r.Context(), mux.Vars(r)["id"], criteria, priority, order)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rankedOrEmpty(ranked))
}

// AnalyzeForClient analyses one listing for a client
func (h *Handler) AnalyzeForClient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ca, err := h.svc.AnalyzeForClient(r.Context(), vars["id"], vars["propertyId"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ca)
}

// ProjectionForClient returns the year-by-year outlook
func (h *Handler) ProjectionForClient(w http.ResponseWriter, r *http.Request) {
	years, err := intParam(r, "years")
	if err != nil {
		h.badRequest(w, err)
		return
	}
	vars := mux.Vars(r)
	points, err := h.svc.ProjectionForClient(r.Context(), vars["id"], vars["propertyId"], years)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// Report downloads the analysis as CSV, HTML or PDF
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.badRequest(w, err)
		return
	}
	vars := mux.Vars(r)
	var buf bytes.Buffer
	filename, err := h.svc.RenderReport(r.Context(), vars["id"], vars["propertyId"], format, &buf)
	if err != nil {
		h.fail(w, err)
		return
	}

	disposition := "attachment"
	if format == report.FormatHTML {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// EmailReport mails the analysis to the client
func (h *Handler) EmailReport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.EmailReport(r.Context(), vars["id"], vars["propertyId"]); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

type shareRequest struct {
	ExpiresInHours int `json:"expires_in_hours"`
}

// Share issues a signed link to the HTML report
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	var in shareRequest
	if r.ContentLength != 0 && !h.decode(w, r, &in) {
		return
	}
	vars := mux.Vars(r)
	ttl := time.Duration(in.ExpiresInHours) * time.Hour
	token, expiresAt, err := h.svc.ShareToken(r.Context(), vars["id"], vars["propertyId"], ttl)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"token":      token,
		"path":       "/shared/" + token,
		"expires_at": expiresAt,
	})
}

// Shared serves the report behind a share link
func (h *Handler) Shared(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.RenderShared(r.Context(), mux.Vars(r)["token"], &buf); err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", report.FormatHTML.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ListProperties ranks the market
func (h *Handler) ListProperties(w http.ResponseWriter, r *http.Request) {
	criteria, priority, order, err := parseSearch(r)
	if err != nil {
		h.badRequest(w, err)
		return
	}
	ranked, err := h.svc.ListProperties(r.Context(), criteria, priority, order)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rankedOrEmpty(ranked))
}

// Exceptional lists the best opportunities on the market
func (h *Handler) Exceptional(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.svc.Exceptional(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rankedOrEmpty(ranked))
}

// GetProperty analyses one listing under market assumptions
func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.svc.AnalyzeProperty(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranked)
}

// MarketRate returns the current lending rate, fetching it if none is held
func (h *Handler) MarketRate(w http.ResponseWriter, r *http.Request) {
	q, ok := h.svc.MarketRate()
	if !ok {
		var err error
		if q, err = h.svc.RefreshMarketRate(r.Context()); err != nil {
			h.fail(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, q)
}

func parseSearch(r *http.Request) (search.Criteria, search.Priority, search.Order, error) {
	q := r.URL.Query()
	c := search.Criteria{
		State:        q.Get("state"),
		PropertyType: q.Get("property_type"),
		Query:        q.Get("q"),
		Location:     q.Get("location"),
	}
	var err error
	if c.MinPrice, err = floatParam(r, "min_price"); err != nil {
		return c, "", "", err
	}
	if c.MaxPrice, err = floatParam(r, "max_price"); err != nil {
		return c, "", "", err
	}
	if c.Budget, err = floatParam(r, "budget"); err != nil {
		return c, "", "", err
	}
	if c.MinBedrooms, err = intParam(r, "min_bedrooms"); err != nil {
		return c, "", "", err
	}
	priority, err := search.ParsePriority(q.Get("priority"))
	if err != nil {
		return c, "", "", err
	}
	order, err := search.ParseOrder(q.Get("order"))
	if err != nil {
		return c, "", "", err
	}
	return c, priority, order, nil
}

func floatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative number", name)
	}
	return v, nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return v, nil
}

func rankedOrEmpty(r []search.Ranked) []search.Ranked {
	if r == nil {
		return []search.Ranked{}
	}
	return r
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		h.badRequest(w, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (h *Handler) badRequest(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, err.Error())
}

// fail maps service errors onto HTTP statuses.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analysis.ErrInvalidInput), errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrInvalidShareToken):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrRateUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.log.Errorf("Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
