package nlp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/omrozmn/x-ear-nlp/pkg/common/logger"
	"github.com/omrozmn/x-ear-nlp/pkg/observability/metrics"
)

type Handler struct {
	service *Service
	repo    *Repository
}

func NewHandler(service *Service, repo *Repository) *Handler {
	return &Handler{service: service, repo: repo}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/initialize", h.handleInitialize).Methods(http.MethodPost)
	r.HandleFunc("/process", h.handleProcess).Methods(http.MethodPost)
	r.HandleFunc("/entities", h.handleEntities).Methods(http.MethodPost)
	r.HandleFunc("/extract_patient", h.handleExtractPatient).Methods(http.MethodPost)
	r.HandleFunc("/similarity", h.handleSimilarity).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/extractions", h.handleListExtractions).Methods(http.MethodGet)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "healthy",
		"initialized": h.service.Initialized(),
		"model_tier":  h.service.ModelTier(),
		"timestamp":   time.Now().UTC(),
	})
}

func (h *Handler) handleInitialize(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Initialize(); err != nil {
		logger.Log.WithError(err).Error("Initialization failed")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success":   false,
			"error":     err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    "NLP service initialized successfully",
		"model_tier": h.service.ModelTier(),
		"timestamp":  time.Now().UTC(),
	})
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Type == "" {
		req.Type = "medical"
	}

	result, err := h.service.ProcessDocument(r.Context(), req.Text, req.Type)
	if err != nil {
		h.writeError(w, err)
		return
	}
	metrics.IncDocumentsProcessed()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"result":    result,
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) handleEntities(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.service.ProcessDocument(r.Context(), req.Text, "medical")
	if err != nil {
		h.writeError(w, err)
		return
	}
	metrics.IncDocumentsProcessed()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"entities":        result.Entities,
		"custom_entities": result.CustomEntities,
		"medical_terms":   result.MedicalTerms,
		"timestamp":       time.Now().UTC(),
	})
}

func (h *Handler) handleExtractPatient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.service.ExtractPatientName(r.Context(), req.Text)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if result != nil {
		metrics.IncNamesExtracted()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"patient_info": result,
		"timestamp":    time.Now().UTC(),
	})
}

func (h *Handler) handleSimilarity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text1 string `json:"text1"`
		Text2 string `json:"text2"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.service.Similarity(r.Context(), req.Text1, req.Text2)
	if err != nil {
		h.writeError(w, err)
		return
	}
	metrics.IncSimilarityRequests()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"result":    result,
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) handleListExtractions(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		http.Error(w, "audit trail not enabled", http.StatusNotFound)
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	items, err := h.repo.ListRecent(r.Context(), limit)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list extractions")
		http.Error(w, "failed to list extractions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrEmptyInput):
		metrics.IncEmptyInputRejections()
		status = http.StatusBadRequest
	case errors.Is(err, ErrModelUnavailable):
		status = http.StatusServiceUnavailable
	default:
		metrics.IncProcessingErrors()
		logger.Log.WithError(err).Error("Processing error")
	}
	writeJSON(w, status, map[string]interface{}{
		"success":   false,
		"error":     err.Error(),
		"timestamp": time.Now().UTC(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithError(err).Error("Failed to encode response")
	}
}
