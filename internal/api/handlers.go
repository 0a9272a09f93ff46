// Package api is the HTTP façade over the attraction and auth services.
//
// Handlers decode JSON bodies into service payloads, call exactly one service
// operation and translate service errors into status codes. Response bodies
// keep the French messages expected by the park frontend.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mmynk/parcattraction/internal/auth"
	"github.com/mmynk/parcattraction/internal/middleware"
	"github.com/mmynk/parcattraction/internal/service"
)

const maxBodyBytes = 1 << 20

// Handler provides HTTP handlers for catalogue and login operations.
type Handler struct {
	attractions *service.AttractionService
	auth        *service.AuthService
	logger      *slog.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(attractions *service.AttractionService, authService *service.AuthService, logger *slog.Logger) *Handler {
	return &Handler{
		attractions: attractions,
		auth:        authService,
		logger:      logger,
	}
}

// MessageResponse is the body of simple acknowledgements and errors.
type MessageResponse struct {
	Message string `json:"message"`
}

// AttractionCreatedResponse is returned by POST /attraction.
// Result is the attraction ID, or false when the write was refused.
type AttractionCreatedResponse struct {
	Message string `json:"message"`
	Result  any    `json:"result"`
}

// ReviewCreatedResponse is returned by POST /critique.
type ReviewCreatedResponse struct {
	Message  string `json:"message"`
	ReviewID int64  `json:"critique_id"`
}

// LoginErrorResponse is returned when login fields are missing.
type LoginErrorResponse struct {
	Messages []string `json:"messages"`
}

// Hello handles GET / and serves as a liveness probe.
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello, Parc!"))
}

// CreateAttraction handles POST /attraction (authenticated).
func (h *Handler) CreateAttraction(w http.ResponseWriter, r *http.Request) {
	var payload service.AttractionPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Corps de requête invalide")
		return
	}

	id, err := h.attractions.CreateOrUpdateAttraction(r.Context(), payload)
	if err != nil {
		if !errors.Is(err, service.ErrValidation) {
			h.logger.Error("Attraction write failed", "error", err, "request_id", middleware.GetRequestID(r.Context()))
		}
		respondWithJSON(w, http.StatusInternalServerError, AttractionCreatedResponse{
			Message: "Erreur lors de l'ajout.",
			Result:  false,
		})
		return
	}

	respondWithJSON(w, http.StatusOK, AttractionCreatedResponse{
		Message: "Element ajouté.",
		Result:  id,
	})
}

// ListAttractions handles GET /attraction.
func (h *Handler) ListAttractions(w http.ResponseWriter, r *http.Request) {
	attractions, err := h.attractions.ListAttractions(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, attractions)
}

// GetAttraction handles GET /attraction/{id}. An unknown ID yields 200 with
// an empty object.
func (h *Handler) GetAttraction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	attraction, err := h.attractions.GetAttraction(r.Context(), id)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if attraction == nil {
		respondWithJSON(w, http.StatusOK, struct{}{})
		return
	}
	respondWithJSON(w, http.StatusOK, attraction)
}

// ListVisibleAttractions handles GET /attraction/visible.
func (h *Handler) ListVisibleAttractions(w http.ResponseWriter, r *http.Request) {
	attractions, err := h.attractions.ListVisibleAttractions(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, attractions)
}

// ListVisibleAttractionsWithReviews handles GET /attraction/visible/critiques.
func (h *Handler) ListVisibleAttractionsWithReviews(w http.ResponseWriter, r *http.Request) {
	attractions, err := h.attractions.ListVisibleAttractionsWithReviews(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, attractions)
}

// DeleteAttraction handles DELETE /attraction/{id} (authenticated).
func (h *Handler) DeleteAttraction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.attractions.DeleteAttraction(r.Context(), id); err != nil {
		if !errors.Is(err, service.ErrValidation) {
			h.logger.Error("Attraction delete failed", "error", err, "request_id", middleware.GetRequestID(r.Context()))
		}
		respondWithError(w, http.StatusInternalServerError, "Erreur lors de la suppression.")
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Element supprimé."})
}

// AddReview handles POST /critique.
func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	var payload service.ReviewPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Erreur lors de l'ajout de la critique")
		return
	}

	id, err := h.attractions.AddReview(r.Context(), payload)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			respondWithError(w, http.StatusBadRequest, "Erreur lors de l'ajout de la critique")
			return
		}
		h.internalError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ReviewCreatedResponse{
		Message:  "Critique ajoutée",
		ReviewID: id,
	})
}

// ListReviews handles GET /critique/attraction/{id}.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	reviews, err := h.attractions.ListReviewsForAttraction(r.Context(), id)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reviews)
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, LoginErrorResponse{
			Messages: []string{"Nom ou/et mot de passe incorrect"},
		})
		return
	}

	res, err := h.auth.Login(r.Context(), req)
	switch {
	case errors.Is(err, service.ErrBadRequest):
		respondWithJSON(w, http.StatusBadRequest, LoginErrorResponse{
			Messages: []string{"Nom ou/et mot de passe incorrect"},
		})
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Identifiants incorrects")
	case err != nil:
		h.internalError(w, r, err)
	default:
		respondWithJSON(w, http.StatusOK, res)
	}
}

// internalError logs the cause server-side and sends a generic 500.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("Request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
		"request_id", middleware.GetRequestID(r.Context()),
	)
	respondWithError(w, http.StatusInternalServerError, "Erreur interne du serveur")
}

// pathID parses the {id} wildcard. Non-numeric IDs get a 404.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func respondWithJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, MessageResponse{Message: message})
}
