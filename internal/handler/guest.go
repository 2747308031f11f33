package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/stayhaven/guidebook-server-go/internal/audit"
	apperrors "github.com/stayhaven/guidebook-server-go/internal/errors"
	"github.com/stayhaven/guidebook-server-go/internal/httputil"
	"github.com/stayhaven/guidebook-server-go/internal/service"
)

// GuestHandler serves the unauthenticated guest-facing API: access code
// validation, guide retrieval, and access requests.
type GuestHandler struct {
	accessService  *service.AccessService
	requestService *service.AccessRequestService
	guideService   *service.GuideService
}

func NewGuestHandler(
	accessService *service.AccessService,
	requestService *service.AccessRequestService,
	guideService *service.GuideService,
) *GuestHandler {
	return &GuestHandler{
		accessService:  accessService,
		requestService: requestService,
		guideService:   guideService,
	}
}

func (h *GuestHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/validate-access-code", h.ValidateAccessCode)
	r.Post("/request-access", h.RequestAccess)
	r.Get("/guide/{propertyID}", h.GetGuide)

	return r
}

// AccessCodeHeader carries the code on guide reads after validation.
const AccessCodeHeader = "X-Access-Code"

func (h *GuestHandler) ValidateAccessCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PropertyID string `json:"propertyId"`
		AccessCode string `json:"accessCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PropertyID == "" || req.AccessCode == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Missing required fields",
		})
		return
	}

	result, err := h.accessService.Validate(r.Context(), req.PropertyID, req.AccessCode)
	if err != nil {
		log.Error().Err(err).Str("propertyId", req.PropertyID).Msg("access validation failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Internal server error",
		})
		return
	}

	if !result.Valid {
		audit.LogFromRequest(r, audit.Event{
			Type:       audit.EventCodeRejected,
			PropertyID: req.PropertyID,
			Details:    map[string]interface{}{"reason": string(result.Denial)},
		})
		h.writeDenial(w, result)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:       audit.EventCodeValidated,
		PropertyID: req.PropertyID,
		InviteID:   result.Invite.ID,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"valid":           true,
		"guestName":       result.Invite.GuestName,
		"checkInDate":     formatDate(result.Invite.CheckInDate),
		"checkOutDate":    formatDate(result.Invite.CheckOutDate),
		"accessStartDate": formatDate(result.Window.Start),
		"accessEndDate":   formatDate(result.Window.End),
	})
}

// writeDenial keeps the wire contract of the guest client: every
// rejection is a 401 with valid:false, plus a discriminating payload.
func (h *GuestHandler) writeDenial(w http.ResponseWriter, result *service.AccessResult) {
	switch result.Denial {
	case service.DenialRevoked:
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"valid": false,
			"error": apperrors.AccessRevoked().Message,
		})
	case service.DenialNotYetAvailable:
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"valid":           false,
			"error":           apperrors.AccessNotYetAvailable(result.DaysUntilAccess).Message,
			"accessStartDate": formatDate(result.Window.Start),
		})
	case service.DenialExpired:
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"valid":   false,
			"error":   apperrors.AccessExpired().Message,
			"expired": true,
		})
	default:
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"valid": false,
			"error": apperrors.InvalidAccessCode().Message,
		})
	}
}

func (h *GuestHandler) RequestAccess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PropertyID string `json:"propertyId"`
		Name       string `json:"name"`
		Email      string `json:"email"`
		Message    string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PropertyID == "" || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Missing required fields",
		})
		return
	}

	request, err := h.requestService.Submit(r.Context(), req.PropertyID, req.Name, req.Email, req.Message)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeRateLimitExceeded {
			audit.LogFromRequest(r, audit.Event{
				Type:       audit.EventRateLimitExceeded,
				PropertyID: req.PropertyID,
			})
		}
		httputil.WriteError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:       audit.EventAccessRequested,
		PropertyID: req.PropertyID,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"requestId": request.ID,
		"message":   "Your request has been sent to the host.",
	})
}

// GetGuide returns the house manual after re-validating the access code.
func (h *GuestHandler) GetGuide(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")
	accessCode := r.Header.Get(AccessCodeHeader)
	if propertyID == "" || accessCode == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Missing required fields",
		})
		return
	}

	result, err := h.accessService.Validate(r.Context(), propertyID, accessCode)
	if err != nil {
		log.Error().Err(err).Str("propertyId", propertyID).Msg("guide access validation failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Internal server error",
		})
		return
	}
	if !result.Valid {
		h.writeDenial(w, result)
		return
	}

	guide, err := h.guideService.Get(r.Context(), propertyID)
	if err != nil {
		log.Error().Err(err).Str("propertyId", propertyID).Msg("failed to load guide")
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"guide":         guide,
		"guestName":     result.Invite.GuestName,
		"accessEndDate": formatDate(result.Window.End),
	})
}
