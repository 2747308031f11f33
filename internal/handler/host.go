package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stayhaven/guidebook-server-go/internal/audit"
	"github.com/stayhaven/guidebook-server-go/internal/config"
	apperrors "github.com/stayhaven/guidebook-server-go/internal/errors"
	"github.com/stayhaven/guidebook-server-go/internal/httputil"
	"github.com/stayhaven/guidebook-server-go/internal/middleware"
	"github.com/stayhaven/guidebook-server-go/internal/model"
	"github.com/stayhaven/guidebook-server-go/internal/service"
)

// HostHandler serves the host dashboard API: auth, properties, guide
// sections, invites, and access requests.
type HostHandler struct {
	authService     *service.AuthService
	propertyService *service.PropertyService
	inviteService   *service.InviteService
	requestService  *service.AccessRequestService
	guideService    *service.GuideService
	sessionAuth     func(http.Handler) http.Handler
	isProduction    bool
}

func NewHostHandler(
	authService *service.AuthService,
	propertyService *service.PropertyService,
	inviteService *service.InviteService,
	requestService *service.AccessRequestService,
	guideService *service.GuideService,
	sessionAuth func(http.Handler) http.Handler,
	isProduction bool,
) *HostHandler {
	return &HostHandler{
		authService:     authService,
		propertyService: propertyService,
		inviteService:   inviteService,
		requestService:  requestService,
		guideService:    guideService,
		sessionAuth:     sessionAuth,
		isProduction:    isProduction,
	}
}

func (h *HostHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(h.sessionAuth)

		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", h.ListProperties)
			r.Post("/", h.CreateProperty)
			r.Get("/{propertyID}", h.GetProperty)
			r.Patch("/{propertyID}", h.UpdateProperty)
			r.Delete("/{propertyID}", h.DeleteProperty)

			r.Get("/{propertyID}/sections", h.ListSections)
			r.Post("/{propertyID}/sections", h.CreateSection)
			r.Patch("/{propertyID}/sections/{sectionID}", h.UpdateSection)
			r.Delete("/{propertyID}/sections/{sectionID}", h.DeleteSection)

			r.Get("/{propertyID}/invites", h.ListInvites)
			r.Post("/{propertyID}/invites", h.CreateInvite)
			r.Post("/{propertyID}/invites/{inviteID}/revoke", h.RevokeInvite)
			r.Post("/{propertyID}/invites/{inviteID}/resend", h.ResendInvite)

			r.Get("/{propertyID}/requests", h.ListAccessRequests)
		})
	})

	return r
}

func (h *HostHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	host, err := h.authService.Signup(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{Type: audit.EventSignup, HostID: host.ID})

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    host.ID,
		"email": host.Email,
		"name":  host.Name,
	})
}

func (h *HostHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	host, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		audit.LogFromRequest(r, audit.Event{Type: audit.EventLoginFailure})
		httputil.WriteError(w, err)
		return
	}

	middleware.SetSessionCookie(w, token, config.HostSessionTTL, h.isProduction)
	audit.LogFromRequest(r, audit.Event{Type: audit.EventLoginSuccess, HostID: host.ID})

	writeJSON(w, http.StatusOK, map[string]any{
		"id":    host.ID,
		"email": host.Email,
		"name":  host.Name,
	})
}

func (h *HostHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.HostSessionCookie); err == nil && cookie.Value != "" {
		h.authService.Logout(r.Context(), cookie.Value)
	}

	middleware.ClearSessionCookie(w, h.isProduction)
	host := middleware.GetHost(r.Context())
	if host != nil {
		audit.LogFromRequest(r, audit.Event{Type: audit.EventLogout, HostID: host.ID})
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *HostHandler) Me(w http.ResponseWriter, r *http.Request) {
	host := middleware.GetHost(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"id":        host.ID,
		"email":     host.Email,
		"name":      host.Name,
		"createdAt": host.CreatedAt.Format(time.RFC3339),
	})
}

func (h *HostHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	host := middleware.GetHost(r.Context())

	properties, err := h.propertyService.List(r.Context(), host.ID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"properties": properties,
		"total":      len(properties),
	})
}

func (h *HostHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	host := middleware.GetHost(r.Context())

	var params model.CreatePropertyParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		httputil.WriteError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	property, err := h.propertyService.Create(r.Context(), host.ID, params)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, property)
}

func (h *HostHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	host := middleware.GetHost(r.Context())

	property, err := h.propertyService.Get(r.Context(), host.ID, chi.URLParam(r, "propertyID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, property)
}

func (h *HostHandler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	host := middleware.GetHost(r.Context())

	var params model.UpdatePropertyParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		httputil.WriteError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	property, err := h.propertyService.Update(r.Context(), host.ID, chi.URLParam(r, "propertyID"), params)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, property)
}

func (h *HostHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	host := middleware.GetHost(r.Context())

	if err := h.propertyService.Delete(r.Context(), host.ID, chi.URLParam(r, "propertyID")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *HostHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	host := middleware.GetHost(r.Context())
	propertyID := chi.URLParam(r, "propertyID")

	if _, err := h.propertyService.Get(r.Context(), host.ID, propertyID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	sections, err := h.guideService.ListSections(r.Context(), propertyID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sections": sections,
		"total":    len(sections),
	})
}

func (h *HostHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	host := middleware.GetHost(r.Context())
	propertyID := chi.URLParam(r, "propertyID")

	if _, err := h.propertyService.Get(r.Context(), host.ID, propertyID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	var params model.CreateGuideSectionParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		httputil.WriteError(w, apperrors.ValidationError("invalid request body"))
		return
	}
	params.PropertyID = propertyID

	section, err := h.guideService.CreateSection(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, section)
}

func (h *HostHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	host := middleware.GetHost(r.Context())
	propertyID := chi.URLParam(r, "propertyID")

	if _, err := h.propertyService.Get(r.Context(), host.ID, propertyID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	var params model.UpdateGuideSectionParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		httputil.WriteError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	section, err := h.guideService.UpdateSection(r.Context(), propertyID, chi.URLParam(r, "sectionID"), params)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, section)
}

func (h *HostHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	host := middleware.GetHost(r.Context())
	propertyID := chi.URLParam(r, "propertyID")

	if _, err := h.propertyService.Get(r.Context(), host.ID, propertyID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.guideService.DeleteSection(r.Context(), propertyID, chi.URLParam(r, "sectionID")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *HostHandler) ListInvites(w http.ResponseWriter, r *http.Request) {
	host := middleware.GetHost(r.Context())
	propertyID := chi.URLParam(r, "propertyID")

	if _, err := h.propertyService.Get(r.Context(), host.ID, propertyID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	invites, err := h.inviteService.ListByProperty(r.Context(), propertyID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	formatted := make([]map[string]any, len(invites))
	for i, invite := range invites {
		formatted[i] = formatInvite(invite)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"invites": formatted,
		"total":   len(invites),
	})
}

func (h *HostHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	host := middleware.GetHost(r.Context())
	propertyID := chi.URLParam(r, "propertyID")

	if _, err := h.propertyService.Get(r.Context(), host.ID, propertyID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req struct {
		GuestName        string `json:"guestName"`
		GuestEmail       string `json:"guestEmail"`
		CheckInDate      string `json:"checkInDate"`
		CheckOutDate     string `json:"checkOutDate"`
		LeadTimeDays     int    `json:"leadTimeDays"`
		PostCheckoutDays int    `json:"postCheckoutDays"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	checkIn, err := time.Parse(dateFormat, req.CheckInDate)
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("checkInDate", "expected YYYY-MM-DD"))
		return
	}
	checkOut, err := time.Parse(dateFormat, req.CheckOutDate)
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("checkOutDate", "expected YYYY-MM-DD"))
		return
	}

	invite, err := h.inviteService.Issue(r.Context(), service.IssueInviteParams{
		PropertyID:       propertyID,
		GuestName:        req.GuestName,
		GuestEmail:       req.GuestEmail,
		CheckInDate:      checkIn,
		CheckOutDate:     checkOut,
		LeadTimeDays:     req.LeadTimeDays,
		PostCheckoutDays: req.PostCheckoutDays,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:       audit.EventInviteIssued,
		HostID:     host.ID,
		PropertyID: propertyID,
		InviteID:   invite.ID,
	})

	writeJSON(w, http.StatusCreated, formatInvite(*invite))
}

func (h *HostHandler) RevokeInvite(w http.ResponseWriter, r *http.Request) {
	host := middleware.GetHost(r.Context())
	propertyID := chi.URLParam(r, "propertyID")
	inviteID := chi.URLParam(r, "inviteID")

	if _, err := h.propertyService.Get(r.Context(), host.ID, propertyID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	invite, err := h.inviteService.FindByID(r.Context(), inviteID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if invite == nil || invite.PropertyID != propertyID {
		httputil.WriteError(w, apperrors.NotFound("Invite"))
		return
	}

	revoked, err := h.inviteService.Revoke(r.Context(), inviteID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:       audit.EventInviteRevoked,
		HostID:     host.ID,
		PropertyID: propertyID,
		InviteID:   inviteID,
	})

	writeJSON(w, http.StatusOK, formatInvite(*revoked))
}

func (h *HostHandler) ResendInvite(w http.ResponseWriter, r *http.Request) {
	host := middleware.GetHost(r.Context())
	propertyID := chi.URLParam(r, "propertyID")
	inviteID := chi.URLParam(r, "inviteID")

	if _, err := h.propertyService.Get(r.Context(), host.ID, propertyID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	invite, err := h.inviteService.FindByID(r.Context(), inviteID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if invite == nil || invite.PropertyID != propertyID {
		httputil.WriteError(w, apperrors.NotFound("Invite"))
		return
	}

	if err := h.inviteService.Resend(r.Context(), inviteID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:       audit.EventInviteResent,
		HostID:     host.ID,
		PropertyID: propertyID,
		InviteID:   inviteID,
	})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *HostHandler) ListAccessRequests(w http.ResponseWriter, r *http.Request) {
	host := middleware.GetHost(r.Context())
	propertyID := chi.URLParam(r, "propertyID")

	if _, err := h.propertyService.Get(r.Context(), host.ID, propertyID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	requests, err := h.requestService.ListByProperty(r.Context(), propertyID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"requests": requests,
		"total":    len(requests),
	})
}
