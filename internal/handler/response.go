package handler

import (
	"net/http"
	"time"

	"github.com/stayhaven/guidebook-server-go/internal/httputil"
	"github.com/stayhaven/guidebook-server-go/internal/model"
)

const dateFormat = "2006-01-02"

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateFormat)
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func formatInvite(invite model.GuestInvite) map[string]any {
	window := invite.Window()
	return map[string]any{
		"id":               invite.ID,
		"propertyId":       invite.PropertyID,
		"guestName":        invite.GuestName,
		"guestEmail":       invite.GuestEmail,
		"checkInDate":      formatDate(invite.CheckInDate),
		"checkOutDate":     formatDate(invite.CheckOutDate),
		"leadTimeDays":     invite.LeadTimeDays,
		"postCheckoutDays": invite.PostCheckoutDays,
		"accessCode":       invite.AccessCode,
		"status":           invite.Status,
		"accessStartDate":  formatDate(window.Start),
		"accessEndDate":    formatDate(window.End),
		"lastAccessedAt":   formatTime(invite.LastAccessedAt),
		"createdAt":        invite.CreatedAt.Format(time.RFC3339),
	}
}
