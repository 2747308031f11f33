package model

import (
	"strings"
	"time"
)

type InviteStatus string

const (
	InviteStatusPending InviteStatus = "pending"
	InviteStatusActive  InviteStatus = "active"
	InviteStatusExpired InviteStatus = "expired"
	InviteStatusRevoked InviteStatus = "revoked"
)

// GuestInvite is a host-issued, time-bounded permission for a named guest
// to view a property's guide via a secret code.
type GuestInvite struct {
	ID               string       `db:"id" json:"id"`
	PropertyID       string       `db:"property_id" json:"propertyId"`
	GuestName        string       `db:"guest_name" json:"guestName"`
	GuestEmail       string       `db:"guest_email" json:"guestEmail"`
	CheckInDate      time.Time    `db:"check_in_date" json:"checkInDate"`
	CheckOutDate     time.Time    `db:"check_out_date" json:"checkOutDate"`
	LeadTimeDays     int          `db:"lead_time_days" json:"leadTimeDays"`
	PostCheckoutDays int          `db:"post_checkout_days" json:"postCheckoutDays"`
	AccessCode       string       `db:"access_code" json:"accessCode"`
	Status           InviteStatus `db:"status" json:"status"`
	LastAccessedAt   *time.Time   `db:"last_accessed_at" json:"lastAccessedAt,omitempty"`
	CreatedAt        time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time    `db:"updated_at" json:"updatedAt"`
}

// CreateGuestInviteParams contains parameters for issuing an invite
type CreateGuestInviteParams struct {
	PropertyID       string
	GuestName        string
	GuestEmail       string
	CheckInDate      time.Time
	CheckOutDate     time.Time
	LeadTimeDays     int
	PostCheckoutDays int
	AccessCode       string
	Status           InviteStatus
}

// AccessWindow is the calendar-date range during which an invite is valid.
// Bounds are inclusive, truncated to midnight UTC.
type AccessWindow struct {
	Start time.Time `json:"accessStartDate"`
	End   time.Time `json:"accessEndDate"`
}

// Contains reports whether the given day falls within the window.
func (w AccessWindow) Contains(day time.Time) bool {
	d := DateOnly(day)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Window derives the access window from the stay dates and margins.
// Never cached: margins can change independently of the stored status.
func (i *GuestInvite) Window() AccessWindow {
	return AccessWindow{
		Start: DateOnly(i.CheckInDate).AddDate(0, 0, -i.LeadTimeDays),
		End:   DateOnly(i.CheckOutDate).AddDate(0, 0, i.PostCheckoutDays),
	}
}

// DeriveStatus computes the date-driven status for the given moment.
// Revoked is terminal and wins over all date arithmetic.
func (i *GuestInvite) DeriveStatus(now time.Time) InviteStatus {
	if i.Status == InviteStatusRevoked {
		return InviteStatusRevoked
	}
	w := i.Window()
	d := DateOnly(now)
	switch {
	case d.Before(w.Start):
		return InviteStatusPending
	case d.After(w.End):
		return InviteStatusExpired
	default:
		return InviteStatusActive
	}
}

// DateOnly truncates a timestamp to midnight UTC. All window comparisons
// run on calendar days, so a guest anywhere within the boundary day is
// still in-window.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from `from` to
// `to`, both truncated to UTC dates. Negative when `to` is earlier.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

// NormalizeAccessCode trims whitespace and upper-cases a guest-supplied
// code so matching is case-insensitive.
func NormalizeAccessCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
