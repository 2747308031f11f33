package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWindow_AppliesMargins(t *testing.T) {
	invite := GuestInvite{
		CheckInDate:      date(2025, time.June, 10),
		CheckOutDate:     date(2025, time.June, 15),
		LeadTimeDays:     2,
		PostCheckoutDays: 1,
	}

	w := invite.Window()
	assert.Equal(t, date(2025, time.June, 8), w.Start)
	assert.Equal(t, date(2025, time.June, 16), w.End)
}

func TestWindow_ZeroMargins(t *testing.T) {
	invite := GuestInvite{
		CheckInDate:  date(2025, time.June, 10),
		CheckOutDate: date(2025, time.June, 15),
	}

	w := invite.Window()
	assert.Equal(t, date(2025, time.June, 10), w.Start)
	assert.Equal(t, date(2025, time.June, 15), w.End)
}

func TestWindow_IgnoresTimeOfDay(t *testing.T) {
	// Stay dates stored with stray time components still produce
	// midnight-UTC window bounds.
	invite := GuestInvite{
		CheckInDate:      time.Date(2025, time.June, 10, 14, 30, 0, 0, time.UTC),
		CheckOutDate:     time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC),
		LeadTimeDays:     2,
		PostCheckoutDays: 1,
	}

	w := invite.Window()
	assert.Equal(t, date(2025, time.June, 8), w.Start)
	assert.Equal(t, date(2025, time.June, 16), w.End)
}

func TestAccessWindowContains_InclusiveBounds(t *testing.T) {
	w := AccessWindow{Start: date(2025, time.June, 8), End: date(2025, time.June, 16)}

	assert.False(t, w.Contains(date(2025, time.June, 7)))
	assert.True(t, w.Contains(date(2025, time.June, 8)))
	assert.True(t, w.Contains(date(2025, time.June, 12)))
	assert.True(t, w.Contains(date(2025, time.June, 16)))
	assert.False(t, w.Contains(date(2025, time.June, 17)))

	// Late evening on the last day is still in-window.
	assert.True(t, w.Contains(time.Date(2025, time.June, 16, 23, 59, 0, 0, time.UTC)))
}

func TestDeriveStatus_DateDriven(t *testing.T) {
	invite := GuestInvite{
		CheckInDate:      date(2025, time.June, 10),
		CheckOutDate:     date(2025, time.June, 15),
		LeadTimeDays:     2,
		PostCheckoutDays: 1,
		Status:           InviteStatusPending,
	}

	assert.Equal(t, InviteStatusPending, invite.DeriveStatus(date(2025, time.June, 7)))
	assert.Equal(t, InviteStatusActive, invite.DeriveStatus(date(2025, time.June, 8)))
	assert.Equal(t, InviteStatusActive, invite.DeriveStatus(date(2025, time.June, 16)))
	assert.Equal(t, InviteStatusExpired, invite.DeriveStatus(date(2025, time.June, 17)))
}

func TestDeriveStatus_StaleStoredStatusIgnored(t *testing.T) {
	// A stored "pending" that the sweep job has not caught up with does
	// not keep a finished stay alive.
	invite := GuestInvite{
		CheckInDate:  date(2025, time.June, 10),
		CheckOutDate: date(2025, time.June, 15),
		Status:       InviteStatusPending,
	}

	assert.Equal(t, InviteStatusExpired, invite.DeriveStatus(date(2025, time.July, 1)))
}

func TestDeriveStatus_RevokedIsTerminal(t *testing.T) {
	invite := GuestInvite{
		CheckInDate:  date(2025, time.June, 10),
		CheckOutDate: date(2025, time.June, 15),
		Status:       InviteStatusRevoked,
	}

	// Revoked wins regardless of where "now" falls.
	assert.Equal(t, InviteStatusRevoked, invite.DeriveStatus(date(2025, time.June, 1)))
	assert.Equal(t, InviteStatusRevoked, invite.DeriveStatus(date(2025, time.June, 12)))
	assert.Equal(t, InviteStatusRevoked, invite.DeriveStatus(date(2025, time.July, 1)))
}

func TestDateOnly_TruncatesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	// 2025-06-10 03:00 KST is 2025-06-09 18:00 UTC.
	got := DateOnly(time.Date(2025, time.June, 10, 3, 0, 0, 0, loc))
	assert.Equal(t, date(2025, time.June, 9), got)
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(date(2025, time.June, 7), date(2025, time.June, 7)))
	assert.Equal(t, 1, DaysBetween(date(2025, time.June, 7), date(2025, time.June, 8)))
	assert.Equal(t, 30, DaysBetween(date(2025, time.June, 1), date(2025, time.July, 1)))
	assert.Equal(t, -3, DaysBetween(date(2025, time.June, 10), date(2025, time.June, 7)))

	// Time-of-day never changes the day count.
	assert.Equal(t, 1, DaysBetween(
		time.Date(2025, time.June, 7, 23, 59, 0, 0, time.UTC),
		time.Date(2025, time.June, 8, 0, 1, 0, 0, time.UTC),
	))
}

func TestNormalizeAccessCode(t *testing.T) {
	assert.Equal(t, "AB12-CD34", NormalizeAccessCode("ab12-cd34"))
	assert.Equal(t, "AB12-CD34", NormalizeAccessCode("  Ab12-Cd34  "))
	assert.Equal(t, "", NormalizeAccessCode("   "))
}
