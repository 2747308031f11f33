package model

import (
	"time"
)

// AccessRequest records a guest asking a host for an invite to a
// property's guide. One request per (property, email) per rolling day.
type AccessRequest struct {
	ID         string    `db:"id" json:"id"`
	PropertyID string    `db:"property_id" json:"propertyId"`
	GuestName  string    `db:"guest_name" json:"guestName"`
	GuestEmail string    `db:"guest_email" json:"guestEmail"`
	Message    string    `db:"message" json:"message"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

type CreateAccessRequestParams struct {
	PropertyID string
	GuestName  string
	GuestEmail string
	Message    string
}
