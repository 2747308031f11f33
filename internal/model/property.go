package model

import (
	"time"
)

// Property is a rental unit with a published house-manual guide.
type Property struct {
	ID                   string    `db:"id" json:"id"`
	HostID               string    `db:"host_id" json:"hostId"`
	Name                 string    `db:"name" json:"name"`
	Address              string    `db:"address" json:"address"`
	WifiNetwork          string    `db:"wifi_network" json:"wifiNetwork"`
	WifiPassword         string    `db:"wifi_password" json:"wifiPassword"`
	CheckInInstructions  string    `db:"check_in_instructions" json:"checkInInstructions"`
	CheckOutInstructions string    `db:"check_out_instructions" json:"checkOutInstructions"`
	HouseRules           string    `db:"house_rules" json:"houseRules"`
	CreatedAt            time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time `db:"updated_at" json:"updatedAt"`
}

type CreatePropertyParams struct {
	HostID               string
	Name                 string
	Address              string
	WifiNetwork          string
	WifiPassword         string
	CheckInInstructions  string
	CheckOutInstructions string
	HouseRules           string
}

// UpdatePropertyParams carries partial updates; nil fields are untouched.
type UpdatePropertyParams struct {
	Name                 *string
	Address              *string
	WifiNetwork          *string
	WifiPassword         *string
	CheckInInstructions  *string
	CheckOutInstructions *string
	HouseRules           *string
}
