package model

import (
	"time"
)

type GuideCategory string

const (
	GuideCategoryWifi          GuideCategory = "wifi"
	GuideCategoryHouseRules    GuideCategory = "house_rules"
	GuideCategoryAppliances    GuideCategory = "appliances"
	GuideCategoryLocalTips     GuideCategory = "local_tips"
	GuideCategoryCheckInOut    GuideCategory = "check_in_out"
	GuideCategoryEmergency     GuideCategory = "emergency"
	GuideCategoryMiscellaneous GuideCategory = "misc"
)

// GuideSection is one block of a property's house manual (appliance
// instructions, local recommendations, and so on).
type GuideSection struct {
	ID         string        `db:"id" json:"id"`
	PropertyID string        `db:"property_id" json:"propertyId"`
	Title      string        `db:"title" json:"title"`
	Body       string        `db:"body" json:"body"`
	Category   GuideCategory `db:"category" json:"category"`
	SortOrder  int           `db:"sort_order" json:"sortOrder"`
	CreatedAt  time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updatedAt"`
}

type CreateGuideSectionParams struct {
	PropertyID string
	Title      string
	Body       string
	Category   GuideCategory
	SortOrder  int
}

type UpdateGuideSectionParams struct {
	Title     *string
	Body      *string
	Category  *GuideCategory
	SortOrder *int
}
