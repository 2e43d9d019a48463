package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UniqueBadgeNameIndex keeps badge names unique.
const UniqueBadgeNameIndex = "ux_badges_name"

// BadgeCriteria are the thresholds a user must meet; unset criteria are ignored.
type BadgeCriteria struct {
	CompletedTasks   *int     `gorm:"column:completed_tasks" json:"completedTasks,omitempty" validate:"omitempty,gte=0"`
	PositiveRatings  *int     `gorm:"column:positive_ratings" json:"positiveRatings,omitempty" validate:"omitempty,gte=0"`
	TimelyDeliveries *int     `gorm:"column:timely_deliveries" json:"timelyDeliveries,omitempty" validate:"omitempty,gte=0"`
	TotalEarnings    *float64 `gorm:"column:total_earnings;type:numeric(12,2)" json:"totalEarnings,omitempty" validate:"omitempty,gte=0"`
}

// Validate requires at least one criterion with a non-zero value.
func (c BadgeCriteria) Validate() error {
	set := func(p *int) bool { return p != nil && *p != 0 }
	if set(c.CompletedTasks) || set(c.PositiveRatings) || set(c.TimelyDeliveries) ||
		(c.TotalEarnings != nil && *c.TotalEarnings != 0) {
		return nil
	}
	return ErrNoBadgeCriteria
}

// UserStats are the achievements a user's badges are judged against.
type UserStats struct {
	CompletedTasks   int     `json:"completedTasks"`
	PositiveRatings  int     `json:"positiveRatings"`
	TimelyDeliveries int     `json:"timelyDeliveries"`
	TotalEarnings    float64 `json:"totalEarnings"`
}

// MetBy reports whether stats satisfy every criterion that is set.
func (c BadgeCriteria) MetBy(s UserStats) bool {
	if c.CompletedTasks != nil && s.CompletedTasks < *c.CompletedTasks {
		return false
	}
	if c.PositiveRatings != nil && s.PositiveRatings < *c.PositiveRatings {
		return false
	}
	if c.TimelyDeliveries != nil && s.TimelyDeliveries < *c.TimelyDeliveries {
		return false
	}
	if c.TotalEarnings != nil && s.TotalEarnings < *c.TotalEarnings {
		return false
	}
	return true
}

// Badge is an achievement awarded to users who meet its criteria.
type Badge struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string        `gorm:"uniqueIndex:ux_badges_name;not null" json:"name"`
	Description string        `gorm:"not null" json:"description"`
	Icon        string        `gorm:"not null" json:"icon"`
	Criteria    BadgeCriteria `gorm:"embedded;embeddedPrefix:criteria_" json:"criteria"`
	Awards      []BadgeAward  `gorm:"foreignKey:BadgeID;constraint:OnDelete:CASCADE" json:"users,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func (b *Badge) BeforeSave(tx *gorm.DB) error {
	return b.Criteria.Validate()
}

// BadgeAward records that a user earned a badge.
type BadgeAward struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"-"`
	BadgeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_badge_awards_badge_user,priority:1" json:"-"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_badge_awards_badge_user,priority:2" json:"user"`
	EarnedAt time.Time `gorm:"not null" json:"earnedAt"`
}
