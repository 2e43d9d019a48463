package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UniqueReviewIndex allows one review per (task, reviewer, reviewee).
const UniqueReviewIndex = "ux_reviews_task_reviewer_reviewee"

// Review is a rating one party of a completed task leaves for the other.
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TaskID     uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:ux_reviews_task_reviewer_reviewee,priority:1" json:"task"`
	ReviewerID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:ux_reviews_task_reviewer_reviewee,priority:2" json:"reviewer"`
	RevieweeID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:ux_reviews_task_reviewer_reviewee,priority:3" json:"reviewee"`
	Rating     int       `gorm:"not null;index" json:"rating"`
	Comment    string    `gorm:"type:varchar(1000);not null" json:"comment"`
	IsPublic   bool      `gorm:"not null" json:"isPublic"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (r *Review) BeforeSave(tx *gorm.DB) error {
	return CheckRating(r.Rating)
}

// BeforeCreate rejects self-reviews before it looks at the task, so the answer does not depend on
// task state.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if err := CheckReviewParties(r.ReviewerID, r.RevieweeID); err != nil {
		return err
	}
	return RequireCompletedTask(r.TaskID, taskStatusFrom(tx))
}
