package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// now is the clock the hooks read; tests replace it.
var now = time.Now

// TaskStatusLookup resolves the current status of a task. It returns ErrTaskNotFound when the task
// does not exist.
type TaskStatusLookup func(id uuid.UUID) (TaskStatus, error)

// CheckDeadline requires the deadline to be strictly after at.
func CheckDeadline(deadline, at time.Time) error {
	if !deadline.After(at) {
		return ErrInvalidDeadline
	}
	return nil
}

// RequireCompletedTask fails unless the referenced task exists and is completed.
func RequireCompletedTask(taskID uuid.UUID, lookup TaskStatusLookup) error {
	status, err := lookup(taskID)
	if err != nil {
		return err
	}
	if status != TaskCompleted {
		return ErrTaskNotCompleted
	}
	return nil
}

// CheckReviewParties rejects reviews a user writes about themselves.
func CheckReviewParties(reviewer, reviewee uuid.UUID) error {
	if reviewer == reviewee {
		return ErrSelfReviewNotAllowed
	}
	return nil
}

// CheckMessageParties rejects messages a user sends to themselves.
func CheckMessageParties(sender, receiver uuid.UUID) error {
	if sender == receiver {
		return ErrSelfMessageNotAllowed
	}
	return nil
}

// CheckRating requires an integer rating in 1..5.
func CheckRating(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

// CheckAmount requires a non-negative amount.
func CheckAmount(amount float64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// newSession opens a fresh statement on the hook's connection so lookups run inside the
// surrounding write transaction.
func newSession(tx *gorm.DB) *gorm.DB {
	return tx.Session(&gorm.Session{NewDB: true})
}

// taskStatusFrom binds a TaskStatusLookup to the transaction a hook runs in.
func taskStatusFrom(tx *gorm.DB) TaskStatusLookup {
	return func(id uuid.UUID) (TaskStatus, error) {
		var t Task
		err := newSession(tx).Select("id", "status").Where("id = ?", id).Take(&t).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrTaskNotFound
		}
		if err != nil {
			return "", err
		}
		return t.Status, nil
	}
}
