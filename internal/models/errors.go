package models

import appErr "github.com/pay4skill/server/pkg/errors"

// Invariant violations raised by the entity hooks. Compare with errors.Is.
var (
	ErrInvalidDeadline            = appErr.Domain(appErr.CodeInvalid, "invalid_deadline", "deadline must be in the future")
	ErrDuplicateActiveApplication = appErr.Domain(appErr.CodeConflict, "duplicate_active_application", "you have already applied for this task")
	ErrSelfReviewNotAllowed       = appErr.Domain(appErr.CodeInvalid, "self_review_not_allowed", "a user cannot review themselves")
	ErrDuplicateReview            = appErr.Domain(appErr.CodeConflict, "duplicate_review", "you have already reviewed this user for this task")
	ErrTaskNotFound               = appErr.Domain(appErr.CodeNotFound, "task_not_found", "task not found")
	ErrTaskNotCompleted           = appErr.Domain(appErr.CodeInvalid, "task_not_completed", "task must be completed first")
	ErrSelfMessageNotAllowed      = appErr.Domain(appErr.CodeInvalid, "self_message_not_allowed", "cannot send message to yourself")
	ErrNoBadgeCriteria            = appErr.Domain(appErr.CodeInvalid, "no_badge_criteria", "at least one criterion must be provided")
	ErrBadgeNameTaken             = appErr.Domain(appErr.CodeConflict, "badge_name_taken", "a badge with this name already exists")
	ErrNoReportedEntity           = appErr.Domain(appErr.CodeInvalid, "no_reported_entity", "a reported user, task or message must be provided")
	ErrMultipleReportedEntities   = appErr.Domain(appErr.CodeInvalid, "multiple_reported_entities", "a report targets exactly one user, task or message")
	ErrPlaintextPassword          = appErr.Domain(appErr.CodeInternal, "plaintext_password", "refusing to store an unhashed password")
	ErrEmailInUse                 = appErr.Domain(appErr.CodeConflict, "email_in_use", "user already exists")
	ErrInvalidRating              = appErr.Domain(appErr.CodeInvalid, "invalid_rating", "rating must be between 1 and 5")
	ErrInvalidRole                = appErr.Domain(appErr.CodeInvalid, "invalid_role", "invalid role")
	ErrInvalidStatus              = appErr.Domain(appErr.CodeInvalid, "invalid_status", "invalid status")
	ErrInvalidStatusTransition    = appErr.Domain(appErr.CodeInvalid, "invalid_status_transition", "status change not allowed")
	ErrInvalidParticipants        = appErr.Domain(appErr.CodeInvalid, "invalid_participants", "a chat needs at least two distinct participants")
	ErrInvalidLocation            = appErr.Domain(appErr.CodeInvalid, "invalid_location", "location must be a [longitude, latitude] point")
	ErrInvalidReportType          = appErr.Domain(appErr.CodeInvalid, "invalid_report_type", "report type must be user, task or message")
	ErrNegativeAmount             = appErr.Domain(appErr.CodeInvalid, "negative_amount", "amount must not be negative")
)
