package app

import (
	"errors"

	idb "tutorhub/internal/infra/database"
)

// Application-level errors. Handlers map them to HTTP statuses.
var (
	ErrAdminNotAuthorized     = errors.New("performing user is not authorized as an admin")
	ErrForbidden              = errors.New("not allowed to access this resource")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidTimeRange       = errors.New("class must end after it starts")
	ErrScheduleConflict       = errors.New("tutor already has a class at that time")
	ErrEventNotEditable       = errors.New("only scheduled classes can be changed")
	ErrNoActiveRelationship   = errors.New("tutor and student have no active relationship")
	ErrInvalidRelationship    = errors.New("relationship must pair a tutor with a student")
	ErrRelationshipExists     = errors.New("relationship already active")
	ErrQuotaExceeded          = errors.New("monthly class quota of the current plan is used up")
	ErrProfileAlreadyInactive = errors.New("profile is already inactive")
	ErrProfileAlreadyActive   = errors.New("profile is already active")
	ErrInvalidURL             = errors.New("shared content must be an http(s) URL")
)

var notFoundErrors = []error{
	idb.ErrProfileNotFound,
	idb.ErrClassNotFound,
	idb.ErrRelationshipNotFound,
	idb.ErrNotificationNotFound,
	idb.ErrBackupNotFound,
	idb.ErrNoteNotFound,
	idb.ErrShareItemNotFound,
	idb.ErrSubscriptionNotFound,
	idb.ErrTutorDetailsNotFound,
	idb.ErrStudentDetailsNotFound,
}

// IsNotFound reports whether err is a missing-row error from any repository.
func IsNotFound(err error) bool {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsConflict reports whether err means the write clashes with existing state.
func IsConflict(err error) bool {
	for _, target := range []error{ErrScheduleConflict, ErrRelationshipExists, idb.ErrDuplicateRelationship, idb.ErrDuplicateTelegramChat, ErrProfileAlreadyActive, ErrProfileAlreadyInactive, ErrEventNotEditable} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsValidation reports whether err is caused by bad caller input.
func IsValidation(err error) bool {
	for _, target := range []error{ErrInvalidInput, ErrInvalidTimeRange, ErrNoActiveRelationship, ErrInvalidRelationship, ErrQuotaExceeded, ErrInvalidURL} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsForbidden reports whether the actor lacks permission.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) || errors.Is(err, ErrAdminNotAuthorized)
}
