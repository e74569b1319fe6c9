package engine

import (
	"errors"
	"strings"
)

// Failure modes surfaced by the engine. Handlers map these to HTTP statuses;
// nothing below this layer translates them.
var (
	// ErrUnknownParticipant means no participant carries the scanned tag.
	ErrUnknownParticipant = errors.New("unknown participant")

	// ErrUnknownCheckpoint means no checkpoint is registered under the
	// device-provisioned external id.
	ErrUnknownCheckpoint = errors.New("unknown checkpoint")

	// ErrUnknownRace means the addressed race does not exist.
	ErrUnknownRace = errors.New("unknown race")

	// ErrNoActiveRace means the checkpoint exists but is not part of any
	// active race's course. A normal outcome, not a fault: the scan is
	// acknowledged and zero events are created.
	ErrNoActiveRace = errors.New("checkpoint is not part of any active race")

	// ErrDuplicateCourseMembership means the checkpoint is already on the
	// race's course.
	ErrDuplicateCourseMembership = errors.New("checkpoint already on course")

	// ErrCourseReplaceConflict means a concurrent replace on the same race
	// was detected; the caller may retry the whole replace.
	ErrCourseReplaceConflict = errors.New("concurrent course replace detected")

	// ErrAlreadyOnRoster means the participant is already registered to the
	// race; the membership is unchanged.
	ErrAlreadyOnRoster = errors.New("participant already on roster")

	// ErrPersistence means the storage transaction could not commit. No
	// partial state is left behind; the caller may retry the whole call.
	ErrPersistence = errors.New("persistence failure")
)

// isDuplicate reports whether err is a unique-constraint violation.
// Matches both the PostgreSQL and sqlite wording.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "unique constraint")
}

// isLockConflict reports whether err is a serialization or locking failure
// worth retrying.
func isLockConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "could not serialize") ||
		strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "lock timeout") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}
