package roster

import "errors"

var (
	// ErrDuplicateAssignment rejects an assignment whose (day, shift, staff)
	// triple already exists in the working schedule. Resolved locally, never
	// reaches the network.
	ErrDuplicateAssignment = errors.New("roster: assignment already present for day, shift and staff")

	// ErrSaveInFlight rejects a save requested while another one is pending
	// for the active schedule. No second network call is issued.
	ErrSaveInFlight = errors.New("roster: a save is already in flight")

	// ErrNoCurrentSchedule indicates an operation that needs an active
	// schedule was called while none is bound to the cursor.
	ErrNoCurrentSchedule = errors.New("roster: no current schedule")

	// ErrNavigationAborted reports that the user cancelled a period change
	// to keep unsaved work. The cursor is restored; this is an outcome, not
	// a failure.
	ErrNavigationAborted = errors.New("roster: navigation aborted by user")

	// ErrNoGenerator indicates schedule generation was requested on a
	// session wired without a generation service.
	ErrNoGenerator = errors.New("roster: no generation service configured")
)
