package events

import "github.com/planvik/rosterd/core/model"

// AssignmentAdded is published after a staff member is placed on a shift.
type AssignmentAdded struct {
	ScheduleID string
	Assignment model.Assignment
}

// AssignmentRemoved is published after an assignment leaves the working schedule.
type AssignmentRemoved struct {
	ScheduleID   string
	AssignmentID string
}

// SaveSucceeded is published when the working schedule reaches the remote store.
// Created distinguishes a first persist from an update of an existing record.
type SaveSucceeded struct {
	Record  model.ScheduleRecord
	Created bool
}

// SaveFailed is published when a save attempt is rejected by the remote store.
// Local edits stay intact; the user retries explicitly.
type SaveFailed struct {
	ScheduleID string
	Err        error
}

// ConflictPrompted is published after the user was asked about unsaved work
// during a period change. Discarded is false when navigation was cancelled.
type ConflictPrompted struct {
	From      model.PeriodCursor
	To        model.PeriodCursor
	Discarded bool
}

// PeriodAmbiguity is published when more than one fetched record covers the
// viewed period. The first match is used; the backend owns the repair.
type PeriodAmbiguity struct {
	Cursor    model.PeriodCursor
	RecordIDs []string
}

// ScheduleGenerated is published when the generation service returned a
// schedule for the viewed period.
type ScheduleGenerated struct {
	ScheduleID string
	Coverage   float64
	Fairness   float64
}
