// Package events defines the semantic events the roster core emits on the
// event bus for an external presentation layer.
//
// Available event types:
//   - AssignmentAdded / AssignmentRemoved: working schedule mutations
//   - SaveSucceeded / SaveFailed: persistence outcomes
//   - ConflictPrompted: unsaved-work resolution during navigation
//   - PeriodAmbiguity: backend data-consistency warning
//   - ScheduleGenerated: generation service result
package events
