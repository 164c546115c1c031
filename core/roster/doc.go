// Package roster implements the schedule period-reconciliation and
// optimistic-editing engine: it indexes fetched schedule records by calendar
// period, holds the single working schedule with its dirty state, resolves
// conflicts when the user navigates away from unsaved work, and decides
// whether an edited schedule is created or updated on the remote store.
//
// All mutations are synchronous and I/O free; only list fetches and
// create/update/generate calls suspend. One Session exists per viewer and
// facility.
package roster
