// Package liststate manages one screen's list of records and its edit staging
// slot.
//
// # Overview
//
// A Manager owns an ordered snapshot of records of a single entity type plus
// at most one in-progress edit. Screens call its operations directly from key
// handlers:
//
//	List        snapshot copy, insertion order
//	Add         validate a draft, append (or create remotely and re-fetch)
//	BeginEdit   stage a record's draft for a form
//	CommitEdit  validate and replace in place (or update remotely and re-fetch)
//	CancelEdit  drop the staged edit
//	Remove      delete (or delete remotely and re-fetch)
//	Refresh     re-fetch from the remote store
//
// # Local and Remote Managers
//
// Without a Store the manager is purely in-memory: ids come from the clock in
// milliseconds, bumped past the largest existing id so they stay unique.
//
// With a Store every write is a request followed by a full FetchAll. The
// snapshot is only ever replaced by a successful fetch, so a failed request
// leaves the last synchronized state in place:
//
//	Add(draft)
//	  ├─> draft.Validate()        ValidationError stops here
//	  ├─> store.Create(record)    error returned, snapshot untouched
//	  └─> store.FetchAll()        snapshot replaced
//
// # Loading Gate
//
// While a remote call is outstanding Loading reports true and any further
// write or Refresh fails with ErrBusy without touching the network. The lock
// guarding the snapshot is held only while copying, never during I/O, so the
// UI can keep rendering List while a request is in flight.
//
// # Staging Slot
//
// BeginEdit always replaces the previous staged edit. CommitEdit clears it on
// success and keeps it on failure so the form can be corrected. Removing the
// staged record, locally or through a re-fetch that no longer contains it,
// clears the slot.
//
// # Errors
//
//   - *entity.ValidationError: the draft was rejected; nothing changed
//   - *NotFoundError: the id is not in the snapshot
//   - ErrBusy: another remote call is in flight
//   - anything else: returned unchanged from the Store (see remote.Error)
package liststate
