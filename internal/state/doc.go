// Package state holds the single source of truth for the catalog view.
//
// # Overview
//
// The Store keeps the canonical product list as last fetched from the API
// together with the view parameters the user controls: search term, sort key
// and direction, page and page size. The filtered list is derived from those
// and recomputed inside the same critical section as every change, so readers
// never observe a filtered list that disagrees with its inputs.
//
//	Writers (commands):              Readers (UI):
//	┌──────────────────────┐        ┌────────────────────┐
//	│ coordinator.Load()   │        │                    │
//	│ coordinator.Create() │        │                    │
//	│      ↓               │        │                    │
//	│ store.SetProducts()  │───────→│ store.Snapshot()   │
//	└──────────────────────┘ (mutex)│      ↓             │
//	                                │ view.Project(...)  │
//	                                └────────────────────┘
//
// # Concurrency Model
//
// Bubble Tea runs commands on their own goroutines, so the Store is guarded by
// a sync.RWMutex. Each operation runs to completion under the write lock and
// listeners registered with Subscribe are called afterwards, outside the lock,
// with a cloned Snapshot. A listener may therefore call back into the Store.
//
// # Update Semantics
//
//	store.SetProducts(list)   → filtered recomputed, page = 1, error cleared
//	store.SetLoadError(err)   → products kept, error recorded
//	store.SetSearchTerm("x")  → filtered recomputed, page = 1
//	store.SetSort(key)        → same key flips direction, page clamped
//	store.SetPage(n)          → clamped; false and no notification if unchanged
//	store.SetPageSize(n)      → n < 1 becomes 1, page = 1
//
// # Defensive Copying
//
// SetProducts copies its input and Snapshot copies the stored slices, so
// neither the caller nor the UI can mutate the store's data in place.
//
// # Testing Considerations
//
// The zero value is usable and pages by DefaultPageSize:
//
//	var store state.Store
//	store.SetProducts(products)
package state
