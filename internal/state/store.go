package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/query"
	"github.com/five82/stockroom/internal/view"
)

// DefaultPageSize is used when a Store is created with its zero value.
const DefaultPageSize = 10

// ErrNotFound is matched by errors.Is for every NotFoundError.
var ErrNotFound = errors.New("product not found")

// NotFoundError reports a product id absent from the loaded list.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *NotFoundError) Kind() catalog.ErrorKind { return catalog.KindNotFound }

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Products            []catalog.Product
	Filtered            []catalog.Product
	Page                int
	PageSize            int
	TotalPages          int
	SortKey             query.Key
	SortDirection       query.Direction
	SearchTerm          string
	Loaded              bool
	LoadError           error
	LastUpdated         time.Time
	ConsecutiveFailures int // Number of consecutive failed loads
}

// View projects the filtered list onto the current page.
func (s Snapshot) View() view.Page {
	return view.Project(s.Filtered, s.Page, s.PageSize)
}

// IsOffline returns true when the API has failed several loads in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the catalog view state. The zero
// value is ready to use.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot

	lmu       sync.Mutex
	listeners []listener
	nextID    int
}

type listener struct {
	id int
	fn func(Snapshot)
}

// NewStore returns a store with the given page size.
func NewStore(pageSize int) *Store {
	s := &Store{}
	s.snapshot.PageSize = max(pageSize, 1)
	s.snapshot.Page = 1
	s.snapshot.TotalPages = 1
	return s
}

// Subscribe registers fn to run after every state change. Listeners run in
// registration order, outside the store lock.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.lmu.Lock()
	defer s.lmu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.lmu.Lock()
			defer s.lmu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// SetProducts replaces the canonical product list, recomputes the view and
// returns to the first page.
func (s *Store) SetProducts(products []catalog.Product) {
	s.mutate(func(snap *Snapshot) bool {
		snap.Products = catalog.CloneAll(products)
		snap.Loaded = true
		snap.LoadError = nil
		snap.ConsecutiveFailures = 0
		snap.LastUpdated = time.Now()
		snap.Page = 1
		recompute(snap)
		return true
	})
}

// SetLoadError records a failed load. Previously loaded products are kept.
func (s *Store) SetLoadError(err error) {
	if err == nil {
		return
	}
	s.mutate(func(snap *Snapshot) bool {
		snap.LoadError = err
		snap.ConsecutiveFailures++
		snap.LastUpdated = time.Now()
		return true
	})
}

// SetSearchTerm filters the view and returns to the first page.
func (s *Store) SetSearchTerm(term string) {
	s.mutate(func(snap *Snapshot) bool {
		snap.SearchTerm = query.NormalizeTerm(term)
		snap.Page = 1
		recompute(snap)
		return true
	})
}

// SetSort sorts by key. Choosing the active key again flips the direction;
// a new key starts ascending. The page is only clamped, never reset.
func (s *Store) SetSort(key query.Key) {
	s.mutate(func(snap *Snapshot) bool {
		if snap.SortKey == key {
			snap.SortDirection = snap.SortDirection.Flip()
		} else {
			snap.SortKey = key
			snap.SortDirection = query.Ascending
		}
		recompute(snap)
		return true
	})
}

// SetPage moves to page n, clamped into range. It reports whether the page
// changed; listeners are not notified when it did not.
func (s *Store) SetPage(n int) bool {
	return s.mutate(func(snap *Snapshot) bool {
		next := view.ClampPage(n, snap.TotalPages)
		if next == snap.Page {
			return false
		}
		snap.Page = next
		return true
	})
}

func (s *Store) NextPage() bool { return s.SetPage(s.page() + 1) }

func (s *Store) PrevPage() bool { return s.SetPage(s.page() - 1) }

func (s *Store) FirstPage() bool { return s.SetPage(1) }

func (s *Store) LastPage() bool {
	s.mu.RLock()
	last := s.snapshot.TotalPages
	s.mu.RUnlock()
	return s.SetPage(last)
}

// SetPageSize changes the rows per page and returns to the first page. Sizes
// below one become one.
func (s *Store) SetPageSize(n int) {
	s.mutate(func(snap *Snapshot) bool {
		snap.PageSize = max(n, 1)
		snap.Page = 1
		recompute(snap)
		return true
	})
}

// PageSize returns the current rows per page.
func (s *Store) PageSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot.PageSize < 1 {
		return DefaultPageSize
	}
	return s.snapshot.PageSize
}

// Lookup returns a copy of the product with the given id.
func (s *Store) Lookup(id int64) (catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.snapshot.Products {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return catalog.Product{}, &NotFoundError{ID: id}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneLocked()
}

func (s *Store) page() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot.Page < 1 {
		return 1
	}
	return s.snapshot.Page
}

// mutate applies fn under the write lock and notifies listeners when fn
// reports a change.
func (s *Store) mutate(fn func(*Snapshot) bool) bool {
	s.mu.Lock()
	s.initLocked()
	changed := fn(&s.snapshot)
	var snap Snapshot
	if changed {
		snap = s.cloneLocked()
	}
	s.mu.Unlock()

	if changed {
		s.notify(snap)
	}
	return changed
}

func (s *Store) notify(snap Snapshot) {
	s.lmu.Lock()
	fns := make([]func(Snapshot), len(s.listeners))
	for i, l := range s.listeners {
		fns[i] = l.fn
	}
	s.lmu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Store) initLocked() {
	if s.snapshot.PageSize < 1 {
		s.snapshot.PageSize = DefaultPageSize
	}
	if s.snapshot.Page < 1 {
		s.snapshot.Page = 1
	}
	if s.snapshot.TotalPages < 1 {
		s.snapshot.TotalPages = 1
	}
}

func (s *Store) cloneLocked() Snapshot {
	snap := s.snapshot
	snap.Products = catalog.CloneAll(s.snapshot.Products)
	snap.Filtered = catalog.CloneAll(s.snapshot.Filtered)
	if snap.PageSize < 1 {
		snap.PageSize = DefaultPageSize
	}
	if snap.Page < 1 {
		snap.Page = 1
	}
	if snap.TotalPages < 1 {
		snap.TotalPages = 1
	}
	return snap
}

func recompute(snap *Snapshot) {
	snap.Filtered = query.Apply(snap.Products, snap.SearchTerm, snap.SortKey, snap.SortDirection)
	snap.TotalPages = view.TotalPages(len(snap.Filtered), snap.PageSize)
	snap.Page = view.ClampPage(snap.Page, snap.TotalPages)
}
