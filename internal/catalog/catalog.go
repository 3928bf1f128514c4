// Package catalog maintains a cached, filterable view of the available
// equipment for the public listing.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/are3ej/heavytrade/internal/model"
)

// AllCategories is the identity filter.
const AllCategories = "All Categories"

// ErrRefreshFailed signals that a refresh could not reach the repository.
// The previously cached records remain served.
var ErrRefreshFailed = errors.New("catalog refresh failed")

// Lister is the repository surface the view model consumes.
type Lister interface {
	ListAvailable(ctx context.Context) ([]model.Equipment, error)
}

// ViewModel caches the available collection and derives a filtered,
// paginated view from it. A failed refresh never discards a previously
// successful one.
type ViewModel struct {
	lister Lister

	mu       sync.RWMutex
	cached   []model.Equipment
	filtered []model.Equipment
	category string
	loaded   bool
}

// NewViewModel creates a view model over the given repository.
func NewViewModel(lister Lister) *ViewModel {
	return &ViewModel{lister: lister, category: AllCategories}
}

// Refresh replaces the cached records wholesale with a fresh listing. On
// failure the previous cache is preserved and ErrRefreshFailed returned.
func (vm *ViewModel) Refresh(ctx context.Context) error {
	records, err := vm.lister.ListAvailable(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.cached = records
	vm.filtered = Filter(records, vm.category)
	vm.loaded = true
	return nil
}

// Snapshot returns a copy of the full cached sequence, unfiltered.
func (vm *ViewModel) Snapshot() []model.Equipment {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	snapshot := make([]model.Equipment, len(vm.cached))
	copy(snapshot, vm.cached)
	return snapshot
}

// Loaded reports whether at least one refresh has succeeded.
func (vm *ViewModel) Loaded() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.loaded
}

// SetCategoryFilter recomputes the filtered view from the cache. Passing
// AllCategories (or the empty string) clears the filter.
func (vm *ViewModel) SetCategoryFilter(category string) {
	if category == "" {
		category = AllCategories
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.category = category
	vm.filtered = Filter(vm.cached, category)
}

// Page returns the 1-indexed page of the filtered view, clamped to bounds.
// A page beyond the end is empty, not an error. The returned slice is a
// copy; the cache is never exposed for mutation.
func (vm *ViewModel) Page(pageNumber, pageSize int) []model.Equipment {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	return Paginate(vm.filtered, pageNumber, pageSize)
}

// Len returns the size of the current filtered view.
func (vm *ViewModel) Len() int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return len(vm.filtered)
}

// Filter returns the records matching a category. AllCategories returns a
// copy of the whole sequence.
func Filter(records []model.Equipment, category string) []model.Equipment {
	if category == "" || category == AllCategories {
		filtered := make([]model.Equipment, len(records))
		copy(filtered, records)
		return filtered
	}

	filtered := make([]model.Equipment, 0, len(records))
	for _, rec := range records {
		if rec.Category == category {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// Paginate returns the 1-indexed page of a record sequence, clamped to
// bounds. Pages past the end are empty, never an error.
func Paginate(records []model.Equipment, pageNumber, pageSize int) []model.Equipment {
	if pageNumber < 1 || pageSize < 1 {
		return []model.Equipment{}
	}

	// Bound the page number before multiplying; pageNumber comes straight
	// from the query string and (pageNumber-1)*pageSize overflows for huge
	// values.
	lastPage := (len(records) + pageSize - 1) / pageSize
	if pageNumber > lastPage {
		return []model.Equipment{}
	}

	start := (pageNumber - 1) * pageSize

	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}

	page := make([]model.Equipment, end-start)
	copy(page, records[start:end])
	return page
}
