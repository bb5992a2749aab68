package registry

import (
	"fmt"
	"sync"

	"github.com/hupe1980/bcikit/core"
	"github.com/hupe1980/bcikit/logging"
)

// PopulationStrategy selects how Populate builds the item sequence.
type PopulationStrategy int

const (
	// StrategyPredefined keeps the current contents unchanged; the host has
	// installed the sequence itself via SetItems.
	StrategyPredefined PopulationStrategy = iota
	// StrategyTag discovers all objects matching the configured group tag,
	// keeps only those marked selectable and replaces the sequence.
	StrategyTag
	// StrategyChildren is reserved and reports core.ErrStrategyNotImplemented.
	StrategyChildren
)

// String returns the string representation of the strategy.
func (p PopulationStrategy) String() string {
	switch p {
	case StrategyPredefined:
		return "predefined"
	case StrategyTag:
		return "tag"
	case StrategyChildren:
		return "children"
	default:
		return "unknown"
	}
}

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// GroupTag is the discovery tag used by StrategyTag.
	GroupTag string
	// Logger receives population diagnostics.
	Logger logging.Logger
}

// Registry is the ordered sequence of selectable item references. Insertion
// order equals pool index order; indices are contiguous 0..N-1 and are
// reassigned on each repopulation. The registry holds non-owning references;
// item lifetime belongs to the host.
type Registry struct {
	mu       sync.RWMutex
	items    []core.SelectableItem
	source   core.ItemSource
	groupTag string
	logger   logging.Logger
}

// New constructs a Registry discovering items from source.
func New(source core.ItemSource, optFns ...func(o *Options)) *Registry {
	opts := Options{GroupTag: "BCI", Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{source: source, groupTag: opts.GroupTag, logger: opts.Logger}
}

// Populate rebuilds the item sequence according to the strategy. The
// replacement is atomic from the caller's perspective: no partial sequence
// is ever observable.
func (r *Registry) Populate(strategy PopulationStrategy) error {
	switch strategy {
	case StrategyPredefined:
		return nil
	case StrategyTag:
		if r.source == nil {
			return fmt.Errorf("tag population: no item source bound")
		}
		discovered := r.source.ListSelectableItems(r.groupTag)
		items := make([]core.SelectableItem, 0, len(discovered))
		for _, item := range discovered {
			if item == nil || !item.Selectable() {
				continue
			}
			items = append(items, item)
		}
		for i, item := range items {
			item.SetPoolIndex(i)
		}
		r.mu.Lock()
		r.items = items
		r.mu.Unlock()
		r.logger.Debug("registry populated", "strategy", strategy.String(), "tag", r.groupTag, "count", len(items))
		return nil
	case StrategyChildren:
		r.logger.Warn("children population strategy is not implemented")
		return core.ErrStrategyNotImplemented
	default:
		return fmt.Errorf("unknown population strategy %d", strategy)
	}
}

// SetItems installs a predefined sequence, assigning contiguous pool
// indices. Use together with StrategyPredefined.
func (r *Registry) SetItems(items []core.SelectableItem) {
	for i, item := range items {
		item.SetPoolIndex(i)
	}
	r.mu.Lock()
	r.items = append([]core.SelectableItem(nil), items...)
	r.mu.Unlock()
}

// Count returns the number of items in the current population.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Get returns the item at index i. Callers are expected to bounds-check
// before use; an out-of-range index yields core.ErrIndexOutOfRange.
func (r *Registry) Get(i int) (core.SelectableItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= len(r.items) {
		return nil, fmt.Errorf("%w: %d of %d", core.ErrIndexOutOfRange, i, len(r.items))
	}
	return r.items[i], nil
}

// Items returns a copy of the current population.
func (r *Registry) Items() []core.SelectableItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]core.SelectableItem, len(r.items))
	copy(items, r.items)
	return items
}
