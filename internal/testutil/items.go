package testutil

import "github.com/hupe1980/bcikit/core"

// FakeItem is a scriptable SelectableItem counting capability invocations.
type FakeItem struct {
	Name         string
	IsSelectable bool

	SelectCount int
	EnterCount  int
	ExitCount   int

	poolIndex int
}

// NewFakeItem constructs a selectable FakeItem.
func NewFakeItem(name string) *FakeItem {
	return &FakeItem{Name: name, IsSelectable: true, poolIndex: -1}
}

// NewUnselectableItem constructs a FakeItem excluded from selection.
func NewUnselectableItem(name string) *FakeItem {
	item := NewFakeItem(name)
	item.IsSelectable = false
	return item
}

// Select counts the selection.
func (f *FakeItem) Select() { f.SelectCount++ }

// OnTrainTargetEnter counts the highlight.
func (f *FakeItem) OnTrainTargetEnter() { f.EnterCount++ }

// OnTrainTargetExit counts the highlight removal.
func (f *FakeItem) OnTrainTargetExit() { f.ExitCount++ }

// Selectable reports the scripted flag.
func (f *FakeItem) Selectable() bool { return f.IsSelectable }

// PoolIndex returns the registry-assigned index (-1 before population).
func (f *FakeItem) PoolIndex() int { return f.poolIndex }

// SetPoolIndex records the registry-assigned index.
func (f *FakeItem) SetPoolIndex(i int) { f.poolIndex = i }

// StaticSource is an ItemSource backed by a fixed item list per tag.
type StaticSource struct {
	ItemsByTag map[string][]core.SelectableItem
}

// NewStaticSource builds a source serving items under the given tag.
func NewStaticSource(tag string, items ...core.SelectableItem) *StaticSource {
	return &StaticSource{ItemsByTag: map[string][]core.SelectableItem{tag: items}}
}

// ListSelectableItems returns the items registered under tag, in order.
func (s *StaticSource) ListSelectableItems(tag string) []core.SelectableItem {
	return s.ItemsByTag[tag]
}

// FakeItems extracts the concrete fakes from a registry item slice.
func FakeItems(items []core.SelectableItem) []*FakeItem {
	out := make([]*FakeItem, 0, len(items))
	for _, item := range items {
		if f, ok := item.(*FakeItem); ok {
			out = append(out, f)
		}
	}
	return out
}
