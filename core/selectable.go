package core

// SelectableItem is the capability set of a presentable stimulus object. The
// item itself is owned and rendered by the host; the session only holds
// non-owning references and drives the hooks below.
//
// PoolIndex is assigned by the registry at population time, is unique within
// the current population and is reassigned whenever the registry repopulates.
type SelectableItem interface {
	// Select triggers the item's selection behavior (visual feedback,
	// host-side action). Invoked for real selections and sham feedback.
	Select()
	// OnTrainTargetEnter marks the item as the active training target.
	OnTrainTargetEnter()
	// OnTrainTargetExit clears the training-target highlight.
	OnTrainTargetExit()
	// Selectable reports whether the item participates in selection.
	Selectable() bool
	// PoolIndex returns the registry-assigned index.
	PoolIndex() int
	// SetPoolIndex is called by the registry during population.
	SetPoolIndex(i int)
}

// ItemSource discovers host objects eligible for selection. It replaces
// scene-graph tag lookups: the host decides what "matching the group tag"
// means (scene query, static list, matrix layout) and the session depends
// only on the returned capability set.
type ItemSource interface {
	// ListSelectableItems returns all registered objects matching the group
	// tag, in discovery order. The registry filters by Selectable itself.
	ListSelectableItems(tag string) []SelectableItem
}
