// Package registry implements the ordered set of selectable items a stimulus
// session presents. Population strategies decide how the sequence is built;
// the Tag strategy discovers items through the host's ItemSource and is the
// default used at every run start. Pool indices are assigned contiguously in
// discovery order and stay stable until the next repopulation, which
// replaces the sequence atomically from the caller's perspective.
package registry
