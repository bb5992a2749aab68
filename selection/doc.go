// Package selection resolves selections against the selectable registry:
// direct index selection, deferred end-of-run selection, and inbound
// classifier response handling. Invalid input (empty registry, bad index,
// unparsable token) is absorbed as a logged no-op so a misbehaving
// classifier can never corrupt session state.
package selection
