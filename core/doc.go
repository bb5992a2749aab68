// Package core provides the foundational domain types, interfaces and error
// taxonomy used by bcikit. It defines the core abstractions for:
//
//   - MarkerChannel (write-only timestamped event marker emitter)
//   - ResponseChannel (pollable source of inbound classifier/user tokens)
//   - SelectableItem / ItemSource (the capability set of presentable,
//     selectable stimulus objects and their discovery)
//   - The marker vocabulary produced by a stimulus session
//
// The package intentionally keeps implementation concerns (transports,
// scheduling, concrete session orchestration) out of scope, exposing small
// interfaces so hosts can bind their own rendering engine, marker stream and
// classifier pipeline without depending on any bcikit internals.
package core
