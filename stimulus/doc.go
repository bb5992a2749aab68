// Package stimulus implements the engine that owns a stimulus run: the
// repeating presentation cycle, the paired periodic marker-emission loop and
// the response-reception loop. Protocol packages specialize its behavior
// through the per-cycle and run-completion hooks rather than by subclassing;
// the default hooks are no-ops, matching paradigms whose visual effects live
// entirely in the host's selectable items.
package stimulus
