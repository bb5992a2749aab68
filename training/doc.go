// Package training orchestrates multi-phase training sessions, composing
// stimulus runs with target-highlight phases and rest periods. The automated
// protocol is fully scripted; the iterative and user protocols ship as
// diagnostic stubs that paradigm packages override through options. A
// supervising loop in the training slot holds the active training type and
// performs natural completion when a phase routine finishes.
package training
