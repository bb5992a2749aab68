// Package testutil provides shared builders for tests: scriptable selectable
// items that count their capability invocations and a static item source
// standing in for the host's scene discovery.
package testutil
