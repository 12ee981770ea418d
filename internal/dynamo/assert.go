//go:build !buoysim_debug

package dynamo

const DebugAssertions = false

// Assert is a no-op in release builds; callers clamp instead.
func Assert(cond bool, format string, args ...any) {}
