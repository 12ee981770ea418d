//go:build buoysim_debug

package dynamo

import "fmt"

const DebugAssertions = true

// Assert panics when cond is false.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("dynamo: invariant violated: "+format, args...))
	}
}
