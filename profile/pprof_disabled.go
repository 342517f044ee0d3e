//go:build !pprof

package profile

// start is a no-op when built without the pprof tag.
func start(mode, path string, quiet bool) interface{ Stop() } {
	return ignore{}
}
