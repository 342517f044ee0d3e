// Package cli contains the command line interface for lessgo.
//
// # Usage
//
// The CLI provides logging and profiling configuration alongside the
// compile/cache/fmt commands:
//
//	lessgo --log-level=debug --pprof-mode=cpu compile input.less
//
// # Configuration Loader
//
// The package supports two configuration file loaders, tried in order
// before command-line flags are applied:
//
//   - kong.JSON against "<config>.json"
//   - [resolve] against the extension-less "<config>" path, which also
//     reads plain JSON (see [resolve] for the format)
//
// Command-line flags always override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorized, human-readable log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o lessgo ./cmd/lessc
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/lessgo/pprof)
//
// # Examples
//
//	# Debug logging with CPU profiling
//	lessgo --log-level=debug --pprof-mode=cpu compile input.less -o output.css
//
//	# Dump the reduced tree as YAML instead of compiling to CSS
//	lessgo fmt --format=yaml input.less
//
//	# Cache-aware recompilation
//	lessgo cache build input.less output.css
package cli
