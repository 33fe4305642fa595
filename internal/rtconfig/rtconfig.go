// Package rtconfig holds process-wide configuration read by several core
// subsystems, the same shape as the teacher's internal/config package
// (package-level vars consulted from multiple subsystems rather than a
// config object threaded everywhere).
package rtconfig

// DefaultMaxCallDepth is the call-depth guard's ceiling (§4.1, §6.2) absent
// an explicit override.
const DefaultMaxCallDepth = 10000

// MaxCallDepth is the active call-depth ceiling. Overridable at process
// startup; the zero value is never valid, so runtime.New falls back to
// DefaultMaxCallDepth when this is left at zero.
var MaxCallDepth = DefaultMaxCallDepth

// BuildMode distinguishes the two output-artifact shapes from §6.3.
type BuildMode uint8

const (
	// JIT installs compiled functions directly into the running process's
	// function table.
	JIT BuildMode = iota
	// AOT additionally emits a registration manifest (see internal/aotmanifest)
	// for a static constructor to call register_jit_fn with at program load.
	AOT
)

// ActiveBuildMode is set once at process/tool startup.
var ActiveBuildMode = JIT

// IsTestMode mirrors the teacher's config.IsTestMode: several helpers (e.g.
// sigil evaluation) behave deterministically under it for golden-file tests.
var IsTestMode = false
