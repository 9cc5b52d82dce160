package wext

import (
	"fmt"
	"sync/atomic"
)

// An AdvisoryKind identifies a Wireless Extensions version mismatch between
// a driver and this package.
type AdvisoryKind int

// Possible AdvisoryKind values.
const (
	// AdvisoryAncientDriver indicates a driver compiled against WE-10 or
	// older, which this package only partially understands.
	AdvisoryAncientDriver AdvisoryKind = iota

	// AdvisoryFutureVersion indicates a driver compiled against a WE
	// version newer than MaxVersion.
	AdvisoryFutureVersion

	// AdvisorySourceNewerThanCompiled indicates a driver whose source
	// recommends a newer WE version than it was compiled against, so some
	// of its features may be unavailable.
	AdvisorySourceNewerThanCompiled
)

// String returns the string representation of an AdvisoryKind.
func (k AdvisoryKind) String() string {
	switch k {
	case AdvisoryAncientDriver:
		return "ancient driver"
	case AdvisoryFutureVersion:
		return "future version"
	case AdvisorySourceNewerThanCompiled:
		return "source newer than compiled"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// An Advisory is a warning about the WE version a driver was built with.
type Advisory struct {
	Kind AdvisoryKind

	// Versions reported by the driver.
	Compiled int
	Source   int

	// The newest version this package supports.
	MaxSupported int
}

// String returns a human readable description of a.
func (a Advisory) String() string {
	switch a.Kind {
	case AdvisoryAncientDriver:
		return fmt.Sprintf("driver has been compiled with an ancient version %d of Wireless Extension, while this program supports version 11 and later; some things may be broken",
			a.Compiled)
	case AdvisoryFutureVersion:
		return fmt.Sprintf("driver has been compiled with version %d of Wireless Extension, while this program supports up to version %d; some things may be broken",
			a.Compiled, a.MaxSupported)
	case AdvisorySourceNewerThanCompiled:
		return fmt.Sprintf("driver recommends version %d of Wireless Extension, but has been compiled with version %d; some driver features may not be available",
			a.Source, a.Compiled)
	default:
		return a.Kind.String()
	}
}

// Evaluate checks the WE versions reported in r. If warned is true, no
// advisories are produced. The returned bool is always true, and should be
// passed to later calls so that a process warns at most once: drivers on
// one system are normally built against the same kernel. A nil r produces
// no advisories.
func Evaluate(r *Range, warned bool) ([]Advisory, bool) {
	if warned || r == nil {
		return nil, true
	}

	var advs []Advisory
	if r.CompiledVersion <= 10 {
		advs = append(advs, Advisory{
			Kind:         AdvisoryAncientDriver,
			Compiled:     r.CompiledVersion,
			Source:       r.SourceVersion,
			MaxSupported: MaxVersion,
		})
	}

	if r.CompiledVersion > MaxVersion {
		advs = append(advs, Advisory{
			Kind:         AdvisoryFutureVersion,
			Compiled:     r.CompiledVersion,
			Source:       r.SourceVersion,
			MaxSupported: MaxVersion,
		})
	}

	// Only compile differences matter; new fields from an outdated source
	// read as zero.
	if r.CompiledVersion > 10 && r.CompiledVersion < r.SourceVersion {
		advs = append(advs, Advisory{
			Kind:         AdvisorySourceNewerThanCompiled,
			Compiled:     r.CompiledVersion,
			Source:       r.SourceVersion,
			MaxSupported: MaxVersion,
		})
	}

	return advs, true
}

// An Advisor evaluates version advisories at most once over its lifetime.
// The zero value is ready to use, and an Advisor is safe for concurrent use.
type Advisor struct {
	warned atomic.Bool
}

// Check returns the advisories for r if no earlier call has claimed them,
// and nil otherwise. Only the first call with a non-nil r ever evaluates,
// even when that evaluation produces no advisories.
func (a *Advisor) Check(r *Range) []Advisory {
	if r == nil || !a.warned.CompareAndSwap(false, true) {
		return nil
	}

	advs, _ := Evaluate(r, false)
	return advs
}

// Warned reports whether a has already evaluated a Range.
func (a *Advisor) Warned() bool {
	return a.warned.Load()
}
