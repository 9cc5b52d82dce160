package wext

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLegacyCopies(t *testing.T) {
	want := []copyOp{
		{first: "throughput", src: 0, dst: 0, n: 12},
		{first: "num_channels", src: 12, dst: 304, n: 132},
		{first: "sensitivity", src: 144, dst: 40, n: 8},
		{first: "num_bitrates", src: 152, dst: 52, n: 36},
		{first: "min_rts", src: 188, dst: 184, n: 56},
		{first: "txpower_capa", src: 244, dst: 242, n: 4},
		{first: "txpower", src: 248, dst: 248, n: 56},
		{first: "avg_qual", src: 304, dst: 48, n: 4},
	}

	if diff := cmp.Diff(want, legacyCopies, cmp.AllowUnexported(copyOp{})); diff != "" {
		t.Fatalf("unexpected copy plan (-want +got):\n%s", diff)
	}
}

func TestLegacyCopiesCoverRecord(t *testing.T) {
	var (
		src = make([]int, legacyRangeSize)
		dst = make([]int, modernRangeSize)
	)

	for _, op := range legacyCopies {
		if op.n <= 0 {
			t.Fatalf("copy at %s has no length", op.first)
		}
		if op.src+op.n > legacyRangeSize || op.dst+op.n > modernRangeSize {
			t.Fatalf("copy at %s overruns a record: %+v", op.first, op)
		}

		for i := 0; i < op.n; i++ {
			src[op.src+i]++
			dst[op.dst+i]++
		}
	}

	// Every legacy byte is read exactly once, and no modern byte is written
	// twice.
	for i, n := range src {
		if n != 1 {
			t.Fatalf("legacy byte %d copied %d times", i, n)
		}
	}
	for i, n := range dst {
		if n > 1 {
			t.Fatalf("modern byte %d written %d times", i, n)
		}
	}
}

func TestLegacyFieldsFitCopies(t *testing.T) {
	for _, f := range legacyFields {
		var found bool
		for _, op := range legacyCopies {
			if f.legacyOffset < op.src || f.legacyOffset+f.legacySize > op.src+op.n {
				continue
			}

			found = true
			if diff := cmp.Diff(f.modernOffset, f.legacyOffset-op.src+op.dst); diff != "" {
				t.Fatalf("field %s lands at the wrong offset (-want +got):\n%s", f.name, diff)
			}
		}

		if !found {
			t.Fatalf("field %s is not covered by a copy", f.name)
		}
	}
}

func TestFieldTables(t *testing.T) {
	seen := make(map[string]bool)
	for _, f := range append(append([]field(nil), legacyFields...), modernOnlyFields...) {
		if seen[f.name] {
			t.Fatalf("duplicate field %s", f.name)
		}
		seen[f.name] = true

		if f.modernOffset+f.modernSize > modernRangeSize {
			t.Fatalf("field %s overruns the modern record", f.name)
		}
		if f.legacyOffset >= 0 && f.legacyOffset+f.legacySize > legacyRangeSize {
			t.Fatalf("field %s overruns the legacy record", f.name)
		}
	}

	// Fields which are not lists keep their width across layouts.
	for _, f := range legacyFields {
		switch f.name {
		case "freq", "bitrate":
			if f.modernSize <= f.legacySize {
				t.Fatalf("list %s did not grow", f.name)
			}
		default:
			if diff := cmp.Diff(f.legacySize, f.modernSize); diff != "" {
				t.Fatalf("field %s changed width (-want +got):\n%s", f.name, diff)
			}
		}
	}
}

func TestLookupFieldUnknownPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic, but none occurred")
		}
	}()

	_ = lookupField("no_such_field")
}
