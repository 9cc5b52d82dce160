//go:build !linux
// +build !linux

package wext

import (
	"testing"
	"time"
)

func TestOthers_clientUnimplemented(t *testing.T) {
	c := &client{}
	want := errUnimplemented

	if _, got := newClient(); want != got {
		t.Fatalf("unexpected error during newClient:\n- want: %v\n-  got: %v",
			want, got)
	}

	if _, got := c.Interfaces(); want != got {
		t.Fatalf("unexpected error during c.Interfaces\n- want: %v\n-  got: %v",
			want, got)
	}

	if _, got := c.RangeInfo(nil); want != got {
		t.Fatalf("unexpected error during c.RangeInfo\n- want: %v\n-  got: %v",
			want, got)
	}

	if _, got := c.Frequency(nil); want != got {
		t.Fatalf("unexpected error during c.Frequency\n- want: %v\n-  got: %v",
			want, got)
	}

	if _, got := c.Query(nil, 0, 0); want != got {
		t.Fatalf("unexpected error during c.Query\n- want: %v\n-  got: %v",
			want, got)
	}

	if _, got := c.StationInfo(nil); want != got {
		t.Fatalf("unexpected error during c.StationInfo\n- want: %v\n-  got: %v",
			want, got)
	}

	if _, got := c.MACTable(nil, MACTableDefault); want != got {
		t.Fatalf("unexpected error during c.MACTable\n- want: %v\n-  got: %v",
			want, got)
	}

	if _, got := c.BSSID(nil); want != got {
		t.Fatalf("unexpected error during c.BSSID\n- want: %v\n-  got: %v",
			want, got)
	}

	if got := c.SetDeadline(time.Time{}); want != got {
		t.Fatalf("unexpected error during c.SetDeadline\n- want: %v\n-  got: %v",
			want, got)
	}

	if got := c.Close(); want != got {
		t.Fatalf("unexpected error during c.Close:\n- want: %v\n-  got: %v",
			want, got)
	}
}
