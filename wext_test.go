package wext

import (
	"testing"
)

func TestInterfaceTypeString(t *testing.T) {
	tests := []struct {
		t InterfaceType
		s string
	}{
		{
			t: InterfaceTypeUnspecified,
			s: "unspecified",
		},
		{
			t: InterfaceTypeAdHoc,
			s: "ad-hoc",
		},
		{
			t: InterfaceTypeStation,
			s: "station",
		},
		{
			t: InterfaceTypeAP,
			s: "access point",
		},
		{
			t: InterfaceTypeWDS,
			s: "wireless distribution",
		},
		{
			t: InterfaceTypeMonitor,
			s: "monitor",
		},
		{
			t: InterfaceTypeMeshPoint,
			s: "mesh point",
		},
		{
			t: InterfaceTypeP2PClient,
			s: "P2P client",
		},
		{
			t: InterfaceTypeP2PGroupOwner,
			s: "P2P group owner",
		},
		{
			t: InterfaceTypeP2PDevice,
			s: "P2P device",
		},
		{
			t: InterfaceTypeOCB,
			s: "outside context of BSS",
		},
		{
			t: InterfaceTypeNAN,
			s: "near-me area network",
		},
		{
			t: InterfaceTypeNAN + 1,
			s: "unknown(13)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			if want, got := tt.s, tt.t.String(); want != got {
				t.Fatalf("unexpected interface type string:\n- want: %q\n-  got: %q",
					want, got)
			}
		})
	}
}

func TestFrequencyToChannel(t *testing.T) {
	tests := []struct {
		freq, ch int
	}{
		{freq: 2412, ch: 1},
		{freq: 2437, ch: 6},
		{freq: 2472, ch: 13},
		{freq: 2484, ch: 14},
		{freq: 4920, ch: 184},
		{freq: 5180, ch: 36},
		{freq: 5825, ch: 165},
		{freq: 58320, ch: 1},
		{freq: 64800, ch: 4},
		{freq: 70000, ch: 0},
	}

	for _, tt := range tests {
		if want, got := tt.ch, FrequencyToChannel(tt.freq); want != got {
			t.Fatalf("unexpected channel for %d MHz:\n- want: %d\n-  got: %d",
				tt.freq, want, got)
		}
	}
}
