package wext

import (
	"fmt"
	"math/bits"
	"net"
	"time"

	"github.com/mdlayher/netlink/nlenc"
)

// A MACTableFormat selects how a Ralink driver's MAC table is requested and
// laid out.
type MACTableFormat int

// Possible MACTableFormat values.
const (
	// MACTableDefault is the RT_802_11_MAC_TABLE returned by
	// RTPRIV_IOCTL_GET_MAC_TABLE_STRUCT on MT76xx and RT28xx drivers.
	MACTableDefault MACTableFormat = iota

	// MACTableINIC is the shorter table returned by
	// RTPRIV_IOCTL_GET_MAC_TABLE on RT3352 iNIC firmware, whose transmit
	// settings use the iNIC word layout.
	MACTableINIC
)

// String returns the name of a MACTableFormat.
func (f MACTableFormat) String() string {
	switch f {
	case MACTableDefault:
		return "default"
	case MACTableINIC:
		return "iNIC"
	default:
		return fmt.Sprintf("unknown(%d)", int(f))
	}
}

// Entry sizes, including trailing alignment. Both layouts share the first
// 22 bytes: ApIdx, Addr, Aid, Psm, MimoPs, AvgRssi0-2, ConnectedTime and
// TxRate. The default layout then carries LastRxRate and per-stream SNRs.
const (
	macEntrySize     = 40
	macEntrySizeINIC = 24
)

// The table begins with an unsigned long entry count.
const macTableHeaderSize = bits.UintSize / 8

// A MACEntry is a station in a Ralink driver's MAC table.
type MACEntry struct {
	// The index of the BSS the station is associated with: 0 for the main
	// network, 1 for the guest network.
	APIndex int

	// The hardware address of the station.
	HardwareAddr net.HardwareAddr

	// The association ID of the station.
	AID int

	// Whether the station is in power save mode.
	PowerSave bool

	// The time since the station connected.
	Connected time.Duration

	// Average RSSI per receive chain in dBm. Zero means no measurement.
	RSSI [3]int8

	// The PHY setting of the last frame transmitted to the station.
	TransmitSetting TransmitSetting
}

// Signal returns the strongest measured RSSI over the first chains receive
// chains, or -127 if none was measured.
func (e *MACEntry) Signal(chains int) int {
	if chains > len(e.RSSI) {
		chains = len(e.RSSI)
	}

	rssi := -127
	for _, r := range e.RSSI[:max(chains, 0)] {
		if r != 0 && int(r) > rssi {
			rssi = int(r)
		}
	}

	return rssi
}

// parseMACTable decodes a MAC table in format f from b.
func parseMACTable(b []byte, f MACTableFormat) ([]*MACEntry, error) {
	var (
		size  int
		parse func(uint16) TransmitSetting
	)

	switch f {
	case MACTableDefault:
		size, parse = macEntrySize, ParseTransmitSetting
	case MACTableINIC:
		size, parse = macEntrySizeINIC, ParseINICTransmitSetting
	default:
		return nil, fmt.Errorf("wext: unknown MAC table format %d", int(f))
	}

	if len(b) < macTableHeaderSize {
		return nil, fmt.Errorf("wext: MAC table header in %d bytes: %w", len(b), ErrBufferTooShort)
	}

	var num uint64
	if macTableHeaderSize == 8 {
		num = nlenc.Uint64(b[:8])
	} else {
		num = uint64(nlenc.Uint32(b[:4]))
	}

	b = b[macTableHeaderSize:]
	if num > uint64(len(b)/size) {
		return nil, fmt.Errorf("wext: MAC table of %d entries in %d bytes: %w", num, len(b), ErrBufferTooShort)
	}

	entries := make([]*MACEntry, 0, num)
	for i := 0; i < int(num); i++ {
		eb := b[i*size : (i+1)*size]

		entries = append(entries, &MACEntry{
			APIndex:      int(eb[0]),
			HardwareAddr: net.HardwareAddr(append([]byte(nil), eb[1:7]...)),
			AID:          int(eb[7]),
			PowerSave:    eb[8] != 0,
			RSSI:         [3]int8{int8(eb[10]), int8(eb[11]), int8(eb[12])},
			Connected:    time.Duration(nlenc.Uint32(eb[16:20])) * time.Second,

			TransmitSetting: parse(nlenc.Uint16(eb[20:22])),
		})
	}

	return entries, nil
}
