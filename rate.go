package wext

import (
	"fmt"
)

// A PhyMode is the modulation family of a transmit setting.
type PhyMode uint8

// Possible PhyMode values, in the order used by Ralink drivers.
const (
	PhyModeCCK PhyMode = iota
	PhyModeOFDM
	PhyModeHTMixed
	PhyModeHTGreenfield
	PhyModeVHT
)

// String returns the short name Ralink tools use for a PhyMode.
func (m PhyMode) String() string {
	switch m {
	case PhyModeCCK:
		return "CCK"
	case PhyModeOFDM:
		return "OFDM"
	case PhyModeHTMixed:
		return "HTMIX"
	case PhyModeHTGreenfield:
		return "HT_GF"
	case PhyModeVHT:
		return "VHT"
	default:
		return "N/A"
	}
}

// A Bandwidth is the channel width of a transmit setting.
type Bandwidth uint8

// Possible Bandwidth values, in the order used by Ralink drivers.
const (
	Bandwidth20MHz Bandwidth = iota
	Bandwidth40MHz
	Bandwidth80MHz
	Bandwidth10MHz
)

// String returns the short name Ralink tools use for a Bandwidth.
func (b Bandwidth) String() string {
	switch b {
	case Bandwidth10MHz:
		return "10M"
	case Bandwidth20MHz:
		return "20M"
	case Bandwidth40MHz:
		return "40M"
	case Bandwidth80MHz:
		return "80M"
	default:
		return "N/A"
	}
}

// A TransmitSetting is a decoded PHY transmit setting, as reported by a
// driver for each associated station.
type TransmitSetting struct {
	Mode      PhyMode
	Bandwidth Bandwidth

	// Short (400ns) guard interval.
	ShortGI bool

	// Low Density Parity Check coding.
	LDPC bool

	// Space-Time Block Coding.
	STBC bool

	// Explicit and implicit transmit beamforming.
	ExplicitBeamforming bool
	ImplicitBeamforming bool

	// Modulation and coding scheme index. For VHT, indices above 9 also
	// carry the spatial stream count: (streams-1)*16 + mcs.
	MCSIndex uint8
}

// ParseTransmitSetting decodes a MACHTTRANSMIT_SETTING word as reported by
// MT76xx (802.11ac capable) drivers.
func ParseTransmitSetting(word uint16) TransmitSetting {
	return TransmitSetting{
		MCSIndex:            uint8(word & 0x3f),
		LDPC:                word&(1<<6) != 0,
		Bandwidth:           Bandwidth((word >> 7) & 0x3),
		ShortGI:             word&(1<<9) != 0,
		STBC:                word&(1<<10) != 0,
		ExplicitBeamforming: word&(1<<11) != 0,
		ImplicitBeamforming: word&(1<<12) != 0,
		Mode:                PhyMode((word >> 13) & 0x7),
	}
}

// ParseINICTransmitSetting decodes a MACHTTRANSMIT_SETTING word as reported
// by RT3352 iNIC drivers, which predate LDPC and VHT.
func ParseINICTransmitSetting(word uint16) TransmitSetting {
	return TransmitSetting{
		MCSIndex:  uint8(word & 0x7f),
		Bandwidth: Bandwidth((word >> 7) & 0x1),
		ShortGI:   word&(1<<8) != 0,
		STBC:      (word>>9)&0x3 != 0,
		Mode:      PhyMode((word >> 14) & 0x3),
	}
}

// Word encodes s in the layout read by ParseTransmitSetting. Fields wider
// than their bitfield are truncated.
func (s TransmitSetting) Word() uint16 {
	w := uint16(s.MCSIndex&0x3f) |
		uint16(s.Bandwidth&0x3)<<7 |
		uint16(s.Mode&0x7)<<13

	for _, b := range []struct {
		set bool
		bit uint
	}{
		{set: s.LDPC, bit: 6},
		{set: s.ShortGI, bit: 9},
		{set: s.STBC, bit: 10},
		{set: s.ExplicitBeamforming, bit: 11},
		{set: s.ImplicitBeamforming, bit: 12},
	} {
		if b.set {
			w |= 1 << b.bit
		}
	}

	return w
}

// String returns a one-line summary of s.
func (s TransmitSetting) String() string {
	return fmt.Sprintf("%s %s MCS %d SGI=%t LDPC=%t STBC=%t: %dM",
		s.Mode, s.Bandwidth, s.MCS(), s.ShortGI, s.LDPC, s.STBC, s.Rate())
}

// rateTable holds PHY rates in units of 500 kbit/s, indexed as computed by
// TransmitSetting.tableIndex.
var rateTable = [...]int{
	2, 4, 11, 22, // CCK

	12, 18, 24, 36, 48, 72, 96, 108, // OFDM

	// HT 20MHz, 800ns GI, MCS 0-23
	13, 26, 39, 52, 78, 104, 117, 130, 26, 52, 78, 104, 156, 208, 234, 260,
	39, 78, 117, 156, 234, 312, 351, 390,

	// HT 40MHz, 800ns GI, MCS 0-23
	27, 54, 81, 108, 162, 216, 243, 270, 54, 108, 162, 216, 324, 432, 486, 540,
	81, 162, 243, 324, 486, 648, 729, 810,

	// HT 20MHz, 400ns GI, MCS 0-23
	14, 29, 43, 57, 87, 115, 130, 144, 29, 59, 87, 115, 173, 230, 260, 288,
	43, 87, 130, 173, 260, 317, 390, 433,

	// HT 40MHz, 400ns GI, MCS 0-23
	30, 60, 90, 120, 180, 240, 270, 300, 60, 120, 180, 240, 360, 480, 540, 600,
	90, 180, 270, 360, 540, 720, 810, 900,

	// VHT 20MHz, 800ns GI, MCS 0-8
	13, 26, 39, 52, 78, 104, 117, 130, 156,
	// VHT 40MHz, 800ns GI, MCS 0-9
	27, 54, 81, 108, 162, 216, 243, 270, 324, 360,
	// VHT 80MHz, 800ns GI, MCS 0-9
	59, 117, 176, 234, 351, 468, 527, 585, 702, 780,

	// VHT 20MHz, 400ns GI, MCS 0-8
	14, 29, 43, 57, 87, 115, 130, 144, 173,
	// VHT 40MHz, 400ns GI, MCS 0-9
	30, 60, 90, 120, 180, 240, 270, 300, 360, 400,
	// VHT 80MHz, 400ns GI, MCS 0-9
	65, 130, 195, 260, 390, 520, 585, 650, 780, 867,
}

// Offsets of table sections.
const (
	ofdmBase  = 4
	htBase    = 12
	htPerBW   = 24
	htPerGI   = 48
	vht20Base = 108
	vht40Base = 117
	vht80Base = 127
	vhtPerGI  = 29
)

// vhtMaxMCS is the highest VHT MCS which does not carry a stream count.
const vhtMaxMCS = 9

// split returns the per-stream MCS and the number of spatial streams.
func (s TransmitSetting) split() (mcs, streams int) {
	mcs, streams = int(s.MCSIndex), 1
	if s.Mode >= PhyModeVHT && mcs > vhtMaxMCS {
		streams = mcs/16 + 1
		mcs %= 16
	}

	return mcs, streams
}

// MCS returns the per-stream MCS index of s, for display.
func (s TransmitSetting) MCS() int {
	mcs, _ := s.split()
	return mcs
}

// Streams returns the number of spatial streams encoded in s. Only VHT
// settings carry a stream count; all others report one.
func (s TransmitSetting) Streams() int {
	_, streams := s.split()
	return streams
}

// tableIndex returns the clamped rateTable index for s.
func (s TransmitSetting) tableIndex() int {
	mcs, _ := s.split()

	var gi int
	if s.ShortGI {
		gi = 1
	}

	var i int
	switch {
	case s.Mode >= PhyModeVHT:
		switch s.Bandwidth {
		case Bandwidth20MHz:
			i = vht20Base + gi*vhtPerGI + mcs
		case Bandwidth40MHz:
			i = vht40Base + gi*vhtPerGI + mcs
		case Bandwidth80MHz:
			i = vht80Base + gi*vhtPerGI + mcs
		}
	case s.Mode >= PhyModeHTMixed:
		i = htBase + int(s.Bandwidth)*htPerBW + gi*htPerGI + mcs
	case s.Mode == PhyModeOFDM:
		i = ofdmBase + mcs
	case s.Mode == PhyModeCCK:
		i = mcs
	}

	if i < 0 {
		i = 0
	}
	if i >= len(rateTable) {
		i = len(rateTable) - 1
	}

	return i
}

// Rate returns the PHY rate of s in whole Mbit/s, truncated. Settings which
// fall outside the rate table are clamped to its nearest entry.
func (s TransmitSetting) Rate() int {
	_, streams := s.split()
	return rateTable[s.tableIndex()] * streams * 5 / 10
}

// legacySetting returns the CCK or OFDM setting for a legacy bitrate given
// in units of 100 kbit/s.
func legacySetting(bitrate int) (TransmitSetting, bool) {
	for i := 0; i < htBase; i++ {
		if rateTable[i]*5 != bitrate {
			continue
		}

		if i < ofdmBase {
			return TransmitSetting{Mode: PhyModeCCK, MCSIndex: uint8(i)}, true
		}
		return TransmitSetting{Mode: PhyModeOFDM, MCSIndex: uint8(i - ofdmBase)}, true
	}

	return TransmitSetting{}, false
}
