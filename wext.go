// Package wext decodes wireless device capabilities and PHY transmit rates
// reported by Linux Wireless Extensions drivers, including vendor drivers
// which never adopted nl80211.
package wext

import (
	"fmt"
	"net"
	"time"
)

// An InterfaceType is the operating mode of an Interface, as reported by
// nl80211. Interfaces found through Wireless Extensions alone report
// InterfaceTypeUnspecified.
type InterfaceType int

// Possible InterfaceType values, in nl80211 order.
const (
	InterfaceTypeUnspecified InterfaceType = iota
	InterfaceTypeAdHoc
	InterfaceTypeStation
	InterfaceTypeAP
	InterfaceTypeAPVLAN
	InterfaceTypeWDS
	InterfaceTypeMonitor
	InterfaceTypeMeshPoint
	InterfaceTypeP2PClient
	InterfaceTypeP2PGroupOwner
	InterfaceTypeP2PDevice
	InterfaceTypeOCB
	InterfaceTypeNAN
)

// String returns the string representation of an InterfaceType.
func (t InterfaceType) String() string {
	switch t {
	case InterfaceTypeUnspecified:
		return "unspecified"
	case InterfaceTypeAdHoc:
		return "ad-hoc"
	case InterfaceTypeStation:
		return "station"
	case InterfaceTypeAP:
		return "access point"
	case InterfaceTypeAPVLAN:
		return "access point/VLAN"
	case InterfaceTypeWDS:
		return "wireless distribution"
	case InterfaceTypeMonitor:
		return "monitor"
	case InterfaceTypeMeshPoint:
		return "mesh point"
	case InterfaceTypeP2PClient:
		return "P2P client"
	case InterfaceTypeP2PGroupOwner:
		return "P2P group owner"
	case InterfaceTypeP2PDevice:
		return "P2P device"
	case InterfaceTypeOCB:
		return "outside context of BSS"
	case InterfaceTypeNAN:
		return "near-me area network"
	default:
		return fmt.Sprintf("unknown(%d)", t)
	}
}

// An Interface is a wireless network interface.
type Interface struct {
	// The index of the interface.
	Index int

	// The name of the interface.
	Name string

	// The hardware address of the interface.
	HardwareAddr net.HardwareAddr

	// The physical device that this interface belongs to. Unknown (zero)
	// for interfaces found through Wireless Extensions.
	PHY int

	// The operating mode of the interface.
	Type InterfaceType

	// The interface's wireless frequency in MHz, if known.
	Frequency int

	// The wireless protocol name reported by SIOCGIWNAME, such as
	// "IEEE 802.11bgn". Empty for interfaces found through nl80211.
	Protocol string
}

// StationInfo describes a station associated with an interface, including
// the transmit settings in use on its link.
type StationInfo struct {
	// The index of the interface the station is associated with.
	InterfaceIndex int

	// The hardware address of the station.
	HardwareAddr net.HardwareAddr

	// The time since the station last connected.
	Connected time.Duration

	// The time since wireless activity last occurred.
	Inactive time.Duration

	// The signal strength of the last received PPDU, and its average,
	// in dBm.
	Signal        int
	SignalAverage int

	// The current data receive and transmit bitrates, in bits/second, as
	// computed by the kernel.
	ReceiveBitrate  int
	TransmitBitrate int

	// The PHY settings of the last received and transmitted frames.
	ReceiveSetting  TransmitSetting
	TransmitSetting TransmitSetting

	// Whether ReceiveSetting and TransmitSetting describe the kernel's
	// rates. Rates with no Ralink equivalent, such as HE or 160 MHz, leave
	// the setting zero and only the bitrate is meaningful.
	ReceiveSettingKnown  bool
	TransmitSettingKnown bool
}

// FrequencyToChannel returns the channel number given the frequency in MHz, as
// defined by IEEE802.11-2007, 17.3.8.3.2 and Annex J.
func FrequencyToChannel(freq int) int {
	if freq == 2484 {
		return 14
	} else if freq < 2484 {
		return (freq - 2407) / 5
	} else if freq >= 4910 && freq <= 4980 {
		return (freq - 4000) / 5
	} else if freq <= 45000 {
		return (freq - 5000) / 5
	} else if freq >= 58320 && freq <= 64800 {
		return (freq - 56160) / 2160
	} else {
		return 0
	}
}
