//go:build linux
// +build linux

package wext

import (
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"
	"unsafe"

	"github.com/mdlayher/genetlink"
	"github.com/mdlayher/netlink"
	"github.com/mdlayher/netlink/nlenc"
	"github.com/mdlayher/wext/internal/iwioctl"
	"golang.org/x/sys/unix"
)

var _ osClient = &client{}

// A client is the Linux implementation of osClient, which makes use of
// Wireless Extensions ioctls for device capabilities, and of generic netlink
// and nl80211 for interface and station data when the kernel offers them.
type client struct {
	w wextConn

	// c is nil when nl80211 is unavailable.
	c             *genetlink.Conn
	familyID      uint16
	familyVersion uint8

	// interfaces lists candidate network interfaces for Wireless
	// Extensions probing.
	interfaces func() ([]net.Interface, error)
}

// newClient opens a socket for Wireless Extensions ioctls, and dials a
// generic netlink connection to use nl80211 if it is present.
func newClient() (*client, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	w := &socketConn{fd: fd}

	c, err := genetlink.Dial(nil)
	if err != nil {
		_ = w.close()
		return nil, err
	}

	// Make a best effort to apply the strict options set to provide better
	// errors and validation. We don't apply Strict in the constructor because
	// this library is used on a range of kernels and we can't guarantee it
	// will always work on older kernels.
	for _, o := range []netlink.ConnOption{
		netlink.ExtendedAcknowledge,
		netlink.GetStrictCheck,
	} {
		_ = c.SetOption(o, true)
	}

	return initClient(w, c)
}

func initClient(w wextConn, c *genetlink.Conn) (*client, error) {
	cl := &client{
		w:          w,
		interfaces: net.Interfaces,
	}

	family, err := c.GetFamily(unix.NL80211_GENL_NAME)
	if err != nil {
		// Ensure the genl socket is closed on error to avoid leaking file
		// descriptors.
		_ = c.Close()

		// Vendor drivers on embedded kernels may only implement Wireless
		// Extensions.
		if errors.Is(err, os.ErrNotExist) {
			return cl, nil
		}

		_ = w.close()
		return nil, err
	}

	cl.c = c
	cl.familyID = family.ID
	cl.familyVersion = family.Version

	return cl, nil
}

// Close closes the client's ioctl socket and generic netlink connection.
func (c *client) Close() error {
	var nerr error
	if c.c != nil {
		nerr = c.c.Close()
	}

	return errors.Join(c.w.close(), nerr)
}

// Interfaces requests that nl80211 return a list of all WiFi interfaces
// present on this system. Without nl80211, each network interface is queried
// for Wireless Extensions support instead.
func (c *client) Interfaces() ([]*Interface, error) {
	if c.c == nil {
		return c.wextInterfaces()
	}

	// Ask nl80211 to dump a list of all WiFi interfaces
	msgs, err := c.get(
		unix.NL80211_CMD_GET_INTERFACE,
		netlink.Dump,
		nil,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return parseInterfaces(msgs)
}

// wextInterfaces returns the network interfaces which answer SIOCGIWNAME.
func (c *client) wextInterfaces() ([]*Interface, error) {
	nifis, err := c.interfaces()
	if err != nil {
		return nil, err
	}

	var ifis []*Interface
	for _, nifi := range nifis {
		u, err := c.w.union(nifi.Name, iwioctl.SIOCGIWNAME)
		if err != nil {
			// Not a wireless interface.
			continue
		}

		ifi := &Interface{
			Index:        nifi.Index,
			Name:         nifi.Name,
			HardwareAddr: nifi.HardwareAddr,
			Protocol:     nlenc.String(u[:]),
		}

		// Frequency is optional; interfaces which are down or report a
		// channel number leave it unset.
		if u, err := c.w.union(nifi.Name, iwioctl.SIOCGIWFREQ); err == nil {
			if f := parseFreq(u[:]).Float64(); f >= 1e3 {
				ifi.Frequency = int(f / 1e6)
			}
		}

		ifis = append(ifis, ifi)
	}

	return ifis, nil
}

// RangeInfo requests the iw_range record of an interface with SIOCGIWRANGE
// and migrates it to the current layout.
func (c *client) RangeInfo(ifi *Interface) (*Range, error) {
	// Leave room for drivers compiled against larger layouts than ours.
	b := make([]byte, modernRangeSize*2)

	n, err := c.w.point(ifi.Name, iwioctl.SIOCGIWRANGE, b)
	if err != nil {
		return nil, fmt.Errorf("wext: range info for %q: %w", ifi.Name, err)
	}

	return Migrate(b, n)
}

// Frequency requests the current frequency of an interface with SIOCGIWFREQ.
func (c *client) Frequency(ifi *Interface) (Freq, error) {
	u, err := c.w.union(ifi.Name, iwioctl.SIOCGIWFREQ)
	if err != nil {
		return Freq{}, fmt.Errorf("wext: frequency for %q: %w", ifi.Name, err)
	}

	return parseFreq(u[:]), nil
}

// Query issues an iw_point request with a buffer of size bytes.
func (c *client) Query(ifi *Interface, request uint, size int) ([]byte, error) {
	if size < 0 || size > iwioctl.MaxPointLength {
		return nil, fmt.Errorf("wext: invalid query size %d", size)
	}

	b := make([]byte, size)
	n, err := c.w.point(ifi.Name, request, b)
	if err != nil {
		return nil, fmt.Errorf("wext: query %#x for %q: %w", request, ifi.Name, err)
	}
	if n > len(b) {
		n = len(b)
	}

	return b[:n], nil
}

// StationInfo requests that nl80211 return all station info for the
// specified Interface.
func (c *client) StationInfo(ifi *Interface) ([]*StationInfo, error) {
	if c.c == nil {
		return nil, ErrNotSupported
	}

	msgs, err := c.get(
		unix.NL80211_CMD_GET_STATION,
		netlink.Dump,
		ifi,
		func(ae *netlink.AttributeEncoder) {
			if ifi.HardwareAddr != nil {
				ae.Bytes(unix.NL80211_ATTR_MAC, ifi.HardwareAddr)
			}
		},
	)
	if err != nil {
		return nil, err
	}

	stations := make([]*StationInfo, len(msgs))
	for i := range msgs {
		if stations[i], err = parseStationInfo(msgs[i].Data); err != nil {
			return nil, err
		}
	}

	return stations, nil
}

// macTableSize is the buffer offered for a MAC table, which holds well over
// the largest table any Ralink driver builds.
const macTableSize = 16384

// MACTable requests the MAC table of a Ralink/MediaTek vendor driver.
func (c *client) MACTable(ifi *Interface, f MACTableFormat) ([]*MACEntry, error) {
	request := uint(iwioctl.RTPrivIoctlGetMACTableStruct)
	if f == MACTableINIC {
		request = iwioctl.RTPrivIoctlGetMACTable
	}

	b, err := c.Query(ifi, request, macTableSize)
	if err != nil {
		return nil, err
	}

	return parseMACTable(b, f)
}

// BSSID requests the associated access point address of an interface with
// SIOCGIWAP.
func (c *client) BSSID(ifi *Interface) (net.HardwareAddr, error) {
	u, err := c.w.union(ifi.Name, iwioctl.SIOCGIWAP)
	if err != nil {
		return nil, fmt.Errorf("wext: BSSID for %q: %w", ifi.Name, err)
	}

	// A struct sockaddr: the family, then the address.
	addr := net.HardwareAddr(append([]byte(nil), u[2:8]...))
	for _, b := range addr {
		if b != 0 {
			return addr, nil
		}
	}

	return nil, fmt.Errorf("wext: %q is not associated: %w", ifi.Name, os.ErrNotExist)
}

// SetDeadline sets c's nl80211 read and write deadlines.
func (c *client) SetDeadline(t time.Time) error {
	if c.c == nil {
		return ErrNotSupported
	}

	return c.c.SetDeadline(t)
}

// SetReadDeadline sets c's nl80211 read deadline.
func (c *client) SetReadDeadline(t time.Time) error {
	if c.c == nil {
		return ErrNotSupported
	}

	return c.c.SetReadDeadline(t)
}

// SetWriteDeadline sets c's nl80211 write deadline.
func (c *client) SetWriteDeadline(t time.Time) error {
	if c.c == nil {
		return ErrNotSupported
	}

	return c.c.SetWriteDeadline(t)
}

// get performs a request/response interaction with nl80211.
func (c *client) get(
	cmd uint8,
	flags netlink.HeaderFlags,
	ifi *Interface,
	// May be nil; used to apply optional parameters.
	params func(ae *netlink.AttributeEncoder),
) ([]genetlink.Message, error) {
	ae := netlink.NewAttributeEncoder()
	ifi.encode(ae)
	if params != nil {
		// Optionally apply more parameters to the attribute encoder.
		params(ae)
	}

	// Note: don't send netlink.Acknowledge or we get an extra message back from
	// the kernel which doesn't seem useful as of now.
	return c.execute(cmd, flags, ae)
}

// execute executes the specified command with additional header flags and input
// netlink request attributes. The netlink.Request header flag is automatically
// set.
func (c *client) execute(
	cmd uint8,
	flags netlink.HeaderFlags,
	ae *netlink.AttributeEncoder,
) ([]genetlink.Message, error) {
	b, err := ae.Encode()
	if err != nil {
		return nil, err
	}

	return c.c.Execute(
		genetlink.Message{
			Header: genetlink.Header{
				Command: cmd,
				Version: c.familyVersion,
			},
			Data: b,
		},
		// Always pass the genetlink family ID and request flag.
		c.familyID,
		netlink.Request|flags,
	)
}

// parseInterfaces parses zero or more Interfaces from nl80211 interface
// messages.
func parseInterfaces(msgs []genetlink.Message) ([]*Interface, error) {
	ifis := make([]*Interface, 0, len(msgs))
	for _, m := range msgs {
		attrs, err := netlink.UnmarshalAttributes(m.Data)
		if err != nil {
			return nil, err
		}

		var ifi Interface
		if err := (&ifi).parseAttributes(attrs); err != nil {
			return nil, err
		}

		ifis = append(ifis, &ifi)
	}

	return ifis, nil
}

// encode provides an encoding function for ifi's attributes. If ifi is nil,
// encode is a no-op.
func (ifi *Interface) encode(ae *netlink.AttributeEncoder) {
	if ifi == nil {
		return
	}

	// Mandatory.
	ae.Uint32(unix.NL80211_ATTR_IFINDEX, uint32(ifi.Index))
}

// parseAttributes parses netlink attributes into an Interface's fields.
func (ifi *Interface) parseAttributes(attrs []netlink.Attribute) error {
	for _, a := range attrs {
		switch a.Type {
		case unix.NL80211_ATTR_IFINDEX:
			ifi.Index = int(nlenc.Uint32(a.Data))
		case unix.NL80211_ATTR_IFNAME:
			ifi.Name = nlenc.String(a.Data)
		case unix.NL80211_ATTR_MAC:
			ifi.HardwareAddr = net.HardwareAddr(a.Data)
		case unix.NL80211_ATTR_WIPHY:
			ifi.PHY = int(nlenc.Uint32(a.Data))
		case unix.NL80211_ATTR_IFTYPE:
			// NOTE: InterfaceType copies the ordering of nl80211's interface type
			// constants.  This may not be the case on other operating systems.
			ifi.Type = InterfaceType(nlenc.Uint32(a.Data))
		case unix.NL80211_ATTR_WIPHY_FREQ:
			ifi.Frequency = int(nlenc.Uint32(a.Data))
		}
	}

	return nil
}

// parseStationInfo parses StationInfo attributes from a byte slice of
// netlink attributes.
func parseStationInfo(b []byte) (*StationInfo, error) {
	attrs, err := netlink.UnmarshalAttributes(b)
	if err != nil {
		return nil, err
	}

	var info StationInfo
	for _, a := range attrs {
		switch a.Type {
		case unix.NL80211_ATTR_IFINDEX:
			info.InterfaceIndex = int(nlenc.Uint32(a.Data))
		case unix.NL80211_ATTR_MAC:
			info.HardwareAddr = net.HardwareAddr(a.Data)
		case unix.NL80211_ATTR_STA_INFO:
			nattrs, err := netlink.UnmarshalAttributes(a.Data)
			if err != nil {
				return nil, err
			}

			if err := (&info).parseAttributes(nattrs); err != nil {
				return nil, err
			}

			// Parsed the necessary data.
			return &info, nil
		}
	}

	// No station info found
	return nil, os.ErrNotExist
}

// parseAttributes parses netlink attributes into a StationInfo's fields.
func (info *StationInfo) parseAttributes(attrs []netlink.Attribute) error {
	for _, a := range attrs {
		switch a.Type {
		case unix.NL80211_STA_INFO_CONNECTED_TIME:
			// Though nl80211 does not specify, this value appears to be in seconds:
			// * @NL80211_STA_INFO_CONNECTED_TIME: time since the station is last connected
			info.Connected = time.Duration(nlenc.Uint32(a.Data)) * time.Second
		case unix.NL80211_STA_INFO_INACTIVE_TIME:
			// * @NL80211_STA_INFO_INACTIVE_TIME: time since last activity (u32, msecs)
			info.Inactive = time.Duration(nlenc.Uint32(a.Data)) * time.Millisecond
		case unix.NL80211_STA_INFO_SIGNAL:
			//  * @NL80211_STA_INFO_SIGNAL: signal strength of last received PPDU (u8, dBm)
			info.Signal = int(int8(a.Data[0]))
		case unix.NL80211_STA_INFO_SIGNAL_AVG:
			info.SignalAverage = int(int8(a.Data[0]))
		case unix.NL80211_STA_INFO_RX_BITRATE, unix.NL80211_STA_INFO_TX_BITRATE:
			rate, err := parseRateInfo(a.Data)
			if err != nil {
				return err
			}

			switch a.Type {
			case unix.NL80211_STA_INFO_RX_BITRATE:
				info.ReceiveBitrate = rate.Bitrate
				info.ReceiveSetting = rate.Setting
				info.ReceiveSettingKnown = rate.Known
			case unix.NL80211_STA_INFO_TX_BITRATE:
				info.TransmitBitrate = rate.Bitrate
				info.TransmitSetting = rate.Setting
				info.TransmitSettingKnown = rate.Known
			}
		}
	}

	return nil
}

// rateInfo provides statistics about the receive or transmit rate of
// an interface.
type rateInfo struct {
	// Bitrate in bits per second.
	Bitrate int

	// The PHY setting which produced Bitrate, valid only if Known is set.
	Setting TransmitSetting
	Known   bool
}

// parseRateInfo parses a rateInfo from netlink attributes.
func parseRateInfo(b []byte) (*rateInfo, error) {
	attrs, err := netlink.UnmarshalAttributes(b)
	if err != nil {
		return nil, err
	}

	var (
		info     rateInfo
		ht, vht  bool
		other    bool
		mcs, nss uint8
	)

	for _, a := range attrs {
		switch a.Type {
		case unix.NL80211_RATE_INFO_BITRATE32:
			info.Bitrate = int(nlenc.Uint32(a.Data))
		case unix.NL80211_RATE_INFO_MCS:
			ht, mcs = true, nlenc.Uint8(a.Data)
		case unix.NL80211_RATE_INFO_VHT_MCS:
			vht, mcs = true, nlenc.Uint8(a.Data)
		case unix.NL80211_RATE_INFO_VHT_NSS:
			nss = nlenc.Uint8(a.Data)
		case unix.NL80211_RATE_INFO_40_MHZ_WIDTH:
			info.Setting.Bandwidth = Bandwidth40MHz
		case unix.NL80211_RATE_INFO_80_MHZ_WIDTH:
			info.Setting.Bandwidth = Bandwidth80MHz
		case unix.NL80211_RATE_INFO_SHORT_GI:
			info.Setting.ShortGI = true
		case unix.NL80211_RATE_INFO_BITRATE:
			// Only use 16-bit counters if the 32-bit counters are not present.
			// If the 32-bit counters appear later in the slice, they will
			// overwrite these values.
			if info.Bitrate == 0 {
				info.Bitrate = int(nlenc.Uint16(a.Data))
			}
		default:
			// HE, EHT, 160 MHz and narrow channels have no place in the
			// Ralink rate table.
			other = true
		}
	}

	switch {
	case other:
		info.Setting = TransmitSetting{}
	case vht:
		info.Setting.Mode = PhyModeVHT
		info.Setting.MCSIndex = mcs
		if nss > 1 {
			info.Setting.MCSIndex = (nss-1)*16 + mcs
		}
		info.Known = true
	case ht:
		info.Setting.Mode = PhyModeHTMixed
		info.Setting.MCSIndex = mcs
		info.Known = true
	default:
		// Legacy rates carry no MCS; recover it from the bitrate.
		info.Setting, info.Known = legacySetting(info.Bitrate)
	}

	// Scale bitrate to bits/second as base unit instead of 100kbits/second.
	// * @NL80211_RATE_INFO_BITRATE: total bitrate (u16, 100kbit/s)
	info.Bitrate *= 100 * 1000

	return &info, nil
}

// parseFreq parses an iw_freq from the data union of an iwreq.
func parseFreq(b []byte) Freq {
	return Freq{
		Mantissa: nlenc.Int32(b[0:4]),
		Exponent: int16(nlenc.Uint16(b[4:6])),
		Index:    b[6],
		Flags:    b[7],
	}
}

// A wextConn issues Wireless Extensions requests for named interfaces.
type wextConn interface {
	// point issues a request whose data is returned through an iw_point
	// into b, and returns the length reported by the driver, which may
	// exceed len(b).
	point(name string, request uint, b []byte) (int, error)

	// union issues a request whose data is returned in the iwreq union.
	union(name string, request uint) ([unionSize]byte, error)

	close() error
}

// unionSize is the size of the union iwreq_data.
const unionSize = 16

// An iwreqPoint is a struct iwreq carrying a struct iw_point.
type iwreqPoint struct {
	name    [unix.IFNAMSIZ]byte
	pointer unsafe.Pointer
	length  uint16
	flags   uint16
	_       [unionSize - unsafe.Sizeof(uintptr(0)) - 4]byte
}

// An iwreqUnion is a struct iwreq with an opaque data union.
type iwreqUnion struct {
	name [unix.IFNAMSIZ]byte
	data [unionSize]byte
}

var _ wextConn = &socketConn{}

// A socketConn is a wextConn which issues ioctls on a datagram socket.
type socketConn struct {
	fd int
}

func (s *socketConn) point(name string, request uint, b []byte) (int, error) {
	if len(b) > iwioctl.MaxPointLength {
		b = b[:iwioctl.MaxPointLength]
	}

	var req iwreqPoint
	if err := setName(&req.name, name); err != nil {
		return 0, err
	}
	if len(b) > 0 {
		req.pointer = unsafe.Pointer(&b[0])
	}
	req.length = uint16(len(b))

	err := s.ioctl(request, unsafe.Pointer(&req))
	runtime.KeepAlive(b)
	if err != nil {
		return 0, err
	}

	return int(req.length), nil
}

func (s *socketConn) union(name string, request uint) ([unionSize]byte, error) {
	var req iwreqUnion
	if err := setName(&req.name, name); err != nil {
		return [unionSize]byte{}, err
	}

	if err := s.ioctl(request, unsafe.Pointer(&req)); err != nil {
		return [unionSize]byte{}, err
	}

	return req.data, nil
}

func (s *socketConn) ioctl(request uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(s.fd), uintptr(request), uintptr(arg))
	if errno != 0 {
		return os.NewSyscallError("ioctl", errno)
	}

	return nil
}

func (s *socketConn) close() error { return unix.Close(s.fd) }

// setName copies an interface name into an iwreq name field.
func setName(dst *[unix.IFNAMSIZ]byte, name string) error {
	// Leave room for the NUL terminator.
	if name == "" || len(name) >= unix.IFNAMSIZ {
		return fmt.Errorf("wext: invalid interface name %q", name)
	}

	copy(dst[:], name)
	return nil
}
