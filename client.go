package wext

import (
	"errors"
	"fmt"
	"net"
	"runtime"
	"time"
)

var (
	// ErrNotSupported is returned when an operation needs nl80211 and the
	// system's drivers only implement Wireless Extensions.
	ErrNotSupported = errors.New("not supported")

	errUnimplemented = fmt.Errorf("wext: not implemented on %s", runtime.GOOS)
)

// An osClient is the operating system-specific implementation of Client.
type osClient interface {
	Close() error
	Interfaces() ([]*Interface, error)
	RangeInfo(ifi *Interface) (*Range, error)
	Frequency(ifi *Interface) (Freq, error)
	Query(ifi *Interface, request uint, size int) ([]byte, error)
	StationInfo(ifi *Interface) ([]*StationInfo, error)
	MACTable(ifi *Interface, f MACTableFormat) ([]*MACEntry, error)
	BSSID(ifi *Interface) (net.HardwareAddr, error)
	SetDeadline(t time.Time) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// A Client is a type which can query wireless devices using operating
// system-specific operations.
type Client struct {
	c osClient
}

// New creates a new Client.
func New() (*Client, error) {
	c, err := newClient()
	if err != nil {
		return nil, err
	}

	return &Client{
		c: c,
	}, nil
}

// Close releases resources used by a Client.
func (c *Client) Close() error {
	return c.c.Close()
}

// Interfaces returns a list of the system's wireless network interfaces.
func (c *Client) Interfaces() ([]*Interface, error) {
	return c.c.Interfaces()
}

// RangeInfo retrieves the capabilities of a wireless interface. Only
// ifi.Name is used.
//
// Drivers built against any Wireless Extensions version from WE-9 onward
// are understood; use an Advisor to warn about version mismatches.
func (c *Client) RangeInfo(ifi *Interface) (*Range, error) {
	return c.c.RangeInfo(ifi)
}

// Frequency retrieves the current frequency or channel of a wireless
// interface. Only ifi.Name is used.
func (c *Client) Frequency(ifi *Interface) (Freq, error) {
	return c.c.Frequency(ifi)
}

// Query performs a Wireless Extensions request which returns variable
// length data, such as a driver private request, using a buffer of size
// bytes. The returned slice is truncated to the length the driver reported.
func (c *Client) Query(ifi *Interface, request uint, size int) ([]byte, error) {
	return c.c.Query(ifi, request, size)
}

// StationInfo retrieves the stations associated with a wireless interface,
// including the PHY settings of their links.
//
// If the system does not provide nl80211, ErrNotSupported is returned.
func (c *Client) StationInfo(ifi *Interface) ([]*StationInfo, error) {
	return c.c.StationInfo(ifi)
}

// MACTable retrieves the stations in the MAC table of a Ralink/MediaTek
// vendor driver, using the private request and entry layout selected by f.
// Only ifi.Name is used.
//
// Unlike StationInfo, MACTable does not need nl80211.
func (c *Client) MACTable(ifi *Interface, f MACTableFormat) ([]*MACEntry, error) {
	return c.c.MACTable(ifi, f)
}

// BSSID retrieves the address of the access point a wireless interface is
// associated with, or of its own BSS in access point mode. Only ifi.Name is
// used.
//
// If the interface is not associated, an error compatible with
// errors.Is(err, os.ErrNotExist) is returned.
func (c *Client) BSSID(ifi *Interface) (net.HardwareAddr, error) {
	return c.c.BSSID(ifi)
}

// SetDeadline sets the read and write deadlines associated with the
// nl80211 connection.
func (c *Client) SetDeadline(t time.Time) error {
	return c.c.SetDeadline(t)
}

// SetReadDeadline sets the read deadline associated with the nl80211
// connection.
func (c *Client) SetReadDeadline(t time.Time) error {
	return c.c.SetReadDeadline(t)
}

// SetWriteDeadline sets the write deadline associated with the nl80211
// connection.
func (c *Client) SetWriteDeadline(t time.Time) error {
	return c.c.SetWriteDeadline(t)
}
