//go:build !linux
// +build !linux

package wext

import (
	"net"
	"time"
)

var _ osClient = &client{}

// A client is the no-op implementation of osClient.
type client struct{}

func newClient() (*client, error) { return nil, errUnimplemented }

func (*client) Close() error                                                 { return errUnimplemented }
func (*client) Interfaces() ([]*Interface, error)                            { return nil, errUnimplemented }
func (*client) RangeInfo(_ *Interface) (*Range, error)                       { return nil, errUnimplemented }
func (*client) Frequency(_ *Interface) (Freq, error)                         { return Freq{}, errUnimplemented }
func (*client) Query(_ *Interface, _ uint, _ int) ([]byte, error)            { return nil, errUnimplemented }
func (*client) StationInfo(_ *Interface) ([]*StationInfo, error)             { return nil, errUnimplemented }
func (*client) MACTable(_ *Interface, _ MACTableFormat) ([]*MACEntry, error) { return nil, errUnimplemented }
func (*client) BSSID(_ *Interface) (net.HardwareAddr, error)                 { return nil, errUnimplemented }
func (*client) SetDeadline(_ time.Time) error                                { return errUnimplemented }
func (*client) SetReadDeadline(_ time.Time) error                            { return errUnimplemented }
func (*client) SetWriteDeadline(_ time.Time) error                           { return errUnimplemented }
