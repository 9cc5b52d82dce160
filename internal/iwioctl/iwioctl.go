// Package iwioctl holds Wireless Extensions ioctl request numbers from
// linux/wireless.h, and the private requests of Ralink/MediaTek drivers.
//
// WARNING: THESE ARE MANUALLY TRANSCRIBED. golang.org/x/sys/unix DOES NOT
// EXPORT THE WIRELESS EXTENSIONS REQUESTS.
package iwioctl

// Standard Wireless Extensions requests.
const (
	SIOCGIWNAME  = 0x8b01
	SIOCGIWFREQ  = 0x8b05
	SIOCGIWRANGE = 0x8b0b
	SIOCGIWAP    = 0x8b15

	// First request number reserved for driver private ioctls.
	SIOCIWFIRSTPRIV = 0x8be0
)

// Ralink/MediaTek private requests.
const (
	RTPrivIoctlGetMACTable       = SIOCIWFIRSTPRIV + 0x0f
	RTPrivIoctlGetMACTableStruct = SIOCIWFIRSTPRIV + 0x1f
)

// Maximum payload of a single iw_point request, bounded by its 16-bit
// length field.
const MaxPointLength = 0xffff
