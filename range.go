package wext

import (
	"errors"
	"fmt"
	"math"

	"github.com/mdlayher/netlink/nlenc"
)

var (
	// ErrEmptyBuffer is returned when a driver reports a zero or negative
	// range info length.
	ErrEmptyBuffer = errors.New("empty range info buffer")

	// ErrBufferTooShort is returned when a buffer filled by a driver does
	// not cover the fields needed to decode it.
	ErrBufferTooShort = errors.New("buffer too short")

	// ErrListOverflow is returned when a bounded list in range info reports
	// more entries than its layout can hold.
	ErrListOverflow = errors.New("range info list count exceeds capacity")
)

// Versions of Wireless Extensions known to this package.
const (
	// BoundaryVersion is the last WE version which uses the legacy
	// iw15_range layout.
	BoundaryVersion = 15

	// MaxVersion is the newest WE version this package can decode.
	MaxVersion = 22

	// Version is the WE version this package implements.
	Version = 22
)

const (
	// Drivers reporting less than this many bytes predate the version tag.
	versionedRangeSize = 300

	// Version assumed for drivers which predate the version tag.
	ancientVersion = 9

	// Smallest report that holds at least the unmoved informative header.
	minLegacyPrefix = 12
)

// A Range is the capability report of a wireless device, normalized from
// whichever layout its driver was compiled with.
type Range struct {
	// Benchmarked TCP/IP throughput, in bits/second.
	Throughput uint32

	// NWID (domain ID) bounds.
	MinNWID uint32
	MaxNWID uint32

	// IW_SCAN_CAPA_* bits. Zero for legacy drivers.
	ScanCapabilities uint8

	// Wireless event capability bitmasks. Zero for legacy drivers.
	EventCapabilities [6]uint32

	// Signal level threshold range.
	Sensitivity int32

	// Quality ranges. AverageQuality is the threshold between a good and
	// a bad link.
	MaxQuality     Quality
	AverageQuality Quality

	// Supported bitrates, in bits/second.
	Bitrates []int32

	// RTS and fragmentation thresholds.
	MinRTS  int32
	MaxRTS  int32
	MinFrag int32
	MaxFrag int32

	// Power management period and timeout bounds, and how to decode them.
	MinPMPeriod    int32
	MaxPMPeriod    int32
	MinPMTimeout   int32
	MaxPMTimeout   int32
	PMPeriodFlags  uint16
	PMTimeoutFlags uint16
	PMCapabilities uint16

	// Supported encoding token sizes.
	EncodingSizes      []uint16
	MaxEncodingTokens  uint8
	EncodingLoginIndex uint8

	// Transmit power options and levels.
	TxPowerCapabilities uint16
	TxPower             []int32

	// The WE version the driver was compiled against, and the version its
	// source was last updated for.
	CompiledVersion int
	SourceVersion   int

	// Retry limit and lifetime capabilities and bounds.
	RetryCapabilities  uint16
	RetryFlags         uint16
	RetryLifetimeFlags uint16
	MinRetry           int32
	MaxRetry           int32
	MinRetryLifetime   int32
	MaxRetryLifetime   int32

	// Number of channels, and the driver's frequency list.
	Channels    int
	Frequencies []Freq

	// IW_ENC_CAPA_* bits. Zero for legacy drivers.
	EncodingCapabilities uint32
}

// A Quality is a link quality triple as reported by a driver.
type Quality struct {
	Quality uint8
	Level   uint8
	Noise   uint8
	Updated uint8
}

// A Freq is a frequency or channel in the Wireless Extensions encoding.
type Freq struct {
	Mantissa int32
	Exponent int16

	// Index of the entry in a driver's frequency list, usually the channel.
	Index uint8

	Flags uint8
}

// Float64 returns the value of f: a frequency in Hz, or a channel number
// for values below 1000.
func (f Freq) Float64() float64 {
	return float64(f.Mantissa) * math.Pow10(int(f.Exponent))
}

// Channel returns the channel number for freq, which is either a frequency
// in Hz or already a channel. The driver's frequency list is consulted
// first.
func (r *Range) Channel(freq float64) int {
	if freq < 1e3 {
		return int(freq)
	}

	for _, f := range r.Frequencies {
		if f.Float64() == freq {
			return int(f.Index)
		}
	}

	return FrequencyToChannel(int(freq / 1e6))
}

// Migrate decodes range info returned by SIOCGIWRANGE. n is the length the
// driver reported; b is the buffer it was written into. Bytes of b beyond n
// are ignored and bytes missing from b are treated as zero.
func Migrate(b []byte, n int) (*Range, error) {
	rb, capacity, err := migrate(b, n)
	if err != nil {
		return nil, err
	}

	return parseRange(rb, capacity)
}

// listCapacity holds the sizes of the bounded lists of a source layout.
type listCapacity struct {
	frequencies   int
	bitrates      int
	txPower       int
	encodingSizes int
}

var (
	legacyCapacity = listCapacity{
		frequencies:   legacyMaxFrequencies,
		bitrates:      legacyMaxBitrates,
		txPower:       legacyMaxTxPower,
		encodingSizes: legacyMaxEncodingSizes,
	}

	modernCapacity = listCapacity{
		frequencies:   modernMaxFrequencies,
		bitrates:      modernMaxBitrates,
		txPower:       modernMaxTxPower,
		encodingSizes: modernMaxEncodingSizes,
	}
)

// migrate produces a modern iw_range record from raw range info, along with
// the list capacities of the layout the driver actually used.
func migrate(b []byte, n int) ([]byte, listCapacity, error) {
	if n <= 0 {
		return nil, listCapacity{}, ErrEmptyBuffer
	}

	avail := n
	if len(b) < avail {
		avail = len(b)
	}
	if avail < minLegacyPrefix {
		return nil, listCapacity{}, fmt.Errorf("%w: %d bytes available, need at least %d",
			ErrBufferTooShort, avail, minLegacyPrefix)
	}

	// Work on a zero-filled copy large enough for either layout, so that
	// short reports read as zero and the caller's buffer is never modified.
	src := make([]byte, modernRangeSize)
	copy(src, b[:avail])

	version := lookupField("we_version_compiled")
	if n < versionedRangeSize {
		// Too old to carry a version tag.
		src[version.modernOffset] = ancientVersion
	} else if avail <= version.modernOffset {
		return nil, listCapacity{}, fmt.Errorf("%w: %d bytes available, compiled version is at offset %d",
			ErrBufferTooShort, avail, version.modernOffset)
	}

	if int(src[version.modernOffset]) > BoundaryVersion {
		// Native layout; anything past the record is ignored.
		return src, modernCapacity, nil
	}

	dst := make([]byte, modernRangeSize)
	for _, op := range legacyCopies {
		copy(dst[op.dst:op.dst+op.n], src[op.src:op.src+op.n])
	}

	return dst, legacyCapacity, nil
}

// A rangeDecoder reads named iw_range fields from a modern record in host
// byte order.
type rangeDecoder struct {
	b []byte
}

func (d rangeDecoder) at(name string, i, size int) []byte {
	off := lookupField(name).modernOffset + i*size
	return d.b[off : off+size]
}

func (d rangeDecoder) u8(name string) uint8   { return d.at(name, 0, 1)[0] }
func (d rangeDecoder) u16(name string) uint16 { return nlenc.Uint16(d.at(name, 0, 2)) }
func (d rangeDecoder) u32(name string) uint32 { return nlenc.Uint32(d.at(name, 0, 4)) }
func (d rangeDecoder) s32(name string) int32  { return nlenc.Int32(d.at(name, 0, 4)) }

func (d rangeDecoder) u16At(name string, i int) uint16 { return nlenc.Uint16(d.at(name, i, 2)) }
func (d rangeDecoder) u32At(name string, i int) uint32 { return nlenc.Uint32(d.at(name, i, 4)) }
func (d rangeDecoder) s32At(name string, i int) int32  { return nlenc.Int32(d.at(name, i, 4)) }

func (d rangeDecoder) quality(name string) Quality {
	q := d.at(name, 0, qualitySize)
	return Quality{
		Quality: q[0],
		Level:   q[1],
		Noise:   q[2],
		Updated: q[3],
	}
}

func (d rangeDecoder) freq(i int) Freq {
	f := d.at("freq", i, freqSize)
	return Freq{
		Mantissa: nlenc.Int32(f[0:4]),
		Exponent: int16(nlenc.Uint16(f[4:6])),
		Index:    f[6],
		Flags:    f[7],
	}
}

// count reads a list count and checks it against the list's capacity.
func (d rangeDecoder) count(name string, capacity int) (int, error) {
	n := int(d.u8(name))
	if n > capacity {
		return 0, fmt.Errorf("%w: %s is %d, capacity %d", ErrListOverflow, name, n, capacity)
	}
	return n, nil
}

// parseRange decodes a modern iw_range record.
func parseRange(b []byte, capacity listCapacity) (*Range, error) {
	d := rangeDecoder{b: b}

	nFreq, err := d.count("num_frequency", capacity.frequencies)
	if err != nil {
		return nil, err
	}
	nBitrates, err := d.count("num_bitrates", capacity.bitrates)
	if err != nil {
		return nil, err
	}
	nTxPower, err := d.count("num_txpower", capacity.txPower)
	if err != nil {
		return nil, err
	}
	nEncoding, err := d.count("num_encoding_sizes", capacity.encodingSizes)
	if err != nil {
		return nil, err
	}

	r := &Range{
		Throughput:       d.u32("throughput"),
		MinNWID:          d.u32("min_nwid"),
		MaxNWID:          d.u32("max_nwid"),
		ScanCapabilities: d.u8("scan_capa"),
		Sensitivity:      d.s32("sensitivity"),
		MaxQuality:       d.quality("max_qual"),
		AverageQuality:   d.quality("avg_qual"),

		MinRTS:  d.s32("min_rts"),
		MaxRTS:  d.s32("max_rts"),
		MinFrag: d.s32("min_frag"),
		MaxFrag: d.s32("max_frag"),

		MinPMPeriod:    d.s32("min_pmp"),
		MaxPMPeriod:    d.s32("max_pmp"),
		MinPMTimeout:   d.s32("min_pmt"),
		MaxPMTimeout:   d.s32("max_pmt"),
		PMPeriodFlags:  d.u16("pmp_flags"),
		PMTimeoutFlags: d.u16("pmt_flags"),
		PMCapabilities: d.u16("pm_capa"),

		MaxEncodingTokens:  d.u8("max_encoding_tokens"),
		EncodingLoginIndex: d.u8("encoding_login_index"),

		TxPowerCapabilities: d.u16("txpower_capa"),

		CompiledVersion: int(d.u8("we_version_compiled")),
		SourceVersion:   int(d.u8("we_version_source")),

		RetryCapabilities:  d.u16("retry_capa"),
		RetryFlags:         d.u16("retry_flags"),
		RetryLifetimeFlags: d.u16("r_time_flags"),
		MinRetry:           d.s32("min_retry"),
		MaxRetry:           d.s32("max_retry"),
		MinRetryLifetime:   d.s32("min_r_time"),
		MaxRetryLifetime:   d.s32("max_r_time"),

		Channels:             int(d.u16("num_channels")),
		EncodingCapabilities: d.u32("enc_capa"),
	}

	for i := range r.EventCapabilities {
		r.EventCapabilities[i] = d.u32At("event_capa", i)
	}

	r.Bitrates = make([]int32, 0, nBitrates)
	for i := 0; i < nBitrates; i++ {
		r.Bitrates = append(r.Bitrates, d.s32At("bitrate", i))
	}

	r.EncodingSizes = make([]uint16, 0, nEncoding)
	for i := 0; i < nEncoding; i++ {
		r.EncodingSizes = append(r.EncodingSizes, d.u16At("encoding_size", i))
	}

	r.TxPower = make([]int32, 0, nTxPower)
	for i := 0; i < nTxPower; i++ {
		r.TxPower = append(r.TxPower, d.s32At("txpower", i))
	}

	r.Frequencies = make([]Freq, 0, nFreq)
	for i := 0; i < nFreq; i++ {
		r.Frequencies = append(r.Frequencies, d.freq(i))
	}

	return r, nil
}
