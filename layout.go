package wext

// A field is one member of struct iw_range as it appears in the two wire
// layouts produced by Wireless Extensions drivers. Offsets and sizes are in
// bytes; an offset of -1 means the field does not exist in that layout.
type field struct {
	name         string
	legacyOffset int
	legacySize   int
	modernOffset int
	modernSize   int
}

// Sizes of the two range records and their bounded lists.
const (
	legacyRangeSize = 308
	modernRangeSize = 568

	legacyMaxFrequencies   = 16
	legacyMaxBitrates      = 8
	legacyMaxTxPower       = 8
	legacyMaxEncodingSizes = 8

	modernMaxFrequencies   = 32
	modernMaxBitrates      = 32
	modernMaxTxPower       = 8
	modernMaxEncodingSizes = 8

	freqSize    = 8 // struct iw_freq
	qualitySize = 4 // struct iw_quality
)

// legacyFields is struct iw15_range (WE-9 through WE-15) in declaration
// order, each member carrying its position in the modern layout as well.
var legacyFields = []field{
	{"throughput", 0, 4, 0, 4},
	{"min_nwid", 4, 4, 4, 4},
	{"max_nwid", 8, 4, 8, 4},
	{"num_channels", 12, 2, 304, 2},
	{"num_frequency", 14, 1, 306, 1},
	{"freq", 16, legacyMaxFrequencies * freqSize, 308, modernMaxFrequencies * freqSize},
	{"sensitivity", 144, 4, 40, 4},
	{"max_qual", 148, qualitySize, 44, qualitySize},
	{"num_bitrates", 152, 1, 52, 1},
	{"bitrate", 156, legacyMaxBitrates * 4, 56, modernMaxBitrates * 4},
	{"min_rts", 188, 4, 184, 4},
	{"max_rts", 192, 4, 188, 4},
	{"min_frag", 196, 4, 192, 4},
	{"max_frag", 200, 4, 196, 4},
	{"min_pmp", 204, 4, 200, 4},
	{"max_pmp", 208, 4, 204, 4},
	{"min_pmt", 212, 4, 208, 4},
	{"max_pmt", 216, 4, 212, 4},
	{"pmp_flags", 220, 2, 216, 2},
	{"pmt_flags", 222, 2, 218, 2},
	{"pm_capa", 224, 2, 220, 2},
	{"encoding_size", 226, legacyMaxEncodingSizes * 2, 222, modernMaxEncodingSizes * 2},
	{"num_encoding_sizes", 242, 1, 238, 1},
	{"max_encoding_tokens", 243, 1, 239, 1},
	{"txpower_capa", 244, 2, 242, 2},
	{"num_txpower", 246, 1, 244, 1},
	{"txpower", 248, legacyMaxTxPower * 4, 248, modernMaxTxPower * 4},
	{"we_version_compiled", 280, 1, 280, 1},
	{"we_version_source", 281, 1, 281, 1},
	{"retry_capa", 282, 2, 282, 2},
	{"retry_flags", 284, 2, 284, 2},
	{"r_time_flags", 286, 2, 286, 2},
	{"min_retry", 288, 4, 288, 4},
	{"max_retry", 292, 4, 292, 4},
	{"min_r_time", 296, 4, 296, 4},
	{"max_r_time", 300, 4, 300, 4},
	{"avg_qual", 304, qualitySize, 48, qualitySize},
}

// modernOnlyFields were introduced in WE-16 and have no legacy counterpart.
// A migrated legacy record always leaves them zeroed.
var modernOnlyFields = []field{
	{"old_num_channels", -1, 0, 12, 2},
	{"old_num_frequency", -1, 0, 14, 1},
	{"scan_capa", -1, 0, 15, 1},
	{"event_capa", -1, 0, 16, 6 * 4},
	{"encoding_login_index", -1, 0, 240, 1},
	{"enc_capa", -1, 0, 564, 4},
}

// fieldsByName indexes both tables for decoding.
var fieldsByName = func() map[string]field {
	m := make(map[string]field, len(legacyFields)+len(modernOnlyFields))
	for _, fs := range [][]field{legacyFields, modernOnlyFields} {
		for _, f := range fs {
			m[f.name] = f
		}
	}
	return m
}()

// lookupField returns the named field, panicking on a name that is not part
// of either layout table.
func lookupField(name string) field {
	f, ok := fieldsByName[name]
	if !ok {
		panic("wext: unknown iw_range field: " + name)
	}
	return f
}

// A copyOp moves one contiguous byte run from a legacy record into a modern
// record. The source and destination ranges always have the same length.
type copyOp struct {
	first string // name of the first field in the run
	src   int
	dst   int
	n     int
}

// legacyCopies is the migration plan from iw15_range to iw_range.
var legacyCopies = planCopies(legacyFields, legacyRangeSize)

// planCopies merges consecutive fields into runs for as long as their modern
// offsets advance by the same delta as their legacy offsets. Each run spans
// from its first field's legacy offset up to the next run's legacy offset
// (or the end of the record), so alignment padding travels with the run.
func planCopies(fields []field, size int) []copyOp {
	var ops []copyOp
	for i, f := range fields {
		if i > 0 {
			prev := fields[i-1]
			if f.modernOffset-prev.modernOffset == f.legacyOffset-prev.legacyOffset {
				continue
			}
		}

		ops = append(ops, copyOp{
			first: f.name,
			src:   f.legacyOffset,
			dst:   f.modernOffset,
		})
	}

	for i := range ops {
		end := size
		if i+1 < len(ops) {
			end = ops[i+1].src
		}
		ops[i].n = end - ops[i].src
	}

	return ops
}
