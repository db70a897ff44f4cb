package explorer

import "github.com/ardanlabs/c2ffi/cdecl"

// computePadding fills PaddingOf from the offsets the compiler reported: the
// gap after a field is the distance to the next nonzero offset, and the last
// field pads to the record size.
func computePadding(size int, fields []cdecl.RecordField) {
	for i := 1; i < len(fields); i++ {
		if fields[i].OffsetOf == 0 {
			continue
		}
		prev := &fields[i-1]
		if gap := fields[i].OffsetOf - (prev.OffsetOf + prev.Type.SizeOf); gap > 0 {
			prev.PaddingOf = gap
		}
	}

	if n := len(fields); n > 0 {
		last := &fields[n-1]
		if gap := size - last.OffsetOf - last.Type.SizeOf; gap > 0 {
			last.PaddingOf = gap
		}
	}
}
