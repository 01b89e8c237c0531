// Package limbutil provides small bounds-checked helpers for working with
// most-significant-limb-first base-1e9 limb slices, used by newtondiv to
// assemble the sliding dividend window in its block-divmod loop.
package limbutil

// SliceCopy copies a length-limb window of src into dest. src is a
// significant-limb slice (src[0] is the most significant limb) whose most
// significant limb sits at limb position srcExponent-1 (position 0 being the
// units limb); the window requested is the length limbs whose least
// significant limb sits rshift limbs above the units limb, i.e. positions
// [rshift, rshift+length), which are src indices
// [srcExponent-rshift-length, srcExponent-rshift).
// Positions outside src's significant range contribute zero and are simply
// not written (dest is assumed already zeroed), mirroring a clipped memcpy.
func SliceCopy(dest []uint32, src []uint32, srcExponent, rshift, length int) {
	start := srcExponent - rshift - length
	if start >= len(src) {
		return
	}
	destOffset := 0
	if start < 0 {
		destOffset = -start
		length += start
		start = 0
	}
	if length <= 0 {
		return
	}
	maxLength := len(src) - start
	n := length
	if maxLength < n {
		n = maxLength
	}
	if n <= 0 {
		return
	}
	copy(dest[destOffset:destOffset+n], src[start:start+n])
}
