// Package ntt implements fast multiplication of base-1e9 limb vectors via a
// three-prime Number Theoretic Transform. It depends on nothing but integer
// arithmetic: callers hand it most-significant-limb-first []uint32 operands
// and get back their product in the same convention.
package ntt

import (
	"errors"
	"sync"
)

// ErrSizeTooLarge is returned when the requested transform would need more
// than maxNTTSizeBits butterfly stages.
var ErrSizeTooLarge = errors.New("ntt: multiply size too large")

const (
	primitiveRoot  = 17
	primeBase1     = 24
	primeBase2     = 26
	primeBase3     = 29
	primeShift     = 27
	maxNTTSizeBits = 27
	decDigBase     = 1_000_000_000
)

var (
	prime1 = uint32(primeBase1)<<primeShift | 1
	prime2 = uint32(primeBase2)<<primeShift | 1
	prime3 = uint32(primeBase3)<<primeShift | 1
)

// modPow computes base**ex mod mod.
func modPow(base, ex, mod uint32) uint32 {
	var res uint32 = 1
	var bit uint32 = 1
	b := base
	for {
		if ex&bit != 0 {
			ex ^= bit
			res = uint32((uint64(res) * uint64(b)) % uint64(mod))
		}
		if ex == 0 {
			break
		}
		b = uint32((uint64(b) * uint64(b)) % uint64(mod))
		bit <<= 1
	}
	return res
}

// rootCacheKey identifies a memoized size-specific root of unity.
type rootCacheKey struct {
	base     uint32
	sizeBits int
	inverse  bool
}

var rootCache sync.Map // rootCacheKey -> uint32

// transformRoot returns the order-(1<<sizeBits) root of unity for the prime
// (base<<primeShift)|1, inverted if inverse is set. Values are cached per
// (base, sizeBits, inverse) since every batch in a single Multiply call
// reuses the same few roots.
func transformRoot(base uint32, sizeBits int, inverse bool) uint32 {
	key := rootCacheKey{base, sizeBits, inverse}
	if v, ok := rootCache.Load(key); ok {
		return v.(uint32)
	}
	prime := base<<primeShift | 1
	rmax := modPow(primitiveRoot, base, prime)
	r := modPow(rmax, uint32(1)<<(primeShift-sizeBits), prime)
	if inverse {
		r = modPow(r, prime-2, prime)
	}
	rootCache.Store(key, r)
	return r
}

// nttRecursive performs the butterfly stages of a radix-2 NTT. It alternates
// between the tmp and output buffers across recursion depth, so no
// bit-reversal permutation is required: both input and output are in
// natural order.
func nttRecursive(sizeBits int, input, output, tmp []uint32, depth int, r, prime uint32) {
	var src []uint32
	if depth > 0 {
		nttRecursive(sizeBits, input, tmp, output, depth-1, uint32((uint64(r)*uint64(r))%uint64(prime)), prime)
		src = tmp
	} else {
		src = input
	}
	sizeHalf := uint32(1) << (sizeBits - 1)
	stride := uint32(1) << (sizeBits - depth - 1)
	n := sizeHalf / stride
	rn, rm := uint32(1), prime-1
	idx := uint32(0)
	for i := uint32(0); i < n; i++ {
		j := i * 2 * stride
		for k := uint32(0); k < stride; k, j, idx = k+1, j+1, idx+1 {
			a, b := src[j], src[j+stride]
			output[idx] = uint32((uint64(a) + uint64(rn)*uint64(b)) % uint64(prime))
			output[idx+sizeHalf] = uint32((uint64(a) + uint64(rm)*uint64(b)) % uint64(prime))
		}
		rn = uint32((uint64(rn) * uint64(r)) % uint64(prime))
		rm = uint32((uint64(rm) * uint64(r)) % uint64(prime))
	}
}

// transform runs a forward (dir=+1) or inverse (dir=-1) NTT of size
// 1<<sizeBits modulo (base<<primeShift)|1, writing into output and using tmp
// as scratch (len(tmp) must equal len(output) == len(input) == 1<<sizeBits).
func transform(sizeBits int, input, output, tmp []uint32, base uint32, dir int) {
	prime := base<<primeShift | 1
	r := transformRoot(base, sizeBits, dir < 0)
	nttRecursive(sizeBits, input, output, tmp, sizeBits-1, r, prime)
	if dir < 0 {
		size := uint32(1) << sizeBits
		nInv := modPow(size%prime, prime-2, prime)
		for i := range output {
			output[i] = uint32((uint64(output[i]) * uint64(nInv)) % uint64(prime))
		}
	}
}

// modRestore reconstructs the three base-1e9 digits of the unique value c
// with 0 <= c < prime1*prime2*prime3 such that c mod primeK == modK, via
// mixed-radix reconstruction in the basis [1, prime1, prime1*prime2].
func modRestore(mod1, mod2, mod3 uint32) [3]uint32 {
	c0 := uint64(mod1)
	c1 := uint64(mod2)*13 + uint64(mod1)*3489660916
	c2 := uint64(mod3)*3373338954%uint64(prime3) + uint64(mod2)*1297437912%uint64(prime3) + uint64(mod1)*3113851359%uint64(prime3)
	c2 += c1 / uint64(prime2)
	c1 %= uint64(prime2)
	c2 %= uint64(prime3)

	var digits [3]uint32
	c1 += c2 % decDigBase * uint64(prime2)
	c0 += c1 % decDigBase * uint64(prime1)
	c1 /= decDigBase
	digits[0] = uint32(c0 % decDigBase)
	c0 /= decDigBase
	c1 += c2 / decDigBase % decDigBase * uint64(prime2)
	c0 += c1 % decDigBase * uint64(prime1)
	c1 /= decDigBase
	digits[1] = uint32(c0 % decDigBase)
	digits[2] = uint32(c0/decDigBase + c1%decDigBase*uint64(prime1))
	return digits
}

// Multiply returns the base-1e9 product of a and b, both most-significant
// limb first, as a most-significant-limb-first slice of length
// len(a)+len(b) (callers typically trim leading zero limbs themselves).
func Multiply(a, b []uint32) ([]uint32, error) {
	if len(a) < len(b) {
		return Multiply(b, a)
	}
	if len(b) == 0 {
		return make([]uint32, len(a)), nil
	}

	bBits := 0
	for (1 << bBits) < len(b) {
		bBits++
	}
	sizeBits := bBits + 1
	if sizeBits > maxNTTSizeBits {
		return nil, ErrSizeTooLarge
	}
	nttSize := 1 << sizeBits
	batchSize := nttSize - len(b)
	batchCount := (len(a) + batchSize - 1) / batchSize

	arena := make([]uint32, nttSize*9)
	ntt1 := arena[0*nttSize : 1*nttSize]
	ntt2 := arena[1*nttSize : 2*nttSize]
	ntt3 := arena[2*nttSize : 3*nttSize]
	tmp1 := arena[3*nttSize : 4*nttSize]
	tmp2 := arena[4*nttSize : 5*nttSize]
	tmp3 := arena[5*nttSize : 6*nttSize]
	conv1 := arena[6*nttSize : 7*nttSize]
	conv2 := arena[7*nttSize : 8*nttSize]
	conv3 := arena[8*nttSize : 9*nttSize]

	copy(tmp1, b)
	for i := len(b); i < nttSize; i++ {
		tmp1[i] = 0
	}
	transform(sizeBits, tmp1, ntt1, tmp2, primeBase1, +1)
	transform(sizeBits, tmp1, ntt2, tmp2, primeBase2, +1)
	transform(sizeBits, tmp1, ntt3, tmp2, primeBase3, +1)

	c := make([]uint32, len(a)+len(b))
	for idx := 0; idx < batchCount; idx++ {
		length := batchSize
		if idx == batchCount-1 {
			length = len(a) - idx*batchSize
		}
		copy(tmp1, a[idx*batchSize:idx*batchSize+length])
		for i := length; i < nttSize; i++ {
			tmp1[i] = 0
		}

		transform(sizeBits, tmp1, tmp2, tmp3, primeBase1, +1)
		for i := range tmp2 {
			tmp2[i] = uint32((uint64(tmp2[i]) * uint64(ntt1[i])) % uint64(prime1))
		}
		transform(sizeBits, tmp2, conv1, tmp3, primeBase1, -1)

		transform(sizeBits, tmp1, tmp2, tmp3, primeBase2, +1)
		for i := range tmp2 {
			tmp2[i] = uint32((uint64(tmp2[i]) * uint64(ntt2[i])) % uint64(prime2))
		}
		transform(sizeBits, tmp2, conv2, tmp3, primeBase2, -1)

		transform(sizeBits, tmp1, tmp2, tmp3, primeBase3, +1)
		for i := range tmp2 {
			tmp2[i] = uint32((uint64(tmp2[i]) * uint64(ntt3[i])) % uint64(prime3))
		}
		transform(sizeBits, tmp2, conv3, tmp3, primeBase3, -1)

		for i := 0; i < nttSize; i++ {
			dig := modRestore(conv1[i], conv2[i], conv3[i])
			for j := 0; j < 3; j++ {
				if dig[j] == 0 {
					continue
				}
				pos := idx*batchSize + i + 1 - j
				if pos >= 0 && pos < len(c) {
					c[pos] += dig[j]
				}
			}
		}
	}

	var carry uint32
	for i := len(c) - 1; i >= 0; i-- {
		v := c[i] + carry
		c[i] = v % decDigBase
		carry = v / decDigBase
	}
	return c, nil
}
