package decimal

import "github.com/luxfi/bigdecimal/ntt"

// nttDispatchThreshold is the smaller-operand limb count above which Mult
// delegates to package ntt instead of schoolbook multiplication.
const nttDispatchThreshold = 32

func multiplyViaNTT(a, b []uint32) ([]uint32, error) {
	return ntt.Multiply(a, b)
}
