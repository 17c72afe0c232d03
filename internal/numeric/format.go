package numeric

import (
	"math/big"
	"strings"
)

// roundRatToEven rounds r to the nearest integer, ties to even — the
// same rule RoundEven applies at the 2^-32 boundary, generalized to an
// arbitrary big.Rat (spec §4.9's "banker's rounding at the precision
// boundary").
func roundRatToEven(r *big.Rat) *big.Int {
	num, den := r.Num(), r.Denom()
	q, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	rem2 := new(big.Int).Mul(rem, big.NewInt(2))
	rem2Abs := new(big.Int).Abs(rem2)
	denAbs := new(big.Int).Abs(den)
	cmp := rem2Abs.Cmp(denAbs)
	switch {
	case cmp < 0:
		return q
	case cmp > 0:
		if r.Sign() < 0 {
			return q.Sub(q, big.NewInt(1))
		}
		return q.Add(q, big.NewInt(1))
	default:
		if new(big.Int).Mod(q, big.NewInt(2)).Sign() == 0 {
			return q
		}
		if r.Sign() < 0 {
			return q.Sub(q, big.NewInt(1))
		}
		return q.Add(q, big.NewInt(1))
	}
}

// RoundToPrecision rounds f to prec decimal digits, ties to even, and
// re-quantizes to a Fixed64 raw value (spec §4.9 template precision).
func (f Fixed64) RoundToPrecision(prec uint8) Fixed64 {
	raw := new(big.Rat).SetFrac(big.NewInt(f.raw), big.NewInt(1<<fracBits))
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(prec)), nil)
	scaled := new(big.Rat).Mul(raw, new(big.Rat).SetInt(scale))
	roundedInt := roundRatToEven(scaled)
	quantized := new(big.Rat).SetFrac(roundedInt, scale)
	rawRat := new(big.Rat).Mul(quantized, new(big.Rat).SetInt64(1<<fracBits))
	return FromRawI64(roundRatToEven(rawRat).Int64())
}

// DecimalString renders f with exactly prec digits after the decimal
// point (zero-padded), unlike String which trims trailing zeros.
func (f Fixed64) DecimalString(prec uint8) string {
	neg := f.raw < 0
	raw := f.raw
	if neg {
		raw = -raw
	}
	intPart := uint64(raw) >> fracBits
	frac := uint64(raw) & (1<<fracBits - 1)

	pow5 := new(big.Int).Exp(big.NewInt(5), big.NewInt(fracBits), nil)
	num := new(big.Int).SetUint64(frac)
	num.Mul(num, pow5)
	decStr := num.String()
	for len(decStr) < fracBits {
		decStr = "0" + decStr
	}
	if int(prec) < len(decStr) {
		decStr = decStr[:prec]
	} else {
		decStr = decStr + strings.Repeat("0", int(prec)-len(decStr))
	}

	sign := ""
	if neg {
		sign = "-"
	}
	if prec == 0 {
		return sign + itoa(intPart)
	}
	return sign + itoa(intPart) + "." + decStr
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
