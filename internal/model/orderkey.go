package model

import "math/big"

// OrderKey is a sparse, lexicographically orderable value. Unlike a plain
// integer index, a new key can always be minted strictly between two
// existing siblings without renumbering the rest of the collection — the
// classic "fractional indexing" trick, implemented here over a fixed
// alphabet so ordinary byte-wise string comparison is the sort order.
type OrderKey string

// orderKeyAlphabet must be sorted ascending; its digits are used as a
// base-N positional system when minting a key strictly between two others.
const orderKeyAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var orderKeyBase = big.NewInt(int64(len(orderKeyAlphabet)))

// Less reports whether k sorts before other.
func (k OrderKey) Less(other OrderKey) bool { return string(k) < string(other) }

// FirstOrderKey returns the conventional starting key for an empty sibling
// list.
func FirstOrderKey() OrderKey {
	return OrderKey(string(orderKeyAlphabet[len(orderKeyAlphabet)/2]))
}

func charValue(c byte) int64 {
	for i := 0; i < len(orderKeyAlphabet); i++ {
		if orderKeyAlphabet[i] == c {
			return int64(i)
		}
	}
	return 0
}

// toBigInt interprets s as a base-orderKeyBase integer, treating it as the
// digits immediately after a radix point (most significant digit first).
func toBigInt(s string, length int) *big.Int {
	n := new(big.Int)
	for i := 0; i < length; i++ {
		n.Mul(n, orderKeyBase)
		if i < len(s) {
			n.Add(n, big.NewInt(charValue(s[i])))
		}
	}
	return n
}

func toDigits(n *big.Int, length int) string {
	digits := make([]byte, length)
	rem := new(big.Int).Set(n)
	mod := new(big.Int)
	for i := length - 1; i >= 0; i-- {
		rem.DivMod(rem, orderKeyBase, mod)
		digits[i] = orderKeyAlphabet[mod.Int64()]
	}
	return string(digits)
}

// OrderKeyBetween mints a new key that sorts strictly between lo and hi.
// An empty lo means "no lower bound" (start of the sequence); an empty hi
// means "no upper bound" (end of the sequence). Callers use this to insert
// a sibling between two existing ones without renumbering anything.
func OrderKeyBetween(lo, hi OrderKey) OrderKey {
	l, h := string(lo), string(hi)
	if l == "" && h == "" {
		return FirstOrderKey()
	}
	if l == "" {
		// No lower bound: treat as the all-zero digit string and look for
		// room strictly below hi.
		l = ""
	}
	if h == "" {
		// No upper bound: treat as the all-max digit string.
		h = string(orderKeyAlphabet[len(orderKeyAlphabet)-1])
		for len(h) < len(l)+2 {
			h += string(orderKeyAlphabet[len(orderKeyAlphabet)-1])
		}
	}

	length := len(l)
	if len(h) > length {
		length = len(h)
	}
	length++ // one extra digit of precision to guarantee room

	for {
		lb := toBigInt(l, length)
		hb := toBigInt(h, length)
		diff := new(big.Int).Sub(hb, lb)
		if diff.Cmp(big.NewInt(1)) > 0 {
			mid := new(big.Int).Add(lb, new(big.Int).Rsh(diff, 1))
			digits := toDigits(mid, length)
			return OrderKey(trimTrailingZeros(digits))
		}
		length++
	}
}

func trimTrailingZeros(s string) string {
	i := len(s)
	for i > 1 && s[i-1] == orderKeyAlphabet[0] {
		i--
	}
	return s[:i]
}
