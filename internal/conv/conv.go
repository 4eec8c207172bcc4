// Package conv supplies allocation-free integer-to-ASCII writers used by
// internal/strconvx's MCU decimal formatting path.
package conv

// Itoa writes the base-10 representation of n into buf and returns the used
// slice. buf should be length >= 20 for int64. No allocations.
func Itoa(buf []byte, n int64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	i := len(buf)
	neg := n < 0
	var u uint64
	if neg {
		u = uint64(-n)
	} else {
		u = uint64(n)
	}
	if u == 0 {
		i--
		buf[i] = '0'
	} else {
		for u > 0 && i > 0 {
			i--
			buf[i] = byte('0' + (u % 10))
			u /= 10
		}
	}
	if neg && i > 0 {
		i--
		buf[i] = '-'
	}
	return buf[i:]
}

// Utoa writes the base-10 representation of n into buf and returns the used
// slice. buf should be length >= 20 for uint64.
func Utoa(buf []byte, n uint64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	i := len(buf)
	if n == 0 {
		i--
		buf[i] = '0'
	} else {
		for n > 0 && i > 0 {
			i--
			buf[i] = byte('0' + (n % 10))
			n /= 10
		}
	}
	return buf[i:]
}
