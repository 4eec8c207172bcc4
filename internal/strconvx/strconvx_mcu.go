//go:build rp2040 || rp2350

package strconvx

import "roastercore/internal/conv"

type parseError struct{}

func (parseError) Error() string { return "invalid syntax" }

// FormatInt and FormatUint hand the decimal case — the one this firmware
// actually exercises for temperatures and percentages — straight to
// internal/conv's allocation-free writer, falling back to the generic
// any-base loop only for the hex formatting fmtx's %x verb needs.
func FormatInt(n int64, base int) string {
	if base == 10 {
		var buf [20]byte
		return string(conv.Itoa(buf[:], n))
	}
	if n < 0 {
		return "-" + formatUint(uint64(-n), base)
	}
	return formatUint(uint64(n), base)
}

func FormatUint(n uint64, base int) string {
	if base == 10 {
		var buf [20]byte
		return string(conv.Utoa(buf[:], n))
	}
	return formatUint(n, base)
}

func formatUint(u uint64, base int) string {
	if u == 0 {
		return "0"
	}
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	var buf [64]byte
	i := len(buf)
	b := uint64(base)
	for u > 0 {
		i--
		buf[i] = digits[u%b]
		u /= b
	}
	return string(buf[i:])
}

// bitSize: 0,8,16,32,64 like strconv. 0 maps to 64 here.
func ParseInt(s string, base, bitSize int) (int64, error) {
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if base == 0 {
		base = detectBase(&s)
	}
	u, err := ParseUint(s, base, 64)
	if err != nil {
		return 0, err
	}
	if neg {
		if u > 1<<63 {
			return 0, parseError{}
		}
		return -int64(u), nil
	}
	if u >= 1<<63 {
		if !(bitSize == 64 && u == 1<<63) {
			return 0, parseError{}
		}
	}
	return int64(u), nil
}

func ParseUint(s string, base, bitSize int) (uint64, error) {
	if base == 0 {
		base = detectBase(&s)
	}
	if base < 2 || base > 36 || len(s) == 0 {
		return 0, parseError{}
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d byte
		switch {
		case '0' <= c && c <= '9':
			d = c - '0'
		case 'a' <= c && c <= 'z':
			d = c - 'a' + 10
		case 'A' <= c && c <= 'Z':
			d = c - 'A' + 10
		default:
			return 0, parseError{}
		}
		if int(d) >= base {
			return 0, parseError{}
		}
		v = v*uint64(base) + uint64(d)
	}
	switch bitSize {
	case 0, 64:
		return v, nil
	case 8:
		return v & ((1 << 8) - 1), nil
	case 16:
		return v & ((1 << 16) - 1), nil
	case 32:
		return v & ((1 << 32) - 1), nil
	default:
		return v, nil
	}
}

func detectBase(ps *string) int {
	s := *ps
	if len(s) >= 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			*ps = s[2:]
			return 16
		case 'b', 'B':
			*ps = s[2:]
			return 2
		case 'o', 'O':
			*ps = s[2:]
			return 8
		}
	}
	return 10
}

// FormatFloat supports only 'f' form (all this firmware ever emits: fixed
// decimal temperatures and percentages). prec < 0 defaults to 6.
func FormatFloat(f float64, fmt byte, prec, _ int) string {
	if prec < 0 {
		prec = 6
	}
	neg := false
	if f < 0 {
		neg = true
		f = -f
	}
	intp := uint64(f)
	frac := f - float64(intp)

	if prec == 0 {
		ints := FormatUint(intp, 10)
		if neg {
			return "-" + ints
		}
		return ints
	}
	pow := 1.0
	for i := 0; i < prec; i++ {
		pow *= 10
	}
	fracN := uint64(frac*pow + 0.5)
	if fracN >= uint64(pow) {
		// rounding carried into the integer part (e.g. 99.96 at prec 1)
		intp++
		fracN -= uint64(pow)
	}
	ints := FormatUint(intp, 10)
	fs := FormatUint(fracN, 10)
	if len(fs) < prec {
		z := make([]byte, prec-len(fs))
		for i := range z {
			z[i] = '0'
		}
		fs = string(z) + fs
	}
	out := ints + "." + fs
	if neg {
		return "-" + out
	}
	return out
}

// ParseFloat parses a plain decimal "[-]digits[.digits]" — sufficient for
// the wire commands' numeric arguments (e.g. the "50.5" of "OT2 50.5").
func ParseFloat(s string, _ int) (float64, error) {
	if len(s) == 0 {
		return 0, parseError{}
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	var intPart uint64
	var i int
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		intPart = intPart*10 + uint64(s[i]-'0')
		i++
	}
	var frac float64
	if i < len(s) && s[i] == '.' {
		i++
		scale := 1.0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			frac = frac*10 + float64(s[i]-'0')
			scale *= 10
			i++
		}
		frac = frac / scale
	}
	if i != len(s) || i == 0 {
		return 0, parseError{}
	}
	v := float64(intPart) + frac
	if neg {
		v = -v
	}
	return v, nil
}
