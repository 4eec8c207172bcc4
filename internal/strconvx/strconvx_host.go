//go:build !(rp2040 || rp2350)

// Package strconvx mirrors the subset of strconv the roaster core needs,
// split host/MCU so the device build avoids strconv's larger float tables.
package strconvx

import "strconv"

func FormatInt(n int64, base int) string  { return strconv.FormatInt(n, base) }
func FormatUint(n uint64, base int) string { return strconv.FormatUint(n, base) }

func FormatFloat(f float64, fmt byte, prec, bitSize int) string {
	return strconv.FormatFloat(f, fmt, prec, bitSize)
}

func ParseFloat(s string, bitSize int) (float64, error) { return strconv.ParseFloat(s, bitSize) }
func ParseInt(s string, base, bitSize int) (int64, error) { return strconv.ParseInt(s, base, bitSize) }
func ParseUint(s string, base, bitSize int) (uint64, error) { return strconv.ParseUint(s, base, bitSize) }
