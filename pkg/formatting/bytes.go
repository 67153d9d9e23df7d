// Package formatting converts byte counts to and from human-readable sizes
// using base-1024 units.
package formatting

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidSize is returned by ParseBytes for input it cannot interpret.
var ErrInvalidSize = errors.New("invalid byte size")

var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

var sizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Za-z]*)$`)

// FormatBytes renders n with the largest unit that keeps the value at or
// above 1, using precision decimal places. Negative precision is treated
// as zero.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)

	v := math.Abs(float64(n))
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	if n < 0 {
		v = -v
	}

	return strconv.FormatFloat(v, 'f', precision, 64) + " " + units[i]
}

// ParseBytes parses sizes such as "512", "1MB", "1.5 gb", or "2MiB". A
// bare number is bytes. Results that overflow int64 are rejected.
func ParseBytes(s string) (int64, error) {
	m := sizePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	exp, ok := unitExponent(m[2])
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidSize, m[2])
	}

	size := value * math.Pow(1024, float64(exp))
	if size >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidSize, s)
	}
	return int64(size), nil
}

func unitExponent(unit string) (int, bool) {
	u := strings.ToUpper(unit)
	if u == "" {
		return 0, true
	}
	if len(u) == 3 && u[1] == 'I' {
		u = u[:1] + u[2:]
	}
	for i, name := range units {
		if u == name || (i > 0 && u == name[:1]) {
			return i, true
		}
	}
	return 0, false
}
