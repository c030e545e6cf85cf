package collector

import (
	"fmt"
	"strconv"
	"strings"
)

var sizeSuffixes = map[string]uint64{
	"":    1,
	"b":   1,
	"k":   1 << 10,
	"kb":  1 << 10,
	"ki":  1 << 10,
	"kib": 1 << 10,
	"m":   1 << 20,
	"mb":  1 << 20,
	"mi":  1 << 20,
	"mib": 1 << 20,
	"g":   1 << 30,
	"gb":  1 << 30,
	"gi":  1 << 30,
	"gib": 1 << 30,
	"t":   1 << 40,
	"tb":  1 << 40,
	"ti":  1 << 40,
	"tib": 1 << 40,
}

// parseSize normalizes a size reading with an optional binary suffix
// ("16384 kB", "2.5Gi", "1048576") into bytes. Kernel interfaces label
// kibibytes "kB", so every suffix is treated as a binary prefix.
func parseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	split := len(s)
	for split > 0 && !isDigit(s[split-1]) {
		split--
	}
	num := strings.TrimSpace(s[:split])
	suffix := strings.ToLower(strings.TrimSpace(s[split:]))

	mult, ok := sizeSuffixes[suffix]
	if !ok {
		return 0, fmt.Errorf("unknown size suffix %q", suffix)
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed size %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative size %q", s)
	}
	return uint64(v * float64(mult)), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9' || c == '.'
}
