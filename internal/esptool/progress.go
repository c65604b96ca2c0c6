package esptool

import (
	"regexp"
	"strconv"
)

// Progress is one "Writing at ..." update from esptool.
type Progress struct {
	Address uint32
	Percent float64
}

// Matches both
//
//	Writing at 0x00010000... (3 %)
//	Writing at 0x00010000 [=====>        ]  12.3% 49152/400000 bytes...
var progressRe = regexp.MustCompile(`Writing at 0x([0-9a-fA-F]+)[^%]*?(\d+(?:\.\d+)?)\s*%`)

// ParseProgress extracts the address and percentage from an esptool write
// progress line.
func ParseProgress(line string) (Progress, bool) {
	m := progressRe.FindStringSubmatch(line)
	if m == nil {
		return Progress{}, false
	}

	addr, err := strconv.ParseUint(m[1], 16, 32)
	if err != nil {
		return Progress{}, false
	}
	pct, err := strconv.ParseFloat(m[2], 64)
	if err != nil || pct > 100 {
		return Progress{}, false
	}

	return Progress{Address: uint32(addr), Percent: pct}, true
}
