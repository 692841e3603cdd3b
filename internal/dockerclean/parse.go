package dockerclean

import (
	"strconv"
	"strings"
)

// engineUnits maps the size suffixes the docker CLI prints to byte
// multipliers. The CLI uses decimal units ("1.23GB"); the binary forms
// are accepted for robustness.
var engineUnits = map[string]float64{
	"B":   1,
	"KB":  1e3,
	"MB":  1e6,
	"GB":  1e9,
	"TB":  1e12,
	"KIB": 1 << 10,
	"MIB": 1 << 20,
	"GIB": 1 << 30,
	"TIB": 1 << 40,
}

// parseEngineSize converts a size string as printed by the docker CLI
// ("1.23GB", "997kB", "0B") into bytes. "N/A" and anything unparsable
// report ok=false; sizes are never silently zeroed.
func parseEngineSize(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "n/a") {
		return 0, false
	}

	split := len(s)
	for split > 0 {
		ch := s[split-1]
		if ch >= '0' && ch <= '9' || ch == '.' {
			break
		}
		split--
	}
	numStr := strings.TrimSpace(s[:split])
	unitStr := strings.ToUpper(strings.TrimSpace(s[split:]))

	if numStr == "" {
		return 0, false
	}
	mult, ok := engineUnits[unitStr]
	if !ok {
		return 0, false
	}

	num, err := strconv.ParseFloat(numStr, 64)
	if err != nil || num < 0 {
		return 0, false
	}
	return int64(num * mult), true
}
