package format

import (
	"math"
	"strconv"
)

var units = []string{"Bytes", "KB", "MB", "GB", "TB"}

// Bytes renders a byte count for display using powers of 1024, two decimal
// places with trailing zeros trimmed.
func Bytes(n uint64) string {
	if n == 0 {
		return "0 Bytes"
	}

	const k = 1024
	i := int(math.Floor(math.Log(float64(n)) / math.Log(k)))
	if i >= len(units) {
		i = len(units) - 1
	}

	value := float64(n) / math.Pow(k, float64(i))
	rounded := math.Round(value*100) / 100

	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + units[i]
}
