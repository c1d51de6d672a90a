/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
)

// humanReadableSize formats a byte count with SI units, e.g. 1.5 kB.
func humanReadableSize(bytes int64) string {
	const units = "kMGTPE"

	if bytes < 1000 {
		return fmt.Sprintf("%d B", bytes)
	}

	value := float64(bytes)
	i := -1
	for value >= 1000 && i < len(units)-1 {
		value /= 1000
		i++
	}

	return fmt.Sprintf("%.1f %cB", value, units[i])
}
