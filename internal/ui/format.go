package ui

import "fmt"

// FormatBps formats a bits-per-second rate as a human-readable string.
// Network rates use decimal units (1 Kbps = 1000 bps), matching how link
// speeds are quoted.
func FormatBps(bps int64) string {
	switch {
	case bps >= 1e9:
		return fmt.Sprintf("%.2f Gbps", float64(bps)/1e9)
	case bps >= 1e6:
		return fmt.Sprintf("%.1f Mbps", float64(bps)/1e6)
	case bps >= 1e3:
		return fmt.Sprintf("%.1f Kbps", float64(bps)/1e3)
	default:
		return fmt.Sprintf("%d bps", bps)
	}
}

// FormatBytes formats a byte count as a human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB", "TB", "PB"}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), units[exp])
}

// TruncateWithEllipsis truncates a string to maxLen, adding ellipsis if needed.
func TruncateWithEllipsis(s string, maxLen int) string {
	if maxLen <= 3 {
		return s
	}
	if len(s) > maxLen {
		return s[:maxLen-3] + "..."
	}
	return s
}
