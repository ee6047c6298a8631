package clinfo

// Mebibytes converts a size in bytes to MiB, discarding any fraction.
func Mebibytes(bytes uint64) uint64 {
	return bytes / (1 << 20)
}

// Kibibytes converts a size in bytes to KiB, discarding any fraction.
func Kibibytes(bytes uint64) uint64 {
	return bytes / (1 << 10)
}

// yesNo formats a boolean for the text report.
func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
