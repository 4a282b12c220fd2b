package feedback

// Loader progress is simulated: it ticks toward 99 while a request is
// outstanding and jumps to 100 when the first chunk arrives.
const (
	ProgressCeiling = 99
	ProgressDone    = 100
)

// ProgressMessage returns the loader caption for a percentage.
func ProgressMessage(pct int) string {
	switch {
	case pct <= 0:
		return "Initializing analysis..."
	case pct >= ProgressDone:
		return "Analysis complete!"
	case pct < 30:
		return "Reading your code..."
	case pct < 60:
		return "Checking for errors..."
	case pct < 90:
		return "Generating suggestions..."
	default:
		return "Finalizing analysis..."
	}
}

// NextProgress advances a simulated percentage by one tick, stopping at
// ProgressCeiling.
func NextProgress(pct int) int {
	if pct >= ProgressCeiling {
		return ProgressCeiling
	}
	return pct + 1
}
