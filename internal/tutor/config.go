package tutor

// Config holds generation settings for each kind of tutor request.
type Config struct {
	AnalyzeMaxTokens int
	PredictMaxTokens int
	ChatMaxTokens    int
	Temperature      float64
}

// DefaultConfig returns sensible defaults for tutor requests.
func DefaultConfig() Config {
	return Config{
		AnalyzeMaxTokens: 4096,
		PredictMaxTokens: 1024,
		ChatMaxTokens:    1024,
		Temperature:      0.3,
	}
}
