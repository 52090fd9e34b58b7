package matcher

// Config holds matcher-wide settings, set once per matcher instance.
type Config struct {
	// TemplateThreshold is τ in [0,1]; see raw_threshold in DetectTemplates (matcher.go).
	TemplateThreshold float32
	// UseNonMaxSuppression enables 3x3 coarse-grid NMS in DetectTemplates.
	UseNonMaxSuppression bool
	// AverageDetections replaces a surviving cell's coordinate with the
	// score-weighted center of mass of its 3x3 coarse neighborhood.
	AverageDetections bool
}

// DefaultConfig returns the reference defaults.
func DefaultConfig() Config {
	return Config{
		TemplateThreshold:    0.75,
		UseNonMaxSuppression: false,
		AverageDetections:    false,
	}
}
