package config

const (
	defaultThreshold    = 80.0
	defaultMode         = ModeLink
	defaultPhoneField   = "tel"
	defaultEmailField   = "email"
	defaultNameField    = "fn"
	defaultReportFormat = "table"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Mode names accepted in [dedupe].mode.
const (
	ModeLink  = "link"
	ModeMerge = "merge"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Dedupe: Dedupe{
			Threshold: defaultThreshold,
			Mode:      defaultMode,
		},
		Fields: Fields{
			Phone: defaultPhoneField,
			Email: defaultEmailField,
			Name:  defaultNameField,
		},
		Output: Output{
			ReportFormat: defaultReportFormat,
			Lock:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
