package model

type Flags struct {
	ConfigPath string
	LogLevel   string

	// AWS-specific flags
	Region  string
	Profile string

	// Monitoring overrides, zero means "use the configured value"
	LookbackHours  int
	RefreshSeconds int
	ListenAddr     string

	// Output flags
	Once bool
	JSON bool
}
