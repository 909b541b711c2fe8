package main

import "os"

// Config holds environment-based configuration for the MCP server
type Config struct {
	ConfigPath string
	AWSProfile string
}

// LoadConfig reads configuration from environment variables. Everything
// else comes from the monitor's YAML configuration file.
func LoadConfig() *Config {
	return &Config{
		ConfigPath: getEnvOrDefault("ETLCOST_CONFIG", "config.yaml"),
		AWSProfile: os.Getenv("AWS_PROFILE"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
