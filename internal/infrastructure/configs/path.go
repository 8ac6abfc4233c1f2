package configs

import (
	"flag"
	"os"

	"github.com/murmurchat/murmur/internal/infrastructure/env"
)

// DetermineConfigPath resolves the config file location from the --config
// flag, the MURMUR_CONFIG env var, or well-known candidates. An empty
// result means env-only configuration.
func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("MURMUR_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/murmur/config.yaml",
			"/app/config.yaml", // common in Docker
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}
