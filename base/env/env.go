package env

import (
	"os"
)

const defaultConfigPath = "infra/configs/config.yaml"

// PodName example: k8ssta-nftmarket-api-6868d88fbd-bz8zv
func PodName() string {
	return os.Getenv("PODNAME")
}

// EnvName example: k8ssta
func EnvName() string {
	return os.Getenv("ENV_NAME")
}

// AppName example: api
func AppName() string {
	return os.Getenv("APP_NAME")
}

// ConfigPath returns CONFIG_PATH or the in-repo default config location
func ConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return defaultConfigPath
}
