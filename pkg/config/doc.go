// Package config loads application configuration from environment variables
// into plain Go structs.
//
// It combines github.com/joho/godotenv (optional .env files) with
// github.com/caarlos0/env/v11 (struct-tag parsing) and caches each parsed
// configuration type for the lifetime of the process, so components can call
// Load from anywhere without coordinating.
//
// # Usage
//
// Describe the configuration as a struct with `env` tags:
//
//	type MailerConfig struct {
//		OutputDir string `env:"EMAIL_DEV_DIR" envDefault:"./email-out"`
//	}
//
//	var cfg MailerConfig
//	config.MustLoad(&cfg)
//
// The first Load in the process reads the default .env file if one exists;
// call LoadEnv beforehand to read specific files instead. Tests that change
// the environment between cases should call Reset to drop the cache.
package config
