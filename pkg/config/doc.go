// Package config loads typed configuration from environment variables.
//
// It combines github.com/joho/godotenv, which reads dotenv files into the
// process environment, with github.com/caarlos0/env/v11, which parses the
// environment into structs using `env` and `envDefault` field tags. Each
// package of this module exposes its own Config struct; the service binary
// loads them all through this package:
//
//	var sessCfg session.Config
//	config.MustLoad(&sessCfg)
//
// Parsed values are cached per type for the lifetime of the process.
// ResetCache clears the cache, which tests use after changing variables.
package config
