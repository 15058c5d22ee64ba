// Package config provides type-safe environment variable loading using Go
// generics.
//
// The package automatically loads a .env file from the working directory on
// first use and uses the caarlos0/env library for parsing environment
// variables into struct fields. A missing .env file is not an error.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/takedown/core/config"
//
//	type SMTPConfig struct {
//		Server   string `env:"SMTP_SERVER,required"`
//		Port     int    `env:"SMTP_PORT" envDefault:"465"`
//		Username string `env:"SMTP_USERNAME,required"`
//		Password string `env:"SMTP_PASSWORD,required"`
//	}
//
//	var cfg SMTPConfig
//	if err := config.Parse(&cfg); err != nil {
//		return err // wraps config.ErrParsing
//	}
//
// Parse reads the environment on every call, so a command that runs more than
// once per process, such as a CLI command under test, always sees the current
// values. Variables already set in the process environment take precedence
// over .env.
package config
