package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsing is returned when the environment cannot be decoded into a config struct.
var ErrParsing = errors.New("failed to parse environment configuration")

var (
	dotenvOnce sync.Once
	dotenvErr  error
)

// loadDotenv reads .env from the working directory once per process. Variables
// already present in the environment win over the file.
func loadDotenv() error {
	dotenvOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			dotenvErr = fmt.Errorf("load .env: %w", err)
		}
	})
	return dotenvErr
}

// Parse populates cfg from the environment. The environment is read on every
// call; only the .env file is loaded once.
func Parse[T any](cfg *T) error {
	if err := loadDotenv(); err != nil {
		return errors.Join(ErrParsing, err)
	}
	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParsing, err)
	}
	return nil
}
