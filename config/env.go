package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Env holds deployment-specific secrets kept out of the checked-in
// TOML config, populated from a local .env file.
type Env struct {
	Password string
}

// LoadEnv looks for an .env file in the working directory and reads
// the credentials an example binary needs but shouldn't hardcode.
func LoadEnv() (*Env, error) {
	if err := godotenv.Load(".env"); err != nil {
		return nil, fmt.Errorf("config.LoadEnv: failed to read .env file: %w", err)
	}

	return &Env{Password: os.Getenv("IMAPFLOW_PASSWORD")}, nil
}
