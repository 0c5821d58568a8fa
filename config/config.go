// Package config provides functions to read in the example binaries'
// configuration files into a defined type.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// TLS holds the certificate pair an example binary listens or dials
// with.
type TLS struct {
	CertFile string `toml:"cert_file"`
	KeyFile  string `toml:"key_file"`
}

// Client configures the imapflow-client example binary.
type Client struct {
	Host               string `toml:"host"`
	Port               int    `toml:"port"`
	TLS                TLS    `toml:"tls"`
	AuthenticateMethod string `toml:"authenticate_method"`
	Username           string `toml:"username"`
}

// Server configures the imapflow-server example binary.
type Server struct {
	ListenHost        string `toml:"listen_host"`
	ListenPort        int    `toml:"listen_port"`
	TLS               TLS    `toml:"tls"`
	MaxLiteralSizeMiB int    `toml:"max_literal_size_mib"`
	Greeting          string `toml:"greeting"`
}

// Config is the top-level TOML document shared by both example
// binaries; each binary reads only the section relevant to it.
type Config struct {
	Client Client `toml:"client"`
	Server Server `toml:"server"`
}

// LoadConfig reads configFile, a TOML document, into a Config.
func LoadConfig(configFile string) (*Config, error) {
	conf := new(Config)

	if _, err := toml.DecodeFile(configFile, conf); err != nil {
		return nil, fmt.Errorf("config.LoadConfig: failed to read TOML config file at %q: %w", configFile, err)
	}

	return conf, nil
}
