package config_test

import (
	"testing"

	"github.com/numbleroot/imapflow/config"
)

// TestLoadConfig executes a black-box test on the implemented
// functionality to load a TOML config file.
func TestLoadConfig(t *testing.T) {

	// Try to load a broken config file. This should fail.
	_, err := config.LoadConfig("broken-config.toml")
	if err == nil {
		t.Fatal("[config.TestLoadConfig] Expected fail while loading broken-config.toml but received 'nil' error.")
	}

	// Now load a valid config.
	conf, err := config.LoadConfig("config.toml")
	if err != nil {
		t.Fatalf("[config.TestLoadConfig] Expected success while loading config.toml but received: '%s'\n", err.Error())
	}

	// Check for test success.
	if conf.Client.TLS.CertFile != "/very/complicated/test/directory/certificate.test" {
		t.Fatalf("[config.TestLoadConfig] Expected '%s' but received '%s'\n", "/very/complicated/test/directory/certificate.test", conf.Client.TLS.CertFile)
	}
	if conf.Client.Username != "alice" {
		t.Fatalf("[config.TestLoadConfig] Expected '%s' but received '%s'\n", "alice", conf.Client.Username)
	}
	if conf.Server.MaxLiteralSizeMiB != 25 {
		t.Fatalf("[config.TestLoadConfig] Expected '%d' but received '%d'\n", 25, conf.Server.MaxLiteralSizeMiB)
	}
}
