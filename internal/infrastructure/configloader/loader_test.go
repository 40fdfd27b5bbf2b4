package configloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	raw := []byte(`
remoteConfig:
  baseURL: "http://localhost:3000"
wallet:
  endpoint: "http://localhost:8545"
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Fatalf("unexpected port %q", cfg.Server.Port)
	}
	if cfg.RemoteConfig.ABIPath != "/config/abi.json" || cfg.RemoteConfig.ConfigPath != "/config/config.json" {
		t.Fatalf("unexpected remote paths %+v", cfg.RemoteConfig)
	}
	if cfg.WalletRequestTimeout() != time.Minute {
		t.Fatalf("unexpected wallet timeout %s", cfg.WalletRequestTimeout())
	}
	if cfg.RpcClient.BurstLimit != cfg.RpcClient.RateLimit {
		t.Fatalf("burst should default to the rate limit")
	}
}

func TestParseKeepsExplicitValues(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  port: "9090"
remoteConfig:
  baseURL: "https://mint.example.org"
  requestTimeoutMillis: 1500
contract:
  callTimeoutMillis: 250
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("unexpected port %q", cfg.Server.Port)
	}
	if cfg.RemoteRequestTimeout() != 1500*time.Millisecond {
		t.Fatalf("unexpected remote timeout %s", cfg.RemoteRequestTimeout())
	}
	if cfg.ContractCallTimeout() != 250*time.Millisecond {
		t.Fatalf("unexpected call timeout %s", cfg.ContractCallTimeout())
	}
}

func TestParseRaisesWriteTimeoutAboveWalletTimeout(t *testing.T) {
	cases := map[string]struct {
		yaml string
		want int
	}{
		"too short": {yaml: "server:\n  writeTimeout: 30\n", want: 75},
		"default":   {yaml: "", want: 75},
		"longer":    {yaml: "server:\n  writeTimeout: 120\n", want: 120},
		"custom wallet timeout": {
			yaml: "server:\n  writeTimeout: 10\nwallet:\n  requestTimeoutMillis: 20000\n",
			want: 35,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := Parse([]byte(tc.yaml + "remoteConfig:\n  baseURL: http://localhost:3000\n"))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if cfg.Server.WriteTimeout != tc.want {
				t.Fatalf("expected write timeout %ds, got %ds", tc.want, cfg.Server.WriteTimeout)
			}
			if time.Duration(cfg.Server.WriteTimeout)*time.Second <= cfg.WalletRequestTimeout() {
				t.Fatalf("write timeout %ds does not outlast the wallet timeout %s", cfg.Server.WriteTimeout, cfg.WalletRequestTimeout())
			}
		})
	}
}

func TestParseRequiresRemoteBaseURL(t *testing.T) {
	if _, err := Parse([]byte("wallet:\n  endpoint: http://localhost:8545\n")); err == nil {
		t.Fatalf("expected error for missing remoteConfig.baseURL")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
