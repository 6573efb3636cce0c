package security

import (
	"os"
	"testing"
)

func TestGetConfigReadsCredentialsKeyFromEnv(t *testing.T) {
	const key = "q2Fub25pY2FsLTMyLWJ5dGUtdGVzdC1rZXkhIQ=="
	t.Setenv("EXCHANGE_CREDENTIALS_KEY", key)

	config := GetConfig()
	if config.CredentialsKey != key {
		t.Fatalf("EXCHANGE_CREDENTIALS_KEY not picked up, got %q", config.CredentialsKey)
	}
}

func TestGetConfigFallsBackToBakedInKey(t *testing.T) {
	t.Setenv("EXCHANGE_CREDENTIALS_KEY", "")
	os.Unsetenv("EXCHANGE_CREDENTIALS_KEY")

	config := GetConfig()
	if config.CredentialsKey == "" {
		t.Fatalf("a development key must be baked in when the env var is unset")
	}
}
