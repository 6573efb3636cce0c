package security

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Base64-encoded 32-byte AES key used to encrypt stored broker
	// credentials at rest.
	CredentialsKey string `envconfig:"EXCHANGE_CREDENTIALS_KEY" default:"Pjk+k4hske5KkKtbaKSVDOgpllRl+0EI6oCAdx88XqI="`

	// bcrypt hash of the operator passphrase required to update stored
	// credentials. Empty disables the credentials endpoint.
	AdminPassphraseHash string `envconfig:"ADMIN_PASSPHRASE_HASH" default:""`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
