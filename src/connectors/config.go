package connectors

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Provider selection flags.
	BridgeOnly bool `envconfig:"BRIDGE_ONLY" default:"false"`
	UseDeriv   bool `envconfig:"USE_DERIV" default:"true"`

	// Browser-automation bridge (external black-box HTTP service).
	BridgeURL string `envconfig:"BRIDGE_URL" default:""`

	// Deriv API.
	DerivAppID    int    `envconfig:"DERIV_APP_ID" default:"0"`
	DerivAPIToken string `envconfig:"DERIV_API_TOKEN" default:""`
	DerivUseDemo  bool   `envconfig:"DERIV_USE_DEMO" default:"true"`
	DerivWSHost   string `envconfig:"DERIV_WS_HOST" default:"ws.derivws.com"`

	// Legacy broker hosts. The fallback host serves the same contract
	// through the unofficial API surface.
	IQHost         string `envconfig:"IQ_HOST" default:"iqoption.com"`
	IQFallbackHost string `envconfig:"IQ_FALLBACK_HOST" default:"api.iqoption.com"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
