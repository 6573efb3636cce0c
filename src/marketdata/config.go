package marketdata

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TickInterval   time.Duration `envconfig:"SIM_TICK_INTERVAL" default:"3s"`
	SimulatorOn    bool          `envconfig:"SIM_ENABLED" default:"true"`
	VolatilityBase float64       `envconfig:"SIM_VOLATILITY_BASE" default:"0.002"`
}

func GetConfig() Config {
	var config Config
	err := envconfig.Process("", &config)
	if err != nil {
		panic(err)
	}
	return config
}
