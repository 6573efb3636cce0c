package signalscan

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LoopPeriod   time.Duration `envconfig:"SCAN_LOOP_PERIOD" default:"60s"`
	Interval     time.Duration `envconfig:"SCAN_INTERVAL" default:"5m"`
	Lookback     int           `envconfig:"SCAN_LOOKBACK" default:"20"`
	MinScore     float64       `envconfig:"SCAN_MIN_SCORE" default:"0.15"`
	Symbols      string        `envconfig:"SCAN_SYMBOLS" default:"BTC_USDT,ETH_USDT"`
	SignalExpiry int           `envconfig:"SCAN_SIGNAL_EXPIRATION" default:"5"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
