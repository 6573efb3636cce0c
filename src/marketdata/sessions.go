package marketdata

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session labels the market activity window, New York time. Sessions drive
// how lively the simulated forex ticks are: London/US overlap moves the
// most, the post-close dead zone barely moves at all.
type Session string

const (
	SessionWeekend  Session = "weekend"
	SessionDeadZone Session = "dead_zone"
	SessionAsia     Session = "asia_session"
	SessionLondon   Session = "london_session"
	SessionUS       Session = "us_session"
	SessionDefault  Session = "default"
)

// SessionVolatility maps sessions to multipliers applied on top of the
// base per-tick volatility.
type SessionVolatility struct {
	Weekend  decimal.Decimal
	DeadZone decimal.Decimal
	Asia     decimal.Decimal
	London   decimal.Decimal
	US       decimal.Decimal
	Default  decimal.Decimal
}

func DefaultSessionVolatility() SessionVolatility {
	return SessionVolatility{
		Weekend:  decimal.NewFromFloat(0.25),
		DeadZone: decimal.NewFromFloat(0.3),
		Asia:     decimal.NewFromFloat(0.75),
		London:   decimal.NewFromFloat(1.0),
		US:       decimal.NewFromFloat(1.25),
		Default:  decimal.NewFromFloat(0.5),
	}
}

// DetectSession classifies the given instant into an activity window.
func DetectSession(now time.Time) Session {
	et := easternTime(now)

	if et.Weekday() == time.Saturday || et.Weekday() == time.Sunday {
		return SessionWeekend
	}

	switch h := et.Hour(); {
	case h >= 17 && h < 20:
		return SessionDeadZone
	case h >= 20 || h < 3:
		return SessionAsia
	case h >= 3 && h < 9:
		return SessionLondon
	case h >= 9 && h <= 17:
		return SessionUS
	default:
		return SessionDefault
	}
}

// Multiplier resolves the volatility scale for a session.
func (v SessionVolatility) Multiplier(s Session) decimal.Decimal {
	switch s {
	case SessionWeekend:
		return v.Weekend
	case SessionDeadZone:
		return v.DeadZone
	case SessionAsia:
		return v.Asia
	case SessionLondon:
		return v.London
	case SessionUS:
		return v.US
	default:
		return v.Default
	}
}

func easternTime(t time.Time) time.Time {
	nyLocation, err := time.LoadLocation("America/New_York")
	if err != nil {
		return t.UTC()
	}
	return t.In(nyLocation)
}
