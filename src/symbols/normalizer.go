package symbols

import (
	"regexp"
	"strings"
	"time"
)

// AssetClass labels the market family an instrument belongs to. The class
// decides expiration units (minutes vs ticks) and direction rules.
type AssetClass string

const (
	AssetClassForex            AssetClass = "forex"
	AssetClassCrypto           AssetClass = "crypto"
	AssetClassSyntheticIndex   AssetClass = "synthetic_index"
	AssetClassSyntheticBarrier AssetClass = "synthetic_barrier"
	AssetClassUnknown          AssetClass = "unknown"
)

// NormalizedAsset is the canonical view of a user-supplied asset code.
// It is derived purely from the input string and the calendar day, never
// from network or database state.
type NormalizedAsset struct {
	Original       string     `json:"original"`
	Canonical      string     `json:"canonical"`
	Class          AssetClass `json:"asset_class"`
	WeekendVariant bool       `json:"is_weekend_variant"`
}

var (
	reForexPair    = regexp.MustCompile(`^[A-Z]{6}$`)
	reVolatility   = regexp.MustCompile(`^R_\d+$`)
	reBarrier      = regexp.MustCompile(`^(BOOM|CRASH)_?\d+N?$`)
	reVolatilityNm = regexp.MustCompile(`^VOLATILITY_(\d+)$`)
	reBarrierAlias = regexp.MustCompile(`^(BOOM|CRASH)(\d+)N$`)
)

// Normalize maps an internal or display asset code to its canonical form.
// It is a total function: inputs that match no rule are passed through
// unchanged and tagged AssetClassUnknown.
//
// Forex pairs pick up the "-OTC" weekend marker when asOf falls on a
// Saturday or Sunday, so the result must be recomputed per request rather
// than cached across days.
func Normalize(code string, asOf time.Time) NormalizedAsset {
	original := code
	a := strings.ToUpper(strings.TrimSpace(code))

	if a == "" {
		return NormalizedAsset{Original: original, Canonical: a, Class: AssetClassUnknown}
	}

	// Already in vendor form: frxEURUSD, cryBTCUSD, R_10, BOOM_500 / BOOM500N.
	switch {
	case strings.HasPrefix(a, "FRX"):
		pair := strings.TrimPrefix(a, "FRX")
		weekend := strings.HasSuffix(pair, "-OTC")
		return NormalizedAsset{
			Original:       original,
			Canonical:      "frx" + pair,
			Class:          AssetClassForex,
			WeekendVariant: weekend,
		}
	case strings.HasPrefix(a, "CRY"):
		return NormalizedAsset{Original: original, Canonical: "cry" + strings.TrimPrefix(a, "CRY"), Class: AssetClassCrypto}
	case reVolatility.MatchString(a):
		return NormalizedAsset{Original: original, Canonical: a, Class: AssetClassSyntheticIndex}
	case reBarrier.MatchString(a):
		return NormalizedAsset{Original: original, Canonical: barrierCanonical(a), Class: AssetClassSyntheticBarrier}
	}

	// VOLATILITY_10 style aliases map to their R_10 vendor code.
	if m := reVolatilityNm.FindStringSubmatch(a); m != nil {
		return NormalizedAsset{Original: original, Canonical: "R_" + m[1], Class: AssetClassSyntheticIndex}
	}

	// Plain 6-letter forex pair.
	if reForexPair.MatchString(a) {
		canonical := "frx" + a
		weekend := isWeekend(asOf)
		if weekend {
			canonical += "-OTC"
		}
		return NormalizedAsset{
			Original:       original,
			Canonical:      canonical,
			Class:          AssetClassForex,
			WeekendVariant: weekend,
		}
	}

	// Stablecoin-quoted crypto: BTCUSDT settles as cryBTCUSD on the vendor.
	if strings.HasSuffix(a, "USDT") && len(a) >= 7 {
		return NormalizedAsset{Original: original, Canonical: "cry" + strings.TrimSuffix(a, "T"), Class: AssetClassCrypto}
	}
	if strings.HasSuffix(a, "USD") && len(a) >= 6 {
		return NormalizedAsset{Original: original, Canonical: "cry" + a, Class: AssetClassCrypto}
	}

	return NormalizedAsset{Original: original, Canonical: a, Class: AssetClassUnknown}
}

// Canonical is a shorthand used on every read path (market data, signals,
// alerts, streamed ticks) so storage can keep legacy naming while all
// external payloads show vendor codes.
func Canonical(code string, asOf time.Time) string {
	return Normalize(code, asOf).Canonical
}

// DerivCode returns the wire symbol the Deriv API expects. It matches the
// canonical code except for barrier indices, where Deriv uses BOOM500N
// instead of the dashboard's BOOM_500.
func (n NormalizedAsset) DerivCode() string {
	if n.Class != AssetClassSyntheticBarrier {
		return n.Canonical
	}
	return strings.ReplaceAll(n.Canonical, "_", "") + "N"
}

// LegacyCode returns the symbol the legacy broker expects: the raw pair
// name, with the -OTC suffix on weekend forex variants.
func (n NormalizedAsset) LegacyCode() string {
	a := strings.ToUpper(strings.TrimSpace(n.Original))
	if n.Class == AssetClassForex && n.WeekendVariant && !strings.HasSuffix(a, "-OTC") {
		return a + "-OTC"
	}
	return a
}

// BridgeDisplay converts the original code into the slash form the
// browser-automation bridge types into the trade-room search box
// (EURUSD -> EUR/USD, BTCUSDT -> BTC/USD).
func (n NormalizedAsset) BridgeDisplay() string {
	a := strings.ToUpper(strings.TrimSpace(n.Original))
	if reForexPair.MatchString(a) {
		display := a[:3] + "/" + a[3:]
		if n.WeekendVariant {
			display += "-OTC"
		}
		return display
	}
	if strings.HasSuffix(a, "USDT") {
		return strings.TrimSuffix(a, "USDT") + "/USD"
	}
	if strings.HasSuffix(a, "USD") {
		return strings.TrimSuffix(a, "USD") + "/USD"
	}
	return a
}

func barrierCanonical(code string) string {
	// BOOM500N and BOOM500 fold into the dashboard form BOOM_500.
	if m := reBarrierAlias.FindStringSubmatch(code); m != nil {
		return m[1] + "_" + m[2]
	}
	if strings.Contains(code, "_") {
		return code
	}
	for _, prefix := range []string{"BOOM", "CRASH"} {
		if strings.HasPrefix(code, prefix) {
			return prefix + "_" + strings.TrimPrefix(code, prefix)
		}
	}
	return code
}

func isWeekend(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}
