package symbols

import (
	"testing"
	"time"
)

var (
	wednesday = time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	saturday  = time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC)
	sunday    = time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)
)

func TestNormalizeForexWeekday(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"EURUSD", "frxEURUSD"},
		{"gbpusd", "frxGBPUSD"},
		{" USDJPY ", "frxUSDJPY"},
	}

	for _, tt := range tests {
		got := Normalize(tt.input, wednesday)
		if got.Canonical != tt.expected {
			t.Fatalf("expected %s -> %s, got %s", tt.input, tt.expected, got.Canonical)
		}
		if got.Class != AssetClassForex {
			t.Fatalf("expected forex class for %s, got %s", tt.input, got.Class)
		}
		if got.WeekendVariant {
			t.Fatalf("weekday normalization must not mark %s as weekend variant", tt.input)
		}
	}
}

func TestNormalizeForexWeekendMarker(t *testing.T) {
	sat := Normalize("EURUSD", saturday)
	sun := Normalize("EURUSD", sunday)
	wed := Normalize("EURUSD", wednesday)

	if sat.Canonical != sun.Canonical {
		t.Fatalf("saturday and sunday canonical codes must match: %s vs %s", sat.Canonical, sun.Canonical)
	}
	if sat.Canonical != "frxEURUSD-OTC" {
		t.Fatalf("expected frxEURUSD-OTC on weekend, got %s", sat.Canonical)
	}
	if !sat.WeekendVariant || !sun.WeekendVariant {
		t.Fatalf("weekend normalization must set the weekend-variant marker")
	}
	if wed.Canonical+"-OTC" != sat.Canonical {
		t.Fatalf("weekend code must differ from weekday only by the -OTC marker: %s vs %s", wed.Canonical, sat.Canonical)
	}
}

func TestNormalizeCrypto(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"BTCUSDT", "cryBTCUSD"},
		{"ethusdt", "cryETHUSD"},
		{"DOGEUSD", "cryDOGEUSD"},
		{"cryBTCUSD", "cryBTCUSD"},
	}

	for _, tt := range tests {
		got := Normalize(tt.input, wednesday)
		if got.Canonical != tt.expected {
			t.Fatalf("expected %s -> %s, got %s", tt.input, tt.expected, got.Canonical)
		}
		if got.Class != AssetClassCrypto {
			t.Fatalf("expected crypto class for %s, got %s", tt.input, got.Class)
		}
	}
}

func TestNormalizeSixLetterPairsAreForex(t *testing.T) {
	// Any plain 6-letter pair is a forex pair, even when it ends in USD;
	// only longer USD/USDT-quoted codes are crypto.
	got := Normalize("LTCUSD", wednesday)
	if got.Canonical != "frxLTCUSD" {
		t.Fatalf("expected LTCUSD -> frxLTCUSD, got %s", got.Canonical)
	}
	if got.Class != AssetClassForex {
		t.Fatalf("expected forex class for LTCUSD, got %s", got.Class)
	}
}

func TestNormalizeCryptoIgnoresWeekend(t *testing.T) {
	sat := Normalize("BTCUSDT", saturday)
	if sat.Canonical != "cryBTCUSD" || sat.WeekendVariant {
		t.Fatalf("crypto trades 24/7, got %s weekend=%v", sat.Canonical, sat.WeekendVariant)
	}
}

func TestNormalizeSynthetics(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		class    AssetClass
	}{
		{"R_10", "R_10", AssetClassSyntheticIndex},
		{"VOLATILITY_10", "R_10", AssetClassSyntheticIndex},
		{"VOLATILITY_100", "R_100", AssetClassSyntheticIndex},
		{"BOOM_500", "BOOM_500", AssetClassSyntheticBarrier},
		{"CRASH_300", "CRASH_300", AssetClassSyntheticBarrier},
		{"BOOM500N", "BOOM_500", AssetClassSyntheticBarrier},
		{"CRASH300N", "CRASH_300", AssetClassSyntheticBarrier},
	}

	for _, tt := range tests {
		got := Normalize(tt.input, wednesday)
		if got.Canonical != tt.expected {
			t.Fatalf("expected %s -> %s, got %s", tt.input, tt.expected, got.Canonical)
		}
		if got.Class != tt.class {
			t.Fatalf("expected class %s for %s, got %s", tt.class, tt.input, got.Class)
		}
	}
}

func TestNormalizeUnknownPassthrough(t *testing.T) {
	got := Normalize("SP500", wednesday)
	if got.Canonical != "SP500" {
		t.Fatalf("unknown codes must pass through unchanged, got %s", got.Canonical)
	}
	if got.Class != AssetClassUnknown {
		t.Fatalf("expected unknown class, got %s", got.Class)
	}
}

func TestNormalizeStableWithinDay(t *testing.T) {
	for _, code := range []string{"EURUSD", "BTCUSDT", "R_25", "BOOM_300", "XYZ"} {
		first := Normalize(code, saturday)
		second := Normalize(code, saturday)
		if first != second {
			t.Fatalf("normalization must be stable within a day for %s: %#v vs %#v", code, first, second)
		}
	}
}

func TestDerivCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"BOOM_500", "BOOM500N"},
		{"CRASH_300", "CRASH300N"},
		{"R_10", "R_10"},
		{"EURUSD", "frxEURUSD"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input, wednesday).DerivCode(); got != tt.expected {
			t.Fatalf("expected deriv code %s for %s, got %s", tt.expected, tt.input, got)
		}
	}
}

func TestBridgeDisplay(t *testing.T) {
	tests := []struct {
		input    string
		asOf     time.Time
		expected string
	}{
		{"EURUSD", wednesday, "EUR/USD"},
		{"EURUSD", saturday, "EUR/USD-OTC"},
		{"BTCUSDT", wednesday, "BTC/USD"},
		{"BTCUSD", wednesday, "BTC/USD"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input, tt.asOf).BridgeDisplay(); got != tt.expected {
			t.Fatalf("expected bridge display %s for %s, got %s", tt.expected, tt.input, got)
		}
	}
}
