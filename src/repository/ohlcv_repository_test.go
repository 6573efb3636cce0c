package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"signalrouter/src/model"
)

func candle(t time.Time, open, high, low, closePx, vol int64) model.OHLCVCrypto1m {
	return model.OHLCVCrypto1m{
		Symbol:   "BTC_USDT",
		Datetime: t,
		Open:     decimal.NewFromInt(open),
		High:     decimal.NewFromInt(high),
		Low:      decimal.NewFromInt(low),
		Close:    decimal.NewFromInt(closePx),
		Volume:   decimal.NewFromInt(vol),
	}
}

func TestAggregateOHLCVFrom1m_FiveMinuteBuckets(t *testing.T) {
	base := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	in := []model.OHLCVCrypto1m{
		candle(base, 100, 105, 99, 104, 1),
		candle(base.Add(1*time.Minute), 104, 110, 103, 108, 2),
		candle(base.Add(2*time.Minute), 108, 109, 101, 102, 3),
		// next bucket
		candle(base.Add(5*time.Minute), 102, 103, 100, 101, 4),
	}

	out, err := AggregateOHLCVFrom1m(in, 5*time.Minute)
	if err != nil {
		t.Fatalf("aggregate returned error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(out))
	}

	first := out[0]
	if !first.Datetime.Equal(base) {
		t.Fatalf("bucket open time wrong: %v", first.Datetime)
	}
	if !first.Open.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("bucket open wrong: %s", first.Open)
	}
	if !first.High.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("bucket high wrong: %s", first.High)
	}
	if !first.Low.Equal(decimal.NewFromInt(99)) {
		t.Fatalf("bucket low wrong: %s", first.Low)
	}
	if !first.Close.Equal(decimal.NewFromInt(102)) {
		t.Fatalf("bucket close wrong: %s", first.Close)
	}
	if !first.Volume.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("bucket volume wrong: %s", first.Volume)
	}

	if !out[1].Datetime.Equal(base.Add(5 * time.Minute)) {
		t.Fatalf("second bucket open time wrong: %v", out[1].Datetime)
	}
}

func TestAggregateOHLCVFrom1m_OffBoundaryAlignment(t *testing.T) {
	// 12:07 with a 5m interval must land in the 12:05 bucket.
	at := time.Date(2025, 3, 5, 12, 7, 0, 0, time.UTC)
	out, err := AggregateOHLCVFrom1m([]model.OHLCVCrypto1m{candle(at, 100, 101, 99, 100, 1)}, 5*time.Minute)
	if err != nil {
		t.Fatalf("aggregate returned error: %v", err)
	}
	want := time.Date(2025, 3, 5, 12, 5, 0, 0, time.UTC)
	if len(out) != 1 || !out[0].Datetime.Equal(want) {
		t.Fatalf("expected bucket at %v, got %+v", want, out)
	}
}

func TestAggregateOHLCVFrom1m_RejectsUnsupportedInterval(t *testing.T) {
	_, err := AggregateOHLCVFrom1m(nil, 7*time.Minute)
	if !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestAggregateOHLCVFrom1m_Empty(t *testing.T) {
	out, err := AggregateOHLCVFrom1m(nil, 5*time.Minute)
	if err != nil {
		t.Fatalf("aggregate returned error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no buckets, got %d", len(out))
	}
}
