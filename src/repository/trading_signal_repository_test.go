package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestTradingSignalRepositoryQueries(t *testing.T) {
	db, mock := newMockDB(t)
	repo := (&TradingSignalRepository{}).WithDB(db)

	createdAt := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "symbol", "signal_type", "score", "expiration", "created_at"}).
		AddRow("sig-2", "R_100", "sell", 0.8, 5, createdAt.Add(time.Minute)).
		AddRow("sig-1", "EURUSD", "buy", 0.7, 5, createdAt)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trading_signals" ORDER BY created_at DESC LIMIT $1`)).
		WithArgs(20).
		WillReturnRows(rows)

	signals, err := repo.FindLatest(context.Background(), 0)
	if err != nil {
		t.Fatalf("expected FindLatest to succeed, got %v", err)
	}
	if len(signals) != 2 || signals[0].ID != "sig-2" {
		t.Fatalf("signals not returned newest first: %+v", signals)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trading_signals" WHERE id = $1 ORDER BY "trading_signals"."id" LIMIT $2`)).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	found, err := repo.FindByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("missing signal must not be an error, got %v", err)
	}
	if found != nil {
		t.Fatalf("expected nil for missing signal, got %+v", found)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trading_signals" WHERE symbol = $1 ORDER BY created_at DESC LIMIT $2`)).
		WithArgs("EURUSD", 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "symbol"}).AddRow("sig-1", "EURUSD"))

	bySymbol, err := repo.FindBySymbol(context.Background(), "EURUSD", 0)
	if err != nil {
		t.Fatalf("expected FindBySymbol to succeed, got %v", err)
	}
	if len(bySymbol) != 1 || bySymbol[0].Symbol != "EURUSD" {
		t.Fatalf("unexpected signals by symbol: %+v", bySymbol)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}
