package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/trading-server/internal/types"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal opens or creates the journal database at path.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	journal := &SQLiteJournal{db: db}
	if err := journal.Migrate(context.Background()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return journal, nil
}

// Migrate runs database migrations.
func (j *SQLiteJournal) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id TEXT PRIMARY KEY,
			symbol TEXT NOT NULL,
			side INTEGER NOT NULL,
			execution_condition INTEGER NOT NULL,
			volume INTEGER NOT NULL,
			spread TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			was_opened INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_started_at ON trades(started_at)`,

		`CREATE TABLE IF NOT EXISTS trade_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			trade_id TEXT NOT NULL REFERENCES trades(id),
			position INTEGER NOT NULL,
			type INTEGER NOT NULL,
			timestamp DATETIME NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			price TEXT NOT NULL DEFAULT '0',
			take_profit TEXT,
			stop_loss TEXT,
			expiration DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trade_events_trade_id ON trade_events(trade_id)`,
	}

	for _, migration := range migrations {
		if _, err := j.db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

// SaveTrade implements Journal.
func (j *SQLiteJournal) SaveTrade(ctx context.Context, trade types.CompletedTrade) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	startedAt := time.Time{}
	if len(trade.Events) > 0 {
		startedAt = trade.Events[0].Time
	}
	opened := 0
	if trade.WasOpened() {
		opened = 1
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trades (id, symbol, side, execution_condition, volume, spread, started_at, was_opened)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		trade.ID,
		string(trade.Symbol),
		trade.Type,
		trade.Condition,
		trade.Volume,
		trade.Spread.String(),
		startedAt,
		opened,
	)
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}

	for position, event := range trade.Events {
		var takeProfit, stopLoss any
		var expiration any
		if event.Conditions != nil {
			takeProfit = event.Conditions.TakeProfit.String()
			stopLoss = event.Conditions.StopLoss.String()
			if event.Conditions.HasExpiration() {
				expiration = event.Conditions.Expiration
			}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO trade_events (trade_id, position, type, timestamp, reason, price, take_profit, stop_loss, expiration)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			trade.ID,
			position,
			event.Type,
			event.Time,
			event.Reason,
			event.Price.String(),
			takeProfit,
			stopLoss,
			expiration,
		)
		if err != nil {
			return fmt.Errorf("insert trade event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit trade: %w", err)
	}
	return nil
}

// GetTrades implements Journal.
func (j *SQLiteJournal) GetTrades(ctx context.Context, from, to time.Time) ([]types.CompletedTrade, error) {
	query := `SELECT id, symbol, side, execution_condition, volume, spread
		FROM trades WHERE started_at BETWEEN ? AND ? ORDER BY started_at`
	return j.queryTrades(ctx, query, from, to)
}

// GetTradesBySymbol implements Journal.
func (j *SQLiteJournal) GetTradesBySymbol(ctx context.Context, symbol types.Symbol, limit int) ([]types.CompletedTrade, error) {
	query := `SELECT id, symbol, side, execution_condition, volume, spread
		FROM trades WHERE symbol = ? ORDER BY started_at DESC LIMIT ?`
	return j.queryTrades(ctx, query, string(symbol), limit)
}

func (j *SQLiteJournal) queryTrades(ctx context.Context, query string, args ...any) ([]types.CompletedTrade, error) {
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var trades []types.CompletedTrade
	for rows.Next() {
		var trade types.CompletedTrade
		var symbol, spread string

		if err := rows.Scan(&trade.ID, &symbol, &trade.Type, &trade.Condition, &trade.Volume, &spread); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		trade.Symbol = types.Symbol(symbol)
		trade.Spread, _ = decimal.NewFromString(spread)

		trade.Events, err = j.queryEvents(ctx, trade.ID)
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}

	return trades, rows.Err()
}

func (j *SQLiteJournal) queryEvents(ctx context.Context, tradeID string) ([]types.TradeEvent, error) {
	query := `SELECT type, timestamp, reason, price, take_profit, stop_loss, expiration
		FROM trade_events WHERE trade_id = ? ORDER BY position`

	rows, err := j.db.QueryContext(ctx, query, tradeID)
	if err != nil {
		return nil, fmt.Errorf("query trade events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []types.TradeEvent
	for rows.Next() {
		var event types.TradeEvent
		var price string
		var takeProfit, stopLoss sql.NullString
		var expiration sql.NullTime

		if err := rows.Scan(&event.Type, &event.Time, &event.Reason, &price, &takeProfit, &stopLoss, &expiration); err != nil {
			return nil, fmt.Errorf("scan trade event: %w", err)
		}
		event.Price, _ = decimal.NewFromString(price)

		if takeProfit.Valid && stopLoss.Valid {
			conditions := types.CloseConditions{}
			conditions.TakeProfit, _ = decimal.NewFromString(takeProfit.String)
			conditions.StopLoss, _ = decimal.NewFromString(stopLoss.String)
			if expiration.Valid {
				conditions.Expiration = expiration.Time
			}
			event.Conditions = &conditions
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// Close closes the underlying database.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
