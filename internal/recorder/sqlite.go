package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/ashish-frozo/tradingbot/internal/model"
)

// SQLiteRecorder persists tick snapshots and recommendations to SQLite.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so replay tooling can read while the engine writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tick_snapshots (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp          INTEGER NOT NULL,
			symbol             TEXT,
			current_spot       REAL,
			spot_at_open       REAL,
			or_high            REAL,
			or_low             REAL,
			or_width_pct       REAL,
			expected_move_pct  REAL,
			iv_ratio           REAL,
			rr25               REAL,
			realized_vol_pts   REAL,
			pin_strike         REAL,
			pin_distance_pct   REAL,
			liquidity_ok       INTEGER,
			breakout_dir       TEXT,
			score_iron_fly     INTEGER,
			score_orb          INTEGER,
			score_calendar     INTEGER,
			score_straddle     INTEGER,
			recommendation_id  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ticks_ts ON tick_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS recommendations (
			id             TEXT PRIMARY KEY,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT,
			strategy       TEXT,
			spot_at_entry  REAL,
			risk_fraction  REAL,
			max_risk       REAL,
			suggested_lots INTEGER,
			legs_json      TEXT,
			exit_json      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recs_ts ON recommendations(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTick(snap *TickSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sig := snap.Signals
	recID := ""
	if snap.Recommendation != nil {
		recID = snap.Recommendation.ID
	}
	liquidity := 0
	if sig.LiquidityOK {
		liquidity = 1
	}

	_, err := r.db.Exec(`INSERT INTO tick_snapshots
		(timestamp, symbol, current_spot, spot_at_open, or_high, or_low, or_width_pct,
		 expected_move_pct, iv_ratio, rr25, realized_vol_pts,
		 pin_strike, pin_distance_pct, liquidity_ok, breakout_dir,
		 score_iron_fly, score_orb, score_calendar, score_straddle, recommendation_id)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		snap.At.Unix(), snap.Symbol, sig.CurrentSpot, sig.SpotAtOpen,
		sig.OpeningRangeHigh, sig.OpeningRangeLow, sig.OpeningRangeWidthPct,
		sig.ExpectedMovePct, sig.FrontBackIVRatio, sig.RiskReversal25Delta, sig.RealizedVol30mPts,
		sig.PinStrike, sig.PinDistancePct, liquidity, string(sig.Breakout.Direction),
		snap.Scores.IronFly, snap.Scores.ORBITMLong,
		snap.Scores.ATMDoubleCalendar, snap.Scores.DeltaHedgedShortStraddle,
		recID,
	)
	return err
}

func (r *SQLiteRecorder) RecordRecommendation(rec *model.TradeRecommendation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	legs, err := json.Marshal(rec.Legs)
	if err != nil {
		return fmt.Errorf("marshal legs: %w", err)
	}
	exits, err := json.Marshal(rec.ExitRules)
	if err != nil {
		return fmt.Errorf("marshal exits: %w", err)
	}

	_, err = r.db.Exec(`INSERT INTO recommendations
		(id, timestamp, symbol, strategy, spot_at_entry, risk_fraction, max_risk, suggested_lots, legs_json, exit_json)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.GeneratedAt.Unix(), rec.Symbol, rec.StrategyName,
		rec.SpotAtEntry, rec.RiskBudgetFraction, rec.MaxRisk, rec.SuggestedLots,
		string(legs), string(exits),
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
