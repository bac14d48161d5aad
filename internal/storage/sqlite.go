// Package storage provides SQLite-based persistence for duel match results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-duel/internal/duel"
)

// Store manages the SQLite database connection for match history.
type Store struct {
	db *sql.DB
}

// MatchRecord is a stored duel result.
type MatchRecord struct {
	ID           int64
	MatchID      string
	Player1ID    string
	Player1Name  string
	Player2ID    string
	Player2Name  string
	Score1       int
	Score2       int
	WinnerID     string // Empty on disconnect
	EndReason    string // "completed" or "disconnect"
	Rounds       int
	Headshots1   int
	Headshots2   int
	DurationSecs int
	CreatedAt    time.Time
}

// Winner returns the winner's display name, or "-" when nobody won.
func (r MatchRecord) Winner() string {
	switch r.WinnerID {
	case "":
		return "-"
	case r.Player1ID:
		return r.Player1Name
	case r.Player2ID:
		return r.Player2Name
	default:
		return r.WinnerID
	}
}

// PlayerRecord aggregates a player's finished matches.
type PlayerRecord struct {
	Name       string
	Matches    int
	Wins       int
	Losses     int
	Abandoned  int
	Headshots  int
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
// The path ":memory:" opens a private in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		// Expand ~ to home directory
		if dbPath != "" && dbPath[0] == '~' {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
			}
			dbPath = filepath.Join(home, dbPath[1:])
		}

		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// Results are written from a background goroutine; one connection keeps
	// sqlite from reporting SQLITE_BUSY and keeps :memory: a single database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS duel_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			player1_id TEXT NOT NULL,
			player1_name TEXT NOT NULL,
			player2_id TEXT NOT NULL,
			player2_name TEXT NOT NULL,
			score1 INTEGER NOT NULL DEFAULT 0,
			score2 INTEGER NOT NULL DEFAULT 0,
			winner_id TEXT,
			end_reason TEXT NOT NULL,
			rounds INTEGER NOT NULL DEFAULT 0,
			headshots1 INTEGER NOT NULL DEFAULT 0,
			headshots2 INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_duel_matches_player1 ON duel_matches(player1_name);
		CREATE INDEX IF NOT EXISTS idx_duel_matches_player2 ON duel_matches(player2_name);
		CREATE INDEX IF NOT EXISTS idx_duel_matches_created ON duel_matches(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch records a finished duel. Returns the ID of the inserted record.
func (s *Store) SaveMatch(r MatchRecord) (int64, error) {
	var winner sql.NullString
	if r.WinnerID != "" {
		winner = sql.NullString{String: r.WinnerID, Valid: true}
	}

	res, err := s.db.Exec(
		`INSERT INTO duel_matches
		 (match_id, player1_id, player1_name, player2_id, player2_name,
		  score1, score2, winner_id, end_reason, rounds, headshots1, headshots2, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.MatchID,
		r.Player1ID,
		r.Player1Name,
		r.Player2ID,
		r.Player2Name,
		r.Score1,
		r.Score2,
		winner,
		r.EndReason,
		r.Rounds,
		r.Headshots1,
		r.Headshots2,
		r.DurationSecs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SaveMatchResult implements duel.ResultSink.
func (s *Store) SaveMatchResult(data duel.MatchResultData) error {
	_, err := s.SaveMatch(MatchRecord{
		MatchID:      data.MatchID,
		Player1ID:    data.Player1ID,
		Player1Name:  data.Player1Name,
		Player2ID:    data.Player2ID,
		Player2Name:  data.Player2Name,
		Score1:       data.Score1,
		Score2:       data.Score2,
		WinnerID:     data.WinnerID,
		EndReason:    string(data.EndReason),
		Rounds:       data.Rounds,
		Headshots1:   data.Headshots1,
		Headshots2:   data.Headshots2,
		DurationSecs: data.DurationSecs,
	})
	return err
}

var _ duel.ResultSink = (*Store)(nil)

const matchColumns = `id, match_id, player1_id, player1_name, player2_id, player2_name,
	score1, score2, winner_id, end_reason, rounds, headshots1, headshots2, duration_secs, created_at`

// MatchByID retrieves a match by its match ID. Returns nil if not found.
func (s *Store) MatchByID(matchID string) (*MatchRecord, error) {
	row := s.db.QueryRow(`SELECT `+matchColumns+` FROM duel_matches WHERE match_id = ?`, matchID)
	r, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &r, nil
}

// RecentMatches retrieves the most recent matches, newest first.
func (s *Store) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+`
		 FROM duel_matches
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

// PlayerMatches retrieves match history for a player name, newest first.
func (s *Store) PlayerMatches(name string, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+`
		 FROM duel_matches
		 WHERE player1_name = ? OR player2_name = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		name, name, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player matches: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

// PlayerRecord aggregates every stored match the named player took part in.
func (s *Store) PlayerRecord(name string) (*PlayerRecord, error) {
	rec := &PlayerRecord{Name: name}
	var lastPlayed any

	err := s.db.QueryRow(
		`SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN end_reason = 'completed' AND
				((player1_name = ?1 AND winner_id = player1_id) OR (player2_name = ?1 AND winner_id = player2_id))
				THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN end_reason = 'completed' AND
				((player1_name = ?1 AND winner_id = player2_id) OR (player2_name = ?1 AND winner_id = player1_id))
				THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN end_reason <> 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN player1_name = ?1 THEN headshots1 ELSE headshots2 END), 0),
			MAX(created_at)
		 FROM duel_matches
		 WHERE player1_name = ?1 OR player2_name = ?1`,
		name,
	).Scan(&rec.Matches, &rec.Wins, &rec.Losses, &rec.Abandoned, &rec.Headshots, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player record: %w", err)
	}
	rec.LastPlayed = parseTime(lastPlayed)

	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (MatchRecord, error) {
	var r MatchRecord
	var createdAt any
	var winner sql.NullString

	err := row.Scan(
		&r.ID,
		&r.MatchID,
		&r.Player1ID,
		&r.Player1Name,
		&r.Player2ID,
		&r.Player2Name,
		&r.Score1,
		&r.Score2,
		&winner,
		&r.EndReason,
		&r.Rounds,
		&r.Headshots1,
		&r.Headshots2,
		&r.DurationSecs,
		&createdAt,
	)
	if err != nil {
		return r, err
	}

	if winner.Valid {
		r.WinnerID = winner.String
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

func collectMatches(rows *sql.Rows) ([]MatchRecord, error) {
	var results []MatchRecord
	for rows.Next() {
		r, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
