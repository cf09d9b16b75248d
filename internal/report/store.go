// Package report stores simulated game outcomes in SQLite.
package report

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/npow/galactic-uprising/internal/content"
)

//go:embed schema.sql
var schema string

// Game is the outcome of one finished game.
type Game struct {
	Batch      string
	Seed       int64
	Winner     content.Faction
	Turns      int
	Reputation int
	Time       int
	Objectives int
	Destroyed  int
	BaseFound  bool
	Digest     string
	PlayedAt   time.Time
}

// Summary aggregates the games of a batch.
type Summary struct {
	Batch         string
	Games         int
	Wins          map[content.Faction]int
	AvgTurns      float64
	AvgReputation float64
	BaseFound     int
}

// Store persists outcomes in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the database at path and creates the schema. ":memory:" opens
// a private in-memory database.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A second connection to ":memory:" would see an empty database.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Record inserts one game.
func (s *Store) Record(ctx context.Context, g Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if g.Batch == "" {
		return fmt.Errorf("batch is required")
	}
	if !g.Winner.Valid() {
		return fmt.Errorf("invalid winner %q", g.Winner)
	}
	if g.PlayedAt.IsZero() {
		g.PlayedAt = time.Now()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO games (
		   batch, seed, winner, turns, reputation, time_marker,
		   objectives, destroyed, base_found, digest, played_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.Batch, g.Seed, string(g.Winner), g.Turns, g.Reputation, g.Time,
		g.Objectives, g.Destroyed, g.BaseFound, g.Digest, g.PlayedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// Games lists the games of a batch in insertion order.
func (s *Store) Games(ctx context.Context, batch string) ([]Game, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT batch, seed, winner, turns, reputation, time_marker,
		        objectives, destroyed, base_found, digest, played_at
		   FROM games WHERE batch = ? ORDER BY id`, batch)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var out []Game
	for rows.Next() {
		var (
			g        Game
			winner   string
			playedAt int64
		)
		if err := rows.Scan(&g.Batch, &g.Seed, &winner, &g.Turns, &g.Reputation, &g.Time,
			&g.Objectives, &g.Destroyed, &g.BaseFound, &g.Digest, &playedAt); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		g.Winner = content.Faction(winner)
		g.PlayedAt = time.UnixMilli(playedAt).UTC()
		out = append(out, g)
	}
	return out, rows.Err()
}

// Summarize aggregates a batch.
func (s *Store) Summarize(ctx context.Context, batch string) (Summary, error) {
	sum := Summary{Batch: batch, Wins: make(map[content.Faction]int, 2)}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(turns), 0), COALESCE(AVG(reputation), 0), COALESCE(SUM(base_found), 0)
		   FROM games WHERE batch = ?`, batch)
	if err := row.Scan(&sum.Games, &sum.AvgTurns, &sum.AvgReputation, &sum.BaseFound); err != nil {
		return Summary{}, fmt.Errorf("summarize batch: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT winner, COUNT(*) FROM games WHERE batch = ? GROUP BY winner`, batch)
	if err != nil {
		return Summary{}, fmt.Errorf("count wins: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			winner string
			n      int
		)
		if err := rows.Scan(&winner, &n); err != nil {
			return Summary{}, fmt.Errorf("scan wins: %w", err)
		}
		sum.Wins[content.Faction(winner)] = n
	}
	return sum, rows.Err()
}

// String renders the summary as a short report.
func (s Summary) String() string {
	if s.Games == 0 {
		return fmt.Sprintf("Batch %s: no games.", s.Batch)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Batch %s: %d games\n", s.Batch, s.Games)
	for _, f := range content.Factions {
		n := s.Wins[f]
		fmt.Fprintf(&b, "  %-10s %4d wins (%5.1f%%)\n", f.Title(), n, 100*float64(n)/float64(s.Games))
	}
	fmt.Fprintf(&b, "  average length %.1f turns, final reputation %.1f\n", s.AvgTurns, s.AvgReputation)
	fmt.Fprintf(&b, "  base found in %d games", s.BaseFound)
	return b.String()
}
