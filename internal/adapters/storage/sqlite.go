package storage

// sqlite.go — histórico de trampas detectadas.
//
// Una fila por trampa (mercado × partido × análisis). El histórico
// alimenta los informes de patrones y la estrategia de evitación, así
// que se conserva más tiempo que un cache: 180 días por defecto, con
// prune automático al arrancar.

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS trap_records (
    id          TEXT PRIMARY KEY,
    match_label TEXT NOT NULL,
    home_team   TEXT NOT NULL,
    away_team   TEXT NOT NULL,
    market      TEXT NOT NULL,
    trap_type   TEXT NOT NULL,
    severity    REAL NOT NULL DEFAULT 0,
    confidence  REAL NOT NULL DEFAULT 0,
    match_date  DATETIME,
    detected_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_detected ON trap_records(detected_at DESC);
CREATE INDEX IF NOT EXISTS idx_records_home     ON trap_records(home_team);
CREATE INDEX IF NOT EXISTS idx_records_away     ON trap_records(away_team);
CREATE INDEX IF NOT EXISTS idx_records_market   ON trap_records(market);
`

const defaultRetention = 180 * 24 * time.Hour

// SQLiteStorage implementa ports.TrapStorage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada,
// aplica el schema y limpia registros fuera de retención.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	if n, err := s.Prune(context.Background(), defaultRetention); err != nil {
		slog.Warn("storage: prune on open failed", "error", err)
	} else if n > 0 {
		slog.Debug("storage: pruned old trap records", "count", n)
	}
	return s, nil
}

// Close cierra la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SaveAnalysis inserta una fila por trampa del análisis. El ID de cada
// registro se genera aquí; el núcleo de análisis no conoce identidades.
func (s *SQLiteStorage) SaveAnalysis(ctx context.Context, analysis domain.TrapAnalysis, match domain.MatchContext) error {
	records := domain.RecordsFrom(analysis, match)
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveAnalysis: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trap_records
		(id, match_label, home_team, away_team, market, trap_type, severity, confidence, match_date, detected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage.SaveAnalysis: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			uuid.NewString(), r.Match, r.HomeTeam, r.AwayTeam, r.Market,
			string(r.TrapType), r.Severity, r.Confidence, r.MatchDate, r.DetectedAt)
		if err != nil {
			return fmt.Errorf("storage.SaveAnalysis: insert %s/%s: %w", r.Match, r.Market, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveAnalysis: commit: %w", err)
	}
	return nil
}

// RecentRecords devuelve los registros desde la fecha dada, más recientes primero.
func (s *SQLiteStorage) RecentRecords(ctx context.Context, since time.Time) ([]domain.TrapRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, match_label, home_team, away_team, market, trap_type, severity, confidence, match_date, detected_at
		FROM trap_records
		WHERE detected_at >= ?
		ORDER BY detected_at DESC, market ASC`, since)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentRecords: query: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// RecordsForTeam devuelve los últimos registros donde el equipo jugó,
// como local o visitante.
func (s *SQLiteStorage) RecordsForTeam(ctx context.Context, team string, limit int) ([]domain.TrapRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, match_label, home_team, away_team, market, trap_type, severity, confidence, match_date, detected_at
		FROM trap_records
		WHERE home_team = ? OR away_team = ?
		ORDER BY detected_at DESC, market ASC
		LIMIT ?`, team, team, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RecordsForTeam %q: query: %w", team, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Prune elimina registros más antiguos que la retención dada.
func (s *SQLiteStorage) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	res, err := s.db.ExecContext(ctx, `DELETE FROM trap_records WHERE detected_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("storage.Prune: %w", err)
	}
	return res.RowsAffected()
}

func scanRecords(rows *sql.Rows) ([]domain.TrapRecord, error) {
	var out []domain.TrapRecord
	for rows.Next() {
		var r domain.TrapRecord
		var trapType string
		err := rows.Scan(&r.ID, &r.Match, &r.HomeTeam, &r.AwayTeam, &r.Market,
			&trapType, &r.Severity, &r.Confidence, &r.MatchDate, &r.DetectedAt)
		if err != nil {
			return nil, fmt.Errorf("storage: scan record: %w", err)
		}
		r.TrapType = domain.TrapType(trapType)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate records: %w", err)
	}
	return out, nil
}
