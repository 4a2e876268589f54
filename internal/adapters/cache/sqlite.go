package cache

// sqlite.go — cache clave-valor con TTL sobre SQLite. Evita repetir
// llamadas al proveedor de datos de equipo: los perfiles cambian poco
// dentro de una misma jornada.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alejandrodnm/trapmap/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS cache_entries (
    key        TEXT PRIMARY KEY,
    value      BLOB NOT NULL,
    expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cache_expires ON cache_entries(expires_at);
`

// DefaultTTL es la expiración por defecto de las entradas.
const DefaultTTL = time.Hour

// SQLiteCache implementa ports.Cache. El clock es inyectable para poder
// avanzar el tiempo en los tests sin dormir.
type SQLiteCache struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteCache abre (o crea) el cache en la ruta dada y purga las
// entradas expiradas.
func NewSQLiteCache(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache.NewSQLiteCache: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache.NewSQLiteCache: apply schema: %w", err)
	}

	c := &SQLiteCache{db: db, now: time.Now}
	c.purgeExpired(context.Background())
	return c, nil
}

// Close cierra la base de datos.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Get devuelve el valor de la clave o ports.ErrCacheMiss si no existe
// o ya expiró. Las entradas expiradas se borran al encontrarlas.
func (c *SQLiteCache) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	var expires time.Time
	err := c.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM cache_entries WHERE key = ?`, key).Scan(&value, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache.Get %q: %w", key, err)
	}

	if c.now().After(expires) {
		c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
		return nil, ports.ErrCacheMiss
	}
	return value, nil
}

// Set guarda el valor con el TTL dado, sobrescribiendo si ya existe.
// Un TTL no positivo usa DefaultTTL.
func (c *SQLiteCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, c.now().Add(ttl))
	if err != nil {
		return fmt.Errorf("cache.Set %q: %w", key, err)
	}
	return nil
}

func (c *SQLiteCache) purgeExpired(ctx context.Context) {
	c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE expires_at < ?`, c.now())
}
