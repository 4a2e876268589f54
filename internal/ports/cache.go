package ports

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss indica que la clave no existe o su entrada expiró.
var ErrCacheMiss = errors.New("cache miss")

// Cache es un almacén clave-valor con expiración, usado para no repetir
// llamadas al proveedor de datos de equipo dentro de la misma ventana.
type Cache interface {
	// Get devuelve el valor de la clave o ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set guarda el valor con el TTL dado, sobrescribiendo si ya existe.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
