package postgresql

import (
	"context"
	"fmt"

	"github.com/facturaflow/dashboard/internal/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS facturas (
	id BIGSERIAL PRIMARY KEY,
	codigo_generacion VARCHAR(100) NOT NULL UNIQUE,
	fecha_emision DATE,
	nombre_emisor VARCHAR(255),
	total_pagar NUMERIC(10, 2),
	tipo_dte VARCHAR(10),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_facturas_fecha_emision ON facturas(fecha_emision);
CREATE INDEX IF NOT EXISTS idx_facturas_nombre_emisor ON facturas(nombre_emisor);
`

// EnsureSchema creates the documents table when it does not exist yet
func EnsureSchema(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
