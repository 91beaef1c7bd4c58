package relationaldb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

// SaleRow is one sale in the discovery index. Identifiers are hex.
type SaleRow struct {
	ID         string
	Position   uint64
	Creator    string
	Seller     string
	OfferAsset string
	BaseAsset  string
	StartTime  int64
	EndTime    int64
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sales (
		id          TEXT PRIMARY KEY,
		position    BIGINT NOT NULL,
		creator     TEXT NOT NULL,
		seller      TEXT NOT NULL,
		offer_asset TEXT NOT NULL,
		base_asset  TEXT NOT NULL,
		start_time  BIGINT NOT NULL,
		end_time    BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS sales_seller_idx ON sales (seller, position)`,
}

// SaleIndex is a secondary, rebuildable index of sales kept in a relational
// database so sales can be queried by seller.
type SaleIndex struct {
	db     *sql.DB
	config *Config
}

// OpenSaleIndex connects, configures the pool and creates the schema.
func OpenSaleIndex(ctx context.Context, config *Config) (*SaleIndex, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigurationError("open", "invalid configuration", err)
	}
	connStr, err := config.BuildConnectionString()
	if err != nil {
		return nil, NewConfigurationError("open", "failed to build connection string", err)
	}

	sqlDB, err := sql.Open(config.Driver, connStr)
	if err != nil {
		return nil, NewConnectionError("open", "failed to open database connection", err)
	}
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	idx := &SaleIndex{db: sqlDB, config: config}

	pingCtx, cancel := context.WithTimeout(ctx, config.DefaultTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, NewConnectionError("open", "failed to ping database", err)
	}

	for _, stmt := range schema {
		if _, err := sqlDB.ExecContext(pingCtx, stmt); err != nil {
			sqlDB.Close()
			return nil, NewSchemaError("open", "failed to initialize schema", err)
		}
	}
	return idx, nil
}

// Close closes the database connection
func (i *SaleIndex) Close() error {
	if i.db == nil {
		return nil
	}
	err := i.db.Close()
	i.db = nil
	if err != nil {
		return NewConnectionError("close", "failed to close database connection", err)
	}
	return nil
}

// Ping tests the database connection
func (i *SaleIndex) Ping(ctx context.Context) error {
	if i.db == nil {
		return ErrDatabaseClosed
	}
	ctx, cancel := context.WithTimeout(ctx, i.config.DefaultTimeout)
	defer cancel()
	if err := i.db.PingContext(ctx); err != nil {
		return NewConnectionError("ping", "database ping failed", err)
	}
	return nil
}

// rebind rewrites ? placeholders into $n for postgres.
func (i *SaleIndex) rebind(query string) string {
	if i.config.Driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Put records a sale. Re-indexing an existing sale is a no-op.
func (i *SaleIndex) Put(ctx context.Context, row SaleRow) error {
	if i.db == nil {
		return ErrDatabaseClosed
	}
	ctx, cancel := context.WithTimeout(ctx, i.config.DefaultTimeout)
	defer cancel()

	_, err := i.db.ExecContext(ctx, i.rebind(`
		INSERT INTO sales (id, position, creator, seller, offer_asset, base_asset, start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`),
		row.ID, int64(row.Position), row.Creator, row.Seller, row.OfferAsset, row.BaseAsset, row.StartTime, row.EndTime)
	if err != nil {
		return NewQueryError("put", fmt.Sprintf("failed to index sale %s", row.ID), err)
	}
	return nil
}

// BySeller returns the sales of one seller in creation order.
func (i *SaleIndex) BySeller(ctx context.Context, seller string) ([]SaleRow, error) {
	if i.db == nil {
		return nil, ErrDatabaseClosed
	}
	ctx, cancel := context.WithTimeout(ctx, i.config.DefaultTimeout)
	defer cancel()

	rows, err := i.db.QueryContext(ctx, i.rebind(`
		SELECT id, position, creator, seller, offer_asset, base_asset, start_time, end_time
		FROM sales WHERE seller = ? ORDER BY position`), seller)
	if err != nil {
		return nil, NewQueryError("by_seller", "query failed", err)
	}
	defer rows.Close()

	var out []SaleRow
	for rows.Next() {
		var (
			row      SaleRow
			position int64
		)
		if err := rows.Scan(&row.ID, &position, &row.Creator, &row.Seller, &row.OfferAsset, &row.BaseAsset, &row.StartTime, &row.EndTime); err != nil {
			return nil, NewQueryError("by_seller", "scan failed", err)
		}
		row.Position = uint64(position)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, NewQueryError("by_seller", "iteration failed", err)
	}
	return out, nil
}

// Count returns the number of indexed sales.
func (i *SaleIndex) Count(ctx context.Context) (uint64, error) {
	if i.db == nil {
		return 0, ErrDatabaseClosed
	}
	ctx, cancel := context.WithTimeout(ctx, i.config.DefaultTimeout)
	defer cancel()

	var n int64
	if err := i.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales`).Scan(&n); err != nil {
		return 0, NewQueryError("count", "query failed", err)
	}
	return uint64(n), nil
}

// Reset drops every indexed row ahead of a rebuild.
func (i *SaleIndex) Reset(ctx context.Context) error {
	if i.db == nil {
		return ErrDatabaseClosed
	}
	ctx, cancel := context.WithTimeout(ctx, i.config.DefaultTimeout)
	defer cancel()

	if _, err := i.db.ExecContext(ctx, `DELETE FROM sales`); err != nil {
		return NewQueryError("reset", "delete failed", err)
	}
	return nil
}
