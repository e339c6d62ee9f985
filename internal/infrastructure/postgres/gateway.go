package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrPoolTimeout is returned when no pooled connection frees up within the acquire timeout.
var ErrPoolTimeout = errors.New("postgres: timed out waiting for a connection")

// Querier is the statement surface shared by pooled connections, transactions and mocks.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is a Querier that can open transactions.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Gateway runs parameterized statements against Postgres. Each Run acquires one
// connection from the pool, bounded by acquireTimeout, and releases it afterwards.
type Gateway struct {
	pool           *pgxpool.Pool
	db             DB
	acquireTimeout time.Duration
}

func NewGateway(pool *pgxpool.Pool, acquireTimeout time.Duration) *Gateway {
	return &Gateway{pool: pool, acquireTimeout: acquireTimeout}
}

// NewGatewayFromDB wraps an already open connection (or a mock); no pooled acquisition happens.
func NewGatewayFromDB(db DB) *Gateway {
	return &Gateway{db: db}
}

// Run executes fn with a scoped connection.
func (g *Gateway) Run(ctx context.Context, fn func(ctx context.Context, q DB) error) error {
	if g.pool == nil {
		return fn(ctx, g.db)
	}
	conn, err := g.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()
	return fn(ctx, conn)
}

// InTx executes fn inside a transaction, committing on nil and rolling back otherwise.
func (g *Gateway) InTx(ctx context.Context, fn func(ctx context.Context, q Querier) error) error {
	return g.Run(ctx, func(ctx context.Context, db DB) error {
		tx, err := db.Begin(ctx)
		if err != nil {
			return err
		}
		if err := fn(ctx, tx); err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
		return tx.Commit(ctx)
	})
}

func (g *Gateway) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	actx := ctx
	if g.acquireTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, g.acquireTimeout)
		defer cancel()
	}
	conn, err := g.pool.Acquire(actx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, ErrPoolTimeout
		}
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return conn, nil
}
