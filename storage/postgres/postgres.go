package postgres

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storebot/config"
	"storebot/pkg/logger"
	"storebot/storage"
)

// DB is satisfied by both *pgxpool.Pool and pgx.Tx so repos run inside or outside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type scanner interface {
	Scan(dest ...any) error
}

type Store struct {
	pool *pgxpool.Pool
	db   DB
	log  logger.ILogger
}

func New(ctx context.Context, cfg config.Config, log logger.ILogger) (storage.IStorage, error) {
	url := cfg.PostgresURL()

	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Error("error while parsing Postgres config", logger.Error(err))
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error("failed to connect Postgres", logger.Error(err))
		return nil, err
	}

	cwd, _ := os.Getwd()
	mPath := filepath.Join(cwd, "migrations")
	if _, err := os.Stat(filepath.Join(cwd, "migrations", "postgres")); err == nil {
		mPath = filepath.Join(cwd, "migrations", "postgres")
	}

	m, err := migrate.New("file://"+mPath, url)
	if err != nil {
		log.Error("migration init error or no migrations found", logger.Error(err))
	} else {
		if err = m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				log.Info("no migrations to apply")
			} else {
				log.Error("migration up error", logger.Error(err))
				pool.Close()
				return nil, err
			}
		}
	}

	log.Info("Postgres connected")

	return &Store{
		pool: pool,
		db:   pool,
		log:  log,
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) GetPool() *pgxpool.Pool {
	return s.pool
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx storage.IStorage) error) error {
	var begin interface {
		Begin(ctx context.Context) (pgx.Tx, error)
	} = s.pool
	if tx, ok := s.db.(pgx.Tx); ok {
		begin = tx
	}
	return pgx.BeginFunc(ctx, begin, func(tx pgx.Tx) error {
		return fn(&Store{pool: s.pool, db: tx, log: s.log})
	})
}

func (s *Store) User() storage.IUserStorage               { return NewUserRepo(s.db, s.log) }
func (s *Store) Product() storage.IProductStorage         { return NewProductRepo(s.db, s.log) }
func (s *Store) Referral() storage.IReferralStorage       { return NewReferralRepo(s.db, s.log) }
func (s *Store) Order() storage.IOrderStorage             { return NewOrderRepo(s.db, s.log) }
func (s *Store) File() storage.IFileStorage               { return NewFileRepo(s.db, s.log) }
func (s *Store) Lottery() storage.ILotteryStorage         { return NewLotteryRepo(s.db, s.log) }
func (s *Store) CRM() storage.ICRMStorage                 { return NewCRMRepo(s.db, s.log) }
func (s *Store) Cooperation() storage.ICooperationStorage { return NewCooperationRepo(s.db, s.log) }

const uniqueViolation = "23505"

func uniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
