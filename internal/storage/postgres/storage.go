package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/solstream/rewards/internal/domain/errors"
	"github.com/solstream/rewards/internal/domain/model"
	"github.com/solstream/rewards/internal/domain/repository"
	pts "github.com/solstream/rewards/internal/pkg/points"
)

// pgxPool abstracts the pgxpool.Pool surface used by the storage so tests
// can substitute a mock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type principalRepository struct {
	storage *Storage
}

type globalRepository struct {
	storage *Storage
}

type ledgerRepository struct {
	storage *Storage
}

type vaultRepository struct {
	storage *Storage
}

type activityRepository struct {
	storage *Storage
}

type payoutRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Principals() repository.PrincipalRepository {
	return &principalRepository{storage: s}
}

func (s *Storage) Globals() repository.GlobalRepository {
	return &globalRepository{storage: s}
}

func (s *Storage) Ledgers() repository.LedgerRepository {
	return &ledgerRepository{storage: s}
}

func (s *Storage) Vault() repository.VaultRepository {
	return &vaultRepository{storage: s}
}

func (s *Storage) Activities() repository.ActivityRepository {
	return &activityRepository{storage: s}
}

func (s *Storage) Payouts() repository.PayoutRepository {
	return &payoutRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS principals (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS global_state (
            id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
            admin_identity TEXT NOT NULL,
            conversion_rate BIGINT NOT NULL CHECK (conversion_rate > 0),
            total_points_distributed BIGINT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS user_ledgers (
            identity TEXT PRIMARY KEY,
            account_class TEXT NOT NULL,
            points BIGINT NOT NULL DEFAULT 0 CHECK (points >= 0),
            total_earned BIGINT NOT NULL DEFAULT 0 CHECK (total_earned >= 0),
            total_redeemed BIGINT NOT NULL DEFAULT 0 CHECK (total_redeemed >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS vault (
            id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
            balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS activities (
            id SERIAL PRIMARY KEY,
            identity TEXT NOT NULL REFERENCES user_ledgers(identity),
            activity_type TEXT NOT NULL,
            points BIGINT NOT NULL,
            recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS payouts (
            id SERIAL PRIMARY KEY,
            identity TEXT NOT NULL REFERENCES user_ledgers(identity),
            points BIGINT NOT NULL,
            amount BIGINT NOT NULL,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            settled_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS fundings (
            id SERIAL PRIMARY KEY,
            funder TEXT NOT NULL,
            amount BIGINT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`INSERT INTO vault (id, balance) VALUES (1, 0) ON CONFLICT (id) DO NOTHING`,
		`CREATE INDEX IF NOT EXISTS idx_activities_identity ON activities(identity, recorded_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_payouts_identity ON payouts(identity, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_payouts_status ON payouts(status, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- PrincipalRepository implementation ---

func (r *principalRepository) Create(ctx context.Context, login, passwordHash string) (*model.Principal, error) {
	const query = `INSERT INTO principals (login, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	var p model.Principal
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	p.Login = login
	p.PasswordHash = passwordHash
	return &p, nil
}

func (r *principalRepository) GetByLogin(ctx context.Context, login string) (*model.Principal, error) {
	const query = `SELECT id, login, password_hash, created_at FROM principals WHERE login=$1`
	var p model.Principal
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&p.ID, &p.Login, &p.PasswordHash, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *principalRepository) GetByID(ctx context.Context, id int64) (*model.Principal, error) {
	const query = `SELECT id, login, password_hash, created_at FROM principals WHERE id=$1`
	var p model.Principal
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Login, &p.PasswordHash, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// --- GlobalRepository implementation ---

func (r *globalRepository) Init(ctx context.Context, adminIdentity string, conversionRate uint64) (*model.GlobalConfig, error) {
	const query = `INSERT INTO global_state (id, admin_identity, conversion_rate) VALUES (1, $1, $2)
                   ON CONFLICT (id) DO NOTHING
                   RETURNING total_points_distributed, created_at, updated_at`
	var (
		distributed int64
		cfg         model.GlobalConfig
	)
	err := r.storage.pool.QueryRow(ctx, query, adminIdentity, int64(conversionRate)).
		Scan(&distributed, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	cfg.AdminIdentity = adminIdentity
	cfg.ConversionRate = conversionRate
	cfg.TotalPointsDistributed = uint64(distributed)
	return &cfg, nil
}

func (r *globalRepository) Get(ctx context.Context) (*model.GlobalConfig, error) {
	const query = `SELECT admin_identity, conversion_rate, total_points_distributed, created_at, updated_at
                   FROM global_state WHERE id=1`
	var (
		rate        int64
		distributed int64
		cfg         model.GlobalConfig
	)
	err := r.storage.pool.QueryRow(ctx, query).
		Scan(&cfg.AdminIdentity, &rate, &distributed, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	cfg.ConversionRate = uint64(rate)
	cfg.TotalPointsDistributed = uint64(distributed)
	return &cfg, nil
}

func (r *globalRepository) UpdateRate(ctx context.Context, conversionRate uint64) error {
	const query = `UPDATE global_state SET conversion_rate=$1, updated_at=NOW() WHERE id=1`
	tag, err := r.storage.pool.Exec(ctx, query, int64(conversionRate))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- LedgerRepository implementation ---

func (r *ledgerRepository) Create(ctx context.Context, identity string, class model.AccountClass) (*model.UserLedger, error) {
	const query = `INSERT INTO user_ledgers (identity, account_class) VALUES ($1, $2)
                   ON CONFLICT (identity) DO NOTHING
                   RETURNING points, total_earned, total_redeemed, created_at, updated_at`
	var (
		pointsBalance int64
		earned        int64
		redeemed      int64
		ledger        model.UserLedger
	)
	err := r.storage.pool.QueryRow(ctx, query, identity, class).
		Scan(&pointsBalance, &earned, &redeemed, &ledger.CreatedAt, &ledger.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	ledger.Identity = identity
	ledger.AccountClass = class
	ledger.Points = uint64(pointsBalance)
	ledger.TotalEarned = uint64(earned)
	ledger.TotalRedeemed = uint64(redeemed)
	return &ledger, nil
}

func (r *ledgerRepository) GetByIdentity(ctx context.Context, identity string) (*model.UserLedger, error) {
	const query = `SELECT identity, account_class, points, total_earned, total_redeemed, created_at, updated_at
                   FROM user_ledgers WHERE identity=$1`
	return scanLedgerRow(r.storage.pool.QueryRow(ctx, query, identity))
}

func scanLedgerRow(row pgx.Row) (*model.UserLedger, error) {
	var (
		pointsBalance int64
		earned        int64
		redeemed      int64
		ledger        model.UserLedger
	)
	err := row.Scan(&ledger.Identity, &ledger.AccountClass, &pointsBalance, &earned, &redeemed, &ledger.CreatedAt, &ledger.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	ledger.Points = uint64(pointsBalance)
	ledger.TotalEarned = uint64(earned)
	ledger.TotalRedeemed = uint64(redeemed)
	return &ledger, nil
}

func (r *ledgerRepository) Accrue(ctx context.Context, identity string, amount uint64, activity model.ActivityType) (*model.UserLedger, error) {
	var result *model.UserLedger
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockLedger = `SELECT points, total_earned FROM user_ledgers WHERE identity=$1 FOR UPDATE`
		var pointsBalance, earned int64
		if err := tx.QueryRow(ctx, lockLedger, identity).Scan(&pointsBalance, &earned); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		const lockGlobal = `SELECT total_points_distributed FROM global_state WHERE id=1 FOR UPDATE`
		var distributed int64
		if err := tx.QueryRow(ctx, lockGlobal).Scan(&distributed); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		newPoints, err := pts.CheckedAdd(uint64(pointsBalance), amount)
		if err != nil {
			return domainErrors.ErrOverflow
		}
		newEarned, err := pts.CheckedAdd(uint64(earned), amount)
		if err != nil {
			return domainErrors.ErrOverflow
		}
		newDistributed, err := pts.CheckedAdd(uint64(distributed), amount)
		if err != nil {
			return domainErrors.ErrOverflow
		}

		const updateLedger = `UPDATE user_ledgers SET points=$1, total_earned=$2, updated_at=NOW()
                              WHERE identity=$3
                              RETURNING identity, account_class, points, total_earned, total_redeemed, created_at, updated_at`
		ledger, err := scanLedgerRow(tx.QueryRow(ctx, updateLedger, int64(newPoints), int64(newEarned), identity))
		if err != nil {
			return err
		}

		const updateGlobal = `UPDATE global_state SET total_points_distributed=$1, updated_at=NOW() WHERE id=1`
		if _, err := tx.Exec(ctx, updateGlobal, int64(newDistributed)); err != nil {
			return err
		}

		const insertActivity = `INSERT INTO activities (identity, activity_type, points) VALUES ($1, $2, $3)`
		if _, err := tx.Exec(ctx, insertActivity, identity, activity, int64(amount)); err != nil {
			return err
		}

		result = ledger
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *ledgerRepository) Redeem(ctx context.Context, identity string) (*model.Payout, error) {
	var result *model.Payout
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockLedger = `SELECT points, total_redeemed FROM user_ledgers WHERE identity=$1 FOR UPDATE`
		var pointsBalance, redeemed int64
		if err := tx.QueryRow(ctx, lockLedger, identity).Scan(&pointsBalance, &redeemed); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if uint64(pointsBalance) < model.MinRedeemPoints {
			return domainErrors.ErrInsufficientBalance
		}

		const selectRate = `SELECT conversion_rate FROM global_state WHERE id=1`
		var rate int64
		if err := tx.QueryRow(ctx, selectRate).Scan(&rate); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		amount, err := pts.PayoutAmount(uint64(pointsBalance), uint64(rate))
		if err != nil {
			if errors.Is(err, pts.ErrInvalidRate) {
				return domainErrors.ErrInvalidArgument
			}
			return domainErrors.ErrOverflow
		}

		const lockVault = `SELECT balance FROM vault WHERE id=1 FOR UPDATE`
		var vaultBalance int64
		if err := tx.QueryRow(ctx, lockVault).Scan(&vaultBalance); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if amount > uint64(vaultBalance) {
			return domainErrors.ErrInsufficientBalance
		}

		newRedeemed, err := pts.CheckedAdd(uint64(redeemed), uint64(pointsBalance))
		if err != nil {
			return domainErrors.ErrOverflow
		}

		const debitVault = `UPDATE vault SET balance=balance-$1, updated_at=NOW() WHERE id=1`
		if _, err := tx.Exec(ctx, debitVault, int64(amount)); err != nil {
			return err
		}

		const drainLedger = `UPDATE user_ledgers SET points=0, total_redeemed=$1, updated_at=NOW() WHERE identity=$2`
		if _, err := tx.Exec(ctx, drainLedger, int64(newRedeemed), identity); err != nil {
			return err
		}

		const insertPayout = `INSERT INTO payouts (identity, points, amount, status) VALUES ($1, $2, $3, $4)
                              RETURNING id, created_at`
		payout := model.Payout{
			Identity: identity,
			Points:   uint64(pointsBalance),
			Amount:   amount,
			Status:   model.PayoutStatusPending,
		}
		if err := tx.QueryRow(ctx, insertPayout, identity, pointsBalance, int64(amount), model.PayoutStatusPending).
			Scan(&payout.ID, &payout.CreatedAt); err != nil {
			return err
		}

		result = &payout
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// --- VaultRepository implementation ---

func (r *vaultRepository) Balance(ctx context.Context) (*model.VaultBalance, error) {
	const query = `SELECT balance, updated_at FROM vault WHERE id=1`
	var (
		balance int64
		vault   model.VaultBalance
	)
	err := r.storage.pool.QueryRow(ctx, query).Scan(&balance, &vault.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	vault.Balance = uint64(balance)
	return &vault, nil
}

func (r *vaultRepository) Deposit(ctx context.Context, funder string, amount uint64) (*model.VaultBalance, error) {
	var result *model.VaultBalance
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockVault = `SELECT balance FROM vault WHERE id=1 FOR UPDATE`
		var balance int64
		if err := tx.QueryRow(ctx, lockVault).Scan(&balance); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		newBalance, err := pts.CheckedAdd(uint64(balance), amount)
		if err != nil {
			return domainErrors.ErrOverflow
		}

		const creditVault = `UPDATE vault SET balance=$1, updated_at=NOW() WHERE id=1 RETURNING balance, updated_at`
		var (
			credited int64
			vault    model.VaultBalance
		)
		if err := tx.QueryRow(ctx, creditVault, int64(newBalance)).Scan(&credited, &vault.UpdatedAt); err != nil {
			return err
		}
		vault.Balance = uint64(credited)

		const insertFunding = `INSERT INTO fundings (funder, amount) VALUES ($1, $2)`
		if _, err := tx.Exec(ctx, insertFunding, funder, int64(amount)); err != nil {
			return err
		}

		result = &vault
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// --- ActivityRepository implementation ---

func (r *activityRepository) ListByIdentity(ctx context.Context, identity string) ([]model.Activity, error) {
	const query = `SELECT id, identity, activity_type, points, recorded_at
                   FROM activities WHERE identity=$1 ORDER BY recorded_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, identity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Activity
	for rows.Next() {
		var (
			a             model.Activity
			pointsAwarded int64
		)
		if err := rows.Scan(&a.ID, &a.Identity, &a.Type, &pointsAwarded, &a.RecordedAt); err != nil {
			return nil, err
		}
		a.Points = uint64(pointsAwarded)
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- PayoutRepository implementation ---

func scanPayout(rows pgx.Rows) (model.Payout, error) {
	var (
		p             model.Payout
		pointsDrained int64
		amount        int64
	)
	err := rows.Scan(&p.ID, &p.Identity, &pointsDrained, &amount, &p.Status, &p.CreatedAt, &p.SettledAt)
	if err != nil {
		return model.Payout{}, err
	}
	p.Points = uint64(pointsDrained)
	p.Amount = uint64(amount)
	return p, nil
}

func (r *payoutRepository) ListByIdentity(ctx context.Context, identity string) ([]model.Payout, error) {
	const query = `SELECT id, identity, points, amount, status, created_at, settled_at
                   FROM payouts WHERE identity=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, identity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Payout
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *payoutRepository) SelectBatchForSettlement(ctx context.Context, limit int) ([]model.Payout, error) {
	const selectQuery = `SELECT id, identity, points, amount, status, created_at, settled_at
                         FROM payouts
                         WHERE status='PENDING'
                         ORDER BY created_at
                         LIMIT $1
                         FOR UPDATE SKIP LOCKED`

	var payouts []model.Payout
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanPayout(rows)
			if err != nil {
				return err
			}
			payouts = append(payouts, p)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for i := range payouts {
			if _, err := tx.Exec(ctx, `UPDATE payouts SET status='SETTLING' WHERE id=$1`, payouts[i].ID); err != nil {
				return err
			}
			payouts[i].Status = model.PayoutStatusSettling
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payouts, nil
}

func (r *payoutRepository) MarkSettled(ctx context.Context, payoutID int64) error {
	const query = `UPDATE payouts SET status='SETTLED', settled_at=NOW() WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, payoutID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *payoutRepository) Release(ctx context.Context, payoutID int64) error {
	const query = `UPDATE payouts SET status='PENDING' WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, payoutID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
