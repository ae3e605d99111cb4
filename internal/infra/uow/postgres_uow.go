package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"counseling-portal/internal/infra/db"
	"counseling-portal/internal/infra/readstore"
	"counseling-portal/internal/infra/repository"
	"counseling-portal/internal/pkg/errs"
	"counseling-portal/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jinzhu/copier"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{
		pool: pool,
	}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes;
// row locks and the exclusion constraint carry the correctness load.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{
			dbtx: pgxTx,
		}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Fallback to a simple calculation if crypto/rand fails
		return 0
	}
	// Safe conversion: mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	appointmentRepo shared.AppointmentRepository
	historyRepo     shared.HistoryRepository
	blockedRepo     shared.BlockedIntervalRepository
	userRepo        shared.UserRepository
	commandReads    shared.CommandReads
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Appointments() shared.AppointmentRepository {
	if t.appointmentRepo == nil {
		t.appointmentRepo = repository.NewAppointmentRepository()
	}
	return t.appointmentRepo
}

func (t *pgTx) History() shared.HistoryRepository {
	if t.historyRepo == nil {
		t.historyRepo = repository.NewHistoryRepository()
	}
	return t.historyRepo
}

func (t *pgTx) BlockedIntervals() shared.BlockedIntervalRepository {
	if t.blockedRepo == nil {
		t.blockedRepo = repository.NewBlockedIntervalRepository()
	}
	return t.blockedRepo
}

func (t *pgTx) Users() shared.UserRepository {
	if t.userRepo == nil {
		t.userRepo = repository.NewUserRepository()
	}
	return t.userRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{
			dbtx: t.dbtx,
		}
	}
	return t.commandReads
}

type commandReads struct {
	dbtx db.DBTX

	// Lazy-initialized stores
	appointmentRepo *repository.AppointmentRepository
	serviceStore    *readstore.ServiceReadStore
	blockedStore    *readstore.BlockedIntervalReadStore
}

func (r *commandReads) appointments() *repository.AppointmentRepository {
	if r.appointmentRepo == nil {
		r.appointmentRepo = repository.NewAppointmentRepository()
	}
	return r.appointmentRepo
}

func (r *commandReads) AppointmentByID(ctx context.Context, id uuid.UUID) (*shared.AppointmentSnapshot, error) {
	return r.appointments().FindByID(ctx, r.dbtx, id)
}

func (r *commandReads) ServiceByID(ctx context.Context, id uuid.UUID) (*shared.ServiceSnapshot, error) {
	if r.serviceStore == nil {
		r.serviceStore = readstore.NewServiceReadStore(r.dbtx)
	}

	svc, err := r.serviceStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var snapshot shared.ServiceSnapshot
	if err := copier.Copy(&snapshot, svc); err != nil {
		return nil, errs.Wrap(err, "failed to map service snapshot")
	}
	return &snapshot, nil
}

func (r *commandReads) CountActiveOverlapping(ctx context.Context, start, end time.Time, excludeID *uuid.UUID) (int64, error) {
	return r.appointments().CountActiveOverlapping(ctx, r.dbtx, start, end, excludeID)
}

func (r *commandReads) BlockedIntervalsWithin(ctx context.Context, start, end time.Time) ([]shared.BlockedIntervalSnapshot, error) {
	if r.blockedStore == nil {
		r.blockedStore = readstore.NewBlockedIntervalReadStore(r.dbtx)
	}

	rows, err := r.blockedStore.FindOverlapping(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var snapshots []shared.BlockedIntervalSnapshot
	if err := copier.Copy(&snapshots, rows); err != nil {
		return nil, errs.Wrap(err, "failed to map blocked interval snapshots")
	}
	return snapshots, nil
}

func (r *commandReads) ActiveAppointmentsEndedBefore(ctx context.Context, cutoff time.Time) ([]shared.AppointmentSnapshot, error) {
	return r.appointments().FindActiveEndedBefore(ctx, r.dbtx, cutoff)
}

func (r *commandReads) ConfirmedNeedingReminder(ctx context.Context, from, until time.Time) ([]shared.AppointmentSnapshot, error) {
	return r.appointments().FindConfirmedNeedingReminder(ctx, r.dbtx, from, until)
}
