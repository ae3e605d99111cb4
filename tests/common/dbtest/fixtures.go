//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123", precomputed so fixtures stay fast.
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	displayName := strings.SplitN(email, "@", 2)[0]

	ctx := context.Background()
	tag, err := db.Exec(ctx, "INSERT INTO users (id, email, password_hash, display_name, role, is_active) VALUES ($1, $2, $3, $4, $5, true) ON CONFLICT (email) DO NOTHING",
		userID, email, testPasswordHash, displayName, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

func CreateTestService(t *testing.T, db DBLike, title string, durationMinutes int, priceCents int64) uuid.UUID {
	t.Helper()

	serviceID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO services (id, title, duration_minutes, price_cents, active) VALUES ($1, $2, $3, $4, true) ON CONFLICT (title) DO NOTHING",
		serviceID, title, durationMinutes, priceCents)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM services WHERE title = $1", title).Scan(&serviceID)
	}

	return serviceID
}

func CreateTestAppointment(t *testing.T, db DBLike, serviceID, clientID uuid.UUID, dateTime time.Time, durationMinutes int, status string) uuid.UUID {
	t.Helper()

	appointmentID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO appointments (id, service_id, client_id, date_time, duration_minutes, status) VALUES ($1, $2, $3, $4, $5, $6)",
		appointmentID, serviceID, clientID, dateTime, durationMinutes, status)
	require.NoError(t, err)

	return appointmentID
}

func CreateTestBlockedInterval(t *testing.T, db DBLike, start, end time.Time, reason string, createdBy uuid.UUID) uuid.UUID {
	t.Helper()

	blockedID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO blocked_intervals (id, start_time, end_time, reason, created_by) VALUES ($1, $2, $3, $4, $5)",
		blockedID, start, end, reason, createdBy)
	require.NoError(t, err)

	return blockedID
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	// Insert the service catalog
	_, err := pool.Exec(ctx, `
		INSERT INTO services (id, title, duration_minutes, price_cents, active) VALUES
		    (gen_random_uuid(), 'Individual Counseling', 60, 15000, true),
		    (gen_random_uuid(), 'Couples Counseling', 90, 22500, true)
		ON CONFLICT (title) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
