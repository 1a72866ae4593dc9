package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeDSN(t *testing.T) {
	cases := map[string]string{
		"":                                   "",
		"  postgres://u:p@h:5432/db  ":       "postgres://u:p@h:5432/db",
		"postgresql+asyncpg://u:p@h/db":      "postgresql://u:p@h/db",
		"postgres+asyncpg://u:p@h/db":        "postgres://u:p@h/db",
		"postgresql+pgx://u:p@h/db":          "postgresql://u:p@h/db",
		"postgres+pgx://u:p@h/db?sslmode=no": "postgres://u:p@h/db?sslmode=no",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeDSN(in), "input %q", in)
	}
}

func TestConnectRejectsEmptyDSN(t *testing.T) {
	_, err := Connect(context.Background(), "   ")
	assert.ErrorContains(t, err, "empty DSN")
}

func TestConnectWithRetryFailsFastOnBadDSN(t *testing.T) {
	start := time.Now()
	_, err := ConnectWithRetry(context.Background(), "", time.Minute, nil)
	assert.ErrorContains(t, err, "empty DSN")

	_, err = ConnectWithRetry(context.Background(), "postgres://u:p@h:notaport/db", time.Minute, nil)
	assert.ErrorContains(t, err, "parse config")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestConnectWithRetryStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	_, err := ConnectWithRetry(ctx, "postgres://u:p@127.0.0.1:1/db?connect_timeout=1", time.Minute, func(error, time.Duration) { attempts++ })
	assert.Error(t, err)
	assert.LessOrEqual(t, attempts, 1)
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	assert.True(t, IsUniqueViolation(dup))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", dup)))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schema, "conversation_direct_key_uq")
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS chat.message")
}
