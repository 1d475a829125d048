package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"domain", NewForbidden("insufficient permissions"), http.StatusForbidden, "FORBIDDEN", "insufficient permissions"},
		{"wrapped domain", fmt.Errorf("guard: %w", NewTokenExpired()), http.StatusBadRequest, "TOKEN_EXPIRED", "token expired"},
		{"fiber", fiber.NewError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, "Method Not Allowed", "nope"},
		{"postgres", &pgconn.PgError{Code: "23502", Detail: "Failing row contains (null)."}, http.StatusBadRequest, "STORAGE_ERROR", "Failing row contains (null)."},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := ToDomainError(tt.err)
			require.NotNil(t, de)
			assert.Equal(t, tt.status, de.HTTPStatus)
			assert.Equal(t, tt.code, de.Code)
			assert.Equal(t, tt.message, de.Message)
		})
	}
	assert.Nil(t, ToDomainError(nil))
}

func TestNewStorageError(t *testing.T) {
	de := ToDomainError(NewStorageError(&pgconn.PgError{Message: "relation \"users\" does not exist"}))
	assert.Equal(t, `relation "users" does not exist`, de.Message)

	de = ToDomainError(NewStorageError(errors.New("dial tcp: connection refused")))
	assert.Equal(t, "storage error", de.Message)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
}

func TestPostgresHelpers(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23502"}))
	assert.True(t, IsNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, IsNoRows(errors.New("x")))
}
