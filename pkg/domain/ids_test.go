package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "finbook/pkg/domain-errors"
)

func TestParseWalletID(t *testing.T) {
	t.Run("accepts a valid uuid", func(t *testing.T) {
		raw := uuid.New()
		id, err := ParseWalletID(raw.String())
		require.NoError(t, err)
		assert.Equal(t, WalletID(raw), id)
		assert.Equal(t, raw.String(), id.String())
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := ParseWalletID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		_, err := ParseWalletID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects the nil uuid", func(t *testing.T) {
		_, err := ParseWalletID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestIDNilChecks(t *testing.T) {
	assert.True(t, TenantID{}.IsNil())
	assert.True(t, PersonID{}.IsNil())
	assert.False(t, TenantID(uuid.New()).IsNil())
}

// The typed ids must not be cross-assignable; conversions stay explicit.
func TestParseTenantID(t *testing.T) {
	raw := uuid.New()
	id, err := ParseTenantID(raw.String())
	require.NoError(t, err)
	assert.Equal(t, TenantID(raw), id)
}
