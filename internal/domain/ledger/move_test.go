package ledger

import (
	"testing"

	"github.com/erp/depreciation/internal/domain/shared"
	"github.com/erp/depreciation/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMove(t *testing.T) *Move {
	t.Helper()
	move, err := NewMove(uuid.New(), uuid.New(), uuid.New(), valueobject.MustParseDate("2024-01-31"), "Laptop")
	require.NoError(t, err)
	return move
}

func TestNewMove(t *testing.T) {
	t.Run("creates draft move named slash", func(t *testing.T) {
		move := newTestMove(t)
		assert.Equal(t, DefaultMoveName, move.Name)
		assert.Equal(t, "Laptop", move.Ref)
		assert.Equal(t, MoveStateDraft, move.State)
		assert.Equal(t, 1, move.GetVersion())
	})

	t.Run("requires journal", func(t *testing.T) {
		_, err := NewMove(uuid.New(), uuid.Nil, uuid.New(), valueobject.MustParseDate("2024-01-31"), "x")
		require.Error(t, err)
		assert.True(t, shared.IsDomainError(err, "INVALID_JOURNAL"))
	})

	t.Run("requires period", func(t *testing.T) {
		_, err := NewMove(uuid.New(), uuid.New(), uuid.Nil, valueobject.MustParseDate("2024-01-31"), "x")
		assert.ErrorIs(t, err, ErrPeriodNotFound)
	})

	t.Run("requires date", func(t *testing.T) {
		_, err := NewMove(uuid.New(), uuid.New(), uuid.New(), valueobject.Date{}, "x")
		assert.True(t, shared.IsDomainError(err, "INVALID_DATE"))
	})
}

func TestMove_AddLine(t *testing.T) {
	t.Run("defaults date and period from header", func(t *testing.T) {
		move := newTestMove(t)
		require.NoError(t, move.AddLine(MoveLine{AccountID: uuid.New(), Debit: decimal.NewFromInt(100)}))

		line := move.Lines[0]
		assert.NotEqual(t, uuid.Nil, line.ID)
		assert.Equal(t, move.ID, line.MoveID)
		assert.True(t, line.Date.Equal(move.Date))
		assert.Equal(t, move.PeriodID, line.PeriodID)
	})

	t.Run("rejects both sides", func(t *testing.T) {
		move := newTestMove(t)
		err := move.AddLine(MoveLine{AccountID: uuid.New(), Debit: decimal.NewFromInt(1), Credit: decimal.NewFromInt(1)})
		assert.True(t, shared.IsDomainError(err, "INVALID_AMOUNT"))
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		move := newTestMove(t)
		err := move.AddLine(MoveLine{AccountID: uuid.New(), Credit: decimal.NewFromInt(-5)})
		assert.True(t, shared.IsDomainError(err, "INVALID_AMOUNT"))
	})

	t.Run("rejects missing account", func(t *testing.T) {
		move := newTestMove(t)
		err := move.AddLine(MoveLine{Debit: decimal.NewFromInt(1)})
		assert.True(t, shared.IsDomainError(err, "INVALID_ACCOUNT"))
	})
}

func TestMove_Validate(t *testing.T) {
	tests := []struct {
		name    string
		debit   string
		credit  string
		wantErr bool
	}{
		{"balanced", "100.00", "100.00", false},
		{"within rounding", "100.004", "100.00", false},
		{"unbalanced", "100.00", "99.00", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			move := newTestMove(t)
			require.NoError(t, move.AddLine(MoveLine{AccountID: uuid.New(), Debit: decimal.RequireFromString(tc.debit)}))
			require.NoError(t, move.AddLine(MoveLine{AccountID: uuid.New(), Credit: decimal.RequireFromString(tc.credit)}))

			err := move.Validate(valueobject.USD)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnbalancedMove)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("single line is rejected", func(t *testing.T) {
		move := newTestMove(t)
		require.NoError(t, move.AddLine(MoveLine{AccountID: uuid.New(), Debit: decimal.NewFromInt(1)}))
		assert.ErrorIs(t, move.Validate(valueobject.USD), ErrUnbalancedMove)
	})
}

func TestMove_Post(t *testing.T) {
	move := newTestMove(t)
	require.NoError(t, move.AddLine(MoveLine{AccountID: uuid.New(), Debit: decimal.NewFromInt(50)}))
	require.NoError(t, move.AddLine(MoveLine{AccountID: uuid.New(), Credit: decimal.NewFromInt(50)}))

	require.NoError(t, move.Post(valueobject.USD))
	assert.Equal(t, MoveStatePosted, move.State)
	assert.Equal(t, 2, move.GetVersion())

	err := move.Post(valueobject.USD)
	assert.True(t, shared.IsDomainError(err, "INVALID_STATE"))
}

func TestMoveLine_Balance(t *testing.T) {
	line := MoveLine{Debit: decimal.NewFromInt(30), Credit: decimal.Zero}
	assert.True(t, line.Balance().Equal(decimal.NewFromInt(30)))
	line = MoveLine{Credit: decimal.NewFromInt(30)}
	assert.True(t, line.Balance().Equal(decimal.NewFromInt(-30)))
}
