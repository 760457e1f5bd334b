package allocator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityLedger_TryReserve(t *testing.T) {
	ledger := NewCapacityLedger()
	require.NoError(t, ledger.Seed("A", 2))

	assert.True(t, ledger.TryReserve("A"))
	assert.Equal(t, 1, ledger.Remaining("A"))
	assert.True(t, ledger.TryReserve("A"))
	assert.Equal(t, 0, ledger.Remaining("A"))

	assert.False(t, ledger.TryReserve("A"), "no seats left")
	assert.Equal(t, 0, ledger.Remaining("A"), "failed reservation must not go negative")
	assert.Equal(t, 2, ledger.Reserved("A"))
	assert.Equal(t, 2, ledger.Capacity("A"))
}

func TestCapacityLedger_ZeroCapacity(t *testing.T) {
	ledger := NewCapacityLedger()
	require.NoError(t, ledger.Seed("A", 0))

	assert.False(t, ledger.TryReserve("A"))
}

func TestCapacityLedger_UnknownCourse(t *testing.T) {
	ledger := NewCapacityLedger()

	assert.False(t, ledger.TryReserve("missing"))
	assert.Equal(t, 0, ledger.Remaining("missing"))
}

func TestCapacityLedger_NegativeCapacityIsConfigurationError(t *testing.T) {
	ledger := NewCapacityLedger()

	err := ledger.Seed("A", -1)

	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.True(t, errors.Is(err, ErrNegativeCapacity))
	assert.Empty(t, ledger.Courses())
}

func TestCapacityLedger_EmptyCourseID(t *testing.T) {
	err := NewCapacityLedger().Seed("", 1)

	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestCapacityLedger_ReseedResetsRemaining(t *testing.T) {
	ledger := NewCapacityLedger()
	require.NoError(t, ledger.Seed("A", 1))
	require.True(t, ledger.TryReserve("A"))

	require.NoError(t, ledger.Seed("A", 3))

	assert.Equal(t, 3, ledger.Remaining("A"))
	assert.Equal(t, []string{"A"}, ledger.Courses(), "reseeding must not duplicate the course")
}

func TestCapacityLedger_SnapshotIsCopy(t *testing.T) {
	ledger := NewCapacityLedger()
	require.NoError(t, ledger.Seed("A", 1))
	require.NoError(t, ledger.Seed("B", 4))

	snapshot := ledger.Snapshot()
	snapshot["A"] = 99

	assert.Equal(t, 1, ledger.Remaining("A"))
	assert.Equal(t, []string{"A", "B"}, ledger.Courses())
}

func TestCapacityLedger_IsFresh(t *testing.T) {
	ledger := NewCapacityLedger()
	require.NoError(t, ledger.Seed("A", 1))
	assert.True(t, ledger.isFresh())

	ledger.TryReserve("A")
	assert.False(t, ledger.isFresh())
}
