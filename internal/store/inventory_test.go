package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReserveDecrementsOneUnitPerItem(t *testing.T) {
	l := NewLedger(map[string]int{"item1": 10, "item2": 5})

	require.True(t, l.Reserve([]string{"item1", "item2"}))

	n, _ := l.Stock("item1")
	require.Equal(t, 9, n)
	n, _ = l.Stock("item2")
	require.Equal(t, 4, n)
}

func TestReserveZeroStockFailsWithoutChanges(t *testing.T) {
	l := NewLedger(map[string]int{"item1": 10, "item4": 0})
	before := l.Snapshot()

	require.False(t, l.Reserve([]string{"item1", "item4"}))
	require.Equal(t, before, l.Snapshot())
}

func TestReserveUnknownItemFails(t *testing.T) {
	l := NewLedger(map[string]int{"item1": 10})
	before := l.Snapshot()

	require.False(t, l.Reserve([]string{"item1", "mystery"}))
	require.Equal(t, before, l.Snapshot())
}

func TestReserveDuplicateItemsNeedMatchingStock(t *testing.T) {
	l := NewLedger(map[string]int{"item1": 1})

	require.False(t, l.Reserve([]string{"item1", "item1"}))
	n, _ := l.Stock("item1")
	require.Equal(t, 1, n)

	l = NewLedger(map[string]int{"item1": 2})
	require.True(t, l.Reserve([]string{"item1", "item1"}))
	n, _ = l.Stock("item1")
	require.Zero(t, n)
}

func TestReserveShrinksTotalByItemCount(t *testing.T) {
	l := NewLedger(map[string]int{"item1": 10, "item2": 5, "item3": 8})

	total := func() int {
		sum := 0
		for _, n := range l.Snapshot() {
			sum += n
		}
		return sum
	}

	before := total()
	require.True(t, l.Reserve([]string{"item1", "item2", "item3"}))
	require.Equal(t, before-3, total())
}

func TestNewLedgerCopiesSeed(t *testing.T) {
	seed := map[string]int{"item1": 1}
	l := NewLedger(seed)
	seed["item1"] = 99

	n, _ := l.Stock("item1")
	require.Equal(t, 1, n)
}
