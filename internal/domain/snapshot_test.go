package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSnapshots(t *testing.T) {
	accounts := []Account{
		{ID: "B", Balance: "10.50", Currency: "ngn"},
		{ID: "A", Balance: "oops", Currency: "NGN"},
		{ID: "B", Balance: "999", Currency: "NGN"},
	}

	snaps := BuildSnapshots(accounts, "A", "B")
	require.Len(t, snaps, 2)

	assert.Equal(t, "B", snaps[0].ID, "snapshots follow account order")
	assert.Equal(t, "NGN", snaps[0].Currency)
	assert.Equal(t, "10.5", snaps[0].BalanceBefore.String())
	assert.True(t, snaps[0].Balance.Equal(snaps[0].BalanceBefore))

	assert.Equal(t, "A", snaps[1].ID)
	assert.True(t, snaps[1].BalanceBefore.IsZero(), "uncoercible balance reported as zero")
}

func TestBuildSnapshots_NeverReturnsOne(t *testing.T) {
	accounts := []Account{{ID: "A", Balance: "1", Currency: "USD"}}

	assert.Empty(t, BuildSnapshots(accounts, "A", "missing"))
	assert.Empty(t, BuildSnapshots(accounts, "A", "A"))
	assert.Empty(t, BuildSnapshots(accounts, "", "A"))
	assert.NotNil(t, BuildSnapshots(nil, "A", "B"))
}
