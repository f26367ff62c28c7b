package sqlstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bcflow/internal/handoff"
	"bcflow/lib/sqliteutil"

	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	db, err := sqliteutil.Config{File: ":memory:"}.Open(Schema)
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		_, ok, err := store.Latest(ctx)
		require.NoError(t, err)
		require.False(t, ok)

		_, err = handoff.LatestValue(ctx, store, handoff.KeyRFQNo)
		require.ErrorIs(t, err, handoff.ErrNoEntry)
	}
	{
		const n = 5
		for i := 0; i < n; i++ {
			require.NoError(t, store.Append(ctx, handoff.NewRecord(handoff.KeyRFQNo, fmt.Sprintf("RFQ%03d", i))))
		}
		count, err := store.Count(ctx)
		require.NoError(t, err)
		require.EqualValues(t, n, count)

		v, err := handoff.LatestValue(ctx, store, handoff.KeyRFQNo)
		require.NoError(t, err)
		require.Equal(t, "RFQ004", v)
	}
	{
		require.NoError(t, store.Append(ctx, handoff.NewRecord(handoff.KeyVendorNo, "V77")))
		_, err := handoff.LatestValue(ctx, store, handoff.KeyRFQNo)
		require.ErrorIs(t, err, handoff.ErrKeyMissing)
	}
	{
		err := store.Append(ctx, handoff.Record{handoff.KeyRFQNo: "RFQ1", handoff.KeyVendorNo: "V1"})
		require.ErrorIs(t, err, handoff.ErrInvalidRecord)
	}
}
