package quota_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appContable/statement-core/internal/config"
	"github.com/appContable/statement-core/internal/logging"
	"github.com/appContable/statement-core/internal/parsererror"
	"github.com/appContable/statement-core/internal/quota"
	"github.com/appContable/statement-core/internal/rulestore"
)

func newGuard(t *testing.T, limit int) *quota.Guard {
	t.Helper()
	store := rulestore.NewMemoryStore(rulestore.NewIDCodec(config.IDFormatCanonical))
	return quota.NewGuard(store, limit, logging.NewTestLogger())
}

func TestAdmit_UpToLimitThenRejects(t *testing.T) {
	guard := newGuard(t, 5)

	for i := 0; i < 5; i++ {
		require.NoError(t, guard.Admit(context.Background(), "maria"))
	}

	err := guard.Admit(context.Background(), "maria")
	require.Error(t, err)

	var exceeded *parsererror.QuotaExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, "maria", exceeded.UserID)
	assert.Equal(t, 5, exceeded.Limit)
}

func TestAdmit_UnlimitedWhenZero(t *testing.T) {
	guard := newGuard(t, 0)

	for i := 0; i < 50; i++ {
		require.NoError(t, guard.Admit(context.Background(), "maria"))
	}

	count, remaining, err := guard.Usage(context.Background(), "maria")
	require.NoError(t, err)
	assert.Equal(t, 50, count, "unlimited mode still records usage")
	assert.Zero(t, remaining)
}

func TestAdmit_UsersIsolated(t *testing.T) {
	guard := newGuard(t, 1)

	require.NoError(t, guard.Admit(context.Background(), "maria"))
	require.Error(t, guard.Admit(context.Background(), "maria"))

	assert.NoError(t, guard.Admit(context.Background(), "carlos"))
}

func TestAdmit_ConcurrentNeverOversubscribes(t *testing.T) {
	guard := newGuard(t, 5)

	var wg sync.WaitGroup
	admitted := make(chan bool, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			admitted <- guard.Admit(context.Background(), "maria") == nil
		}()
	}
	wg.Wait()
	close(admitted)

	count := 0
	for ok := range admitted {
		if ok {
			count++
		}
	}
	assert.Equal(t, 5, count)
}

func TestMonthStart_UTCCalendarMonth(t *testing.T) {
	guard := newGuard(t, 5).WithClock(func() time.Time {
		return time.Date(2024, time.March, 15, 23, 30, 0, 0, time.FixedZone("ECT", -5*3600))
	})

	// 2024-03-15 23:30 ECT is 2024-03-16 04:30 UTC; the window starts at the
	// first instant of March in UTC.
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), guard.MonthStart())
}

func TestUsage_Remaining(t *testing.T) {
	guard := newGuard(t, 5)

	require.NoError(t, guard.Admit(context.Background(), "maria"))
	require.NoError(t, guard.Admit(context.Background(), "maria"))

	count, remaining, err := guard.Usage(context.Background(), "maria")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 3, remaining)
	assert.Equal(t, 5, guard.Limit())
}

func TestUsage_DoesNotMutate(t *testing.T) {
	guard := newGuard(t, 5)

	for i := 0; i < 10; i++ {
		_, _, err := guard.Usage(context.Background(), "maria")
		require.NoError(t, err)
	}

	count, _, err := guard.Usage(context.Background(), "maria")
	require.NoError(t, err)
	assert.Zero(t, count)
}
