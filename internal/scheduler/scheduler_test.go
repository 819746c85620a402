package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BitcoinHindsight/internal/collector"
)

func newTestScheduler(mock *collector.MockFetcher) *Scheduler {
	s := NewScheduler(context.Background(), mock, time.UTC, zerolog.Nop())
	s.now = func() time.Time { return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestProbe_OK(t *testing.T) {
	mock := &collector.MockFetcher{Prices: map[string]float64{"2024-03-14": 65400.5}}
	s := newTestScheduler(mock)

	assert.False(t, s.Status().OK)
	assert.Equal(t, "mock", s.Status().Source)

	s.RunProbeNow()
	st := s.Status()
	assert.True(t, st.OK)
	assert.Equal(t, "2024-03-14", st.Date)
	assert.Empty(t, st.Error)
	assert.Equal(t, []string{"2024-03-14"}, mock.Calls)
}

func TestProbe_Failure(t *testing.T) {
	s := newTestScheduler(&collector.MockFetcher{Err: errors.New("dial tcp: i/o timeout")})
	s.RunProbeNow()

	st := s.Status()
	assert.False(t, st.OK)
	assert.Contains(t, st.Error, "i/o timeout")
	assert.False(t, st.CheckedAt.IsZero())
}

func TestRegisterAll(t *testing.T) {
	s := newTestScheduler(&collector.MockFetcher{})
	require.NoError(t, s.RegisterAll("0 0 * * * *"))
	assert.Len(t, s.Cron.Entries(), 1)

	assert.Error(t, s.RegisterAll("not a cron"))
}
