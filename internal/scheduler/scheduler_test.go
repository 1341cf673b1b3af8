package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/observability"
)

type stubValidator struct {
	err   error
	calls int
}

func (v *stubValidator) ProviderName() string { return "stub" }

func (v *stubValidator) ValidateKey(context.Context) error {
	v.calls++
	return v.err
}

func TestCheck(t *testing.T) {
	v := &stubValidator{}
	m := observability.NewMetricsForTesting()
	s := New(v, 0, m, observability.DiscardLogger())

	assert.False(t, s.Status().Checked)

	st := s.Check(context.Background())
	assert.True(t, st.Checked)
	assert.True(t, st.Valid)
	assert.Empty(t, st.Error)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.APIKeyValid))
	assert.Equal(t, st, s.Status())

	v.err = errors.New("status 403")
	st = s.Check(context.Background())
	assert.False(t, st.Valid)
	assert.Equal(t, "status 403", st.Error)
	assert.Zero(t, testutil.ToFloat64(m.APIKeyValid))
	assert.Equal(t, 2, v.calls)
}

func TestStart_Disabled(t *testing.T) {
	v := &stubValidator{}
	s := New(v, 0, observability.NewMetricsForTesting(), observability.DiscardLogger())

	require.NoError(t, s.Start())
	s.Stop()
	assert.Zero(t, v.calls)
}

func TestStart_Enabled(t *testing.T) {
	v := &stubValidator{}
	s := New(v, time.Hour, observability.NewMetricsForTesting(), observability.DiscardLogger())

	require.NoError(t, s.Start())
	defer s.Stop()

	// gocron runs a new job once right away, then on the interval.
	assert.Eventually(t, func() bool { return s.Status().Checked }, 2*time.Second, 10*time.Millisecond)
}
