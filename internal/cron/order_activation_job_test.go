package cron

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetpatel1235/rrrr/pkg/logger"
)

type stubActivator struct {
	activated int64
	err       error
	calls     int
}

func (s *stubActivator) ActivateDue(context.Context) (int64, error) {
	s.calls++
	return s.activated, s.err
}

func TestOrderActivationJobRuns(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard})
	activator := &stubActivator{activated: 3}

	job, err := NewOrderActivationJob(OrderActivationJobParams{Logger: logg, Orders: activator})
	require.NoError(t, err)
	assert.Equal(t, "order_activation", job.Name())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, activator.calls)
}

func TestOrderActivationJobPropagatesFailure(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard})
	job, err := NewOrderActivationJob(OrderActivationJobParams{
		Logger: logg,
		Orders: &stubActivator{err: errors.New("db down")},
	})
	require.NoError(t, err)

	err = job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestNewOrderActivationJobValidates(t *testing.T) {
	_, err := NewOrderActivationJob(OrderActivationJobParams{})
	assert.Error(t, err)
}
