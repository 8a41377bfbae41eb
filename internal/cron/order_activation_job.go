package cron

import (
	"context"
	"fmt"

	"github.com/meetpatel1235/rrrr/pkg/logger"
)

const orderActivationJobName = "order_activation"

type orderActivator interface {
	ActivateDue(ctx context.Context) (int64, error)
}

// OrderActivationJobParams configure the order activation job.
type OrderActivationJobParams struct {
	Logger *logger.Logger
	Orders orderActivator
}

type orderActivationJob struct {
	logg   *logger.Logger
	orders orderActivator
}

// NewOrderActivationJob builds the job that moves upcoming orders to pending
// once their event date arrives.
func NewOrderActivationJob(params OrderActivationJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	return &orderActivationJob{logg: params.Logger, orders: params.Orders}, nil
}

func (j *orderActivationJob) Name() string { return orderActivationJobName }

func (j *orderActivationJob) Run(ctx context.Context) error {
	activated, err := j.orders.ActivateDue(ctx)
	if err != nil {
		return fmt.Errorf("activate due orders: %w", err)
	}
	if activated > 0 {
		j.logg.Info(j.logg.WithField(ctx, "activated", activated), "orders moved to pending")
	}
	return nil
}
