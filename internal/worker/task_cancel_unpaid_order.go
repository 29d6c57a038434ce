package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gogomarket/gogomarket-BE/internal/db"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// PayloadCancelUnpaidOrder is scheduled with a delay when a card order is
// created. If the order is still pending and unpaid when the task fires,
// it is cancelled and the stock released.
type PayloadCancelUnpaidOrder struct {
	OrderID uuid.UUID
}

func (distributor *RedisTaskDistributor) DistributeTaskCancelUnpaidOrder(
	ctx context.Context,
	payload *PayloadCancelUnpaidOrder,
	opts ...asynq.Option,
) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TaskCancelUnpaidOrder, jsonPayload, opts...)
	info, err := distributor.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Info().Str("type", task.Type()).Bytes("payload", task.Payload()).Str("queue", info.Queue).Msg("task enqueued")

	return nil
}

func (processor *RedisTaskProcessor) ProcessTaskCancelUnpaidOrder(
	ctx context.Context,
	task *asynq.Task,
) error {
	var payload PayloadCancelUnpaidOrder
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	order, err := processor.store.GetOrderByID(ctx, payload.OrderID)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get order: %w", err)
	}

	if order.Status != db.OrderStatusPending || order.IsPaid {
		return nil
	}

	result, err := processor.store.CancelOrderTx(ctx, db.CancelOrderTxParams{
		OrderID:     order.ID,
		CancelledBy: "system",
		Reason:      "payment deadline expired",
	})
	if err != nil {
		// The order may have moved on between the check and the lock.
		if errors.Is(err, db.ErrInvalidTransition) {
			return nil
		}
		return fmt.Errorf("failed to cancel unpaid order: %w", err)
	}

	log.Info().Str("order_number", result.Order.OrderNumber).Msg("cancelled unpaid order")

	return nil
}
