package payout

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-co-op/gocron/v2"
	"github.com/gogomarket/gogomarket-BE/internal/db"
	"github.com/gogomarket/gogomarket-BE/internal/notification"
	"github.com/gogomarket/gogomarket-BE/internal/worker"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

const settleInterval = 5 * time.Minute

// Settler periodically completes pending payout entries. Payouts are
// appended as pending when an order settles and paid out in batches here,
// which keeps the delivery transaction independent of the bank transfer.
type Settler struct {
	store           db.Store
	taskDistributor worker.TaskDistributor
	scheduler       gocron.Scheduler
}

func NewSettler(store db.Store, taskDistributor worker.TaskDistributor) (*Settler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Settler{
		store:           store,
		taskDistributor: taskDistributor,
		scheduler:       scheduler,
	}, nil
}

// Start schedules the payout batch job.
func (s *Settler) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(settleInterval),
		gocron.NewTask(
			func() {
				s.settlePendingPayouts()
			},
		),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down.
func (s *Settler) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *Settler) settlePendingPayouts() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	payouts, err := s.store.ListPendingPayouts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list pending payouts")
		return
	}

	if len(payouts) == 0 {
		return
	}

	now := time.Now()
	completed := db.LedgerEntryStatusCompleted

	for _, payout := range payouts {
		_, err = s.store.UpdateLedgerEntry(ctx, db.UpdateLedgerEntryParams{
			ID:          payout.ID,
			Status:      &completed,
			CompletedAt: &now,
		})
		if err != nil {
			log.Error().Err(err).Int64("entry_id", payout.ID).Msg("failed to complete payout")
			continue
		}

		if payout.PayeeID == nil {
			continue
		}

		err = s.taskDistributor.DistributeTaskSendNotification(ctx, &worker.PayloadSendNotification{
			RecipientID: *payout.PayeeID,
			Title:       "Payout completed",
			Message:     fmt.Sprintf("A payout of %s UZS has been transferred to your account.", humanize.Comma(payout.Amount)),
			Type:        notification.TypePayout,
			ReferenceID: payout.OrderID.String(),
		}, asynq.Queue(worker.QueueDefault))
		if err != nil {
			log.Error().Err(err).Msg("failed to distribute payout notification")
		}
	}

	log.Info().Int("count", len(payouts)).Msg("completed pending payouts")
}
