package worker

// due_cron.go
// Background goroutine that periodically scans the ledger for open invoices
// whose due date falls inside the reminder window and emails the supplier's
// contact. A Redis SETNX key dedupes reminders so an invoice is nagged at
// most once per day even across restarts and replicas.
// Uses the Circuit Breaker to avoid queueing mail against a downed relay.

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/kasukras-star/Apotikme-sub004/internal/infra"
	"github.com/kasukras-star/Apotikme-sub004/internal/repository"
	"github.com/kasukras-star/Apotikme-sub004/internal/service"
)

const (
	dueTickInterval = 1 * time.Hour
	dueBatchSize    = 100
	// dedupe keys outlive the day they mark, then expire on their own
	dueDedupeTTL = 48 * time.Hour
)

// DueCronConfig holds all dependencies for the reminder goroutine.
type DueCronConfig struct {
	InvoiceRepo repository.InvoiceRepository
	Dispatcher  *Dispatcher
	CB          *infra.CircuitBreaker
	RDB         *redis.Client
	// WindowDays is how far ahead of the due date reminders start.
	WindowDays int
}

// StartDueCron launches a background goroutine that ticks hourly, queries
// open invoices due within the window, and enqueues reminder emails.
// It respects the context for graceful shutdown.
func StartDueCron(ctx context.Context, cfg DueCronConfig) {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = service.DueSoonWindowDays
	}
	go func() {
		ticker := time.NewTicker(dueTickInterval)
		defer ticker.Stop()

		log.Info().Int("window_days", cfg.WindowDays).Msg("due_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("due_cron: shutting down")
				return
			case <-ticker.C:
				processDueReminders(ctx, cfg)
			}
		}
	}()
}

func processDueReminders(ctx context.Context, cfg DueCronConfig) {
	// If CB is open, skip entirely — the email worker can't deliver anyway
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("due_cron: circuit breaker is open, skipping tick")
		return
	}

	now := time.Now()
	to := now.AddDate(0, 0, cfg.WindowDays)
	invoices, err := cfg.InvoiceRepo.ListOpenDueWithin(ctx, now, to, dueBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("due_cron: failed to query open invoices")
		return
	}
	if len(invoices) == 0 {
		return
	}

	log.Info().Int("count", len(invoices)).Msg("due_cron: processing invoices in due window")

	for i := range invoices {
		inv := &invoices[i]
		if inv.Supplier == nil || inv.Supplier.Email == nil || *inv.Supplier.Email == "" {
			continue
		}

		dedupeKey := fmt.Sprintf("due_reminder:%s:%s", inv.ID, now.Format("2006-01-02"))
		set, err := cfg.RDB.SetNX(ctx, dedupeKey, 1, dueDedupeTTL).Result()
		if err != nil {
			log.Error().Err(err).Str("invoice_id", inv.ID.String()).Msg("due_cron: dedupe check failed")
			continue
		}
		if !set {
			continue // already reminded today
		}

		days := service.DaysUntilDue(inv.DueDate, now)
		emailJob := EmailJobPayload{
			ToEmail: *inv.Supplier.Email,
			Subject: fmt.Sprintf("Apotikme — Invoice %s due in %d day(s)", inv.InvoiceNumber, days),
			Body: fmt.Sprintf(
				"Invoice %s is due on %s.\nOpen balance: Rp %s",
				inv.InvoiceNumber, inv.DueDate.Format("2006-01-02"), inv.Remaining().StringFixed(2)),
		}
		if err := cfg.Dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			// drop the dedupe key so the next tick retries this invoice
			_ = cfg.RDB.Del(ctx, dedupeKey).Err()
			log.Warn().Err(err).Str("invoice_id", inv.ID.String()).Msg("due_cron: failed to enqueue reminder")
			continue
		}
		log.Info().
			Str("invoice_id", inv.ID.String()).
			Str("email", *inv.Supplier.Email).
			Int("days_until_due", days).
			Msg("due_cron: reminder enqueued")
	}
}
