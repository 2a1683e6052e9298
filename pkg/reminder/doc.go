// Package reminder schedules the appointment reminder that goes out shortly
// before the visit (by default 1h15m ahead of the start time).
//
// The package is organised around three components:
//
//   - Enqueuer stores a one-shot Task per appointment, due at the
//     appointment start minus the lead.
//   - Worker claims due tasks on a poll loop and hands the embedded
//     appointment record to a Handler.
//   - Storage is the persistence seam; MemoryStorage for tests and local
//     runs, RedisStorage for deployments with several workers.
//
// A reminder is attempted exactly once. A reminder that fails is marked
// failed and stays that way; one delivered after the visit started would
// help nobody, so there are no retries and no dead-letter queue. Cancelled
// or rescheduled appointments drop their pending tasks via Enqueuer.Cancel.
//
// # Usage
//
//	store := reminder.NewMemoryStorage()
//
//	enq, err := reminder.NewEnqueuer(store)
//	if err != nil {
//	    return err
//	}
//	if _, err := enq.Schedule(ctx, rec); err != nil {
//	    return err
//	}
//
//	w, err := reminder.NewWorker(store, func(ctx context.Context, rec appointment.Record) error {
//	    _, err := notifier.Reminder(ctx, rec)
//	    return err
//	})
//	if err != nil {
//	    return err
//	}
//	g.Go(w.Run(ctx))
package reminder
