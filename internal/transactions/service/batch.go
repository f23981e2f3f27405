package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"transaction_dashboard_backend/internal/transactions/transport"
	"transaction_dashboard_backend/platform/apperr"
	"transaction_dashboard_backend/platform/metrics"
)

// EmptyBatchMessage is returned when a batch delete names no ids.
const EmptyBatchMessage = "at least one id is required"

// DeleteMany deletes every id independently and concurrently. There is no
// atomicity across ids: when some deletions fail the result is a partial
// failure listing the failed ids, and the deletions that succeeded stay
// applied. Cancelling ctx cancels the deletions still in flight.
func (s *Service) DeleteMany(ctx context.Context, ids []string) (transport.DeleteTransactionsResponse, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return transport.DeleteTransactionsResponse{}, apperr.Validation(EmptyBatchMessage)
	}

	// One slot per id; a failed deletion must not stop the others, so the
	// group is not bound to a derived context.
	results := make([]error, len(ids))
	var g errgroup.Group
	g.SetLimit(s.deleteConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			// Ids still queued when ctx ends are reported without a store call.
			err := ctx.Err()
			if err == nil {
				err = s.store.Delete(ctx, id)
			}
			metrics.BatchDeleteItems.WithLabelValues(metrics.OutcomeOf(err)).Inc()
			results[i] = err
			return nil
		})
	}
	_ = g.Wait()

	var failed []transport.FailedDeletion
	for i, err := range results {
		if err != nil {
			failed = append(failed, transport.FailedDeletion{ID: ids[i], Error: err.Error()})
		}
	}

	if len(failed) > 0 {
		s.log.Warn("batch delete partially failed",
			"requested", len(ids),
			"failed", len(failed),
		)
		return transport.DeleteTransactionsResponse{}, apperr.PartialFailure(
			fmt.Sprintf("%d of %d deletions failed", len(failed), len(ids)),
		).WithDetails(failed)
	}

	s.log.Info("batch delete completed", "deleted", len(ids))
	return transport.DeleteTransactionsResponse{
		Message: "Transactions deleted successfully",
		Deleted: len(ids),
	}, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
