package debt

import (
	"context"
	"fmt"

	"ledger/internal/shared/logger"
)

// RepairReport describes one run of the status repair.
type RepairReport struct {
	Updated int64 `json:"updated"`
	Total   int64 `json:"total"`
	Paid    int64 `json:"paid"`
	Unpaid  int64 `json:"unpaid"`
}

// StatusRepairer rewrites legacy NULL or empty debt statuses to unpaid.
// Running it again changes nothing.
type StatusRepairer struct {
	store StatusStore
	log   *logger.Logger
}

func NewStatusRepairer(store StatusStore, log *logger.Logger) *StatusRepairer {
	if log == nil {
		log = logger.Nop()
	}
	return &StatusRepairer{store: store, log: log}
}

// Run normalizes statuses and reports the resulting distribution.
func (r *StatusRepairer) Run(ctx context.Context) (RepairReport, error) {
	updated, err := r.store.NormalizeStatuses(ctx)
	if err != nil {
		return RepairReport{}, fmt.Errorf("normalize debt statuses: %w", err)
	}

	counts, err := r.store.CountByStatus(ctx)
	if err != nil {
		return RepairReport{}, fmt.Errorf("count debt statuses: %w", err)
	}

	report := RepairReport{
		Updated: updated,
		Paid:    counts[StatusPaid],
		Unpaid:  counts[StatusUnpaid],
	}
	for _, n := range counts {
		report.Total += n
	}

	r.log.Info("debt status repair finished",
		"updated", report.Updated,
		"total", report.Total,
		"paid", report.Paid,
		"unpaid", report.Unpaid,
	)
	if other := report.Total - report.Paid - report.Unpaid; other > 0 {
		r.log.Warn("debts with unexpected status remain", "count", other)
	}
	return report, nil
}
