package scheduler

import (
	"context"
	"fmt"

	"ledger/internal/shared/logger"
)

// Job is a unit of work run by the worker pool.
type Job interface {
	Execute(ctx context.Context) error
	// Name identifies the job in logs, spans and metrics.
	Name() string
}

// Pruner deletes rows that are past their expiry.
type Pruner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// PruneJob removes expired rows from one store.
type PruneJob struct {
	name   string
	pruner Pruner
	log    *logger.Logger
}

func NewPruneJob(name string, pruner Pruner, log *logger.Logger) *PruneJob {
	return &PruneJob{name: name, pruner: pruner, log: log}
}

func (j *PruneJob) Execute(ctx context.Context) error {
	n, err := j.pruner.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", j.name, err)
	}
	j.log.Info("Expired rows pruned", "job", j.name, "deleted", n)
	return nil
}

func (j *PruneJob) Name() string { return j.name }

// Housekeeping returns a job provider that prunes every given store on each
// run.
func Housekeeping(log *logger.Logger, pruners map[string]Pruner) func(context.Context) ([]Job, error) {
	return func(context.Context) ([]Job, error) {
		jobs := make([]Job, 0, len(pruners))
		for name, p := range pruners {
			jobs = append(jobs, NewPruneJob(name, p, log))
		}
		return jobs, nil
	}
}
