package cron

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Job is one unit of scheduled work. Name doubles as the metrics label.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs of a worker cycle in registration order.
type Registry struct {
	jobs  []Job
	names map[string]struct{}
}

func NewRegistry(jobs ...Job) (*Registry, error) {
	r := &Registry{names: map[string]struct{}{}}
	for _, job := range jobs {
		if err := r.Register(job); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register rejects nil jobs and jobs whose name is already taken.
func (r *Registry) Register(job Job) error {
	if job == nil {
		return errors.New("cron: nil job")
	}
	name := job.Name()
	if name == "" {
		return errors.New("cron: job name is required")
	}
	if _, dup := r.names[name]; dup {
		return fmt.Errorf("cron: job %q registered twice", name)
	}
	if r.names == nil {
		r.names = map[string]struct{}{}
	}
	r.names[name] = struct{}{}
	r.jobs = append(r.jobs, job)
	return nil
}

func (r *Registry) Jobs() []Job {
	return slices.Clone(r.jobs)
}

func (r *Registry) Len() int {
	return len(r.jobs)
}
