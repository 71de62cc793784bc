package cron

import (
	"context"
	"testing"
)

type namedJob struct {
	name string
}

func (j *namedJob) Name() string              { return j.name }
func (j *namedJob) Run(context.Context) error { return nil }

func TestRegistryKeepsRegistrationOrder(t *testing.T) {
	sweep := &namedJob{name: "payment-reconcile"}
	extra := &namedJob{name: "extra"}

	registry := NewRegistry(sweep)
	registry.Register(extra)

	jobs := registry.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0] != sweep || jobs[1] != extra {
		t.Fatal("jobs returned out of order")
	}
}

func TestRegistryJobsReturnsCopy(t *testing.T) {
	registry := NewRegistry(&namedJob{name: "payment-reconcile"})

	jobs := registry.Jobs()
	jobs[0] = nil

	if registry.Jobs()[0] == nil {
		t.Fatal("internal slice leaked to caller")
	}
}
