package seed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aayushs/campusguide/internal/domain"
)

// GraphWriter is what the Seeder needs from the repository.
type GraphWriter interface {
	DeleteAll(ctx context.Context) error
	CreateLocation(ctx context.Context, name string) error
	CreateConnection(ctx context.Context, source, target string, weight float64, instruction string) error
	CreateTeacher(ctx context.Context, t domain.Teacher) error
}

// TaskError accumulates the individual failures of a bulk seeding phase.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *TaskError) append(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Seeder wipes and repopulates the graph store from a Dataset using a small
// worker pool per phase. Phases run in order (locations, then connections,
// then teachers) because connections and cabins reference location nodes.
type Seeder struct {
	repo    GraphWriter
	workers int
}

// NewSeeder builds a Seeder with the given concurrency.
func NewSeeder(repo GraphWriter, workers int) *Seeder {
	if workers <= 0 {
		workers = 4
	}
	return &Seeder{repo: repo, workers: workers}
}

// Seed replaces the store contents with the dataset. Each non-oneway
// connection is written in both directions; the reverse leg reuses the weight
// with a generic return instruction.
func (s *Seeder) Seed(ctx context.Context, ds Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}
	if err := s.repo.DeleteAll(ctx); err != nil {
		return err
	}

	if err := s.run(ctx, len(ds.Locations), func(i int) error {
		return s.repo.CreateLocation(ctx, ds.Locations[i])
	}); err != nil {
		return fmt.Errorf("seed locations: %w", err)
	}

	edges := expandConnections(ds.Connections)
	if err := s.run(ctx, len(edges), func(i int) error {
		e := edges[i]
		return s.repo.CreateConnection(ctx, e.From, e.To, e.Weight, e.Instruction)
	}); err != nil {
		return fmt.Errorf("seed connections: %w", err)
	}

	if err := s.run(ctx, len(ds.Teachers), func(i int) error {
		return s.repo.CreateTeacher(ctx, ds.Teachers[i].toDomain())
	}); err != nil {
		return fmt.Errorf("seed teachers: %w", err)
	}

	return nil
}

func expandConnections(conns []Connection) []Connection {
	edges := make([]Connection, 0, 2*len(conns))
	for _, c := range conns {
		edges = append(edges, c)
		if !c.Oneway {
			edges = append(edges, Connection{
				From:        c.To,
				To:          c.From,
				Weight:      c.Weight,
				Instruction: "go back towards " + c.From,
			})
		}
	}
	return edges
}

func (s *Seeder) run(ctx context.Context, total int, taskFn func(i int) error) error {
	if total == 0 {
		return nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := taskFn(idx); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	var taskErr TaskError
	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}
