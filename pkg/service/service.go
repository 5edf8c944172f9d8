package service

import (
	"context"
	"errors"
	"fmt"
)

// Service is a long-running part of the application with a managed
// lifecycle: the relay server, the monitoring side server and so on.
type Service interface {
	Run()
	Shutdown(ctx context.Context) error
}

// Group runs a set of services as one unit.
type Group struct {
	list []Service
}

func (g *Group) Add(services ...Service) { g.list = append(g.list, services...) }

// Start launches every service in the order they were added.
func (g *Group) Start() {
	for _, s := range g.list {
		s.Run()
	}
}

// Shutdown stops every service, even when some of them fail,
// and returns the joined failures.
func (g *Group) Shutdown(ctx context.Context) error {
	var errs []error
	for _, s := range g.list {
		if err := s.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errs = append(errs, fmt.Errorf("%T: %w", s, err))
		}
	}
	return errors.Join(errs...)
}
