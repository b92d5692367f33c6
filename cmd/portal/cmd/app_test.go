package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestWithApp_ClosesBeforeReturningError(t *testing.T) {
	var order []string
	a := &app{log: zerolog.Nop()}
	a.onClose(func() { order = append(order, "redis") })
	a.onClose(func() { order = append(order, "views") })

	failure := errors.New("listen tcp :3000: address already in use")
	err := withApp(context.Background(),
		func(context.Context) (*app, error) { return a, nil },
		func(context.Context, *app) error { return failure },
	)

	if !errors.Is(err, failure) {
		t.Fatalf("expected the command error, got %v", err)
	}
	if len(order) != 2 || order[0] != "views" || order[1] != "redis" {
		t.Fatalf("expected cleanup in reverse order, got %v", order)
	}
}

func TestWithApp_OpenFailure(t *testing.T) {
	failure := errors.New("mongo unreachable")
	called := false
	err := withApp(context.Background(),
		func(context.Context) (*app, error) { return nil, failure },
		func(context.Context, *app) error { called = true; return nil },
	)
	if !errors.Is(err, failure) || called {
		t.Fatalf("expected open failure without running the command, got %v (called=%v)", err, called)
	}
}
