package main

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeServer struct {
	listenErr   error
	listenCh    chan error
	shutdownErr error

	shutdownCalls int
	closeCalls    int
}

func (f *fakeServer) ListenAndServe() error {
	if f.listenCh != nil {
		return <-f.listenCh
	}
	return f.listenErr
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.shutdownCalls++
	return f.shutdownErr
}

func (f *fakeServer) Close() error {
	f.closeCalls++
	return nil
}

func (f *fakeServer) Addr() string { return ":0" }

func builderFor(srv httpServer, err error) serverBuilder {
	return func() (httpServer, func(), error) {
		return srv, func() {}, err
	}
}

func TestRun_BootstrapFailure(t *testing.T) {
	build := builderFor(nil, errors.New("no config"))

	code := Run(build, make(chan os.Signal), zerolog.Nop())
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestRun_GracefulShutdownOnSignal(t *testing.T) {
	srv := &fakeServer{listenCh: make(chan error)}
	sigCh := make(chan os.Signal, 1)
	sigCh <- os.Interrupt

	done := make(chan int)
	go func() { done <- Run(builderFor(srv, nil), sigCh, zerolog.Nop()) }()

	select {
	case code := <-done:
		if code != 0 {
			t.Fatalf("expected exit code 0, got %d", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after signal")
	}

	if srv.shutdownCalls != 1 {
		t.Fatalf("expected one Shutdown call, got %d", srv.shutdownCalls)
	}
	if srv.closeCalls != 0 {
		t.Fatal("Close must not be called when shutdown succeeds")
	}
}

func TestRun_ServerCrash(t *testing.T) {
	srv := &fakeServer{listenErr: errors.New("port in use")}

	code := Run(builderFor(srv, nil), make(chan os.Signal), zerolog.Nop())
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if srv.shutdownCalls != 0 {
		t.Fatal("Shutdown must not run after a crash")
	}
}

func TestRun_ForcedCloseWhenShutdownFails(t *testing.T) {
	srv := &fakeServer{listenCh: make(chan error), shutdownErr: errors.New("hung connections")}
	sigCh := make(chan os.Signal, 1)
	sigCh <- os.Interrupt

	done := make(chan int)
	go func() { done <- Run(builderFor(srv, nil), sigCh, zerolog.Nop()) }()

	select {
	case code := <-done:
		if code != 0 {
			t.Fatalf("expected exit code 0, got %d", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}

	if srv.closeCalls != 1 {
		t.Fatalf("expected forced Close, got %d calls", srv.closeCalls)
	}
}
