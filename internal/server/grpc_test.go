package server

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc"
)

func TestNew_RegistersHealthAndHook(t *testing.T) {
	called := false
	s := New(func(r grpc.ServiceRegistrar) {
		called = true
	})
	defer s.Stop()

	if !called {
		t.Error("register hook not invoked")
	}
	if _, ok := s.GetServiceInfo()["grpc.health.v1.Health"]; !ok {
		t.Error("health service not registered")
	}
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	s := New(nil)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- Serve(ctx, s, "127.0.0.1:0")
	}()

	// Give the server a moment to start listening, then shut it down.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}
}

func TestServe_BadAddress(t *testing.T) {
	s := New(nil)
	defer s.Stop()
	if err := Serve(context.Background(), s, "256.256.256.256:1"); err == nil {
		t.Fatal("expected listen error")
	}
}
