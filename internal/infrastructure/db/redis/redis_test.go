package redis

import (
	"context"
	"testing"
	"time"
)

func TestConnect_UnreachableFails(t *testing.T) {
	client, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if err == nil {
		_ = client.Close()
		t.Fatal("expected a ping error")
	}
	if client != nil {
		t.Fatal("expected no client on failure")
	}
}

func TestPing_ReportsFailure(t *testing.T) {
	check := Ping(unreachableClient(t))
	if err := check(context.Background()); err == nil {
		t.Fatal("expected an error from an unreachable redis")
	}
}
