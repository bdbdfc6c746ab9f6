package httpapi

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestJoinContexts_CancelsWhenBaseDone(t *testing.T) {
	base, cancelBase := context.WithCancel(context.Background())
	req, cancelReq := context.WithCancel(context.Background())
	defer cancelReq()
	j, cancelJ := joinContexts(base, req)
	defer cancelJ()
	cancelBase()
	select {
	case <-j.Done():
		if !errors.Is(context.Cause(j), errServerShutdown) {
			t.Fatalf("cause=%v", context.Cause(j))
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("joined context did not cancel when base canceled")
	}
}

func TestJoinContexts_CancelsWhenRequestDone(t *testing.T) {
	req, cancelReq := context.WithCancel(context.Background())
	j, cancelJ := joinContexts(context.Background(), req)
	defer cancelJ()
	cancelReq()
	select {
	case <-j.Done():
	case <-time.After(500 * time.Millisecond):
		t.Fatal("joined context did not cancel when request canceled")
	}
}

func TestJoinContexts_KeepsRequestValues(t *testing.T) {
	type key struct{}
	req := context.WithValue(context.Background(), key{}, "v")
	j, cancel := joinContexts(context.Background(), req)
	defer cancel()
	if j.Value(key{}) != "v" {
		t.Fatalf("request values lost")
	}
}

func TestSetBaseContext_NilResetsToBackground(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	SetBaseContext(ctx)
	// nolint:staticcheck // SA1012: this test intentionally passes nil to verify fallback behavior
	SetBaseContext(nil)
	if serverBaseCtx.Err() != nil {
		t.Fatalf("expected background base context")
	}
}
