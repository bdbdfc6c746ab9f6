package registry

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"energyd/internal/model/modeltest"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func energyBytes(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(modeltest.EnergyArtifact())
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestParseRef(t *testing.T) {
	cases := []struct {
		in, name, version string
		ok                bool
	}{
		{"energy", "energy", "", true},
		{"energy:latest", "energy", "", true},
		{"energy:abc", "energy", "abc", true},
		{" energy ", "energy", "", true},
		{"", "", "", false},
		{"../x", "", "", false},
		{":v1", "", "", false},
	}
	for _, c := range cases {
		name, version, err := ParseRef(c.in)
		if (err == nil) != c.ok {
			t.Fatalf("%q: err=%v", c.in, err)
		}
		if c.ok && (name != c.name || version != c.version) {
			t.Fatalf("%q: got %q %q", c.in, name, version)
		}
	}
}

func TestRegisterAndGetByVersion(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	m, err := s.Register(ctx, "energy", energyBytes(t))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if m.Kind != "energyd.gbt/v1" || m.SHA256 == "" || m.SizeBytes == 0 {
		t.Fatalf("unexpected entry: %+v", m)
	}
	got, err := s.Get(ctx, m.Ref())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != m {
		t.Fatalf("got %+v want %+v", got, m)
	}
}

func TestLatestTieBreaksOnVersion(t *testing.T) {
	s := openStore(t)
	fixed := time.Unix(1700000000, 0)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()
	a, err := s.Register(ctx, "energy", energyBytes(t))
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Register(ctx, "energy", energyBytes(t))
	if err != nil {
		t.Fatal(err)
	}
	want := a.Version
	if b.Version > a.Version {
		want = b.Version
	}
	got, err := s.Get(ctx, "energy")
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != want {
		t.Fatalf("latest = %s, want %s", got.Version, want)
	}
}

func TestGetNotFound(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	if _, err := s.Get(ctx, "nope"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := s.Register(ctx, "energy", energyBytes(t)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Load(ctx, "energy:0000"); !IsNotFound(err) {
		t.Fatalf("expected not found for unknown version, got %v", err)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	if _, err := s.Register(ctx, "bad/name", energyBytes(t)); err == nil {
		t.Fatalf("expected invalid name error")
	}
	if _, err := s.Register(ctx, "energy", []byte("{}")); !IsArtifactError(err) {
		t.Fatalf("expected artifact error, got %v", err)
	}
	assertEmpty(t, s)
}

func TestLoadDetectsChecksumMismatch(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	m, err := s.Register(ctx, "energy", energyBytes(t))
	if err != nil {
		t.Fatal(err)
	}
	tampered := append(energyBytes(t), ' ')
	if err := os.WriteFile(m.Path, tampered, 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err = s.Load(ctx, m.Ref())
	if !errors.Is(err, ErrChecksum) || !IsArtifactError(err) {
		t.Fatalf("expected checksum artifact error, got %v", err)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	s, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}
	m, err := s.Register(ctx, "energy", energyBytes(t))
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s2, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	_, e, err := s2.Load(ctx, "energy:latest")
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if e.NumTrees() != 2 {
		t.Fatalf("unexpected trees %d", e.NumTrees())
	}
	list, _ := s2.List(ctx)
	if len(list) != 1 || list[0].Version != m.Version {
		t.Fatalf("unexpected list: %+v", list)
	}
}
