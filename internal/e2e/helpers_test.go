package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"energyd/internal/httpapi"
	"energyd/internal/manager"
	"energyd/internal/model"
	"energyd/internal/model/modeltest"
	"energyd/internal/registry"
)

// newStore registers the reference artifacts into a fresh store.
func newStore(t *testing.T) *registry.Store {
	t.Helper()
	dir := t.TempDir()
	srcs := registry.DefaultSources(dir)
	modeltest.WriteArtifact(t, dir, "GradientBoosting_SiteEnergyUse(kBtu).json", modeltest.EnergyArtifact())
	modeltest.WriteArtifact(t, dir, "GradientBoosting_TotalGHGEmissions.json", modeltest.GHGArtifact())
	s, err := registry.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if _, err := registry.RegisterAll(context.Background(), s, srcs); err != nil {
		t.Fatalf("register: %v", err)
	}
	return s
}

func registerArtifact(t *testing.T, s *registry.Store, name string, a model.Artifact) {
	t.Helper()
	b, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := s.Register(context.Background(), name, b); err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
}

func newServer(t *testing.T, s *registry.Store, cfg manager.ManagerConfig) (*httptest.Server, *manager.Manager) {
	t.Helper()
	mgr := manager.NewWithConfig(cfg)
	if err := mgr.Load(context.Background(), s); err != nil {
		t.Fatalf("load models: %v", err)
	}
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(srv.Close)
	return srv, mgr
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func withField(t *testing.T, key string, v any) []byte {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(modeltest.OfficeJSON), &m); err != nil {
		t.Fatalf("office json: %v", err)
	}
	m[key] = v
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}
