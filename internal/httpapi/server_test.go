package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"energyd/internal/features"
	"energyd/internal/manager"
	"energyd/internal/runner"
	"energyd/pkg/types"
)

const officeJSON = `{"PropertyGFATotal": 50000, "LargestPropertyUseType": "Office", "ENERGYSTARScore": 75, "PropertyGFABuilding_s": 40000, "ElectricityRatio": 0.6, "SurfacePerBuilding": 1000}`

type mockService struct {
	models     []types.Model
	status     types.StatusResponse
	ready      bool
	predictErr error
	calls      atomic.Int32
	last       features.BuildingFeatures
	lastCtx    context.Context
}

func (m *mockService) ListModels() []types.Model    { return append([]types.Model(nil), m.models...) }
func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Ready() bool                  { return m.ready }
func (m *mockService) Predict(ctx context.Context, b features.BuildingFeatures) (types.PredictResponse, error) {
	m.calls.Add(1)
	m.last, m.lastCtx = b, ctx
	if m.predictErr != nil {
		return types.PredictResponse{}, m.predictErr
	}
	return types.PredictResponse{SiteEnergyUse: 5210, TotalGHGEmissions: 105}, nil
}

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

func postPredict(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v (%q)", err, w.Body.String())
	}
	return body
}

func TestModelsHandler(t *testing.T) {
	svc := &mockService{models: []types.Model{{Name: "m1"}, {Name: "m2"}}}
	w := httptest.NewRecorder()
	NewMux(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/models", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	var body types.ModelsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Models) != 2 {
		t.Fatalf("models len=%d", len(body.Models))
	}
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{State: "ready", PredictionsTotal: 3}}
	w := httptest.NewRecorder()
	NewMux(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.State != "ready" || body.PredictionsTotal != 3 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHealthAndReady(t *testing.T) {
	svc := &mockService{}
	h := NewMux(svc)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("healthz %d %q", w.Code, w.Body.String())
	}
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "loading") {
		t.Fatalf("readyz not ready %d %q", w.Code, w.Body.String())
	}
	svc.ready = true
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("readyz status=%d", w.Code)
	}
}

func TestPredictOffice(t *testing.T) {
	svc := &mockService{ready: true}
	w := postPredict(t, NewMux(svc), officeJSON)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff header")
	}
	body := decodeObject(t, w)
	if len(body) != 2 || body["predicted_SiteEnergyUse(kBtu)"] != 5210.0 || body["predicted_TotalGHGEmissions"] != 105.0 {
		t.Fatalf("unexpected body: %v", body)
	}
	if svc.last.PropertyGFABuildings != 40000 || svc.last.BuildingAge.Present() {
		t.Fatalf("unexpected features passed: %+v", svc.last)
	}
	if _, ok := svc.lastCtx.Deadline(); !ok {
		t.Fatalf("expected the default predict timeout on the context")
	}
}

func TestPredictValidationFailureSkipsModels(t *testing.T) {
	svc := &mockService{ready: true}
	h := NewMux(svc)
	bad := strings.Replace(officeJSON, `"ENERGYSTARScore": 75`, `"ENERGYSTARScore": 150`, 1)
	w := postPredict(t, h, bad)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.ValidationErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Error != "validation failed" || body.Code != 400 || len(body.Fields) != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
	if f := body.Fields[0]; f.Field != "ENERGYSTARScore" || f.Code != "out_of_range" {
		t.Fatalf("unexpected field error: %+v", f)
	}

	missing := `{"PropertyGFATotal": 50000}`
	w = postPredict(t, h, missing)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Fields) != 5 {
		t.Fatalf("expected 5 missing fields, got %+v", body.Fields)
	}
	w = postPredict(t, h, "{not json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed status=%d", w.Code)
	}
	if n := svc.calls.Load(); n != 0 {
		t.Fatalf("models invoked %d times on invalid input", n)
	}
}

func TestPredictContentType(t *testing.T) {
	svc := &mockService{ready: true}
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(officeJSON))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	NewMux(svc).ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestPredictBodyTooLarge(t *testing.T) {
	SetMaxBodyBytes(16)
	defer SetMaxBodyBytes(0)
	w := postPredict(t, NewMux(&mockService{ready: true}), officeJSON)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestPredictErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"too busy", &manager.PredictionError{Stage: manager.StagePredict, Model: "m", Err: &runner.TooBusyError{Model: "m", Reason: runner.ReasonWaitTimeout}}, http.StatusTooManyRequests},
		{"http error", mockHTTPError{msg: "nope", code: http.StatusConflict}, http.StatusConflict},
	}
	for _, c := range cases {
		w := postPredict(t, NewMux(&mockService{ready: true, predictErr: c.err}), officeJSON)
		if w.Code != c.status {
			t.Fatalf("%s: status=%d want %d", c.name, w.Code, c.status)
		}
		body := decodeObject(t, w)
		if body["code"] != float64(c.status) {
			t.Fatalf("%s: unexpected body %v", c.name, body)
		}
	}
}

func TestPredictNotReady(t *testing.T) {
	m := manager.New()
	w := postPredict(t, NewMux(m), officeJSON)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestPredictFailureIsInBand(t *testing.T) {
	err := &manager.PredictionError{Stage: manager.StagePredict, Model: "ghg_predictor_model", Err: errors.New("feature names do not match model input")}
	w := postPredict(t, NewMux(&mockService{ready: true, predictErr: err}), officeJSON)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	want := `{"error":"Prediction failed: ghg_predictor_model: feature names do not match model input"}` + "\n"
	if w.Body.String() != want {
		t.Fatalf("body=%q want %q", w.Body.String(), want)
	}
}

func TestPredictShutdownWritesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	SetBaseContext(ctx)
	defer SetBaseContext(context.Background())
	cancel()
	svc := &mockService{ready: true, predictErr: context.Canceled}
	w := postPredict(t, NewMux(svc), officeJSON)
	if w.Body.Len() != 0 {
		t.Fatalf("expected no body, got %q", w.Body.String())
	}
	if svc.lastCtx.Err() == nil {
		t.Fatalf("service should see a canceled context")
	}
	if !errors.Is(context.Cause(svc.lastCtx), errServerShutdown) {
		t.Fatalf("unexpected cause %v", context.Cause(svc.lastCtx))
	}
}

func TestPredictTimeoutDisabled(t *testing.T) {
	SetPredictTimeoutSeconds(0)
	defer SetPredictTimeoutSeconds(10)
	svc := &mockService{ready: true}
	postPredict(t, NewMux(svc), officeJSON)
	if _, ok := svc.lastCtx.Deadline(); ok {
		t.Fatalf("no deadline expected when timeout is disabled")
	}
}

func TestRejectUnknownFields(t *testing.T) {
	body := strings.Replace(officeJSON, "{", `{"Color": "blue", `, 1)
	if w := postPredict(t, NewMux(&mockService{ready: true}), body); w.Code != http.StatusOK {
		t.Fatalf("unknown fields should be ignored by default, status=%d", w.Code)
	}
	SetRejectUnknownFields(true)
	defer SetRejectUnknownFields(false)
	w := postPredict(t, NewMux(&mockService{ready: true}), body)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), `"unknown"`) {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestSchemaAndOpenAPI(t *testing.T) {
	h := NewMux(&mockService{})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/schema", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "PropertyGFABuilding_s") {
		t.Fatalf("schema %d %s", w.Code, w.Body.String())
	}
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"/predict"`) {
		t.Fatalf("openapi %d", w.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("openapi is not valid json: %v", err)
	}
}

func TestCORSPreflight(t *testing.T) {
	SetCORSOptions(true, []string{"http://example.test"}, nil, nil)
	defer SetCORSOptions(false, nil, nil, nil)
	req := httptest.NewRequest(http.MethodOptions, "/predict", nil)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.test" {
		t.Fatalf("allow-origin=%q", got)
	}
}
