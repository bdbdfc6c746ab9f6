package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"

	_ "energyd/docs"
	"energyd/internal/features"
	"energyd/internal/manager"
	"energyd/internal/runner"
	"energyd/internal/schema"
	"energyd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.Model
	Status() types.StatusResponse
	Predict(ctx context.Context, b features.BuildingFeatures) (types.PredictResponse, error)
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.middleware)
		}
		r.Post("/predict", predictHandler(svc))
	})

	r.Get("/schema", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/schema+json")
		_, _ = w.Write(currentValidator().Document())
	})

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.ModelsResponse{Models: svc.ListModels()})
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	r.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			writeJSONError(w, http.StatusNotFound, "api docs not registered")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// predictHandler runs RECEIVED → VALIDATING → PREDICTING → RESPONDING, or
// stops at the first error response.
//
// @Summary      Predict energy use and emissions
// @Description  Validates a building payload and returns both model predictions.
// @Tags         predict
// @Accept       json
// @Produce      json
// @Param        body  body      types.BuildingFeatures  true  "Building features"
// @Success      200   {object}  types.PredictResponse
// @Failure      400   {object}  types.ValidationErrorResponse
// @Failure      415   {object}  types.ErrorResponse
// @Failure      429   {object}  types.ErrorResponse
// @Router       /predict [post]
func predictHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pl := predictLog{r: r, lvl: requestLogLevel(r), start: time.Now()}
		finish := func(status int, outcome string, err error) {
			pl.status, pl.outcome, pl.err = status, outcome, err
			countPrediction(outcome)
			pl.write()
		}

		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			finish(http.StatusUnsupportedMediaType, outcomeInvalid, nil)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
				finish(http.StatusRequestEntityTooLarge, outcomeInvalid, err)
				return
			}
			writeJSONError(w, http.StatusBadRequest, "failed to read request body")
			finish(http.StatusBadRequest, outcomeInvalid, err)
			return
		}
		b, err := currentValidator().Validate(raw)
		if err != nil {
			var ve *schema.ValidationError
			if errors.As(err, &ve) {
				writeValidationError(w, ve)
				finish(ve.StatusCode(), outcomeInvalid, err)
				return
			}
			writeJSONError(w, http.StatusBadRequest, err.Error())
			finish(http.StatusBadRequest, outcomeInvalid, err)
			return
		}
		debugPayload(r, pl.lvl, raw)

		// Join server base context with request context so shutdown cancels work too.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if predictTimeout > 0 {
			var cancelT context.CancelFunc
			ctx, cancelT = context.WithTimeout(ctx, time.Duration(predictTimeout)*time.Second)
			defer cancelT()
		}

		resp, err := svc.Predict(ctx, b)
		if err != nil {
			// Client gone or server shutting down: nothing to write.
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				finish(0, outcomeCanceled, err)
				return
			}
			var he HTTPError
			switch {
			case manager.IsTooBusy(err):
				IncrementBackpressure(runner.BusyReason(err))
				writeJSONError(w, http.StatusTooManyRequests, err.Error())
				finish(http.StatusTooManyRequests, outcomeBusy, err)
			case manager.IsNotReady(err):
				writeJSONError(w, http.StatusServiceUnavailable, err.Error())
				finish(http.StatusServiceUnavailable, outcomeNotReady, err)
			case errors.As(err, &he):
				writeJSONError(w, he.StatusCode(), he.Error())
				finish(he.StatusCode(), outcomeFailed, err)
			default:
				writeJSON(w, http.StatusOK, types.PredictErrorResponse{Error: "Prediction failed: " + err.Error()})
				finish(http.StatusOK, outcomeFailed, err)
			}
			return
		}
		writeJSON(w, http.StatusOK, resp)
		finish(http.StatusOK, outcomeOK, nil)
	}
}
