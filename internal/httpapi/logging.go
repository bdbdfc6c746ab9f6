package httpapi

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// defaultLogLevel applies when a request carries no override.
var defaultLogLevel = func() LogLevel {
	if v, ok := os.LookupEnv("ENERGYD_REQUEST_LOG"); ok {
		return parseLevel(v)
	}
	return LevelInfo
}()

// SetRequestLogLevel sets the default per-request log level (off, error, info, debug).
func SetRequestLogLevel(s string) { defaultLogLevel = parseLevel(s) }

func requestLogLevel(r *http.Request) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// predictLog carries what a /predict request logs when it ends.
type predictLog struct {
	r       *http.Request
	lvl     LogLevel
	start   time.Time
	status  int
	outcome string
	err     error
}

func (pl predictLog) write() {
	minLvl := LevelInfo
	if pl.err != nil && pl.outcome != outcomeInvalid {
		minLvl = LevelError
	}
	if pl.lvl < minLvl {
		return
	}
	dur := time.Since(pl.start)
	if zlog == nil {
		log.Printf("predict end status=%d outcome=%s dur=%s err=%v", pl.status, pl.outcome, dur, pl.err)
		return
	}
	z := zlog.Info()
	if pl.err != nil {
		z = zlog.Warn().Err(pl.err)
	}
	z = z.Int("status", pl.status).Str("outcome", pl.outcome).Dur("dur", dur)
	if rid := middleware.GetReqID(pl.r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Msg("predict end")
}

// debugPayload logs the raw request body at debug level.
func debugPayload(r *http.Request, lvl LogLevel, raw []byte) {
	if lvl < LevelDebug {
		return
	}
	if zlog == nil {
		log.Printf("predict> %s", raw)
		return
	}
	z := zlog.Debug().RawJSON("payload", raw)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Msg("predict start")
}
