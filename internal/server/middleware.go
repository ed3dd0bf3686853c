package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"activityapi/internal/logging"
	"activityapi/internal/telemetry"
)

// HeaderRequestID is echoed on every response.
const HeaderRequestID = "X-Request-Id"

// requestInfo is filled in by inner handlers and read back by the access log.
type requestInfo struct {
	id    string
	route string
	err   error
}

type requestInfoKey struct{}

func withRequestInfo(ctx context.Context, info *requestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

func requestInfoFrom(ctx context.Context) *requestInfo {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		return info
	}
	return nil
}

func (i *requestInfo) setRoute(name string) {
	if i != nil {
		i.route = name
	}
}

func (i *requestInfo) setErr(err error) {
	if i != nil {
		i.err = err
	}
}

// statusWriter captures the status code and size for logging.
type statusWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

func (w *statusWriter) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// observe assigns a request id, opens the request span, and logs plus
// records metrics once the request completes.
func observe(logger *logging.Logger, metrics *Metrics, next http.Handler) http.Handler {
	tracer := telemetry.Tracer()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)

		info := &requestInfo{id: id, route: "unknown"}
		ctx, span := tracer.Start(withRequestInfo(r.Context(), info), "http.request",
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
				attribute.String("request.id", id),
			),
		)
		defer span.End()

		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r.WithContext(ctx))

		code := sw.code()
		dur := time.Since(start)
		span.SetName(info.route)
		span.SetAttributes(attribute.Int("http.response.status_code", code))
		if code >= 500 {
			span.SetStatus(codes.Error, http.StatusText(code))
		}
		metrics.observe(info.route, NormalizeMethod(r.Method), code, dur)

		level := slog.LevelInfo
		if code >= 400 {
			level = slog.LevelWarn
		}
		if code >= 500 {
			level = slog.LevelError
		}
		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"route", info.route,
			"status", code,
			"bytes", sw.size,
			"duration", dur.Round(time.Microsecond),
			"request_id", id,
		}
		if info.err != nil {
			attrs = append(attrs, "err", info.err.Error())
		}
		logger.Log(r.Context(), level, "request", attrs...)
	})
}

// recoverPanics turns a panic anywhere below it into the internal error
// envelope.
func recoverPanics(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			err := fmt.Errorf("panic: %v", rec)
			requestInfoFrom(r.Context()).setErr(err)
			logger.Error("handler panic", "err", err, "path", r.URL.Path, "stack", string(debug.Stack()))
			writeInternal(w, fmt.Sprint(rec))
		}()
		next.ServeHTTP(w, r)
	})
}
