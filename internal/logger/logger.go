package logger

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/OldStager01/traffic-extrema/pkg/models"
)

// Field names shared by every structured line.
const (
	FieldTraceID  = "trace_id"
	FieldObjectID = "object_id"
)

type ctxKey struct{}

var log = newLogger(os.Stderr)

// The report body owns stdout, so logs go to stderr unless redirected.
func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(formatterFor("production"))
	return l
}

func formatterFor(mode string) logrus.Formatter {
	if mode == "development" {
		return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05"}
	}
	return &logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"}
}

// Setup applies the configured level and picks a formatter for mode.
// Unknown levels fall back to info.
func Setup(level, mode string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(formatterFor(mode))
}

func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, traceID)
}

func TraceIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func fromContext(ctx context.Context) *logrus.Entry {
	if id := TraceIDFromContext(ctx); id != "" {
		return log.WithField(FieldTraceID, id)
	}
	return logrus.NewEntry(log)
}

func WithField(key string, value interface{}) *logrus.Entry {
	return log.WithField(key, value)
}

func WithFields(fields map[string]interface{}) *logrus.Entry {
	return log.WithFields(fields)
}

func WithObject(id models.ObjectID) *logrus.Entry {
	return log.WithField(FieldObjectID, string(id))
}

// WithObjectCtx is WithObject plus the run's trace id, if any.
func WithObjectCtx(ctx context.Context, id models.ObjectID) *logrus.Entry {
	return fromContext(ctx).WithField(FieldObjectID, string(id))
}

func Info(msg string)                           { log.Info(msg) }
func Debugf(format string, args ...interface{}) { log.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { log.Infof(format, args...) }
func Errorf(format string, args ...interface{}) { log.Errorf(format, args...) }

func InfoCtxf(ctx context.Context, format string, args ...interface{}) {
	fromContext(ctx).Infof(format, args...)
}
