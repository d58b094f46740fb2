package sentryx

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/capai/xcommon/error/xerr"
)

const (
	TagCategory = "category"
	TagHandled  = "handled"

	TagErrorCode  = "error.code"
	TagHTTPStatus = "error.http_status"
	TagGRPCCode   = "error.grpc_code"

	categoryObservations = "observations"
)

// messageFlush is the flush timeout Setup configured; zero before Setup.
var messageFlush atomic.Int64

func defaultMessageFlush() time.Duration {
	if d := time.Duration(messageFlush.Load()); d > 0 {
		return d
	}
	return defaultFlushTimeout
}

type message struct {
	flavor       Flavor
	lookup       LookupFunc
	flushTimeout time.Duration
	level        sentry.Level
	user         *sentry.User
	tags         map[string]string
	contexts     map[string]map[string]any
	extras       map[string]any
	attachments  []*sentry.Attachment
}

type MessageOption func(*message)

// WithMessageFlavor bypasses detection for a single call.
func WithMessageFlavor(f Flavor) MessageOption {
	return func(m *message) { m.flavor = f }
}

func WithMessageLookupEnv(fn LookupFunc) MessageOption {
	return func(m *message) {
		if fn != nil {
			m.lookup = fn
		}
	}
}

// WithFlushTimeout bounds the wait for delivery in the function flavour.
func WithFlushTimeout(d time.Duration) MessageOption {
	return func(m *message) {
		if d > 0 {
			m.flushTimeout = d
		}
	}
}

func WithLevel(level sentry.Level) MessageOption {
	return func(m *message) { m.level = level }
}

func WithUser(u sentry.User) MessageOption {
	return func(m *message) { m.user = &u }
}

func WithTags(tags map[string]string) MessageOption {
	return func(m *message) {
		for k, v := range tags {
			m.tags[k] = v
		}
	}
}

// WithContext attaches a named structured context to the event.
func WithContext(key string, values map[string]any) MessageOption {
	return func(m *message) {
		if key == "" || len(values) == 0 {
			return
		}
		cp := make(map[string]any, len(values))
		for k, v := range values {
			cp[k] = v
		}
		m.contexts[key] = cp
	}
}

func WithExtra(key string, value any) MessageOption {
	return func(m *message) { m.extras[key] = value }
}

// WithAttachment adds a raw file to the event. Empty payloads are skipped.
func WithAttachment(filename, contentType string, payload []byte) MessageOption {
	return func(m *message) {
		if len(payload) == 0 {
			return
		}
		m.attachments = append(m.attachments, &sentry.Attachment{
			Filename:    filename,
			ContentType: contentType,
			Payload:     payload,
		})
	}
}

// WithJSONAttachment marshals data as indented JSON. Values that fail to
// marshal are dropped rather than failing the report.
func WithJSONAttachment(filename string, data any) MessageOption {
	if filename == "" {
		filename = "attachment.json"
	}
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil || string(payload) == "null" {
		return func(*message) {}
	}
	return WithAttachment(filename, "application/json", payload)
}

func newMessage(opts []MessageOption) *message {
	m := &message{
		flavor:       FlavorAuto,
		lookup:       os.Getenv,
		flushTimeout: defaultMessageFlush(),
		tags: map[string]string{
			TagCategory: categoryObservations,
			TagHandled:  "true",
		},
		contexts: map[string]map[string]any{},
		extras:   map[string]any{},
	}
	for _, fn := range opts {
		fn(m)
	}
	return m
}

func (m *message) apply(scope *sentry.Scope) {
	scope.SetTags(m.tags)
	for k, v := range m.contexts {
		scope.SetContext(k, v)
	}
	for k, v := range m.extras {
		scope.SetExtra(k, v)
	}
	if m.level != "" {
		scope.SetLevel(m.level)
	}
	if m.user != nil {
		scope.SetUser(*m.user)
	}
	for _, a := range m.attachments {
		scope.AddAttachment(a)
	}
}

// SendMessage reports text to Sentry through the flavour-appropriate path and
// returns the event id, or nil when nothing was sent (no client, sampled out,
// dropped by a hook). It never panics, including before Setup.
func SendMessage(ctx context.Context, text string, opts ...MessageOption) *sentry.EventID {
	m := newMessage(opts)
	return dispatch(ctx, m, func(hub *sentry.Hub) *sentry.EventID {
		return hub.CaptureMessage(text)
	})
}

// CaptureException reports err the same way SendMessage reports text.
func CaptureException(ctx context.Context, err error, opts ...MessageOption) *sentry.EventID {
	if err == nil {
		return nil
	}
	m := newMessage(append([]MessageOption{withReason(err)}, opts...))
	return dispatch(ctx, m, func(hub *sentry.Hub) *sentry.EventID {
		return hub.CaptureException(err)
	})
}

// withReason tags the event with the code and transport statuses of the
// first xerr in err's chain. Caller tags override them.
func withReason(err error) MessageOption {
	var xe xerr.Error
	if !errors.As(err, &xe) {
		return func(*message) {}
	}
	return WithTags(map[string]string{
		TagErrorCode:  string(xe.Reason().Code()),
		TagHTTPStatus: strconv.Itoa(xerr.ErrorToHTTPStatus(xe)),
		TagGRPCCode:   xerr.ErrorToGRPCCode(xe).String(),
	})
}

func dispatch(ctx context.Context, m *message, capture func(*sentry.Hub) *sentry.EventID) *sentry.EventID {
	hub := hubFrom(ctx).Clone()
	m.apply(hub.Scope())

	switch Resolve(m.flavor, m.lookup) {
	case FlavorFunction:
		id := capture(hub)
		hub.Flush(m.flushTimeout)
		return id
	default:
		// FlavorServer; flavours without a dedicated path report the same way.
		return capture(hub)
	}
}

// Flush waits up to timeout for buffered events to be delivered.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// Recover reports a panic, waits for delivery and re-panics. Defer it at the
// top of a function handler:
//
//	defer sentryx.Recover(ctx)
func Recover(ctx context.Context, opts ...MessageOption) {
	r := recover()
	if r == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	m := newMessage(opts)
	hub := hubFrom(ctx).Clone()
	m.apply(hub.Scope())
	hub.RecoverWithContext(ctx, r)
	hub.Flush(m.flushTimeout)
	panic(r)
}

func hubFrom(ctx context.Context) *sentry.Hub {
	if ctx != nil {
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			return hub
		}
	}
	return sentry.CurrentHub()
}
