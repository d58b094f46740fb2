package sentryx

import (
	"fmt"
	"strings"

	"github.com/getsentry/sentry-go"

	"github.com/capai/xcommon/error/xerr"
	"github.com/capai/xcommon/internal/release"
)

// ErrConfiguration matches every setup failure caused by missing or invalid
// settings, e.g. errors.Is(err, sentryx.ErrConfiguration).
var ErrConfiguration = xerr.New(xerr.NewSimpleReason(xerr.CodeConfiguration, "sentry configuration error"), nil)

// ErrUnknownFlavor is wrapped inside the configuration error returned for a
// flavour the dispatcher has no client for.
var ErrUnknownFlavor = xerr.New(xerr.NewSimpleReason(xerr.CodeUnknownFlavor, "unknown runtime flavor"), nil)

const (
	TagFlavor       = "runtime.flavor"
	TagFunctionName = "function.name"
)

// backend is one flavour's client options plus the tags set on the global scope.
type backend struct {
	flavor  Flavor
	options sentry.ClientOptions
	tags    map[string]string
}

// Setup initialises the process-wide Sentry client for the resolved flavour.
// It must run once at process start; the SDK owns what happens on a second call.
func Setup(cfg Config, opts ...Option) error {
	o := newOptions(opts)

	if strings.TrimSpace(cfg.DSN) == "" {
		return xerr.Configuration(xerr.CodeConfiguration, "sentryx: dsn is required", nil)
	}

	flavor := Resolve(o.flavor, o.lookup)

	var b backend
	switch flavor {
	case FlavorServer:
		b = serverBackend(cfg, o)
	case FlavorFunction:
		b = functionBackend(cfg, o)
	default:
		unknown := xerr.New(xerr.NewSimpleReason(xerr.CodeUnknownFlavor, fmt.Sprintf("unknown flavor %q", string(flavor))), nil)
		return xerr.Configuration(xerr.CodeConfiguration, "sentryx: unsupported runtime", unknown).
			WithMetadata("flavor", string(flavor))
	}

	if err := b.init(); err != nil {
		return err
	}
	messageFlush.Store(int64(cfg.flushTimeout()))

	o.log.Info("sentry initialized",
		"flavor", b.flavor.String(),
		"environment", b.options.Environment,
		"release", b.options.Release,
	)
	return nil
}

func (b backend) init() error {
	if err := sentry.Init(b.options); err != nil {
		return xerr.Configuration(xerr.CodeConfiguration, "sentryx: init", err).
			WithMetadata("flavor", string(b.flavor))
	}
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTags(b.tags)
	})
	return nil
}

// serverBackend batches events on a background transport; the process lives
// long enough for the queue to drain.
func serverBackend(cfg Config, o *options) backend {
	co := baseOptions(cfg, o)
	if host, err := o.hostname(); err == nil {
		co.ServerName = host
	}
	transport := sentry.NewHTTPTransport()
	transport.Timeout = cfg.flushTimeout()
	co.Transport = transport

	return backend{
		flavor:  FlavorServer,
		options: co,
		tags:    mergeTags(cfg.Tags, map[string]string{TagFlavor: string(FlavorServer)}),
	}
}

// functionBackend sends synchronously: the runtime may freeze the process as
// soon as the handler returns.
func functionBackend(cfg Config, o *options) backend {
	co := baseOptions(cfg, o)
	name := o.lookup(FunctionEnvVar)
	if name != "" {
		co.ServerName = name
	}
	transport := sentry.NewHTTPSyncTransport()
	transport.Timeout = cfg.flushTimeout()
	co.Transport = transport

	tags := map[string]string{TagFlavor: string(FlavorFunction)}
	if name != "" {
		tags[TagFunctionName] = name
	}
	return backend{
		flavor:  FlavorFunction,
		options: co,
		tags:    mergeTags(cfg.Tags, tags),
	}
}

func baseOptions(cfg Config, o *options) sentry.ClientOptions {
	return sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.environment(),
		Release:          release.Name(cfg.ServiceName, cfg.Release, cfg.ImageTag),
		SampleRate:       cfg.SampleRate,
		EnableTracing:    cfg.EnableTracing,
		TracesSampleRate: cfg.TracesSampleRate,
		SendDefaultPII:   cfg.SendDefaultPII,
		AttachStacktrace: cfg.AttachStacktrace,
		Debug:            cfg.Debug,
		BeforeSend:       o.beforeSend,
	}
}

// mergeTags copies user tags and lays the flavour tags over them.
func mergeTags(user, flavor map[string]string) map[string]string {
	out := make(map[string]string, len(user)+len(flavor))
	for k, v := range user {
		out[k] = v
	}
	for k, v := range flavor {
		out[k] = v
	}
	return out
}
