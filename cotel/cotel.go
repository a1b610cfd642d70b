package cotel

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/chenjie199234/pkcs7/util/host"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	oprometheus "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var (
	ErrTraceEnv  = errors.New("[cotel] os env TRACE error,must in [\"\",\"log\",\"otlphttp\",\"otlpgrpc\",\"zipkin\"]")
	ErrMetricEnv = errors.New("[cotel] os env METRIC error,must in [\"\",\"log\",\"otlphttp\",\"otlpgrpc\",\"prometheus\"]")
	ErrZipkinEnv = errors.New("[cotel] os env ZIPKIN_URL missing,when os env TRACE is zipkin")
	ErrOtlpEnv   = errors.New("[cotel] os env OTEL_EXPORTER_OTLP_ENDPOINT missing,when os env TRACE or METRIC is otlp...")
	ErrAppName   = errors.New("[cotel] app name empty")
)

var tp *trace.TracerProvider
var mp *metric.MeterProvider
var promRegister *prometheus.Registry

func getenv(key string) string {
	str := strings.TrimSpace(os.Getenv(key))
	if str == "<"+key+">" {
		return ""
	}
	return str
}

func checkenv() (traceenv, metricenv string, e error) {
	traceenv = strings.ToLower(getenv("TRACE"))
	switch traceenv {
	case "", "log", "otlphttp", "otlpgrpc":
	case "zipkin":
		if getenv("ZIPKIN_URL") == "" {
			return "", "", ErrZipkinEnv
		}
	default:
		return "", "", ErrTraceEnv
	}
	metricenv = strings.ToLower(getenv("METRIC"))
	switch metricenv {
	case "", "log", "otlphttp", "otlpgrpc", "prometheus":
	default:
		return "", "", ErrMetricEnv
	}
	if strings.HasPrefix(traceenv, "otlp") && getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT") == "" && getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return "", "", ErrOtlpEnv
	}
	if strings.HasPrefix(metricenv, "otlp") && getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT") == "" && getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return "", "", ErrOtlpEnv
	}
	return
}

// hooks for tests
var newSpanExporter = spanExporter
var newMetricReader = metricReader

// nil exporter when os env TRACE is empty
func spanExporter(traceenv string) (trace.SpanExporter, error) {
	switch traceenv {
	case "log":
		return &slogTraceExporter{}, nil
	case "otlphttp":
		exporter, e := otlptrace.New(context.Background(), otlptracehttp.NewClient())
		if e != nil {
			return nil, e
		}
		return exporter, nil
	case "otlpgrpc":
		exporter, e := otlptrace.New(context.Background(), otlptracegrpc.NewClient())
		if e != nil {
			return nil, e
		}
		return exporter, nil
	case "zipkin":
		exporter, e := zipkin.New(getenv("ZIPKIN_URL"), zipkin.WithLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo)))
		if e != nil {
			return nil, e
		}
		return exporter, nil
	}
	return nil, nil
}

// nil reader when os env METRIC is empty
// the registry is only returned for prometheus
func metricReader(metricenv string) (metric.Reader, *prometheus.Registry, error) {
	switch metricenv {
	case "log":
		return metric.NewPeriodicReader(&slogMetricExporter{}), nil, nil
	case "otlphttp":
		exporter, e := otlpmetrichttp.New(context.Background())
		if e != nil {
			return nil, nil, e
		}
		return metric.NewPeriodicReader(exporter), nil, nil
	case "otlpgrpc":
		exporter, e := otlpmetricgrpc.New(context.Background())
		if e != nil {
			return nil, nil, e
		}
		return metric.NewPeriodicReader(exporter), nil, nil
	case "prometheus":
		register := prometheus.NewRegistry()
		exporter, e := oprometheus.New(oprometheus.WithoutUnits(), oprometheus.WithRegisterer(register), oprometheus.WithoutCounterSuffixes())
		if e != nil {
			return nil, nil, e
		}
		return exporter, register, nil
	}
	return nil, nil, nil
}

// Init reads os env TRACE and METRIC and installs the global otel providers
// on error nothing is installed,exporters already created are shut down and the instruments stay noop
func Init(appname string) error {
	if appname == "" {
		return ErrAppName
	}
	traceenv, metricenv, e := checkenv()
	if e != nil {
		return e
	}
	sexporter, e := newSpanExporter(traceenv)
	if e != nil {
		return e
	}
	reader, register, e := newMetricReader(metricenv)
	if e != nil {
		if sexporter != nil {
			sexporter.Shutdown(context.Background())
		}
		return e
	}
	resources := resource.NewSchemaless(
		attribute.String("service.name", appname),
		attribute.String("host.id", host.Hostname),
		attribute.String("host.ip", host.Hostip))
	//trace
	topts := make([]trace.TracerProviderOption, 0, 3)
	topts = append(topts, trace.WithResource(resources))
	if sexporter != nil {
		topts = append(topts, trace.WithSampler(trace.AlwaysSample()))
		if traceenv == "log" {
			topts = append(topts, trace.WithSyncer(sexporter))
		} else {
			topts = append(topts, trace.WithBatcher(sexporter))
		}
	} else {
		topts = append(topts, trace.WithSampler(trace.NeverSample()))
	}
	newtp := trace.NewTracerProvider(topts...)
	//metric
	var newmp *metric.MeterProvider
	if reader != nil {
		newmp = metric.NewMeterProvider(metric.WithResource(resources), metric.WithReader(reader))
		if e := setInstruments(newmp, true); e != nil {
			newtp.Shutdown(context.Background())
			newmp.Shutdown(context.Background())
			return e
		}
	}
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tp = newtp
	otel.SetTracerProvider(tp)
	if newmp != nil {
		mp = newmp
		promRegister = register
		otel.SetMeterProvider(mp)
	}
	return nil
}

// Stop flushes and shuts down the providers installed by Init
func Stop() {
	wg := sync.WaitGroup{}
	wg.Add(2)
	go func() {
		if tp != nil {
			if e := tp.Shutdown(context.Background()); e != nil {
				slog.Error("[cotel] shutdown tracer provider failed", slog.String("error", e.Error()))
			}
		}
		wg.Done()
	}()
	go func() {
		if mp != nil {
			if e := mp.Shutdown(context.Background()); e != nil {
				slog.Error("[cotel] shutdown meter provider failed", slog.String("error", e.Error()))
			}
		}
		wg.Done()
	}()
	wg.Wait()
}

func NeedMetric() bool {
	return mp != nil
}

// WritePrometheus writes the prometheus registry in text exposition format
// does nothing when os env METRIC is not prometheus
func WritePrometheus(w io.Writer) error {
	if promRegister == nil {
		return nil
	}
	mfs, e := promRegister.Gather()
	if e != nil {
		return e
	}
	for _, mf := range mfs {
		if _, e := expfmt.MetricFamilyToText(w, mf); e != nil {
			return e
		}
	}
	return nil
}

type slogTraceExporter struct {
	stopped atomic.Bool
}

func (s *slogTraceExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	if s.stopped.Load() {
		return nil
	}
	if len(spans) == 0 {
		return nil
	}
	stubs := tracetest.SpanStubsFromReadOnlySpans(spans)
	for _, stub := range stubs {
		slog.Info("trace",
			slog.String("Name", stub.Name),
			slog.Any("SpanContext", stub.SpanContext),
			slog.Any("Parent", stub.Parent),
			slog.Int("SpanKind", int(stub.SpanKind)),
			slog.Time("StartTime", stub.StartTime),
			slog.Time("EndTime", stub.EndTime),
			slog.Any("Attributes", stub.Attributes),
			slog.Any("Status", stub.Status))
	}
	return nil
}

func (s *slogTraceExporter) Shutdown(ctx context.Context) error {
	s.stopped.Store(true)
	return nil
}

type slogMetricExporter struct {
	stopped atomic.Bool
}

func (s *slogMetricExporter) Temporality(p metric.InstrumentKind) metricdata.Temporality {
	return metric.DefaultTemporalitySelector(p)
}
func (s *slogMetricExporter) Aggregation(p metric.InstrumentKind) metric.Aggregation {
	return metric.DefaultAggregationSelector(p)
}
func (s *slogMetricExporter) Export(ctx context.Context, metrics *metricdata.ResourceMetrics) error {
	if s.stopped.Load() {
		return nil
	}
	attrs := make([]any, 0, 10)
	attrs = append(attrs, slog.Any("Resource", metrics.Resource))
	for _, m := range metrics.ScopeMetrics {
		gattrs := make([]any, 0, len(m.Metrics))
		for _, mm := range m.Metrics {
			gattrs = append(gattrs, slog.Any(mm.Name+"("+mm.Unit+")", mm.Data))
		}
		attrs = append(attrs, slog.Group(m.Scope.Name, gattrs...))
	}
	slog.Info("metric", attrs...)
	return nil
}
func (s *slogMetricExporter) ForceFlush(context.Context) error {
	return nil
}
func (s *slogMetricExporter) Shutdown(context.Context) error {
	s.stopped.Store(true)
	return nil
}
