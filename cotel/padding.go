package cotel

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/chenjie199234/pkcs7/cerror"
	"github.com/chenjie199234/pkcs7/internal/version"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	ometric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	otrace "go.opentelemetry.io/otel/trace"
)

const scope = "pkcs7.padding"

type instruments struct {
	total  ometric.Int64Counter
	length ometric.Int64Histogram
}

var current atomic.Pointer[instruments]

func init() {
	setInstruments(noop.NewMeterProvider(), false)
}

func setInstruments(p ometric.MeterProvider, withhost bool) error {
	meter := p.Meter(scope, ometric.WithInstrumentationVersion(version.String()))
	total, e := meter.Int64Counter("padding_total",
		ometric.WithDescription("pkcs7 encode and decode operations"),
		ometric.WithUnit("1"))
	if e != nil {
		return e
	}
	length, e := meter.Int64Histogram("padding_length",
		ometric.WithDescription("padding bytes added or stripped"),
		ometric.WithUnit("By"),
		ometric.WithExplicitBucketBoundaries(1, 2, 4, 8, 16, 32, 64, 128, 255))
	if e != nil {
		return e
	}
	if withhost {
		if e := registerHost(meter); e != nil {
			return e
		}
	}
	current.Store(&instruments{total: total, length: length})
	return nil
}

// op: encode or decode
// padlen is ignored when e != nil,failed ops carry the error code
func RecordPadding(ctx context.Context, op string, padlen int, e error) {
	in := current.Load()
	if e != nil {
		in.total.Add(ctx, 1, ometric.WithAttributes(
			attribute.String("op", op),
			attribute.String("result", "fail"),
			attribute.Int64("code", cerror.GetCodeFromStdError(e))))
		return
	}
	in.total.Add(ctx, 1, ometric.WithAttributes(attribute.String("op", op), attribute.String("result", "ok")))
	in.length.Record(ctx, int64(padlen), ometric.WithAttributes(attribute.String("op", op)))
}

// Start starts a span from the global tracer provider
func Start(ctx context.Context, name string, opts ...otrace.SpanStartOption) (context.Context, otrace.Span) {
	return otel.Tracer(scope, otrace.WithInstrumentationVersion(version.String())).Start(ctx, name, opts...)
}

func registerHost(meter ometric.Meter) error {
	cpuu, e := meter.Float64ObservableGauge("cpu_usage", ometric.WithUnit("%"))
	if e != nil {
		return e
	}
	memu, e := meter.Float64ObservableGauge("mem_usage", ometric.WithUnit("%"))
	if e != nil {
		return e
	}
	goroutine, e := meter.Int64ObservableGauge("goroutine", ometric.WithUnit("1"))
	if e != nil {
		return e
	}
	_, e = meter.RegisterCallback(func(ctx context.Context, o ometric.Observer) error {
		if percents, e := cpu.PercentWithContext(ctx, 0, false); e == nil && len(percents) > 0 {
			o.ObserveFloat64(cpuu, percents[0])
		}
		if vm, e := mem.VirtualMemoryWithContext(ctx); e == nil {
			o.ObserveFloat64(memu, vm.UsedPercent)
		}
		o.ObserveInt64(goroutine, int64(runtime.NumGoroutine()))
		return nil
	}, cpuu, memu, goroutine)
	return e
}
