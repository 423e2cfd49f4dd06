// Package functions exposes the codec as a named-operation surface for host
// test-scripting systems. Every operation is registered under an "amqp:"
// prefixed name so a host dispatcher can resolve script calls to Go
// functions without knowing the package layout.
package functions

import (
	"go.uber.org/zap"

	"github.com/vortexmq/amqpex/codec"
	"github.com/vortexmq/amqpex/errors"
	"github.com/vortexmq/amqpex/extension"
	"github.com/vortexmq/amqpex/metrics"
)

const prefix = "amqp"

// Registry resolves script-facing operation names and instruments builder
// and matcher usage.
type Registry struct {
	log     *zap.Logger
	metrics *metrics.Collector
	entries map[string]interface{}
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger attaches a zap logger; match outcomes are logged at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) { r.log = log }
}

// WithMetrics attaches a metrics collector counting builds and matches.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Registry) { r.metrics = c }
}

// NewRegistry creates the operation registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	r.entries = map[string]interface{}{
		// composite builders
		"routeEx": r.RouteEx,
		"beginEx": r.BeginEx,
		"dataEx":  r.DataEx,
		"abortEx": r.AbortEx,

		// composite matchers
		"matchBeginEx": r.MatchBeginEx,
		"matchDataEx":  r.MatchDataEx,
		"matchAbortEx": r.MatchAbortEx,

		// primitive encoders
		"null":       codec.Null,
		"true":       codec.True,
		"false":      codec.False,
		"boolean":    codec.Boolean,
		"ubyte":      codec.UByte,
		"ushort":     codec.UShort,
		"uint":       codec.UInt,
		"smalluint":  codec.SmallUInt,
		"uint0":      codec.UInt0,
		"ulong":      codec.ULong,
		"smallulong": codec.SmallULong,
		"ulong0":     codec.ULong0,
		"byte":       codec.Byte,
		"short":      codec.Short,
		"int":        codec.Int,
		"smallint":   codec.SmallInt,
		"long":       codec.Long,
		"smalllong":  codec.SmallLong,
		"char":       codec.Char,
		"timestamp":  codec.Timestamp,
		"string8":    codec.String8,
		"string32":   codec.String32,
		"symbol8":    codec.Symbol8,
		"symbol32":   codec.Symbol32,
		"binary8":    codec.Binary8,
		"binary32":   codec.Binary32,
	}
	return r
}

// Lookup resolves a prefixed operation name, e.g. "amqp:dataEx".
func (r *Registry) Lookup(name string) (interface{}, bool) {
	const sep = prefix + ":"
	if len(name) <= len(sep) || name[:len(sep)] != sep {
		return nil, false
	}
	fn, ok := r.entries[name[len(sep):]]
	return fn, ok
}

// Names returns every registered operation name, unprefixed.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	return names
}

func (r *Registry) countBuild(record string) {
	if r.metrics != nil {
		r.metrics.RecordsBuilt.WithLabelValues(record).Inc()
	}
}

// RouteEx starts a RouteEx builder.
func (r *Registry) RouteEx() *extension.RouteExBuilder {
	r.countBuild("routeEx")
	return extension.NewRouteEx()
}

// BeginEx starts a BeginEx builder.
func (r *Registry) BeginEx() *extension.BeginExBuilder {
	r.countBuild("beginEx")
	return extension.NewBeginEx()
}

// DataEx starts a DataEx builder.
func (r *Registry) DataEx() *extension.DataExBuilder {
	r.countBuild("dataEx")
	return extension.NewDataEx()
}

// AbortEx starts an AbortEx builder.
func (r *Registry) AbortEx() *extension.AbortExBuilder {
	r.countBuild("abortEx")
	return extension.NewAbortEx()
}

// FinishBuild serializes a started builder via build and records the
// outcome: encoded bytes on success, a build error otherwise.
func (r *Registry) FinishBuild(record string, build func() ([]byte, error)) ([]byte, error) {
	out, err := build()
	if err != nil {
		if r.metrics != nil {
			r.metrics.BuildErrors.WithLabelValues(record).Inc()
		}
		r.log.Debug("record build failed", zap.String("record", record), zap.Error(err))
		return nil, err
	}
	if r.metrics != nil {
		r.metrics.BytesEncoded.Add(float64(len(out)))
	}
	return out, nil
}

// DecodeDataEx decodes one DataEx record from the front of buf with decode
// failures counted.
func (r *Registry) DecodeDataEx(buf []byte) (*extension.DataEx, int, error) {
	record, size, err := extension.DecodeDataEx(buf)
	if err != nil {
		if r.metrics != nil {
			r.metrics.DecodeFailures.WithLabelValues("dataEx").Inc()
		}
		r.log.Debug("dataEx decode failed", zap.Error(err))
		return nil, 0, err
	}
	return record, size, nil
}

// MatchBeginEx starts a BeginEx matcher builder.
func (r *Registry) MatchBeginEx() *extension.BeginExMatcherBuilder {
	return extension.NewMatchBeginEx()
}

// MatchDataEx starts a DataEx matcher builder.
func (r *Registry) MatchDataEx() *extension.DataExMatcherBuilder {
	return extension.NewMatchDataEx()
}

// MatchAbortEx starts an AbortEx matcher builder.
func (r *Registry) MatchAbortEx() *extension.AbortExMatcherBuilder {
	return extension.NewMatchAbortEx()
}

// RunDataExMatch drives a built DataEx matcher against the cursor with
// logging and metrics around the outcome.
func (r *Registry) RunDataExMatch(match extension.DataExMatcher, cur *extension.Cursor) (*extension.DataEx, error) {
	if r.metrics != nil {
		r.metrics.MatchAttempts.WithLabelValues("dataEx").Inc()
	}
	record, err := match(cur)
	if err != nil {
		if r.metrics != nil {
			if errors.IsKind(err, errors.DecodeFailure) {
				r.metrics.DecodeFailures.WithLabelValues("dataEx").Inc()
			} else {
				r.metrics.MatchFailures.WithLabelValues("dataEx").Inc()
			}
		}
		r.log.Debug("dataEx match failed", zap.Error(err))
		return nil, err
	}
	if r.metrics != nil {
		r.metrics.MatchSuccesses.WithLabelValues("dataEx").Inc()
	}
	r.log.Debug("dataEx matched",
		zap.Uint32("type_id", record.TypeID),
		zap.Int("cursor", cur.Pos))
	return record, nil
}
