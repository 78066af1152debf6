// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package epoch

import (
	"log/slog"

	"github.com/blinklabs-io/utxobatch/ledger/validation"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ResolverOptionFunc is a type that represents functions that modify the Resolver config
type ResolverOptionFunc func(*Resolver)

// WithOrdering specifies the candidate ordering policy. The default is OrderInput
func WithOrdering(ordering Ordering) ResolverOptionFunc {
	return func(r *Resolver) {
		r.ordering = ordering
	}
}

// WithValidator specifies the transaction validator. If none is provided, one with the
// default rules is created
func WithValidator(validator *validation.Validator) ResolverOptionFunc {
	return func(r *Resolver) {
		r.validator = validator
	}
}

// WithLogger specifies the logger. The default is slog.Default()
func WithLogger(logger *slog.Logger) ResolverOptionFunc {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithTracerProvider specifies the OpenTelemetry tracer provider. The default is the
// global provider
func WithTracerProvider(tracerProvider trace.TracerProvider) ResolverOptionFunc {
	return func(r *Resolver) {
		r.tracerProvider = tracerProvider
	}
}

// WithMeterProvider specifies the OpenTelemetry meter provider. The default is the
// global provider
func WithMeterProvider(meterProvider metric.MeterProvider) ResolverOptionFunc {
	return func(r *Resolver) {
		r.meterProvider = meterProvider
	}
}
