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
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/utxobatch/ledger/common"
	"github.com/blinklabs-io/utxobatch/ledger/utxo"
	"github.com/blinklabs-io/utxobatch/ledger/validation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/blinklabs-io/utxobatch/ledger/epoch"

// Rejection records a candidate that was not accepted and why
type Rejection struct {
	Tx     *common.Transaction
	Err    error
	Reason string
}

// Result is the outcome of resolving one batch
type Result struct {
	// Accepted transactions, in the order they were applied
	Accepted []*common.Transaction
	// Rejected candidates, in the order they were considered
	Rejected []Rejection
	// Ledger is the state after applying every accepted transaction. It is a new
	// snapshot and never the one passed to Resolve
	Ledger *utxo.Ledger
}

// Resolver picks a mutually consistent subset of a batch of candidate transactions
type Resolver struct {
	ordering        Ordering
	validator       *validation.Validator
	logger          *slog.Logger
	tracerProvider  trace.TracerProvider
	meterProvider   metric.MeterProvider
	tracer          trace.Tracer
	acceptedCounter metric.Int64Counter
	rejectedCounter metric.Int64Counter
}

func NewResolver(opts ...ResolverOptionFunc) (*Resolver, error) {
	r := &Resolver{
		ordering: OrderInput,
	}
	for _, opt := range opts {
		opt(r)
	}
	if !r.ordering.valid() {
		return nil, fmt.Errorf("unknown ordering: %s", r.ordering)
	}
	if r.validator == nil {
		r.validator = validation.NewValidator()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.tracerProvider == nil {
		r.tracerProvider = otel.GetTracerProvider()
	}
	if r.meterProvider == nil {
		r.meterProvider = otel.GetMeterProvider()
	}
	r.tracer = r.tracerProvider.Tracer(instrumentationName)
	meter := r.meterProvider.Meter(instrumentationName)
	var err error
	r.acceptedCounter, err = meter.Int64Counter(
		"utxobatch.transactions.accepted",
		metric.WithDescription("Number of candidate transactions accepted"),
	)
	if err != nil {
		return nil, fmt.Errorf("create accepted counter: %w", err)
	}
	r.rejectedCounter, err = meter.Int64Counter(
		"utxobatch.transactions.rejected",
		metric.WithDescription("Number of candidate transactions rejected"),
	)
	if err != nil {
		return nil, fmt.Errorf("create rejected counter: %w", err)
	}
	return r, nil
}

func (r *Resolver) Ordering() Ordering {
	return r.ordering
}

// Resolve selects the transactions to commit from candidates and returns them along
// with the resulting ledger. The provided ledger is never modified
func (r *Resolver) Resolve(
	candidates []*common.Transaction,
	l *utxo.Ledger,
) *Result {
	return r.ResolveContext(context.Background(), candidates, l)
}

// ResolveContext is like Resolve. The context only carries telemetry; resolution does no
// I/O and cannot be cancelled
func (r *Resolver) ResolveContext(
	ctx context.Context,
	candidates []*common.Transaction,
	l *utxo.Ledger,
) *Result {
	ctx, span := r.tracer.Start(
		ctx,
		"epoch.resolve",
		trace.WithAttributes(
			attribute.Int("candidates", len(candidates)),
			attribute.String("ordering", r.ordering.String()),
		),
	)
	defer span.End()
	result := &Result{
		Accepted: []*common.Transaction{},
		Ledger:   utxo.NewFrom(l),
	}
	for _, tx := range r.ordering.order(candidates, result.Ledger) {
		if err := r.apply(tx, result.Ledger); err != nil {
			rejection := Rejection{
				Tx:     tx,
				Err:    err,
				Reason: rejectionReason(err),
			}
			result.Rejected = append(result.Rejected, rejection)
			r.rejectedCounter.Add(
				ctx,
				1,
				metric.WithAttributes(attribute.String("reason", rejection.Reason)),
			)
			r.logger.Debug(
				"rejected transaction",
				"tx_hash",
				txHashString(tx),
				"reason",
				rejection.Reason,
				"error",
				err,
			)
			continue
		}
		result.Accepted = append(result.Accepted, tx)
		r.acceptedCounter.Add(ctx, 1)
	}
	span.SetAttributes(
		attribute.Int("accepted", len(result.Accepted)),
		attribute.Int("rejected", len(result.Rejected)),
	)
	return result
}

// apply validates tx against the working ledger and, if it is valid, spends its inputs
// and adds its outputs
func (r *Resolver) apply(tx *common.Transaction, working *utxo.Ledger) error {
	if err := r.validator.Validate(tx, working); err != nil {
		return err
	}
	return working.Apply(tx)
}

func txHashString(tx *common.Transaction) string {
	if tx == nil {
		return ""
	}
	return tx.Hash().String()
}

func rejectionReason(err error) string {
	var (
		malformedErr validation.MalformedTransactionError
		badInputsErr validation.BadInputsError
		sigErr       validation.InvalidSignatureError
		dupErr       validation.DuplicateInputError
		negErr       validation.NegativeOutputError
		valueErr     validation.ValueNotConservedError
	)
	switch {
	case errors.As(err, &malformedErr):
		return "malformed"
	case errors.As(err, &badInputsErr):
		return "bad_inputs"
	case errors.As(err, &sigErr):
		return "invalid_signature"
	case errors.As(err, &dupErr):
		return "duplicate_input"
	case errors.As(err, &negErr):
		return "negative_output"
	case errors.As(err, &valueErr):
		return "value_not_conserved"
	case errors.Is(err, utxo.ErrUtxoExists):
		return "output_exists"
	default:
		return "other"
	}
}
