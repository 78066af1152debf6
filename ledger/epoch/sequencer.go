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
	"log/slog"
	"sync"

	"github.com/blinklabs-io/utxobatch/ledger/common"
	"github.com/blinklabs-io/utxobatch/ledger/utxo"
)

var ErrSequencerStopped = errors.New("sequencer stopped")

// EpochResult is the Result of one epoch resolved by a Sequencer
type EpochResult struct {
	*Result
	Epoch uint64
}

// Sequencer resolves batches one epoch at a time. The ledger produced by each epoch is
// the starting ledger of the next one, regardless of how many goroutines submit batches
type Sequencer struct {
	resolver    *Resolver
	logger      *slog.Logger
	mutex       sync.Mutex
	ledger      *utxo.Ledger
	epoch       uint64
	requestChan chan sequencerRequest
	doneChan    chan struct{}
	startOnce   sync.Once
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

type sequencerRequest struct {
	ctx          context.Context
	candidates   []*common.Transaction
	responseChan chan sequencerResponse
}

type sequencerResponse struct {
	result *EpochResult
	err    error
}

// SequencerOptionFunc is a type that represents functions that modify the Sequencer config
type SequencerOptionFunc func(*Sequencer)

// WithResolver specifies the resolver used for each epoch. If none is provided, one with
// the default options is created
func WithResolver(resolver *Resolver) SequencerOptionFunc {
	return func(s *Sequencer) {
		s.resolver = resolver
	}
}

// WithSequencerLogger specifies the logger. The default is slog.Default()
func WithSequencerLogger(logger *slog.Logger) SequencerOptionFunc {
	return func(s *Sequencer) {
		s.logger = logger
	}
}

// WithStartEpoch specifies the number of the first epoch. The default is 0
func WithStartEpoch(epoch uint64) SequencerOptionFunc {
	return func(s *Sequencer) {
		s.epoch = epoch
	}
}

// NewSequencer returns a Sequencer starting from a copy of baseline. Call Start before
// submitting batches
func NewSequencer(
	baseline *utxo.Ledger,
	opts ...SequencerOptionFunc,
) (*Sequencer, error) {
	s := &Sequencer{
		ledger:      utxo.NewFrom(baseline),
		requestChan: make(chan sequencerRequest),
		doneChan:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.resolver == nil {
		resolver, err := NewResolver()
		if err != nil {
			return nil, err
		}
		s.resolver = resolver
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Start starts the goroutine that resolves submitted batches
func (s *Sequencer) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.loop()
	})
}

// Stop stops the Sequencer and waits for a batch being resolved to finish
func (s *Sequencer) Stop() {
	s.stopOnce.Do(func() {
		close(s.doneChan)
	})
	s.wg.Wait()
}

// Submit resolves candidates as the next epoch and returns the result. Batches submitted
// concurrently are resolved one after another in an unspecified order. A batch whose
// context is done before its turn is skipped and does not consume an epoch
func (s *Sequencer) Submit(
	ctx context.Context,
	candidates []*common.Transaction,
) (*EpochResult, error) {
	req := sequencerRequest{
		ctx:          ctx,
		candidates:   candidates,
		responseChan: make(chan sequencerResponse, 1),
	}
	select {
	case <-s.doneChan:
		return nil, ErrSequencerStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	case s.requestChan <- req:
	}
	// Once handed over, the batch is always answered
	resp := <-req.responseChan
	return resp.result, resp.err
}

// Ledger returns a copy of the current ledger
func (s *Sequencer) Ledger() *utxo.Ledger {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.ledger.Clone()
}

// Epoch returns the number of the next epoch to be resolved
func (s *Sequencer) Epoch() uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.epoch
}

func (s *Sequencer) loop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.doneChan:
			return
		case req := <-s.requestChan:
			req.responseChan <- s.resolveEpoch(req)
		}
	}
}

func (s *Sequencer) resolveEpoch(req sequencerRequest) sequencerResponse {
	if err := req.ctx.Err(); err != nil {
		return sequencerResponse{err: err}
	}
	s.mutex.Lock()
	baseline := s.ledger
	epoch := s.epoch
	s.mutex.Unlock()
	result := s.resolver.ResolveContext(req.ctx, req.candidates, baseline)
	s.mutex.Lock()
	s.ledger = result.Ledger
	s.epoch++
	s.mutex.Unlock()
	s.logger.Info(
		"resolved epoch",
		"epoch",
		epoch,
		"accepted",
		len(result.Accepted),
		"rejected",
		len(result.Rejected),
		"utxos",
		result.Ledger.Len(),
	)
	// Callers get their own copy so they can't modify the next epoch's baseline
	callerResult := *result
	callerResult.Ledger = result.Ledger.Clone()
	return sequencerResponse{
		result: &EpochResult{
			Result: &callerResult,
			Epoch:  epoch,
		},
	}
}
