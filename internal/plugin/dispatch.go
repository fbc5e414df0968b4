package plugin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/serenlabs/lucid/internal/analytics"
	"github.com/serenlabs/lucid/internal/logging"
)

// CapabilitySource yields registered capabilities by kind. *Manager
// satisfies it.
type CapabilitySource interface {
	Capabilities(kind CapabilityKind) []RegisteredCapability
}

// AnalyzerFailure records one capability invocation that errored, panicked,
// or timed out during dispatch. Failures are collected, never propagated.
type AnalyzerFailure struct {
	PluginID     string
	CapabilityID string
	Err          error
	TimedOut     bool
}

func (f AnalyzerFailure) String() string {
	return fmt.Sprintf("%s/%s: %v", f.PluginID, f.CapabilityID, f.Err)
}

// Dispatcher fans one shared context out to every registered capability of a
// kind. One failing analyzer degrades the result set instead of aborting
// the batch.
type Dispatcher struct {
	source     CapabilitySource
	timeout    time.Duration // per-invocation bound
	maxWorkers int
	log        *logging.Logger
}

// NewDispatcher creates a dispatcher with a per-invocation timeout and a cap
// on concurrent invocations. The pool is additionally bounded by the number
// of registered capabilities.
func NewDispatcher(source CapabilitySource, timeout time.Duration, maxWorkers int, log *logging.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	return &Dispatcher{
		source:     source,
		timeout:    timeout,
		maxWorkers: maxWorkers,
		log:        log.Sub("dispatch"),
	}
}

// ExecuteAnalytics invokes every registered analytics capability with the
// same read-only context and collects the results in registration order.
// Callers must not read priority into that order.
func (d *Dispatcher) ExecuteAnalytics(ctx context.Context, actx *analytics.Context) ([]analytics.Result, []AnalyzerFailure) {
	caps := d.source.Capabilities(KindAnalytics)
	if len(caps) == 0 {
		return nil, nil
	}

	type slot struct {
		result  *analytics.Result
		failure *AnalyzerFailure
	}
	slots := make([]slot, len(caps))

	workers := d.maxWorkers
	if len(caps) < workers {
		workers = len(caps)
	}
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, rc := range caps {
		ac, ok := rc.Capability.(AnalyticsCapability)
		if !ok || ac.Analyze == nil {
			continue
		}
		wg.Add(1)
		go func(i int, rc RegisteredCapability, ac AnalyticsCapability) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := d.invokeAnalyze(ctx, ac, actx)
			if err != nil {
				slots[i].failure = &AnalyzerFailure{
					PluginID:     rc.PluginID,
					CapabilityID: ac.ID,
					Err:          err,
					TimedOut:     errors.Is(err, context.DeadlineExceeded),
				}
				d.log.Warn().
					Err(err).
					Str("plugin", rc.PluginID).
					Str("capability", ac.ID).
					Msg("analyzer failed")
				return
			}
			slots[i].result = result
		}(i, rc, ac)
	}
	wg.Wait()

	var results []analytics.Result
	var failures []AnalyzerFailure
	for _, s := range slots {
		if s.result != nil {
			results = append(results, *s.result)
		}
		if s.failure != nil {
			failures = append(failures, *s.failure)
		}
	}
	return results, failures
}

// invokeAnalyze bounds one capability call with the per-plugin timeout and
// converts panics into errors. A misbehaving analyzer that ignores
// cancellation is abandoned, not waited for.
func (d *Dispatcher) invokeAnalyze(ctx context.Context, ac AnalyticsCapability, actx *analytics.Context) (*analytics.Result, error) {
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	type outcome struct {
		result *analytics.Result
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("analyzer panic: %v", r)}
			}
		}()
		result, err := ac.Analyze(callCtx, actx)
		done <- outcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-callCtx.Done():
		return nil, callCtx.Err()
	}
}

// QueryConversational sends a query to every conversational capability and
// collects the responses in registration order, with the same fault
// isolation as analytics dispatch.
func (d *Dispatcher) QueryConversational(ctx context.Context, q Query) ([]Response, []AnalyzerFailure) {
	caps := d.source.Capabilities(KindConversational)

	var responses []Response
	var failures []AnalyzerFailure
	for _, rc := range caps {
		cc, ok := rc.Capability.(ConversationalCapability)
		if !ok || cc.Process == nil {
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, d.timeout)
		resp, err := cc.Process(callCtx, q)
		cancel()

		if err != nil {
			failures = append(failures, AnalyzerFailure{
				PluginID:     rc.PluginID,
				CapabilityID: cc.ID,
				Err:          err,
				TimedOut:     errors.Is(err, context.DeadlineExceeded),
			})
			d.log.Warn().
				Err(err).
				Str("plugin", rc.PluginID).
				Str("capability", cc.ID).
				Msg("conversational capability failed")
			continue
		}
		if resp != nil {
			responses = append(responses, *resp)
		}
	}
	return responses, failures
}
