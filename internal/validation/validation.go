// Package validation implements the composable business-rule pipeline
// run by application services before any repository mutation.
//
// A pipeline is an ordered sequence of independent rules for one
// (input type, error-code enumeration) pair. Every rule runs — failures
// accumulate rather than short-circuit — so callers can report all
// violations in one response. Error codes form a set; duplicates from
// overlapping rules are dropped. Rules read through tenant-scoped
// repositories, so rule evaluation sees exactly what the operation's
// scope is allowed to see.
//
// Faults are a separate category: a rule returning an unexpected error,
// or a cancelled context, aborts the run and discards any accumulation.
package validation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"

	dErrors "finbook/pkg/domain-errors"
)

var tracer = otel.Tracer("finbook/internal/validation")

// Outcome is one rule's verdict: zero or more typed error codes with
// messages, or success with an optional payload.
//
// Invariants:
//   - failed iff the code set is non-empty
//   - a failed outcome never carries a payload
type Outcome[C comparable] struct {
	codes      []C
	messages   map[C]string
	payload    any
	hasPayload bool
}

// Pass returns a successful outcome with no payload.
func Pass[C comparable]() Outcome[C] {
	return Outcome[C]{}
}

// PassWith returns a successful outcome carrying a payload, typically
// the entity resolved by an existence rule.
func PassWith[C comparable](payload any) Outcome[C] {
	return Outcome[C]{payload: payload, hasPayload: true}
}

// Fail returns a failed outcome with a single code.
func Fail[C comparable](code C, message string) Outcome[C] {
	return Outcome[C]{}.WithError(code, message)
}

// WithError appends a code to the outcome, dropping any payload so the
// failure invariant holds.
func (o Outcome[C]) WithError(code C, message string) Outcome[C] {
	if o.messages == nil {
		o.messages = make(map[C]string)
	}
	o.codes = append(o.codes, code)
	if _, seen := o.messages[code]; !seen {
		o.messages[code] = message
	}
	o.payload = nil
	o.hasPayload = false
	return o
}

// Failed reports whether the outcome carries any error code.
func (o Outcome[C]) Failed() bool { return len(o.codes) > 0 }

// Rule is a single, independently testable business-invariant check.
// existing carries the entity id for update/delete style operations and
// is uuid.Nil for creations.
type Rule[I any, C comparable] interface {
	Validate(ctx context.Context, input I, existing uuid.UUID) (Outcome[C], error)
}

// RuleFunc adapts a function to the Rule interface.
type RuleFunc[I any, C comparable] func(ctx context.Context, input I, existing uuid.UUID) (Outcome[C], error)

func (f RuleFunc[I, C]) Validate(ctx context.Context, input I, existing uuid.UUID) (Outcome[C], error) {
	return f(ctx, input, existing)
}

// Result aggregates every rule outcome for one operation.
type Result[C comparable] struct {
	codes    []C
	messages map[C]string
	payload  any
}

// Valid reports success: true iff the accumulated code set is empty.
func (r Result[C]) Valid() bool { return len(r.codes) == 0 }

// Codes returns the distinct error codes in rule-declaration order.
func (r Result[C]) Codes() []C { return r.codes }

// Message returns the message recorded for a code ("" if absent).
func (r Result[C]) Message(code C) string { return r.messages[code] }

// Payload returns the success payload: the last rule-produced payload,
// or the pass-through input when no rule computed one. Nil on failure.
func (r Result[C]) Payload() any { return r.payload }

// Pipeline is an ordered, sequential rule set for one operation. Rules
// are not required to be concurrency-safe with each other; ordering
// keeps code sets deterministic when rules overlap in what they detect.
type Pipeline[I any, C comparable] struct {
	name  string
	rules []Rule[I, C]
}

// NewPipeline builds a pipeline. The name shows up in traces and fault
// messages. An empty rule set is vacuously successful.
func NewPipeline[I any, C comparable](name string, rules ...Rule[I, C]) *Pipeline[I, C] {
	return &Pipeline[I, C]{name: name, rules: rules}
}

// Run evaluates every rule in declaration order against the input,
// accumulating distinct codes. A rule error aborts the run as a fault
// and discards the accumulation.
func (p *Pipeline[I, C]) Run(ctx context.Context, input I, existing uuid.UUID) (Result[C], error) {
	ctx, span := tracer.Start(ctx, "pipeline."+p.name)
	defer span.End()

	result := Result[C]{messages: make(map[C]string)}
	var (
		payload    any
		hasPayload bool
	)
	for i, rule := range p.rules {
		if err := ctx.Err(); err != nil {
			return Result[C]{}, dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("pipeline %s cancelled", p.name))
		}
		outcome, err := rule.Validate(ctx, input, existing)
		if err != nil {
			return Result[C]{}, dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("pipeline %s rule %d faulted", p.name, i))
		}
		result.codes = append(result.codes, outcome.codes...)
		for code, message := range outcome.messages {
			if _, seen := result.messages[code]; !seen {
				result.messages[code] = message
			}
		}
		if outcome.hasPayload {
			payload = outcome.payload
			hasPayload = true
		}
	}
	result.codes = lo.Uniq(result.codes)
	if !result.Valid() {
		return result, nil
	}
	if hasPayload {
		result.payload = payload
	} else {
		result.payload = input
	}
	return result, nil
}
