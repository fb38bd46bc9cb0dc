package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	dErrors "finbook/pkg/domain-errors"
)

type testCode string

const (
	codeFirst  testCode = "first"
	codeSecond testCode = "second"
	codeThird  testCode = "third"
)

type PipelineSuite struct {
	suite.Suite
	ctx context.Context
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) SetupTest() {
	s.ctx = context.Background()
}

func failWith(code testCode) Rule[string, testCode] {
	return RuleFunc[string, testCode](func(context.Context, string, uuid.UUID) (Outcome[testCode], error) {
		return Fail(code, string(code)), nil
	})
}

func pass() Rule[string, testCode] {
	return RuleFunc[string, testCode](func(context.Context, string, uuid.UUID) (Outcome[testCode], error) {
		return Pass[testCode](), nil
	})
}

func (s *PipelineSuite) TestAccumulation() {
	s.Run("every rule runs and all distinct codes are collected", func() {
		pipe := NewPipeline("accumulate", failWith(codeFirst), pass(), failWith(codeThird))

		result, err := pipe.Run(s.ctx, "input", uuid.Nil)
		s.Require().NoError(err)
		s.False(result.Valid())
		s.Equal([]testCode{codeFirst, codeThird}, result.Codes())
	})

	s.Run("duplicate codes collapse, order preserved", func() {
		pipe := NewPipeline("dedupe",
			failWith(codeSecond), failWith(codeFirst), failWith(codeSecond))

		result, err := pipe.Run(s.ctx, "input", uuid.Nil)
		s.Require().NoError(err)
		s.Equal([]testCode{codeSecond, codeFirst}, result.Codes())
	})

	s.Run("messages are retrievable per code", func() {
		pipe := NewPipeline("messages", failWith(codeFirst))

		result, err := pipe.Run(s.ctx, "input", uuid.Nil)
		s.Require().NoError(err)
		s.Equal("first", result.Message(codeFirst))
		s.Equal("", result.Message(codeThird))
	})

	s.Run("valid iff the code set is empty", func() {
		pipe := NewPipeline("empty-set", pass(), pass())
		result, err := pipe.Run(s.ctx, "input", uuid.Nil)
		s.Require().NoError(err)
		s.True(result.Valid())
	})

	s.Run("empty pipeline is vacuously successful", func() {
		pipe := NewPipeline[string, testCode]("vacuous")
		result, err := pipe.Run(s.ctx, "input", uuid.Nil)
		s.Require().NoError(err)
		s.True(result.Valid())
	})
}

func (s *PipelineSuite) TestPayload() {
	s.Run("defaults to the pass-through input", func() {
		pipe := NewPipeline("pass-through", pass())
		result, err := pipe.Run(s.ctx, "the input", uuid.Nil)
		s.Require().NoError(err)
		s.Equal("the input", result.Payload())
	})

	s.Run("last rule-produced payload wins", func() {
		withPayload := func(p string) Rule[string, testCode] {
			return RuleFunc[string, testCode](func(context.Context, string, uuid.UUID) (Outcome[testCode], error) {
				return PassWith[testCode](p), nil
			})
		}
		pipe := NewPipeline("payloads", withPayload("resolved-a"), pass(), withPayload("resolved-b"))

		result, err := pipe.Run(s.ctx, "input", uuid.Nil)
		s.Require().NoError(err)
		s.Equal("resolved-b", result.Payload())
	})

	s.Run("failed result carries no payload", func() {
		pipe := NewPipeline("no-payload",
			RuleFunc[string, testCode](func(context.Context, string, uuid.UUID) (Outcome[testCode], error) {
				return PassWith[testCode]("resolved"), nil
			}),
			failWith(codeFirst),
		)
		result, err := pipe.Run(s.ctx, "input", uuid.Nil)
		s.Require().NoError(err)
		s.False(result.Valid())
		s.Nil(result.Payload())
	})

	s.Run("outcome drops its payload when a code is appended", func() {
		o := PassWith[testCode]("resolved").WithError(codeFirst, "first")
		s.True(o.Failed())
	})
}

func (s *PipelineSuite) TestFaults() {
	s.Run("rule error aborts and discards accumulation", func() {
		boom := errors.New("store unreachable")
		pipe := NewPipeline("faulting",
			failWith(codeFirst),
			RuleFunc[string, testCode](func(context.Context, string, uuid.UUID) (Outcome[testCode], error) {
				return Outcome[testCode]{}, boom
			}),
			failWith(codeThird),
		)

		result, err := pipe.Run(s.ctx, "input", uuid.Nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.Require().ErrorIs(err, boom)
		s.Empty(result.Codes())
	})

	s.Run("cancelled context aborts before the next rule", func() {
		ctx, cancel := context.WithCancel(s.ctx)
		ran := false
		pipe := NewPipeline("cancelled",
			RuleFunc[string, testCode](func(context.Context, string, uuid.UUID) (Outcome[testCode], error) {
				cancel()
				return Pass[testCode](), nil
			}),
			RuleFunc[string, testCode](func(context.Context, string, uuid.UUID) (Outcome[testCode], error) {
				ran = true
				return Pass[testCode](), nil
			}),
		)

		_, err := pipe.Run(ctx, "input", uuid.Nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.False(ran)
	})
}
