package rpal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Session_definitionsPersistAcrossLines(t *testing.T) {
	assert := assert.New(t)

	s := NewSession()

	_, err := s.EvalLine("x = 10")
	if !assert.NoError(err) {
		return
	}

	result, err := s.EvalLine("Print (x + 1)")
	if !assert.NoError(err) {
		return
	}
	assert.Equal("11", result.Output)
}

func Test_Session_laterDefinitionShadowsEarlier(t *testing.T) {
	assert := assert.New(t)

	s := NewSession()

	if _, err := s.EvalLine("x = 1"); !assert.NoError(err) {
		return
	}
	if _, err := s.EvalLine("x = 2"); !assert.NoError(err) {
		return
	}

	result, err := s.EvalLine("Print x")
	if !assert.NoError(err) {
		return
	}
	assert.Equal("2", result.Output)
}

func Test_Session_recDefinitionIsCallableLater(t *testing.T) {
	assert := assert.New(t)

	s := NewSession()

	if _, err := s.EvalLine("rec fact n = (n eq 0) -> 1 | n * fact (n - 1)"); !assert.NoError(err) {
		return
	}

	result, err := s.EvalLine("Print (fact 5)")
	if !assert.NoError(err) {
		return
	}
	assert.Equal("120", result.Output)
}

func Test_Session_andBindsAllNamesSimultaneously(t *testing.T) {
	assert := assert.New(t)

	s := NewSession()

	if _, err := s.EvalLine("a = 1 and b = 2"); !assert.NoError(err) {
		return
	}

	result, err := s.EvalLine("Print (a + b)")
	if !assert.NoError(err) {
		return
	}
	assert.Equal("3", result.Output)
}

func Test_Session_withinOnlyBindsTheOuterName(t *testing.T) {
	assert := assert.New(t)

	s := NewSession()

	if _, err := s.EvalLine("a = 1 within b = a + 1"); !assert.NoError(err) {
		return
	}

	result, err := s.EvalLine("Print b")
	if !assert.NoError(err) {
		return
	}
	assert.Equal("2", result.Output)

	_, err = s.EvalLine("Print a")
	if !assert.Error(err) {
		return
	}
	rtErr, ok := err.(RuntimeError)
	if !assert.True(ok, "expected a RuntimeError, got %T", err) {
		return
	}
	assert.Equal(UnboundIdentifier, rtErr.Kind)
}

func Test_Session_expressionLineDoesNotMutateEnvironment(t *testing.T) {
	assert := assert.New(t)

	s := NewSession()

	if _, err := s.EvalLine("x = 1"); !assert.NoError(err) {
		return
	}
	if _, err := s.EvalLine("Print (x + 1)"); !assert.NoError(err) {
		return
	}

	result, err := s.EvalLine("Print x")
	if !assert.NoError(err) {
		return
	}
	assert.Equal("1", result.Output)
}
