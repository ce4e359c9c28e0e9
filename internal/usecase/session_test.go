package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlows(t *testing.T) {
	t.Parallel()

	three := FlowFor(true)
	assert.Equal(t, []Step{StepIdentification, StepPaymentMethod, StepConfirm}, three.Steps)
	assert.Equal(t, "payment_method", three.Label(StepPaymentMethod))
	next, ok := three.Next(StepPaymentMethod)
	assert.True(t, ok)
	assert.Equal(t, StepConfirm, next)
	assert.Equal(t, StepConfirm, three.Last())

	two := FlowFor(false)
	assert.Len(t, two.Steps, 2)
	assert.Equal(t, "payment", two.Label(StepPaymentMethod))
	assert.False(t, two.Has(StepConfirm))
	_, ok = two.Next(StepPaymentMethod)
	assert.False(t, ok)
	assert.Equal(t, StepPaymentMethod, two.Last())
}
