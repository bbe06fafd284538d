package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMessageEscalationOffset(t *testing.T) {
	action := Action{ID: "1", Name: "a", EscPeriod: "1h"}

	tests := []struct {
		name string
		op   Operation
		want string
	}{
		{
			name: "first step is immediate",
			op:   Operation{EscStepFrom: 1, Message: OpMessage{MediaTypeID: "1"}},
			want: "0",
		},
		{
			name: "action period multiplied by step minus one",
			op:   Operation{EscStepFrom: 3, Message: OpMessage{MediaTypeID: "1"}},
			want: "2h",
		},
		{
			name: "operation period wins over action period",
			op:   Operation{EscPeriod: "30m", EscStepFrom: 2, Message: OpMessage{MediaTypeID: "1"}},
			want: "30m",
		},
		{
			name: "every numeric component is multiplied",
			op:   Operation{EscPeriod: "1h30m", EscStepFrom: 3, Message: OpMessage{MediaTypeID: "1"}},
			want: "2h60m",
		},
		{
			name: "leading zero collapses to immediate",
			op:   Operation{EscPeriod: "0h30m", EscStepFrom: 3, Message: OpMessage{MediaTypeID: "1"}},
			want: "0",
		},
		{
			name: "zero operation period falls back to action period",
			op:   Operation{EscPeriod: "0", EscStepFrom: 2, Message: OpMessage{MediaTypeID: "1"}},
			want: "1h",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := NewMessage(PhaseProblem, action, tt.op, nil)
			assert.Equal(t, tt.want, msg.StartOffset)
		})
	}
}

func TestNewMessageRepeatCount(t *testing.T) {
	action := Action{ID: "1", EscPeriod: "1h"}

	msg := NewMessage(PhaseProblem, action, Operation{EscStepFrom: 2, EscStepTo: 5}, nil)
	assert.Equal(t, "4", msg.RepeatCount)

	msg = NewMessage(PhaseUpdate, action, Operation{EscStepFrom: 1}, nil)
	assert.Equal(t, "1", msg.RepeatCount)

	msg = NewMessage(PhaseRecovery, action, Operation{EscStepFrom: 1}, nil)
	assert.Equal(t, "1", msg.RepeatCount)

	msg = NewMessage(PhaseProblem, action, Operation{EscStepFrom: 1}, nil)
	assert.Equal(t, RepeatInfinite, msg.RepeatCount)
}

func TestNewMessageTemplateOverride(t *testing.T) {
	action := Action{ID: "1", Name: "a", EscPeriod: "1h"}
	mediaTypes := []MediaType{
		{
			ID:   "1",
			Name: "Email",
			Templates: []MessageTemplate{
				{Phase: PhaseProblem, EventSource: "0", Subject: "tpl subject", Body: "tpl body"},
				{Phase: PhaseRecovery, EventSource: "0", Subject: "rec subject", Body: "rec body"},
			},
		},
	}

	op := Operation{
		EscStepFrom: 1,
		Message:     OpMessage{MediaTypeID: "1", Subject: "own subject", Body: "own body", UseDefault: true},
	}
	msg := NewMessage(PhaseProblem, action, op, mediaTypes)
	assert.Equal(t, "Email", msg.MediaTypeName)
	assert.Equal(t, "tpl subject", msg.Subject)
	assert.Equal(t, "tpl body", msg.Body)

	// Without the default flag the operation content is kept.
	op.Message.UseDefault = false
	msg = NewMessage(PhaseProblem, action, op, mediaTypes)
	assert.Equal(t, "own subject", msg.Subject)

	// No matching template for the phase keeps the operation content.
	op.Message.UseDefault = true
	msg = NewMessage(PhaseUpdate, action, op, mediaTypes)
	assert.Equal(t, "own subject", msg.Subject)
}

func TestMultiplyPeriod(t *testing.T) {
	assert.Equal(t, "2h", multiplyPeriod("1h", 2))
	assert.Equal(t, "0", multiplyPeriod("1h", 0))
	assert.Equal(t, "0", multiplyPeriod("", 3))
	assert.Equal(t, "3600", multiplyPeriod("1800", 2))
}
