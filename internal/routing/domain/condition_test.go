package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalConditionEqual(t *testing.T) {
	tests := []struct {
		name  string
		op    Operator
		value ConditionValue
		attr  Attribute
		want  bool
	}{
		{
			name:  "id set member",
			op:    OperatorEqual,
			value: ConditionValue{Value: "4"},
			attr:  Attribute{Kind: AttrIDSet, IDs: []string{"2", "4"}},
			want:  true,
		},
		{
			name:  "id set non-member",
			op:    OperatorEqual,
			value: ConditionValue{Value: "7"},
			attr:  Attribute{Kind: AttrIDSet, IDs: []string{"2", "4"}},
			want:  false,
		},
		{
			name:  "not equal is exact negation",
			op:    OperatorNotEqual,
			value: ConditionValue{Value: "7"},
			attr:  Attribute{Kind: AttrIDSet, IDs: []string{"2", "4"}},
			want:  true,
		},
		{
			name:  "scalar equality",
			op:    OperatorEqual,
			value: ConditionValue{Value: "High CPU"},
			attr:  Attribute{Kind: AttrScalar, Scalar: "High CPU"},
			want:  true,
		},
		{
			name:  "tag pair exact match",
			op:    OperatorEqual,
			value: ConditionValue{Tag: "env", Value: "prod"},
			attr:  Attribute{Kind: AttrTagValues, Tags: map[string]string{"env": "prod"}},
			want:  true,
		},
		{
			name:  "tag pair value mismatch",
			op:    OperatorEqual,
			value: ConditionValue{Tag: "env", Value: "prod"},
			attr:  Attribute{Kind: AttrTagValues, Tags: map[string]string{"env": "staging"}},
			want:  false,
		},
		{
			name:  "tag pair missing tag",
			op:    OperatorEqual,
			value: ConditionValue{Tag: "env", Value: "prod"},
			attr:  Attribute{Kind: AttrTagValues, Tags: map[string]string{"team": "core"}},
			want:  false,
		},
		{
			name:  "tag name membership",
			op:    OperatorEqual,
			value: ConditionValue{Value: "env"},
			attr:  Attribute{Kind: AttrTagNames, Tags: map[string]string{"env": "prod"}},
			want:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvalCondition(tt.op, tt.value, tt.attr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalConditionContains(t *testing.T) {
	tests := []struct {
		name  string
		op    Operator
		value ConditionValue
		attr  Attribute
		want  bool
	}{
		{
			name:  "scalar substring",
			op:    OperatorContains,
			value: ConditionValue{Value: "CPU"},
			attr:  Attribute{Kind: AttrScalar, Scalar: "High CPU load"},
			want:  true,
		},
		{
			name:  "tag pair substring",
			op:    OperatorContains,
			value: ConditionValue{Tag: "env", Value: "prod"},
			attr:  Attribute{Kind: AttrTagValues, Tags: map[string]string{"env": "production"}},
			want:  true,
		},
		{
			name:  "tag pair substring absent",
			op:    OperatorContains,
			value: ConditionValue{Tag: "env", Value: "dev"},
			attr:  Attribute{Kind: AttrTagValues, Tags: map[string]string{"env": "production"}},
			want:  false,
		},
		{
			name:  "not contains negates",
			op:    OperatorNotContains,
			value: ConditionValue{Value: "disk"},
			attr:  Attribute{Kind: AttrScalar, Scalar: "High CPU load"},
			want:  true,
		},
		{
			name:  "id set membership",
			op:    OperatorContains,
			value: ConditionValue{Value: "19"},
			attr:  Attribute{Kind: AttrIDSet, IDs: []string{"19", "21"}},
			want:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvalCondition(tt.op, tt.value, tt.attr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalConditionNumeric(t *testing.T) {
	attr := Attribute{Kind: AttrScalar, Scalar: "4"}

	got, err := EvalCondition(OperatorGreaterOrEqual, ConditionValue{Value: "3"}, attr)
	require.NoError(t, err)
	assert.True(t, got, "4 >= 3")

	got, err = EvalCondition(OperatorLessOrEqual, ConditionValue{Value: "3"}, attr)
	require.NoError(t, err)
	assert.False(t, got, "4 <= 3")

	// Equal values satisfy both directions.
	for _, op := range []Operator{OperatorGreaterOrEqual, OperatorLessOrEqual} {
		got, err = EvalCondition(op, ConditionValue{Value: "4"}, attr)
		require.NoError(t, err)
		assert.True(t, got)
	}
}

func TestEvalConditionNumericTypeMismatch(t *testing.T) {
	_, err := EvalCondition(OperatorGreaterOrEqual, ConditionValue{Value: "high"}, Attribute{Kind: AttrScalar, Scalar: "4"})
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = EvalCondition(OperatorLessOrEqual, ConditionValue{Value: "4"}, Attribute{Kind: AttrScalar, Scalar: "disaster"})
	require.ErrorIs(t, err, ErrTypeMismatch)

	// Non-scalar attributes never compare numerically.
	_, err = EvalCondition(OperatorGreaterOrEqual, ConditionValue{Value: "4"}, Attribute{Kind: AttrIDSet, IDs: []string{"4"}})
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestEvalConditionUnknownOperator(t *testing.T) {
	_, err := EvalCondition(Operator("9"), ConditionValue{Value: "x"}, Attribute{Kind: AttrScalar, Scalar: "x"})
	require.ErrorIs(t, err, ErrUnknownOperator)
}
