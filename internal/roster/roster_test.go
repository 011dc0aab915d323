package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOperator(t *testing.T) {
	r := Roster{SuperOperator: 1, Operators: []int64{2, 3}}

	assert.True(t, r.IsOperator(1))
	assert.True(t, r.IsOperator(2))
	assert.True(t, r.IsOperator(3))
	assert.False(t, r.IsOperator(4))
}

func TestIsSuperOperator(t *testing.T) {
	r := Roster{SuperOperator: 1, Operators: []int64{2}}

	assert.True(t, r.IsSuperOperator(1))
	assert.False(t, r.IsSuperOperator(2))
}

func TestNotifyTargetsExcludeSuperOperator(t *testing.T) {
	r := Roster{SuperOperator: 1, Operators: []int64{2, 3}}

	targets := r.NotifyTargets()
	assert.Equal(t, []int64{2, 3}, targets)
	assert.NotContains(t, targets, r.SuperOperator)

	// mutating the result must not leak into the roster
	targets[0] = 99
	assert.Equal(t, []int64{2, 3}, r.Operators)
}
