package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedSteps_OrderFallsBackToSeq(t *testing.T) {
	m := &ProcessModel{Steps: []ProcessStep{
		{Activity: "c", Seq: 3},
		{Activity: "a", Seq: 7, Order: ptr(1)},
		{Activity: "b", Seq: 2},
		{Activity: "d", Seq: 1, Order: ptr(3)},
	}}
	// keys: c=3, a=1, b=2, d=3 (tie with c, Seq 1 wins)
	assert.Equal(t, []string{"a", "b", "d", "c"}, m.Activities())
}

func TestEffectiveDuration_DefaultsToOne(t *testing.T) {
	assert.Equal(t, 1, ProcessStep{DurationDays: 0}.EffectiveDuration())
	assert.Equal(t, 1, ProcessStep{DurationDays: -2}.EffectiveDuration())
	assert.Equal(t, 4, ProcessStep{DurationDays: 4}.EffectiveDuration())
}

func TestLevel_Parent(t *testing.T) {
	assert.Equal(t, LevelFloor, LevelUnit.Parent())
	assert.Equal(t, LevelStaircase, LevelFloor.Parent())
	assert.Equal(t, LevelBuilding, LevelStaircase.Parent())
	assert.Equal(t, Level(""), LevelBuilding.Parent())
}
