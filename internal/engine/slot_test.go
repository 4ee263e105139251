package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlotLabelCoercesHoursBelowEight(t *testing.T) {
	cs, err := parseSlotLabel("12:45-1:45")
	require.NoError(t, err)
	assert.Equal(t, 12*60+45, cs.Start)
	assert.Equal(t, 13*60+45, cs.End)
}

func TestParseSlotLabelMalformedFails(t *testing.T) {
	_, err := parseSlotLabel("not-a-slot")
	require.Error(t, err)
	var engErr *Error
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, InvalidSlotFormat, engErr.Kind)
}

func TestSlotsEquivalentAcrossShifts(t *testing.T) {
	reg, err := DefaultShiftTemplates()
	require.NoError(t, err)

	// MORNING "12:45-1:45" and LATE "12:45-1:45" share the same canonical pair.
	assert.True(t, reg.slotsEquivalent(ShiftMorning, "12:45-1:45", ShiftLate, "12:45-1:45"))
	assert.False(t, reg.slotsEquivalent(ShiftMorning, "8-8:45", ShiftLate, "10:00-11:00"))
}

func TestIsAllowedOnMorningForLateFaculty(t *testing.T) {
	reg, err := DefaultShiftTemplates()
	require.NoError(t, err)

	assert.False(t, reg.isAllowedOnMorningForLateFaculty(ShiftMorning, "8-8:45"))
	assert.False(t, reg.isAllowedOnMorningForLateFaculty(ShiftMorning, "8:45-9:45"))
	assert.True(t, reg.isAllowedOnMorningForLateFaculty(ShiftMorning, "10:00-11:00"))
}

func TestConsecutivePairsSkipInertBoundaries(t *testing.T) {
	reg, err := DefaultShiftTemplates()
	require.NoError(t, err)

	pairs := reg.ConsecutivePairs(ShiftMorning)
	for _, p := range pairs {
		assert.NotContains(t, string(p.First), "Break")
		assert.NotContains(t, string(p.First), "Lunch")
		assert.NotContains(t, string(p.Second), "Break")
		assert.NotContains(t, string(p.Second), "Lunch")
	}
	// 9:45-10:00 Short Break must not appear as either side of a pair.
	for _, p := range pairs {
		assert.NotEqual(t, SlotLabel("9:45-10:00 Short Break"), p.First)
		assert.NotEqual(t, SlotLabel("9:45-10:00 Short Break"), p.Second)
	}
}
