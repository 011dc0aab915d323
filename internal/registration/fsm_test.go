package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceHappyPath(t *testing.T) {
	out := Advance(StepIdle, Event{Kind: EventStart})
	assert.Equal(t, Outcome{Next: StepAwaitingBuilding, Effect: EffectPromptBuilding}, out)

	out = Advance(out.Next, Event{Kind: EventBuildingChosen})
	assert.Equal(t, Outcome{Next: StepAwaitingApartment, Effect: EffectSaveBuilding}, out)

	out = Advance(out.Next, Event{Kind: EventApartmentInput, Valid: true})
	assert.Equal(t, Outcome{Next: StepAwaitingPhone, Effect: EffectPromptPhone}, out)

	out = Advance(out.Next, Event{Kind: EventPhoneInput, Valid: true})
	assert.Equal(t, Outcome{Next: StepComplete, Effect: EffectFinish}, out)
}

func TestAdvanceRetryLoops(t *testing.T) {
	out := Advance(StepAwaitingApartment, Event{Kind: EventApartmentInput, Valid: false})
	assert.Equal(t, Outcome{Next: StepAwaitingApartment, Effect: EffectRetryApartment}, out)

	out = Advance(StepAwaitingPhone, Event{Kind: EventPhoneInput, Valid: false})
	assert.Equal(t, Outcome{Next: StepAwaitingPhone, Effect: EffectRetryPhone}, out)
}

func TestAdvanceRestartMidFlow(t *testing.T) {
	for _, step := range []Step{StepIdle, StepAwaitingBuilding, StepAwaitingApartment, StepAwaitingPhone} {
		out := Advance(step, Event{Kind: EventStart})
		assert.Equal(t, Outcome{Next: StepAwaitingBuilding, Effect: EffectPromptBuilding}, out, "from %s", step)
	}
}

func TestAdvanceCompleteIsTerminal(t *testing.T) {
	for _, ev := range []Event{
		{Kind: EventStart},
		{Kind: EventBuildingChosen},
		{Kind: EventApartmentInput, Valid: true},
		{Kind: EventPhoneInput, Valid: true},
	} {
		out := Advance(StepComplete, ev)
		assert.Equal(t, Outcome{Next: StepComplete, Effect: EffectNone}, out, "event %d", ev.Kind)
	}
}

func TestAdvanceIgnoresMismatchedInput(t *testing.T) {
	cases := []struct {
		step Step
		ev   Event
	}{
		{StepAwaitingBuilding, Event{Kind: EventApartmentInput, Valid: true}},
		{StepAwaitingBuilding, Event{Kind: EventPhoneInput, Valid: true}},
		{StepAwaitingApartment, Event{Kind: EventBuildingChosen}},
		{StepAwaitingApartment, Event{Kind: EventPhoneInput, Valid: true}},
		{StepAwaitingPhone, Event{Kind: EventBuildingChosen}},
		{StepAwaitingPhone, Event{Kind: EventApartmentInput, Valid: true}},
		{StepIdle, Event{Kind: EventBuildingChosen}},
		{StepIdle, Event{Kind: EventApartmentInput, Valid: true}},
		{StepIdle, Event{Kind: EventPhoneInput, Valid: true}},
	}
	for _, tc := range cases {
		out := Advance(tc.step, tc.ev)
		assert.Equal(t, Outcome{Next: tc.step, Effect: EffectNone}, out, "step %s event %d", tc.step, tc.ev.Kind)
	}
}
