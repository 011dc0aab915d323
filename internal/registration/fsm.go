// Package registration drives a participant through the building,
// apartment and phone steps of the sign-up conversation.
package registration

// Step is the position of a participant inside the registration flow.
type Step int

const (
	StepIdle Step = iota
	StepAwaitingBuilding
	StepAwaitingApartment
	StepAwaitingPhone
	StepComplete
)

func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepAwaitingBuilding:
		return "awaiting_building"
	case StepAwaitingApartment:
		return "awaiting_apartment"
	case StepAwaitingPhone:
		return "awaiting_phone"
	case StepComplete:
		return "complete"
	}
	return "unknown"
}

// EventKind names the inputs that can drive the flow forward.
type EventKind int

const (
	// EventStart opens the flow via a join event or the register command.
	EventStart EventKind = iota
	// EventBuildingChosen is a building button press.
	EventBuildingChosen
	// EventApartmentInput is free text while the apartment is awaited.
	EventApartmentInput
	// EventPhoneInput is free text or a shared contact while the phone is awaited.
	EventPhoneInput
)

// Event is one input together with its validation verdict. Valid is
// meaningful only for apartment and phone input events.
type Event struct {
	Kind  EventKind
	Valid bool
}

// Effect tells the caller which side effect the transition requires.
type Effect int

const (
	// EffectNone means the input does not belong to the current step and
	// must be ignored without state change.
	EffectNone Effect = iota
	// EffectPromptBuilding shows the building choice keyboard.
	EffectPromptBuilding
	// EffectSaveBuilding persists the chosen building and asks for the apartment.
	EffectSaveBuilding
	// EffectRetryApartment re-prompts with the validation reason.
	EffectRetryApartment
	// EffectPromptPhone remembers the apartment and asks for the phone.
	EffectPromptPhone
	// EffectRetryPhone re-prompts with the validation reason.
	EffectRetryPhone
	// EffectFinish persists the record, notifies operators and confirms.
	EffectFinish
)

// Outcome pairs the next step with the side effect the caller must run.
type Outcome struct {
	Next   Step
	Effect Effect
}

// Advance is the single transition function of the flow. It is pure:
// persistence, validation and messaging happen outside, keyed off the
// returned effect. Inputs that do not match the current step leave the
// step unchanged with EffectNone.
func Advance(current Step, ev Event) Outcome {
	switch {
	case ev.Kind == EventStart && current != StepComplete:
		// Restarting mid-flow begins again from the building choice.
		return Outcome{Next: StepAwaitingBuilding, Effect: EffectPromptBuilding}

	case ev.Kind == EventBuildingChosen && current == StepAwaitingBuilding:
		return Outcome{Next: StepAwaitingApartment, Effect: EffectSaveBuilding}

	case ev.Kind == EventApartmentInput && current == StepAwaitingApartment:
		if !ev.Valid {
			return Outcome{Next: StepAwaitingApartment, Effect: EffectRetryApartment}
		}
		return Outcome{Next: StepAwaitingPhone, Effect: EffectPromptPhone}

	case ev.Kind == EventPhoneInput && current == StepAwaitingPhone:
		if !ev.Valid {
			return Outcome{Next: StepAwaitingPhone, Effect: EffectRetryPhone}
		}
		return Outcome{Next: StepComplete, Effect: EffectFinish}
	}

	return Outcome{Next: current, Effect: EffectNone}
}
