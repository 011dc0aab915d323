package registration

import (
	"fmt"
	"strconv"
	"strings"

	"housechat/core/logger"
	"housechat/core/telegram/callbacks"
	tghelpers "housechat/core/telegram/helpers"
	"housechat/core/telegram/keyboard"
	"housechat/core/telegram/state"
	"housechat/internal/domain"
	"housechat/internal/notify"
	"housechat/internal/store"
	"housechat/internal/texts"
	"housechat/internal/validate"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Conversation states tracked by the session manager.
const (
	StateAwaitingBuilding  state.State = "registration:awaiting_building"
	StateAwaitingApartment state.State = "registration:awaiting_apartment"
	StateAwaitingPhone     state.State = "registration:awaiting_phone"
)

// CallbackBuilding is the callback key of the building choice buttons.
const CallbackBuilding = "reg_building"

// Session keys for data accumulated across steps. The target user id is
// carried explicitly so stray input from other chat members is ignored.
const (
	tempTarget    = "reg_target"
	tempBuilding  = "reg_building"
	tempApartment = "reg_apartment"
)

// Flow runs the registration conversation against the Telegram transport.
// All branching decisions go through Advance; Flow only executes effects.
type Flow struct {
	store        store.Store
	states       state.Manager
	notifier     *notify.Notifier
	textFallback tele.HandlerFunc
}

// NewFlow wires the flow and registers its conversation step handlers.
func NewFlow(s store.Store, mgr state.Manager, n *notify.Notifier) *Flow {
	f := &Flow{store: s, states: mgr, notifier: n}
	state.RegisterHandler(StateAwaitingBuilding, f.handleBuildingText)
	state.RegisterHandler(StateAwaitingApartment, f.HandleApartment)
	state.RegisterHandler(StateAwaitingPhone, f.HandlePhone)
	return f
}

// SetTextFallback wires the handler that receives free text sent during
// the building choice. The step itself is driven by button presses, so
// such text is not flow input and goes to the access gate.
func (f *Flow) SetTextFallback(h tele.HandlerFunc) {
	f.textFallback = h
}

func (f *Flow) handleBuildingText(c tele.Context) error {
	if f.textFallback == nil {
		return nil
	}
	return f.textFallback(c)
}

// stepOf maps the stored session state to a flow step.
func (f *Flow) stepOf(userID int64) Step {
	switch f.states.GetState(userID) {
	case StateAwaitingBuilding:
		return StepAwaitingBuilding
	case StateAwaitingApartment:
		return StepAwaitingApartment
	case StateAwaitingPhone:
		return StepAwaitingPhone
	}
	return StepIdle
}

// Start opens the flow for the target user. Already registered users are
// left alone; restarting mid-flow begins again from the building choice.
func (f *Flow) Start(c tele.Context, target *tele.User, existing bool) error {
	ctx := tghelpers.BuildContext(c)

	registered, err := f.store.IsRegistered(ctx, target.ID)
	if err != nil {
		return err
	}
	if registered {
		logger.SVCResidents.LogAttrs(ctx, slog.LevelDebug, "registration.skip",
			slog.Int64("user_id", target.ID),
			slog.String("outcome", "already_registered"),
		)
		return nil
	}

	out := Advance(f.stepOf(target.ID), Event{Kind: EventStart})
	if out.Effect != EffectPromptBuilding {
		return nil
	}

	if err := f.store.UpsertBasic(ctx, target.ID, target.Username, target.FirstName, target.LastName); err != nil {
		return err
	}

	buildings, err := f.store.ListBuildings(ctx)
	if err != nil {
		return err
	}
	if len(buildings) == 0 {
		// Abort before any conversation state exists.
		f.states.Clear(target.ID)
		logger.SVCResidents.LogAttrs(ctx, slog.LevelWarn, "registration.abort",
			slog.Int64("user_id", target.ID),
			slog.String("outcome", "no_buildings"),
		)
		return tghelpers.SendText(c, texts.NoBuildings)
	}

	btns := make([]keyboard.InlineBtn, 0, len(buildings))
	for _, b := range buildings {
		btns = append(btns, keyboard.InlineBtn{
			Text:   texts.BuildingButton(b.Name),
			Unique: CallbackBuilding,
			Data:   fmt.Sprintf("%d|%s", target.ID, b.Name),
		})
	}
	markup := keyboard.InlineButtonsNPerRow(btns, 2)

	f.states.Clear(target.ID)
	f.states.SetTemp(target.ID, tempTarget, target.ID)
	f.states.SetState(target.ID, StateAwaitingBuilding)

	welcome := texts.WelcomeNew
	if existing {
		welcome = texts.WelcomeExisting
	}
	logger.SVCResidents.LogAttrs(ctx, slog.LevelInfo, "registration.start",
		slog.Int64("user_id", target.ID),
		slog.Int("count", len(buildings)),
	)
	return tghelpers.SendWithKeyboard(c, welcome, markup)
}

// HandleBuildingCallback processes a building button press. The payload
// carries "<target user id>|<building>".
func (f *Flow) HandleBuildingCallback(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	parts, err := callbacks.PayloadParts(c, "|")
	if err != nil || len(parts) != 2 {
		return nil
	}
	targetID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil
	}
	building := parts[1]

	// Buttons are addressed to one user; presses by anyone else are ignored.
	if sender := c.Sender(); sender == nil || sender.ID != targetID {
		return nil
	}

	registered, err := f.store.IsRegistered(ctx, targetID)
	if err != nil {
		return err
	}
	if registered {
		return c.Respond(&tele.CallbackResponse{Text: texts.AlreadyRegisteredCallback})
	}

	out := Advance(f.stepOf(targetID), Event{Kind: EventBuildingChosen})
	if out.Effect != EffectSaveBuilding {
		return nil
	}

	if err := f.store.SetBuilding(ctx, targetID, building); err != nil {
		return err
	}

	tghelpers.DeleteMessage(c)

	f.states.SetTemp(targetID, tempBuilding, building)
	f.states.SetState(targetID, StateAwaitingApartment)

	logger.SVCResidents.LogAttrs(ctx, slog.LevelInfo, "registration.building",
		slog.Int64("user_id", targetID),
		slog.String("building", building),
	)
	return tghelpers.SendText(c, texts.BuildingChosen(building))
}

// HandleApartment processes apartment input while it is awaited.
func (f *Flow) HandleApartment(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	sender := c.Sender()
	if sender == nil || !f.isTarget(sender.ID) {
		return nil
	}

	input := strings.TrimSpace(c.Text())
	ok, reason := validate.Apartment(input)

	out := Advance(f.stepOf(sender.ID), Event{Kind: EventApartmentInput, Valid: ok})
	switch out.Effect {
	case EffectRetryApartment:
		logger.SVCResidents.LogAttrs(ctx, slog.LevelDebug, "registration.apartment.retry",
			slog.Int64("user_id", sender.ID),
			slog.String("payload", logger.SanitizeLimit(input, 32)),
		)
		return tghelpers.SendText(c, texts.RetryApartment(reason))
	case EffectPromptPhone:
		f.states.SetTemp(sender.ID, tempApartment, input)
		f.states.SetState(sender.ID, StateAwaitingPhone)
		return tghelpers.SendWithKeyboard(c, texts.AskPhone, keyboard.ContactRequestKeyboard(texts.ContactButton))
	}
	return nil
}

// HandlePhone processes phone input, either free text or a shared contact.
func (f *Flow) HandlePhone(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	sender := c.Sender()
	if sender == nil || !f.isTarget(sender.ID) {
		return nil
	}

	phone := strings.TrimSpace(c.Text())
	if msg := c.Message(); msg != nil && msg.Contact != nil {
		phone = msg.Contact.PhoneNumber
	}

	ok, reason := validate.Phone(phone)

	out := Advance(f.stepOf(sender.ID), Event{Kind: EventPhoneInput, Valid: ok})
	switch out.Effect {
	case EffectRetryPhone:
		logger.SVCResidents.LogAttrs(ctx, slog.LevelDebug, "registration.phone.retry",
			slog.Int64("user_id", sender.ID),
		)
		return tghelpers.SendWithKeyboard(c, texts.RetryPhone(reason), keyboard.ContactRequestKeyboard(texts.ContactButton))
	case EffectFinish:
		return f.finish(c, sender, phone)
	}
	return nil
}

func (f *Flow) finish(c tele.Context, sender *tele.User, phone string) error {
	ctx := tghelpers.BuildContext(c)

	building, okB := f.states.GetTempString(sender.ID, tempBuilding)
	apartment, okA := f.states.GetTempString(sender.ID, tempApartment)
	if !okB || !okA {
		// Session data went missing mid-flow; restart cleanly.
		f.states.Clear(sender.ID)
		logger.SVCResidents.LogAttrs(ctx, slog.LevelWarn, "registration.finish",
			slog.Int64("user_id", sender.ID),
			slog.String("outcome", "session_lost"),
		)
		return nil
	}

	if err := f.store.Complete(ctx, sender.ID, apartment, phone); err != nil {
		return err
	}

	snapshot := domain.Resident{
		UserID:    sender.ID,
		FirstName: sender.FirstName,
	}
	if sender.LastName != "" {
		v := sender.LastName
		snapshot.LastName = &v
	}
	if sender.Username != "" {
		v := sender.Username
		snapshot.Username = &v
	}

	// Best-effort: failures are logged inside the notifier.
	_ = f.notifier.Notify(ctx, snapshot, building, apartment, phone)

	logger.SVCResidents.LogAttrs(ctx, slog.LevelInfo, "registration.complete",
		slog.Int64("user_id", sender.ID),
		slog.String("building", building),
		slog.String("apartment", apartment),
	)

	if err := tghelpers.SendText(c, texts.RegistrationDone(building, apartment, phone)); err != nil {
		return err
	}
	err := tghelpers.SendWithKeyboard(c, texts.KeyboardHidden, keyboard.RemoveKeyboard())

	f.states.Clear(sender.ID)
	return err
}

// isTarget checks that the sender is the user the in-flight flow belongs to.
func (f *Flow) isTarget(senderID int64) bool {
	target, ok := f.states.GetTempInt64(senderID, tempTarget)
	return ok && target == senderID
}
