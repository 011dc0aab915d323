package handlers

import (
	"strconv"
	"strings"

	"housechat/core/logger"
	"housechat/core/telegram/callbacks"
	tghelpers "housechat/core/telegram/helpers"
	"housechat/core/telegram/keyboard"
	"housechat/internal/registration"
	"housechat/internal/store"
	"housechat/internal/texts"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CallbackRegister is the callback key of the gate's sign-up button.
const CallbackRegister = "register_existing"

// Gate blocks chat activity from unregistered members. Their message is
// removed best-effort and replaced with a single call to action.
type Gate struct {
	store store.ResidentStore
	flow  *registration.Flow
}

// NewGate builds the access gate.
func NewGate(s store.ResidentStore, flow *registration.Flow) *Gate {
	return &Gate{store: s, flow: flow}
}

// OnText runs as the text fallback after conversation steps and known
// commands. Registered members pass through untouched.
func (g *Gate) OnText(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	// Commands have their own routing and operator checks.
	if strings.HasPrefix(strings.TrimSpace(c.Text()), "/") {
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	registered, err := g.store.IsRegistered(ctx, sender.ID)
	if err != nil {
		return err
	}
	if registered {
		return nil
	}

	tghelpers.DeleteMessage(c)

	markup := keyboard.InlineButtonsRows([]keyboard.InlineBtn{{
		Text:   texts.RegisterButton,
		Unique: CallbackRegister,
		Data:   strconv.FormatInt(sender.ID, 10),
	}})

	logger.SVCResidents.LogAttrs(ctx, slog.LevelInfo, "gate.blocked",
		slog.Int64("user_id", sender.ID),
	)
	return tghelpers.SendWithKeyboard(c, texts.GateReminder(sender.FirstName), markup)
}

// OnRegisterCallback handles the gate button press and opens the flow.
func (g *Gate) OnRegisterCallback(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	targetID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return nil
	}
	sender := c.Sender()
	if sender == nil || sender.ID != targetID {
		return nil
	}

	registered, err := g.store.IsRegistered(ctx, targetID)
	if err != nil {
		return err
	}
	if registered {
		return c.Respond(&tele.CallbackResponse{Text: texts.AlreadyRegisteredCallback})
	}

	// Remove the reminder before starting the conversation.
	tghelpers.DeleteMessage(c)
	return g.flow.Start(c, sender, true)
}

// OnUserJoined greets new non-bot members with the building choice.
func (g *Gate) OnUserJoined(c tele.Context) error {
	msg := c.Message()
	if msg == nil {
		return nil
	}

	joined := msg.UsersJoined
	if len(joined) == 0 && msg.UserJoined != nil {
		joined = []tele.User{*msg.UserJoined}
	}

	for i := range joined {
		user := &joined[i]
		if user.IsBot {
			continue
		}
		if err := g.flow.Start(c, user, false); err != nil {
			return err
		}
	}
	return nil
}
