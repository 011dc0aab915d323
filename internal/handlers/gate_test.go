package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"housechat/core/telegram/state"
	"housechat/internal/notify"
	"housechat/internal/registration"
	"housechat/internal/roster"
	"housechat/internal/store"
	"housechat/internal/texts"

	tele "gopkg.in/telebot.v4"
)

// testContext fakes the slice of tele.Context the handlers touch and
// records outbound activity. Everything else panics via the embedded nil
// interface, which keeps the fake honest.
type testContext struct {
	tele.Context

	sender *tele.User
	msg    *tele.Message
	cb     *tele.Callback
	args   []string

	kv       map[string]any
	sent     []string
	replies  []string
	responds []*tele.CallbackResponse
	deleted  bool
}

func newTestContext(sender *tele.User, text string) *testContext {
	return &testContext{
		sender: sender,
		msg:    &tele.Message{ID: 1, Sender: sender, Text: text},
		kv:     make(map[string]any),
	}
}

func (c *testContext) Sender() *tele.User       { return c.sender }
func (c *testContext) Chat() *tele.Chat         { return &tele.Chat{ID: -100500} }
func (c *testContext) Update() tele.Update      { return tele.Update{ID: 7} }
func (c *testContext) Message() *tele.Message   { return c.msg }
func (c *testContext) Callback() *tele.Callback { return c.cb }
func (c *testContext) Args() []string           { return c.args }

func (c *testContext) Text() string {
	if c.msg == nil {
		return ""
	}
	return c.msg.Text
}

func (c *testContext) Send(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, fmt.Sprint(what))
	return nil
}

func (c *testContext) Reply(what interface{}, _ ...interface{}) error {
	c.replies = append(c.replies, fmt.Sprint(what))
	return nil
}

func (c *testContext) Delete() error {
	c.deleted = true
	return nil
}

func (c *testContext) Respond(resp ...*tele.CallbackResponse) error {
	c.responds = append(c.responds, resp...)
	return nil
}

func (c *testContext) Get(key string) interface{}      { return c.kv[key] }
func (c *testContext) Set(key string, val interface{}) { c.kv[key] = val }

type fixture struct {
	store  *store.Memory
	states state.Manager
	flow   *registration.Flow
	gate   *Gate
	cmds   *Commands
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemory()
	states := state.NewMemoryManager()
	r := roster.Roster{SuperOperator: 1, Operators: []int64{2}}
	flow := registration.NewFlow(st, states, notify.New(st, r, nil))
	gate := NewGate(st, flow)
	flow.SetTextFallback(gate.OnText)
	return &fixture{
		store:  st,
		states: states,
		flow:   flow,
		gate:   gate,
		cmds:   NewCommands(st, flow, r),
	}
}

func registerResident(t *testing.T, st *store.Memory, id int64, building, apartment string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.UpsertBasic(ctx, id, "resident", "Имя", ""))
	require.NoError(t, st.SetBuilding(ctx, id, building))
	require.NoError(t, st.Complete(ctx, id, apartment, "79161234567"))
}

func TestGateDeletesUnregisteredText(t *testing.T) {
	f := newFixture(t)
	c := newTestContext(&tele.User{ID: 10, FirstName: "Иван"}, "всем привет")

	require.NoError(t, f.gate.OnText(c))

	require.True(t, c.deleted)
	require.Len(t, c.sent, 1)
	require.Equal(t, texts.GateReminder("Иван"), c.sent[0])
}

func TestGatePassesRegisteredText(t *testing.T) {
	f := newFixture(t)
	registerResident(t, f.store, 10, "1.1", "5")
	c := newTestContext(&tele.User{ID: 10, FirstName: "Иван"}, "всем привет")

	require.NoError(t, f.gate.OnText(c))

	require.False(t, c.deleted)
	require.Empty(t, c.sent)
}

func TestGateIgnoresCommands(t *testing.T) {
	f := newFixture(t)
	c := newTestContext(&tele.User{ID: 10, FirstName: "Иван"}, "/buildings")

	require.NoError(t, f.gate.OnText(c))

	require.False(t, c.deleted)
	require.Empty(t, c.sent)
}

func TestGateCatchesTextDuringBuildingChoice(t *testing.T) {
	f := newFixture(t)
	f.states.SetState(10, registration.StateAwaitingBuilding)
	c := newTestContext(&tele.User{ID: 10, FirstName: "Иван"}, "корпус 1.1")

	require.True(t, f.states.InProgress(10))
	require.NoError(t, f.states.ManagerHandler(c))

	// The building is chosen by button, so free text is gated like any
	// other message from an unregistered member.
	require.True(t, c.deleted)
	require.Len(t, c.sent, 1)
	require.Equal(t, texts.GateReminder("Иван"), c.sent[0])
}

func TestRegisterCallbackIgnoresOtherUsers(t *testing.T) {
	f := newFixture(t)
	c := newTestContext(&tele.User{ID: 99, FirstName: "Пётр"}, "")
	c.cb = &tele.Callback{Data: "\f" + CallbackRegister + "|42"}

	require.NoError(t, f.gate.OnRegisterCallback(c))

	require.False(t, c.deleted)
	require.Empty(t, c.sent)
	require.Empty(t, c.responds)
}

func TestRegisterCallbackAlreadyRegistered(t *testing.T) {
	f := newFixture(t)
	registerResident(t, f.store, 42, "1.1", "5")
	c := newTestContext(&tele.User{ID: 42, FirstName: "Анна"}, "")
	c.cb = &tele.Callback{Data: "\f" + CallbackRegister + "|42"}

	require.NoError(t, f.gate.OnRegisterCallback(c))

	require.False(t, c.deleted)
	require.Empty(t, c.sent)
	require.Len(t, c.responds, 1)
	require.Equal(t, texts.AlreadyRegisteredCallback, c.responds[0].Text)
}

func TestRegisterCallbackStartsFlow(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.SeedDefaults(context.Background(), []string{"1.1", "1.2"}, 1))
	c := newTestContext(&tele.User{ID: 42, FirstName: "Анна"}, "")
	c.cb = &tele.Callback{Data: "\f" + CallbackRegister + "|42"}

	require.NoError(t, f.gate.OnRegisterCallback(c))

	require.True(t, c.deleted)
	require.Len(t, c.sent, 1)
	require.Equal(t, texts.WelcomeExisting, c.sent[0])
	require.Equal(t, registration.StateAwaitingBuilding, f.states.GetState(42))
}
