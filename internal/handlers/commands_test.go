package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"housechat/core/telegram/middleware"
	"housechat/internal/roster"
	"housechat/internal/texts"

	tele "gopkg.in/telebot.v4"
)

func TestApartmentCommandUsage(t *testing.T) {
	f := newFixture(t)
	c := newTestContext(&tele.User{ID: 1}, "/apartment 1.1")
	c.args = []string{"1.1"}

	require.NoError(t, f.cmds.Apartment(c))

	require.Len(t, c.replies, 1)
	require.Equal(t, texts.ApartmentUsage, c.replies[0])
}

func TestApartmentCommandEmptyResult(t *testing.T) {
	f := newFixture(t)
	c := newTestContext(&tele.User{ID: 1}, "/apartment 1.1 5")
	c.args = []string{"1.1", "5"}

	require.NoError(t, f.cmds.Apartment(c))

	require.Len(t, c.sent, 1)
	require.Equal(t, texts.ApartmentEmpty("1.1", "5"), c.sent[0])
}

func TestApartmentCommandReport(t *testing.T) {
	f := newFixture(t)
	registerResident(t, f.store, 10, "1.1", "5")
	c := newTestContext(&tele.User{ID: 1}, "/apartment 1.1 5")
	c.args = []string{"1.1", "5"}

	require.NoError(t, f.cmds.Apartment(c))

	require.Len(t, c.sent, 1)
	require.Contains(t, c.sent[0], "Имя")
	require.Contains(t, c.sent[0], "79161234567")
}

func TestBuildingsCommandEmpty(t *testing.T) {
	f := newFixture(t)
	c := newTestContext(&tele.User{ID: 1}, "/buildings")

	require.NoError(t, f.cmds.Buildings(c))

	require.Len(t, c.sent, 1)
	require.Equal(t, texts.NoBuildingsShort, c.sent[0])
}

func TestAddBuildingCommand(t *testing.T) {
	f := newFixture(t)
	c := newTestContext(&tele.User{ID: 1}, "/add_building 3.1")
	c.args = []string{"3.1"}

	require.NoError(t, f.cmds.AddBuilding(c))

	require.Len(t, c.replies, 1)
	require.Equal(t, texts.AddBuildingOK("3.1"), c.replies[0])

	buildings, err := f.store.ListBuildings(context.Background())
	require.NoError(t, err)
	require.Len(t, buildings, 1)
	require.Equal(t, "3.1", buildings[0].Name)
}

func TestAddBuildingCommandDuplicate(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.AddBuilding(context.Background(), "9.9", 1))
	c := newTestContext(&tele.User{ID: 1}, "/add_building 9.9")
	c.args = []string{"9.9"}

	require.NoError(t, f.cmds.AddBuilding(c))

	require.Len(t, c.replies, 1)
	require.Equal(t, texts.AddBuildingExists("9.9"), c.replies[0])
}

func TestOperatorOnlySilentlyIgnoresOutsiders(t *testing.T) {
	r := roster.Roster{SuperOperator: 1, Operators: []int64{2}}
	called := false
	h := middleware.OperatorOnlyMiddleware(middleware.OperatorOptions{Check: r})(func(tele.Context) error {
		called = true
		return nil
	})

	outsider := newTestContext(&tele.User{ID: 77}, "/buildings")
	require.NoError(t, h(outsider))
	require.False(t, called)
	require.Empty(t, outsider.sent)
	require.Empty(t, outsider.replies)

	operator := newTestContext(&tele.User{ID: 2}, "/buildings")
	require.NoError(t, h(operator))
	require.True(t, called)
}
