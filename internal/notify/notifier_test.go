package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housechat/internal/domain"
	"housechat/internal/roster"
	"housechat/internal/store"
)

type delivery struct {
	operatorID int64
	text       string
}

func registered(t *testing.T, m *store.Memory, userID int64, name, building, apartment, phone string) domain.Resident {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, m.UpsertBasic(ctx, userID, "", name, ""))
	require.NoError(t, m.SetBuilding(ctx, userID, building))
	require.NoError(t, m.Complete(ctx, userID, apartment, phone))
	return domain.Resident{UserID: userID, FirstName: name}
}

func TestNotifyNewApartmentVariant(t *testing.T) {
	m := store.NewMemory()
	who := registered(t, m, 1, "Анна", "1.1", "5", "+79001234567")

	var sent []delivery
	n := New(m, roster.Roster{SuperOperator: 100, Operators: []int64{200, 300}}, func(id int64, text string) error {
		sent = append(sent, delivery{id, text})
		return nil
	})
	n.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	err := n.Notify(context.Background(), who, "1.1", "5", "+79001234567")
	require.NoError(t, err)

	require.Len(t, sent, 2)
	assert.Equal(t, int64(200), sent[0].operatorID)
	assert.Equal(t, int64(300), sent[1].operatorID)
	for _, d := range sent {
		assert.Contains(t, d.text, "НОВАЯ КВАРТИРА")
		assert.Contains(t, d.text, "Всего в квартире: 1 чел.")
		assert.Contains(t, d.text, "Анна")
	}
}

func TestNotifyAdditionalResidentVariant(t *testing.T) {
	m := store.NewMemory()
	registered(t, m, 1, "Анна", "1.1", "5", "+79001111111")
	who := registered(t, m, 2, "Борис", "1.1", "5", "+79002222222")

	var sent []delivery
	n := New(m, roster.Roster{SuperOperator: 100, Operators: []int64{200}}, func(id int64, text string) error {
		sent = append(sent, delivery{id, text})
		return nil
	})

	require.NoError(t, n.Notify(context.Background(), who, "1.1", "5", "+79002222222"))

	require.Len(t, sent, 1)
	text := sent[0].text
	assert.Contains(t, text, "ДОБАВЛЕН НОВЫЙ ЖИЛЕЦ")
	assert.Contains(t, text, "Всего в квартире: 2 чел.")
	// residents enumerated in registration order
	annaIdx := strings.Index(text, "1. Анна")
	borisIdx := strings.Index(text, "2. Борис")
	require.GreaterOrEqual(t, annaIdx, 0)
	require.GreaterOrEqual(t, borisIdx, 0)
	assert.Less(t, annaIdx, borisIdx)
}

func TestNotifyFailureIsolation(t *testing.T) {
	m := store.NewMemory()
	who := registered(t, m, 1, "Анна", "2.2", "9", "+79001234567")

	var sent []int64
	n := New(m, roster.Roster{SuperOperator: 100, Operators: []int64{200, 300, 400}}, func(id int64, _ string) error {
		if id == 200 {
			return errors.New("blocked by user")
		}
		sent = append(sent, id)
		return nil
	})

	err := n.Notify(context.Background(), who, "2.2", "9", "+79001234567")
	assert.Error(t, err)
	assert.Equal(t, []int64{300, 400}, sent)
}

func TestNotifySkipsSuperOperator(t *testing.T) {
	m := store.NewMemory()
	who := registered(t, m, 1, "Анна", "1.3", "2", "+79001234567")

	var sent []int64
	n := New(m, roster.Roster{SuperOperator: 100, Operators: []int64{200}}, func(id int64, _ string) error {
		sent = append(sent, id)
		return nil
	})

	require.NoError(t, n.Notify(context.Background(), who, "1.3", "2", "+79001234567"))
	assert.NotContains(t, sent, int64(100))
	assert.Equal(t, []int64{200}, sent)
}

func TestNotifyWithoutSenderIsNoop(t *testing.T) {
	m := store.NewMemory()
	who := registered(t, m, 1, "Анна", "1.4", "3", "+79001234567")

	n := New(m, roster.Roster{SuperOperator: 100, Operators: []int64{200}}, nil)
	assert.NoError(t, n.Notify(context.Background(), who, "1.4", "3", "+79001234567"))
}
