// Package texts collects every user-facing message of the bot in one
// place. All strings are Russian, matching the audience of the chat.
package texts

import (
	"fmt"
	"strings"
	"time"

	"housechat/core/telegram/format"
	"housechat/internal/domain"
)

// Button labels.
const (
	ContactButton  = "📱 Отправить номер телефона"
	RegisterButton = "📝 Зарегистрироваться"
)

// Registration flow.
const (
	WelcomeNew = "👋 Добро пожаловать в домовой чат!\n\n" +
		"Для доступа к чату необходимо пройти регистрацию.\n\n" +
		"🏢 Выберите ваш корпус из списка:"

	WelcomeExisting = "📝 Регистрация в домовом чате\n\n" +
		"Для продолжения общения в чате необходимо пройти регистрацию.\n\n" +
		"🏢 Выберите ваш корпус из списка:"

	NoBuildings = "❌ В системе нет доступных корпусов. Обратитесь к администратору."

	AskPhone = "📞 Теперь поделитесь номером телефона:\n\n" +
		"Вы можете отправить номер вручную или использовать кнопку ниже:"

	AlreadyRegistered         = "✅ Вы уже зарегистрированы в системе!"
	AlreadyRegisteredCallback = "Вы уже зарегистрированы!"
	KeyboardHidden            = "Клавиатура скрыта"
)

// BuildingButton renders an inline button label for a building.
func BuildingButton(name string) string {
	return "🏢 " + name
}

// BuildingChosen prompts for the apartment number after a selection.
func BuildingChosen(building string) string {
	return fmt.Sprintf("🏢 Выбран корпус: %s\n\n🏠 Теперь введите номер квартиры:", building)
}

// RetryApartment asks for the apartment number again with the reason.
func RetryApartment(reason string) string {
	return reason + "\n\nПожалуйста, введите номер квартиры еще раз:"
}

// RetryPhone asks for the phone number again with the reason.
func RetryPhone(reason string) string {
	return reason + "\n\nПожалуйста, введите номер телефона еще раз:"
}

// RegistrationDone confirms a completed registration to the resident.
func RegistrationDone(building, apartment, phone string) string {
	return fmt.Sprintf(`✅ Регистрация завершена!

🏢 Корпус: %s
🏠 Квартира: %s
📞 Телефон: %s

Теперь вы можете писать сообщения в чат!

Добро пожаловать в наш домовой чат! 🏠`, building, apartment, phone)
}

// GateReminder tells an unregistered member why the message was removed.
func GateReminder(firstName string) string {
	return fmt.Sprintf("❌ %s, для отправки сообщений необходимо пройти регистрацию!", firstName)
}

// Operator notifications.

// NewApartmentNotice announces the first resident of an apartment.
func NewApartmentNotice(r domain.Resident, building, apartment, phone string, total int, now time.Time) string {
	return fmt.Sprintf(`🆕 НОВАЯ КВАРТИРА ЗАРЕГИСТРИРОВАНА!

🏢 Корпус: %s
🏠 Квартира: %s
👤 Первый жилец: %s
📞 Телефон: %s
👥 Всего в квартире: %d чел.

🔍 Детали:
Username: @%s
ID: %d
Время: %s`,
		building, apartment, r.FirstName, phone, total,
		format.DerefString(r.Username, "Не указано"), r.UserID,
		now.Format("2006-01-02 15:04:05"))
}

// AdditionalResidentNotice announces a further resident and lists everyone.
func AdditionalResidentNotice(r domain.Resident, building, apartment, phone string, residents []domain.Resident) string {
	var b strings.Builder
	fmt.Fprintf(&b, `👥 ДОБАВЛЕН НОВЫЙ ЖИЛЕЦ В КВАРТИРУ

🏢 Корпус: %s
🏠 Квартира: %s
👤 Новый жилец: %s
📞 Телефон: %s
👥 Всего в квартире: %d чел.

📋 Все жильцы квартиры %s-%s:
`,
		building, apartment, r.FirstName, phone, len(residents), building, apartment)
	for i, res := range residents {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, res.FirstName, format.DerefString(res.Phone, "Не указан"))
	}
	return b.String()
}

// Operator commands.

const (
	AddBuildingUsage = "❌ Использование: /add_building номер_корпуса"
	ApartmentUsage   = "❌ Использование: /apartment корпус номер_квартиры"
	NoBuildingsShort = "❌ Нет доступных корпусов"
)

// AddBuildingOK confirms a new building.
func AddBuildingOK(name string) string {
	return fmt.Sprintf("✅ Корпус '%s' успешно добавлен!", name)
}

// AddBuildingExists reports a name collision.
func AddBuildingExists(name string) string {
	return fmt.Sprintf("❌ Корпус '%s' уже существует!", name)
}

// BuildingList renders the numbered building list.
func BuildingList(buildings []domain.Building) string {
	var b strings.Builder
	b.WriteString("🏢 Список всех корпусов:\n\n")
	for i, bld := range buildings {
		fmt.Fprintf(&b, "%d. %s\n", i+1, bld.Name)
	}
	return b.String()
}

// OperatorList renders the operator roster with resolved names.
// Names map may miss entries; those fall back to the raw identifier.
func OperatorList(superOperator int64, operators []int64, names map[int64]string) string {
	var b strings.Builder
	b.WriteString("👥 Список администраторов:\n\n")
	if name, ok := names[superOperator]; ok && name != "" {
		fmt.Fprintf(&b, "👑 Супер-админ: %s (ID: %d)\n\n", name, superOperator)
	} else {
		fmt.Fprintf(&b, "👑 Супер-админ: ID: %d\n\n", superOperator)
	}
	b.WriteString("👥 Обычные администраторы:\n")
	for i, id := range operators {
		if name, ok := names[id]; ok && name != "" {
			fmt.Fprintf(&b, "%d. %s (ID: %d)\n", i+1, name, id)
		} else {
			fmt.Fprintf(&b, "%d. ID: %d\n", i+1, id)
		}
	}
	return b.String()
}

// ApartmentEmpty reports an apartment with no registered residents.
func ApartmentEmpty(building, apartment string) string {
	return fmt.Sprintf("❌ В квартире %s-%s нет зарегистрированных жильцов", building, apartment)
}

// ApartmentReport renders full resident details for operators.
func ApartmentReport(building, apartment string, residents []domain.Resident) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏢 Корпус %s, 🏠 Квартира %s - %d жильцов:\n\n", building, apartment, len(residents))
	for i, r := range residents {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.FullName())
		fmt.Fprintf(&b, "   📞 %s\n", format.DerefString(r.Phone, "Не указан"))
		fmt.Fprintf(&b, "   🔗 @%s\n", format.DerefString(r.Username, "Нет username"))
		fmt.Fprintf(&b, "   🕒 %s\n\n", r.RegistrationTime.Format("2006-01-02 15:04:05"))
	}
	return b.String()
}
