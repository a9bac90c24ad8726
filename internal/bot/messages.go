package bot

// User-visible texts and keyboard buttons.
const (
	msgWelcome = "Я бот для заказа обедов. Напишите «обед», чтобы создать опрос.\n" +
		"/mailing — время ежедневной рассылки\n" +
		"/timezone — часовой пояс чата\n" +
		"/update — обновить каталог мест"
	msgHello              = "Привет!"
	msgUnknown            = "Не понимаю, что это значит."
	msgActionCanceled     = "Действие отменено."
	msgChooseFromKeyboard = "Пожалуйста, выберите действие, используя клавиатуру ниже."
	msgInvalidInput       = "Неверный формат ввода."

	msgCurrentTimezone = "🌐 Текущий часовой пояс: UTC %s."
	msgEnterTimezone   = "Введите часовой пояс в формате ±HH:MM."
	msgTimezoneChanged = "Часовой пояс изменён: UTC %s."

	msgCurrentMailing  = "🌐 Текущее время рассылки: %s."
	msgEnterMailing    = "Введите время рассылки в формате HH:MM."
	msgMailingChanged  = "Время рассылки изменено: %s."
	msgMailingCanceled = "Подписка на ежедневный опрос отменена."
	msgNotSet          = "не задано"

	msgCatalogUpdated = "Каталог мест обновлён."
	msgInternalError  = "Что-то пошло не так, попробуйте позже."

	btnEnterTimezone = "⌨ Ввести часовой пояс"
	btnChange        = "🛠 Изменить"
	btnUnsubscribe   = "🚫 Отписаться"
	btnCancel        = "❌ Отмена"
)
