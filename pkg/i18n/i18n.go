// Package i18n holds the user-facing message catalog. Russian is the house
// language, English is kept in sync for the API and for staff who need it.
package i18n

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"orderdesk/entity"
)

const (
	MsgOrderTitle        = "order.title"
	MsgOrderNotFound     = "order.not_found"
	MsgItemNotFound      = "item.not_found"
	MsgInvalidTable      = "validation.table_number"
	MsgInvalidStatus     = "validation.status"
	MsgUnknownItem       = "validation.unknown_item"
	MsgItemNameRequired  = "validation.item_name"
	MsgItemNameTooLong   = "validation.item_name_length"
	MsgInvalidPrice      = "validation.price"
	MsgInvalidPayload    = "validation.payload"
	MsgGenericError      = "error.generic"
	MsgNotFound          = "error.not_found"
	MsgInvalidCredential = "auth.invalid_credentials"
	MsgUnauthorized      = "auth.unauthorized"

	PageOrders      = "nav.orders"
	PageOrderCreate = "page.order_create"
	PageOrderEdit   = "page.order_edit"
	PageItems       = "nav.items"
	PageItemCreate  = "page.item_create"
	PageItemEdit    = "page.item_edit"
	PageRevenue     = "nav.revenue"
	PageError       = "page.error"
)

var supported = []language.Tag{language.Russian, language.English}

var matcher = language.NewMatcher(supported)

var cat = build()

func build() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.Russian))
	for tag, entries := range map[language.Tag]map[string]string{
		language.Russian: {
			statusKey(entity.StatusPending): "В ожидании",
			statusKey(entity.StatusReady):   "Готово",
			statusKey(entity.StatusPaid):    "Оплачено",
			MsgOrderTitle:                   "Заказ %d - Стол #%d",
			MsgOrderNotFound:                "Заказ не найден",
			MsgItemNotFound:                 "Блюдо не найдено",
			MsgInvalidTable:                 "Введите целое число.",
			MsgInvalidStatus:                "Выберите корректный вариант.",
			MsgUnknownItem:                  "Выберите корректный вариант. Такого блюда нет среди допустимых значений.",
			MsgItemNameRequired:             "Обязательное поле.",
			MsgItemNameTooLong:              "Убедитесь, что это значение содержит не более 100 символов.",
			MsgInvalidPrice:                 "Введите корректную цену (не больше 10 цифр, 2 знака после запятой).",
			MsgInvalidPayload:               "Некорректные данные запроса.",
			MsgGenericError:                 "Произошла ошибка. Попробуйте ещё раз.",
			MsgNotFound:                     "Страница не найдена",
			MsgInvalidCredential:            "Неверный email или пароль",
			MsgUnauthorized:                 "Требуется авторизация",

			PageOrders:           "Заказы",
			PageOrderCreate:      "Новый заказ",
			PageOrderEdit:        "Редактирование заказа",
			PageItems:            "Меню",
			PageItemCreate:       "Новое блюдо",
			PageItemEdit:         "Редактирование блюда",
			PageRevenue:          "Выручка",
			PageError:            "Ошибка",
			"nav.new_order":      "Новый заказ",
			"search.placeholder": "Номер стола или статус",
			"search.submit":      "Найти",
			"field.table_number": "Номер стола",
			"field.items":        "Блюда",
			"field.total_price":  "Сумма",
			"field.status":       "Статус",
			"field.name":         "Название",
			"field.price":        "Цена",
			"action.edit":        "Изменить",
			"action.delete":      "Удалить",
			"action.save":        "Сохранить",
			"action.add_item":    "Добавить блюдо",
			"list.empty":         "Пока ничего нет",
			"revenue.total":      "Общая выручка",
		},
		language.English: {
			statusKey(entity.StatusPending): "Pending",
			statusKey(entity.StatusReady):   "Ready",
			statusKey(entity.StatusPaid):    "Paid",
			MsgOrderTitle:                   "Order %d - Table #%d",
			MsgOrderNotFound:                "Order not found",
			MsgItemNotFound:                 "Item not found",
			MsgInvalidTable:                 "Enter a whole number.",
			MsgInvalidStatus:                "Select a valid choice.",
			MsgUnknownItem:                  "Select a valid choice. That item is not one of the available choices.",
			MsgItemNameRequired:             "This field is required.",
			MsgItemNameTooLong:              "Ensure this value has at most 100 characters.",
			MsgInvalidPrice:                 "Enter a valid price (at most 10 digits, 2 decimal places).",
			MsgInvalidPayload:               "Malformed request payload.",
			MsgGenericError:                 "Something went wrong. Please try again.",
			MsgNotFound:                     "Page not found",
			MsgInvalidCredential:            "Invalid email or password",
			MsgUnauthorized:                 "Authorization required",

			PageOrders:           "Orders",
			PageOrderCreate:      "New order",
			PageOrderEdit:        "Edit order",
			PageItems:            "Menu",
			PageItemCreate:       "New item",
			PageItemEdit:         "Edit item",
			PageRevenue:          "Revenue",
			PageError:            "Error",
			"nav.new_order":      "New order",
			"search.placeholder": "Table number or status",
			"search.submit":      "Search",
			"field.table_number": "Table number",
			"field.items":        "Items",
			"field.total_price":  "Total",
			"field.status":       "Status",
			"field.name":         "Name",
			"field.price":        "Price",
			"action.edit":        "Edit",
			"action.delete":      "Delete",
			"action.save":        "Save",
			"action.add_item":    "Add item",
			"list.empty":         "Nothing here yet",
			"revenue.total":      "Total revenue",
		},
	} {
		for key, msg := range entries {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

func statusKey(s entity.OrderStatus) string { return "status." + string(s) }

// Localizer renders catalog messages in one language.
type Localizer struct {
	tag language.Tag
	p   *message.Printer
}

// New picks the closest supported language for code ("ru", "en-US", ...).
// Unknown codes fall back to Russian.
func New(code string) *Localizer {
	t := language.Russian
	if tag, err := language.Parse(code); err == nil {
		if _, idx, conf := matcher.Match(tag); conf != language.No {
			t = supported[idx]
		}
	}
	return &Localizer{tag: t, p: message.NewPrinter(t, message.Catalog(cat))}
}

func (l *Localizer) Tag() language.Tag { return l.tag }

// T formats the message stored under key.
func (l *Localizer) T(key string, args ...any) string {
	return l.p.Sprintf(key, args...)
}

// Status returns the display name of s.
func (l *Localizer) Status(s entity.OrderStatus) string {
	return l.T(statusKey(s))
}

// ResolveStatus maps a display name in any supported language back to its
// status key. Matching is case-insensitive.
func ResolveStatus(name string) (entity.OrderStatus, bool) {
	if name == "" {
		return "", false
	}
	want := cases.Fold().String(name)
	for _, tag := range supported {
		p := message.NewPrinter(tag, message.Catalog(cat))
		for _, st := range entity.OrderStatuses {
			if cases.Fold().String(p.Sprintf(statusKey(st))) == want {
				return st, true
			}
		}
	}
	return "", false
}
