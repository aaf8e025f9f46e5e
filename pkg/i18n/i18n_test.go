package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"orderdesk/entity"
)

func TestResolveStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   entity.OrderStatus
		wantOK bool
	}{
		{"готово", entity.StatusReady, true},
		{"ГОТОВО", entity.StatusReady, true},
		{"Оплачено", entity.StatusPaid, true},
		{"в ожидании", entity.StatusPending, true},
		{"ready", entity.StatusReady, true},
		{"PAID", entity.StatusPaid, true},
		{"готов", "", false},
		{"5", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ResolveStatus(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalizer(t *testing.T) {
	ru := New("ru")
	assert.Equal(t, "Готово", ru.Status(entity.StatusReady))
	assert.Equal(t, "Заказ 3 - Стол #12", ru.T(MsgOrderTitle, 3, 12))

	en := New("en-GB")
	assert.Equal(t, "Paid", en.Status(entity.StatusPaid))
	assert.Equal(t, "Order not found", en.T(MsgOrderNotFound))

	fallback := New("xx")
	assert.Equal(t, "В ожидании", fallback.Status(entity.StatusPending))
}

func TestNewFallsBackToRussian(t *testing.T) {
	for _, code := range []string{"", "xx", "de", "fr-FR", "zz-ZZ", "not a tag"} {
		t.Run(code, func(t *testing.T) {
			l := New(code)
			assert.Equal(t, language.Russian, l.Tag())
			assert.Equal(t, "В ожидании", l.Status(entity.StatusPending))
		})
	}
	assert.Equal(t, language.English, New("en-US").Tag())
	assert.Equal(t, language.Russian, New("ru-RU").Tag())
}
