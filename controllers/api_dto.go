package controllers

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"orderdesk/entity"
	"orderdesk/pkg/i18n"
	"orderdesk/services"

	"github.com/shopspring/decimal"
)

// ----- Wire shapes for /api -----
// Decimals travel as strings with two places, like "5.00".

type ItemOut struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price *string `json:"price"`
}

type OrderOut struct {
	ID            uint      `json:"id"`
	TableNumber   int       `json:"table_number"`
	Status        string    `json:"status"`
	StatusDisplay string    `json:"status_display"`
	TotalPrice    string    `json:"total_price"`
	Items         []ItemOut `json:"items"`
}

type RevenueOut struct {
	TotalRevenue string     `json:"total_revenue"`
	PaidOrders   []OrderOut `json:"paid_orders,omitempty"`
}

func toItemOut(it entity.Item) ItemOut {
	out := ItemOut{ID: it.ID, Name: it.Name}
	if it.Price.Valid {
		s := it.Price.Decimal.StringFixed(2)
		out.Price = &s
	}
	return out
}

func toItemsOut(items []entity.Item) []ItemOut {
	out := make([]ItemOut, 0, len(items))
	for _, it := range items {
		out = append(out, toItemOut(it))
	}
	return out
}

func toOrderOut(o *entity.Order, l *i18n.Localizer) OrderOut {
	return OrderOut{
		ID:            o.ID,
		TableNumber:   o.TableNumber,
		Status:        string(o.Status),
		StatusDisplay: l.Status(o.Status),
		TotalPrice:    o.TotalPrice.StringFixed(2),
		Items:         toItemsOut(o.Items),
	}
}

func toOrdersOut(orders []entity.Order, l *i18n.Localizer) []OrderOut {
	out := make([]OrderOut, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderOut(&orders[i], l))
	}
	return out
}

// ItemIn is an item on the wire. Fields are raw so that an absent price can
// be told apart from an explicit null.
type ItemIn struct {
	Name  *string         `json:"name"`
	Price json.RawMessage `json:"price"`
}

// OrderIn ignores id and total_price; the server owns both.
type OrderIn struct {
	TableNumber json.RawMessage `json:"table_number"`
	Status      *string         `json:"status"`
	Items       *[]ItemIn       `json:"items"`
}

// fieldError names the offending field and the i18n key describing it.
type fieldError struct{ field, key string }

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodePrice: absent -> set=false; null -> set, no price; number or numeric
// string -> set with price.
func decodePrice(raw json.RawMessage) (price decimal.NullDecimal, set bool, ok bool) {
	if len(raw) == 0 {
		return decimal.NullDecimal{}, false, true
	}
	if isNull(raw) {
		return decimal.NullDecimal{}, true, true
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return decimal.NullDecimal{}, true, false
	}
	return decimal.NewNullDecimal(d), true, true
}

// decodeTable accepts 12 or "12". Absent or null means not set.
func decodeTable(raw json.RawMessage) (n int, set bool, ok bool) {
	if len(raw) == 0 || isNull(raw) {
		return 0, false, true
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, true, false
	}
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) || math.Abs(t) > math.MaxInt32 {
			return 0, true, false
		}
		return int(t), true, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, true, false
		}
		return i, true, true
	}
	return 0, true, false
}

func (in ItemIn) toInput() (services.ItemInput, *fieldError) {
	out := services.ItemInput{}
	if in.Name != nil {
		out.Name = *in.Name
	}
	price, _, ok := decodePrice(in.Price)
	if !ok {
		return out, &fieldError{"price", i18n.MsgInvalidPrice}
	}
	out.Price = price
	return out, nil
}

type orderWrite struct {
	TableNumber *int
	Status      *entity.OrderStatus
	Items       *[]services.ItemInput
}

// decode validates the payload. POST requires table_number, PUT also
// requires items; PATCH requires nothing.
func (in OrderIn) decode(requireTable, requireItems bool) (orderWrite, *fieldError) {
	var w orderWrite

	table, set, ok := decodeTable(in.TableNumber)
	switch {
	case !ok, !set && requireTable:
		return w, &fieldError{"table_number", i18n.MsgInvalidTable}
	case set:
		w.TableNumber = &table
	}

	if in.Status != nil {
		st, ok := entity.ParseOrderStatus(*in.Status)
		if !ok {
			return w, &fieldError{"status", i18n.MsgInvalidStatus}
		}
		w.Status = &st
	}

	switch {
	case in.Items != nil:
		items := make([]services.ItemInput, 0, len(*in.Items))
		for _, raw := range *in.Items {
			it, ferr := raw.toInput()
			if ferr != nil {
				return w, ferr
			}
			items = append(items, it)
		}
		w.Items = &items
	case requireItems:
		return w, &fieldError{"items", i18n.MsgInvalidPayload}
	}
	return w, nil
}
