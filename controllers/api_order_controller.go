package controllers

import (
	"net/http"

	"orderdesk/entity"
	"orderdesk/pkg/i18n"
	"orderdesk/pkg/logger"
	"orderdesk/pkg/resp"
	"orderdesk/services"
	"orderdesk/utils"

	"github.com/gin-gonic/gin"
)

type ApiOrderController struct {
	api
	Orders *services.OrderService
}

func NewApiOrderController(orders *services.OrderService, l *i18n.Localizer, log *logger.Logger) *ApiOrderController {
	return &ApiOrderController{api: api{L: l, Log: log}, Orders: orders}
}

// GET /api/orders/?q=
func (ctl *ApiOrderController) List(c *gin.Context) {
	orders, err := ctl.Orders.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		ctl.fail(c, "api_order_list", err)
		return
	}
	resp.OK(c, toOrdersOut(orders, ctl.L))
}

// POST /api/orders/
// Nested items are resolved by exact (name, price) or inserted.
func (ctl *ApiOrderController) Create(c *gin.Context) {
	var in OrderIn
	if err := c.ShouldBindJSON(&in); err != nil {
		ctl.invalid(c, "", i18n.MsgInvalidPayload)
		return
	}
	w, ferr := in.decode(true, false)
	if ferr != nil {
		ctl.invalid(c, ferr.field, ferr.key)
		return
	}

	var status entity.OrderStatus
	if w.Status != nil {
		status = *w.Status
	}
	var items []services.ItemInput
	if w.Items != nil {
		items = *w.Items
	}

	o, err := ctl.Orders.CreateWithItems(c.Request.Context(), *w.TableNumber, status, items)
	if err != nil {
		ctl.fail(c, "api_order_create", err)
		return
	}
	resp.Created(c, toOrderOut(o, ctl.L))
}

// GET /api/orders/:id/
func (ctl *ApiOrderController) Detail(c *gin.Context) {
	id, ok := ctl.id(c)
	if !ok {
		return
	}
	o, err := ctl.Orders.Get(c.Request.Context(), id)
	if err != nil {
		ctl.fail(c, "api_order_detail", err)
		return
	}
	resp.OK(c, toOrderOut(o, ctl.L))
}

// PUT|PATCH /api/orders/:id/
// PUT needs table_number and items; PATCH takes any subset. Items, when
// given, replace the whole set.
func (ctl *ApiOrderController) Update(c *gin.Context) {
	id, ok := ctl.id(c)
	if !ok {
		return
	}
	var in OrderIn
	if err := c.ShouldBindJSON(&in); err != nil {
		ctl.invalid(c, "", i18n.MsgInvalidPayload)
		return
	}
	full := c.Request.Method == http.MethodPut
	w, ferr := in.decode(full, full)
	if ferr != nil {
		ctl.invalid(c, ferr.field, ferr.key)
		return
	}

	o, err := ctl.Orders.Update(c.Request.Context(), id, services.OrderPatch{
		TableNumber: w.TableNumber,
		Status:      w.Status,
		Items:       w.Items,
	})
	if err != nil {
		ctl.fail(c, "api_order_update", err)
		return
	}
	resp.OK(c, toOrderOut(o, ctl.L))
}

// DELETE /api/orders/:id/
func (ctl *ApiOrderController) Delete(c *gin.Context) {
	id, ok := ctl.id(c)
	if !ok {
		return
	}
	if err := ctl.Orders.Delete(c.Request.Context(), id); err != nil {
		ctl.fail(c, "api_order_delete", err)
		return
	}
	resp.NoContent(c)
}

// POST /api/orders/:id/items/:item_id/
func (ctl *ApiOrderController) AddItem(c *gin.Context) {
	id, ok := ctl.id(c)
	if !ok {
		return
	}
	itemID, ok := utils.ParamID(c, "item_id")
	if !ok {
		resp.NotFound(c, ctl.L.T(i18n.MsgItemNotFound))
		return
	}
	o, err := ctl.Orders.AddItem(c.Request.Context(), id, itemID)
	if err != nil {
		ctl.fail(c, "api_order_add_item", err)
		return
	}
	resp.OK(c, toOrderOut(o, ctl.L))
}

// DELETE /api/orders/:id/items/:item_id/
func (ctl *ApiOrderController) RemoveItem(c *gin.Context) {
	id, ok := ctl.id(c)
	if !ok {
		return
	}
	itemID, ok := utils.ParamID(c, "item_id")
	if !ok {
		resp.NotFound(c, ctl.L.T(i18n.MsgItemNotFound))
		return
	}
	o, err := ctl.Orders.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		ctl.fail(c, "api_order_remove_item", err)
		return
	}
	resp.OK(c, toOrderOut(o, ctl.L))
}

func (ctl *ApiOrderController) id(c *gin.Context) (uint, bool) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.NotFound(c, ctl.L.T(i18n.MsgOrderNotFound))
	}
	return id, ok
}
