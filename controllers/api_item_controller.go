package controllers

import (
	"net/http"

	"orderdesk/pkg/i18n"
	"orderdesk/pkg/logger"
	"orderdesk/pkg/resp"
	"orderdesk/services"
	"orderdesk/utils"

	"github.com/gin-gonic/gin"
)

type ApiItemController struct {
	api
	Items *services.ItemService
}

func NewApiItemController(items *services.ItemService, l *i18n.Localizer, log *logger.Logger) *ApiItemController {
	return &ApiItemController{api: api{L: l, Log: log}, Items: items}
}

// GET /api/items/
func (ctl *ApiItemController) List(c *gin.Context) {
	items, err := ctl.Items.List(c.Request.Context())
	if err != nil {
		ctl.fail(c, "api_item_list", err)
		return
	}
	resp.OK(c, toItemsOut(items))
}

// POST /api/items/
func (ctl *ApiItemController) Create(c *gin.Context) {
	var in ItemIn
	if err := c.ShouldBindJSON(&in); err != nil {
		ctl.invalid(c, "", i18n.MsgInvalidPayload)
		return
	}
	input, ferr := in.toInput()
	if ferr != nil {
		ctl.invalid(c, ferr.field, ferr.key)
		return
	}
	it, err := ctl.Items.Create(c.Request.Context(), input)
	if err != nil {
		ctl.fail(c, "api_item_create", err)
		return
	}
	resp.Created(c, toItemOut(*it))
}

// GET /api/items/:id/
func (ctl *ApiItemController) Detail(c *gin.Context) {
	id, ok := ctl.id(c)
	if !ok {
		return
	}
	it, err := ctl.Items.Get(c.Request.Context(), id)
	if err != nil {
		ctl.fail(c, "api_item_detail", err)
		return
	}
	resp.OK(c, toItemOut(*it))
}

// PUT|PATCH /api/items/:id/
// PATCH keeps fields that are absent from the body.
func (ctl *ApiItemController) Update(c *gin.Context) {
	id, ok := ctl.id(c)
	if !ok {
		return
	}
	var in ItemIn
	if err := c.ShouldBindJSON(&in); err != nil {
		ctl.invalid(c, "", i18n.MsgInvalidPayload)
		return
	}

	input, ferr := in.toInput()
	if ferr != nil {
		ctl.invalid(c, ferr.field, ferr.key)
		return
	}
	if c.Request.Method == http.MethodPatch {
		cur, err := ctl.Items.Get(c.Request.Context(), id)
		if err != nil {
			ctl.fail(c, "api_item_update", err)
			return
		}
		if in.Name == nil {
			input.Name = cur.Name
		}
		if _, set, _ := decodePrice(in.Price); !set {
			input.Price = cur.Price
		}
	}

	it, err := ctl.Items.Update(c.Request.Context(), id, input)
	if err != nil {
		ctl.fail(c, "api_item_update", err)
		return
	}
	resp.OK(c, toItemOut(*it))
}

// DELETE /api/items/:id/
// The item leaves every order it was in; those orders are recomputed.
func (ctl *ApiItemController) Delete(c *gin.Context) {
	id, ok := ctl.id(c)
	if !ok {
		return
	}
	if err := ctl.Items.Delete(c.Request.Context(), id); err != nil {
		ctl.fail(c, "api_item_delete", err)
		return
	}
	resp.NoContent(c)
}

func (ctl *ApiItemController) id(c *gin.Context) (uint, bool) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		resp.NotFound(c, ctl.L.T(i18n.MsgItemNotFound))
	}
	return id, ok
}
