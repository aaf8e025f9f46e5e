package controllers

import (
	"net/http"
	"strings"

	"orderdesk/pkg/i18n"
	"orderdesk/pkg/logger"
	"orderdesk/services"
	"orderdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ItemController serves the menu pages.
type ItemController struct {
	page
	Items *services.ItemService
}

func NewItemController(items *services.ItemService, l *i18n.Localizer, log *logger.Logger) *ItemController {
	return &ItemController{page: page{L: l, Log: log}, Items: items}
}

type itemForm struct {
	Name  string `form:"name"`
	Price string `form:"price"`
}

// parsePrice accepts "12.50" and "12,50". Blank means no price.
func parsePrice(raw string) (decimal.NullDecimal, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return decimal.NullDecimal{}, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, false
	}
	return decimal.NewNullDecimal(d), true
}

// GET /items/
func (ctl *ItemController) List(c *gin.Context) {
	items, err := ctl.Items.List(c.Request.Context())
	if err != nil {
		ctl.fail(c, "item_list", err)
		return
	}
	ctl.render(c, http.StatusOK, "item_list.html", i18n.PageItems, gin.H{"Items": items})
}

// GET /items/create/ and /items/create/:item_id/
func (ctl *ItemController) Form(c *gin.Context) {
	if c.Param("item_id") == "" {
		ctl.showForm(c, http.StatusOK, i18n.PageItemCreate, itemForm{}, nil)
		return
	}
	id, ok := utils.ParamID(c, "item_id")
	if !ok {
		ctl.notFound(c)
		return
	}
	it, err := ctl.Items.Get(c.Request.Context(), id)
	if err != nil {
		ctl.fail(c, "item_form", err)
		return
	}
	f := itemForm{Name: it.Name}
	if it.Price.Valid {
		f.Price = it.Price.Decimal.StringFixed(2)
	}
	ctl.showForm(c, http.StatusOK, i18n.PageItemEdit, f, nil)
}

// POST /items/create/ and /items/create/:item_id/
// Editing an item recomputes every order that holds it.
func (ctl *ItemController) Save(c *gin.Context) {
	editing := c.Param("item_id") != ""
	title := i18n.PageItemCreate
	var id uint
	if editing {
		var ok bool
		if id, ok = utils.ParamID(c, "item_id"); !ok {
			ctl.notFound(c)
			return
		}
		title = i18n.PageItemEdit
	}

	var f itemForm
	_ = c.ShouldBind(&f)
	price, ok := parsePrice(f.Price)
	if !ok {
		ctl.showForm(c, http.StatusBadRequest, title, f, map[string]string{"price": ctl.L.T(i18n.MsgInvalidPrice)})
		return
	}

	in := services.ItemInput{Name: f.Name, Price: price}
	var err error
	if editing {
		_, err = ctl.Items.Update(c.Request.Context(), id, in)
	} else {
		_, err = ctl.Items.Create(c.Request.Context(), in)
	}
	if err != nil {
		if errs, ok := ctl.formErrors(err); ok {
			ctl.showForm(c, http.StatusBadRequest, title, f, errs)
			return
		}
		ctl.fail(c, "item_save", err)
		return
	}
	c.Redirect(http.StatusFound, "/items/")
}

// POST /items/delete/:item_id/
func (ctl *ItemController) Delete(c *gin.Context) {
	id, ok := utils.ParamID(c, "item_id")
	if !ok {
		ctl.notFound(c)
		return
	}
	if err := ctl.Items.Delete(c.Request.Context(), id); err != nil {
		ctl.fail(c, "item_delete", err)
		return
	}
	c.Redirect(http.StatusFound, "/items/")
}

func (ctl *ItemController) showForm(c *gin.Context, code int, titleKey string, f itemForm, errs map[string]string) {
	if errs == nil {
		errs = map[string]string{}
	}
	ctl.render(c, code, "item_form.html", titleKey, gin.H{"Form": f, "Errors": errs})
}

