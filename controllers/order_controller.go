package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"orderdesk/entity"
	"orderdesk/pkg/i18n"
	"orderdesk/pkg/logger"
	"orderdesk/services"
	"orderdesk/utils"

	"github.com/gin-gonic/gin"
)

// OrderController serves the staff HTML pages for orders and revenue.
type OrderController struct {
	page
	Orders  *services.OrderService
	Items   *services.ItemService
	Revenue *services.RevenueService
}

func NewOrderController(orders *services.OrderService, items *services.ItemService, revenue *services.RevenueService, l *i18n.Localizer, log *logger.Logger) *OrderController {
	return &OrderController{page: page{L: l, Log: log}, Orders: orders, Items: items, Revenue: revenue}
}

type orderForm struct {
	TableNumber string   `form:"table_number"`
	Status      string   `form:"status"`
	Items       []string `form:"items"`
}

// parse validates the raw form. The returned map holds i18n keys per field.
// A missing status means pending on create; editing must name one.
func (f orderForm) parse(editing bool) (int, entity.OrderStatus, []uint, map[string]string) {
	errs := map[string]string{}

	table, err := strconv.Atoi(strings.TrimSpace(f.TableNumber))
	if err != nil {
		errs["table_number"] = i18n.MsgInvalidTable
	}
	status, ok := entity.ParseOrderStatus(f.Status)
	if !ok || (editing && f.Status == "") {
		errs["status"] = i18n.MsgInvalidStatus
	}
	ids := make([]uint, 0, len(f.Items))
	for _, raw := range f.Items {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			errs["items"] = i18n.MsgUnknownItem
			continue
		}
		ids = append(ids, uint(id))
	}
	return table, status, ids, errs
}

// GET /?q=
func (ctl *OrderController) List(c *gin.Context) {
	q := c.Query("q")
	orders, err := ctl.Orders.Search(c.Request.Context(), q)
	if err != nil {
		ctl.fail(c, "order_list", err)
		return
	}
	ctl.render(c, http.StatusOK, "order_list.html", i18n.PageOrders, gin.H{"Orders": orders, "Query": q})
}

// GET /create/
func (ctl *OrderController) CreateForm(c *gin.Context) {
	ctl.showForm(c, http.StatusOK, i18n.PageOrderCreate, orderForm{Status: string(entity.StatusPending)}, nil)
}

// POST /create/
func (ctl *OrderController) Create(c *gin.Context) {
	var f orderForm
	_ = c.ShouldBind(&f)

	table, status, ids, keys := f.parse(false)
	if len(keys) > 0 {
		ctl.showForm(c, http.StatusBadRequest, i18n.PageOrderCreate, f, ctl.translate(keys))
		return
	}

	_, err := ctl.Orders.Create(c.Request.Context(), services.OrderInput{TableNumber: table, Status: status, ItemIDs: ids})
	if err != nil {
		if errs, ok := ctl.formErrors(err); ok {
			ctl.showForm(c, http.StatusBadRequest, i18n.PageOrderCreate, f, errs)
			return
		}
		ctl.fail(c, "order_create", err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// GET /edit/:order_id/
func (ctl *OrderController) EditForm(c *gin.Context) {
	id, ok := utils.ParamID(c, "order_id")
	if !ok {
		ctl.notFound(c)
		return
	}
	o, err := ctl.Orders.Get(c.Request.Context(), id)
	if err != nil {
		ctl.fail(c, "order_edit", err)
		return
	}

	f := orderForm{TableNumber: strconv.Itoa(o.TableNumber), Status: string(o.Status)}
	for _, it := range o.Items {
		f.Items = append(f.Items, strconv.FormatUint(uint64(it.ID), 10))
	}
	ctl.showForm(c, http.StatusOK, i18n.PageOrderEdit, f, nil)
}

// POST /edit/:order_id/
func (ctl *OrderController) Edit(c *gin.Context) {
	id, ok := utils.ParamID(c, "order_id")
	if !ok {
		ctl.notFound(c)
		return
	}
	var f orderForm
	_ = c.ShouldBind(&f)

	table, status, ids, keys := f.parse(true)
	if len(keys) > 0 {
		ctl.showForm(c, http.StatusBadRequest, i18n.PageOrderEdit, f, ctl.translate(keys))
		return
	}

	_, err := ctl.Orders.Update(c.Request.Context(), id, services.OrderPatch{
		TableNumber: &table,
		Status:      &status,
		ItemIDs:     &ids,
	})
	if err != nil {
		if errs, ok := ctl.formErrors(err); ok {
			ctl.showForm(c, http.StatusBadRequest, i18n.PageOrderEdit, f, errs)
			return
		}
		ctl.fail(c, "order_edit", err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// POST /delete/:order_id/
func (ctl *OrderController) Delete(c *gin.Context) {
	id, ok := utils.ParamID(c, "order_id")
	if !ok {
		ctl.notFound(c)
		return
	}
	if err := ctl.Orders.Delete(c.Request.Context(), id); err != nil {
		ctl.fail(c, "order_delete", err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// GET /revenue/
func (ctl *OrderController) RevenueReport(c *gin.Context) {
	rep, err := ctl.Revenue.Report(c.Request.Context())
	if err != nil {
		ctl.fail(c, "revenue_report", err)
		return
	}
	ctl.render(c, http.StatusOK, "revenue_report.html", i18n.PageRevenue, gin.H{"Report": rep})
}

func (ctl *OrderController) showForm(c *gin.Context, code int, titleKey string, f orderForm, errs map[string]string) {
	items, err := ctl.Items.List(c.Request.Context())
	if err != nil {
		ctl.fail(c, "order_form", err)
		return
	}
	selected := make(map[uint]bool, len(f.Items))
	for _, raw := range f.Items {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			selected[uint(id)] = true
		}
	}
	if errs == nil {
		errs = map[string]string{}
	}
	ctl.render(c, code, "order_form.html", titleKey, gin.H{
		"Form":     f,
		"Items":    items,
		"Selected": selected,
		"Statuses": entity.OrderStatuses,
		"Errors":   errs,
	})
}

func (p page) translate(keys map[string]string) map[string]string {
	out := make(map[string]string, len(keys))
	for field, key := range keys {
		out[field] = p.L.T(key)
	}
	return out
}
