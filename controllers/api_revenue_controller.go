package controllers

import (
	"orderdesk/pkg/i18n"
	"orderdesk/pkg/logger"
	"orderdesk/pkg/resp"
	"orderdesk/services"

	"github.com/gin-gonic/gin"
)

type ApiRevenueController struct {
	api
	Revenue *services.RevenueService
}

func NewApiRevenueController(revenue *services.RevenueService, l *i18n.Localizer, log *logger.Logger) *ApiRevenueController {
	return &ApiRevenueController{api: api{L: l, Log: log}, Revenue: revenue}
}

// GET /api/revenue/
func (ctl *ApiRevenueController) Report(c *gin.Context) {
	rep, err := ctl.Revenue.Report(c.Request.Context())
	if err != nil {
		ctl.fail(c, "api_revenue_report", err)
		return
	}
	resp.OK(c, RevenueOut{
		TotalRevenue: rep.TotalRevenue.StringFixed(2),
		PaidOrders:   toOrdersOut(rep.PaidOrders, ctl.L),
	})
}

// GET /api/revenue/total/
// Served from the revenue cache.
func (ctl *ApiRevenueController) Total(c *gin.Context) {
	total, err := ctl.Revenue.Total(c.Request.Context())
	if err != nil {
		ctl.fail(c, "api_revenue_total", err)
		return
	}
	resp.OK(c, RevenueOut{TotalRevenue: total.StringFixed(2)})
}
