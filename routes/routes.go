package routes

import (
	"net/http"

	"orderdesk/configs"
	"orderdesk/controllers"
	"orderdesk/middlewares"
	"orderdesk/pkg/i18n"
	"orderdesk/pkg/logger"
	"orderdesk/services"
	"orderdesk/ws"

	"github.com/gin-gonic/gin"
)

// Deps is everything the router needs; main builds it once.
type Deps struct {
	Config  *configs.Config
	L       *i18n.Localizer
	Log     *logger.Logger
	Orders  *services.OrderService
	Items   *services.ItemService
	Revenue *services.RevenueService
	Auth    *services.AuthService
	Hub     *ws.OrderHub
}

// NewRouter builds the engine with HTML pages, the JSON API, auth and the
// live order board.
func NewRouter(d Deps) (*gin.Engine, error) {
	tmpl, err := controllers.LoadTemplates(d.L)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		middlewares.RequestID(),
		middlewares.RequestLogger(d.Log),
		middlewares.CORSMiddleware(),
		gin.Recovery(),
	)
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	// Controllers
	orderPages := controllers.NewOrderController(d.Orders, d.Items, d.Revenue, d.L, d.Log)
	itemPages := controllers.NewItemController(d.Items, d.L, d.Log)
	orderAPI := controllers.NewApiOrderController(d.Orders, d.L, d.Log)
	itemAPI := controllers.NewApiItemController(d.Items, d.L, d.Log)
	revenueAPI := controllers.NewApiRevenueController(d.Revenue, d.L, d.Log)

	// หน้าเว็บของพนักงาน
	r.GET("/", orderPages.List)
	r.GET("/create/", orderPages.CreateForm)
	r.POST("/create/", orderPages.Create)
	r.GET("/edit/:order_id/", orderPages.EditForm)
	r.POST("/edit/:order_id/", orderPages.Edit)
	r.POST("/delete/:order_id/", orderPages.Delete)
	r.GET("/revenue/", orderPages.RevenueReport)

	r.GET("/items/", itemPages.List)
	r.GET("/items/create/", itemPages.Form)
	r.POST("/items/create/", itemPages.Save)
	r.GET("/items/create/:item_id/", itemPages.Form)
	r.POST("/items/create/:item_id/", itemPages.Save)
	r.POST("/items/delete/:item_id/", itemPages.Delete)

	// JSON API; ถ้าตั้ง AUTH_REQUIRED การเขียนต้องมี token
	cfg := d.Config
	api := r.Group("/api", middlewares.WriteGuard(middlewares.AuthMiddleware(cfg.JWTSecret, cfg.AuthRequired)))
	{
		api.GET("/orders/", orderAPI.List)
		api.POST("/orders/", orderAPI.Create)
		api.GET("/orders/:id/", orderAPI.Detail)
		api.PUT("/orders/:id/", orderAPI.Update)
		api.PATCH("/orders/:id/", orderAPI.Update)
		api.DELETE("/orders/:id/", orderAPI.Delete)
		api.POST("/orders/:id/items/:item_id/", orderAPI.AddItem)
		api.DELETE("/orders/:id/items/:item_id/", orderAPI.RemoveItem)

		api.GET("/items/", itemAPI.List)
		api.POST("/items/", itemAPI.Create)
		api.GET("/items/:id/", itemAPI.Detail)
		api.PUT("/items/:id/", itemAPI.Update)
		api.PATCH("/items/:id/", itemAPI.Update)
		api.DELETE("/items/:id/", itemAPI.Delete)

		api.GET("/revenue/", revenueAPI.Report)
		api.GET("/revenue/total/", revenueAPI.Total)
	}

	if d.Auth != nil {
		authCtrl := controllers.NewAuthController(d.Auth, d.L, d.Log)
		a := r.Group("/auth")
		a.POST("/login", authCtrl.Login)
		a.GET("/me", middlewares.AuthMiddleware(cfg.JWTSecret, true), authCtrl.Me)
	}

	if d.Hub != nil {
		r.GET("/ws/orders", middlewares.AuthMiddleware(cfg.JWTSecret, cfg.AuthRequired), d.Hub.HandleWebSocket)
	}
	return r, nil
}
