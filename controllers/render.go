package controllers

import (
	"html/template"
	"net/http"

	"orderdesk/entity"
	"orderdesk/pkg/i18n"
	"orderdesk/pkg/logger"
	"orderdesk/pkg/resp"
	"orderdesk/services"
	"orderdesk/templates"
	"orderdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// LoadTemplates parses the embedded pages with helpers bound to l.
func LoadTemplates(l *i18n.Localizer) (*template.Template, error) {
	funcs := template.FuncMap{
		"t":      func(key string) string { return l.T(key) },
		"lang":   func() string { return l.Tag().String() },
		"status": func(s entity.OrderStatus) string { return l.Status(s) },
		"money":  func(d decimal.Decimal) string { return d.StringFixed(2) },
		"price":  formatPrice,
	}
	return template.New("").Funcs(funcs).ParseFS(templates.FS, "*.html")
}

func formatPrice(p decimal.NullDecimal) string {
	if !p.Valid {
		return "—"
	}
	return p.Decimal.StringFixed(2)
}

// page carries what every HTML handler needs.
type page struct {
	L   *i18n.Localizer
	Log *logger.Logger
}

func (p page) render(c *gin.Context, code int, name, titleKey string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = p.L.T(titleKey)
	c.HTML(code, name, data)
}

// fail renders the error page for not-found and persistence errors.
// Validation errors are the caller's job since they belong on the form.
func (p page) fail(c *gin.Context, action string, err error) {
	if services.KindOf(err) == services.KindNotFound {
		p.notFound(c)
		return
	}
	p.Log.Error(action, utils.RequestID(c), "request failed", err)
	p.render(c, http.StatusInternalServerError, "error.html", i18n.PageError, gin.H{"Message": p.L.T(i18n.MsgGenericError)})
}

func (p page) notFound(c *gin.Context) {
	p.render(c, http.StatusNotFound, "error.html", i18n.PageError, gin.H{"Message": p.L.T(i18n.MsgNotFound)})
}

// formErrors turns a validation error into field -> message.
func (p page) formErrors(err error) (map[string]string, bool) {
	se, ok := services.AsError(err)
	if !ok || se.Kind != services.KindValidation {
		return nil, false
	}
	field := se.Field
	if field == "" {
		field = "_form"
	}
	return map[string]string{field: p.L.T(se.Key)}, true
}

// api is the JSON twin of page.
type api struct {
	L   *i18n.Localizer
	Log *logger.Logger
}

// fail maps service errors to status codes: validation 400, not found 404,
// anything else 500 with a generic message.
func (a api) fail(c *gin.Context, action string, err error) {
	se, ok := services.AsError(err)
	if !ok {
		se = &services.Error{Kind: services.KindPersistence, Err: err}
	}
	switch se.Kind {
	case services.KindValidation:
		resp.Invalid(c, se.Field, a.L.T(se.Key))
	case services.KindNotFound:
		msg := a.L.T(i18n.MsgNotFound)
		if se.Key != "" {
			msg = a.L.T(se.Key)
		}
		resp.NotFound(c, msg)
	default:
		a.Log.Error(action, utils.RequestID(c), "request failed", err)
		resp.ServerError(c, a.L.T(i18n.MsgGenericError))
	}
}

func (a api) invalid(c *gin.Context, field, key string) {
	resp.Invalid(c, field, a.L.T(key))
}
