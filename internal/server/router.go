package server

import (
	"fmt"
	"html/template"
	"net/http"

	"stockdesk/internal/auth"
	"stockdesk/internal/config"
	"stockdesk/internal/database"
	"stockdesk/internal/guard"
	"stockdesk/internal/handlers"
	"stockdesk/internal/metrics"
	"stockdesk/internal/middleware"
	"stockdesk/internal/models"
	"stockdesk/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const cookieName = "stockdesk_session"

// Deps is everything the router wires together.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Sessions *auth.Store
	Tokens   *auth.TokenIssuer
	Metrics  *metrics.Metrics // optional
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()

	tmpl := template.Must(template.New("").
		Funcs(template.FuncMap{"money": money}).
		ParseFS(web.Templates, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	store := cookie.NewStore([]byte(d.Config.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(d.Sessions.TTL().Seconds()),
		Secure:   d.Config.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(cookieName, store))
	r.Use(middleware.ResolveSession(d.Sessions, d.Tokens))

	h := &handlers.Handler{
		DB:           d.DB,
		Sessions:     d.Sessions,
		Tokens:       d.Tokens,
		Users:        database.NewUserRepository(d.DB),
		CookieSecure: d.Config.CookieSecure,
	}
	g := middleware.Guard{}
	if d.Metrics != nil {
		h.Failures = d.Metrics
		g.Recorder = d.Metrics
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	staff := []models.UserRole{models.RoleAdmin, models.RoleAssistant}
	admin := g.RequireRole(models.RoleAdmin)
	anyRole := g.RequireAuth()

	// pages
	r.GET("/", h.IndexPage)
	r.GET(guard.RegisterPath, h.ShowRegister)
	r.POST(guard.RegisterPath, h.Register)
	r.GET(guard.LoginPath, h.ShowLogin)
	r.POST(guard.LoginPath, h.Login)
	r.GET(guard.LogoutPath, h.Logout)
	r.GET(guard.DashboardPath, anyRole, h.DashboardPage)

	api := r.Group("/api/v1")

	// auth
	api.POST("/auth/login", h.APILogin)
	api.POST("/auth/register", h.APIRegister)
	api.POST("/auth/token", h.APIToken)
	api.POST("/auth/logout", h.APILogout)
	api.GET("/auth/session", h.APISession)

	protected := api.Group("/")
	protected.Use(anyRole)

	protected.GET("/dashboard/summary", h.DashboardSummary)

	// catalog
	protected.GET("/products", h.ListProducts)
	protected.GET("/products/:id", h.GetProduct)
	protected.POST("/products", g.RequireRole(staff...), h.CreateProduct)
	protected.PUT("/products/:id", g.RequireRole(staff...), h.UpdateProduct)
	protected.DELETE("/products/:id", admin, h.DeleteProduct)
	protected.GET("/products/:id/barcode", g.RequireRole(staff...), h.ProductBarcode)

	protected.GET("/categories", h.ListCategories)
	protected.POST("/categories", g.RequireRole(staff...), h.CreateCategory)
	protected.PUT("/categories/:id", g.RequireRole(staff...), h.UpdateCategory)
	protected.DELETE("/categories/:id", admin, h.DeleteCategory)

	protected.GET("/brands", h.ListBrands)
	protected.POST("/brands", g.RequireRole(staff...), h.CreateBrand)
	protected.PUT("/brands/:id", g.RequireRole(staff...), h.UpdateBrand)
	protected.DELETE("/brands/:id", admin, h.DeleteBrand)

	vendors := protected.Group("/vendors", g.RequireRole(staff...))
	vendors.GET("", h.ListVendors)
	vendors.POST("", h.CreateVendor)
	vendors.PUT("/:id", h.UpdateVendor)
	vendors.DELETE("/:id", admin, h.DeleteVendor)

	// transactions
	sales := protected.Group("/sales", g.RequireRole(models.RoleAdmin, models.RoleAssistant, models.RoleCashier))
	sales.GET("", h.ListSales)
	sales.POST("", h.CreateSale)
	sales.DELETE("/:id", admin, h.DeleteSale)

	purchases := protected.Group("/purchases", g.RequireRole(staff...))
	purchases.GET("", h.ListPurchases)
	purchases.POST("", h.CreatePurchase)
	purchases.POST("/:id/receive", h.ReceivePurchase)
	purchases.DELETE("/:id", admin, h.DeletePurchase)

	// tools
	protected.POST("/tools/barcode", g.RequireRole(staff...), h.GenerateBarcode)
	protected.GET("/assistant/questions", h.AssistantQuestions)
	protected.POST("/assistant/messages", h.AssistantMessage)

	// administration
	protected.GET("/users", admin, h.ListUsers)
	protected.GET("/audit", admin, h.ListAuditLogs)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
