// Package httpapi exposes the storefront and admin dashboard over a
// JSON REST API.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sanikapatil01/chakali-store/internal/admin"
	"github.com/sanikapatil01/chakali-store/internal/cart"
	"github.com/sanikapatil01/chakali-store/internal/catalog"
	"github.com/sanikapatil01/chakali-store/internal/middleware"
	"github.com/sanikapatil01/chakali-store/internal/order"
	"github.com/sanikapatil01/chakali-store/internal/stats"
	"github.com/sanikapatil01/chakali-store/internal/store"
	"github.com/sanikapatil01/chakali-store/internal/whatsapp"
)

// StatusSource is what the dashboard shows about the notification
// channel, plus the wa.me enquiry link the product page embeds.
type StatusSource interface {
	Status() whatsapp.StatusReport
	ChatLink(messageText string) string
}

// API bundles the services the handlers depend on.
type API struct {
	Catalog  catalog.Service
	Cart     cart.Service
	Orders   order.Service
	Store    store.Service
	Stats    stats.Service
	Admin    admin.Service
	WhatsApp StatusSource

	// PDFDir, when set, is served under /order-pdfs so generated
	// slips are reachable at their advertised URLs.
	PDFDir string
}

// NewRouter assembles the gin engine with the shared middleware chain
// and all public and admin routes.
func NewRouter(api *API) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.NewLimiter(rate.Limit(10), 20).Handler())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if api.PDFDir != "" {
		r.Static("/order-pdfs", api.PDFDir)
	}

	pub := r.Group("/api")
	{
		pub.GET("/products", api.listProducts)
		pub.GET("/products/:id", api.getProduct)
		pub.POST("/products/:id/reviews", api.addReview)
		pub.POST("/cart/price", api.priceCart)
		pub.POST("/orders", api.placeOrder)
		pub.POST("/orders/single", api.placeSingleOrder)
		pub.GET("/orders/:id", api.getOrder)
	}

	adm := r.Group("/api/admin")
	adm.POST("/login",
		middleware.NewLimiter(rate.Limit(2), 5).Handler(), api.adminLogin)

	guarded := adm.Group("", middleware.AdminAuth(api.Admin))
	{
		guarded.GET("/dashboard", api.dashboard)
		guarded.POST("/orders/:id/status", api.updateOrderStatus)
		guarded.PUT("/settings/delivery", api.updateDelivery)
		guarded.POST("/products", api.createProduct)
		guarded.PUT("/products/:id", api.updateProduct)
		guarded.DELETE("/products/:id", api.deleteProduct)
		guarded.POST("/products/:id/discount", api.setDiscount)
	}

	return r
}
