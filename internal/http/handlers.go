package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/backend"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/domain"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/repository"
	"github.com/Gabilan2001/pharmacy-plus-mobile-ui-2/internal/service"
)

// Services сервисы, которые отдаёт шлюз
type Services struct {
	Session *service.SessionService
	Cart    *service.CartService
	Orders  *service.OrderService
	Catalog *service.CatalogService
	Admin   *service.AdminService
}

type Server struct {
	engine  *gin.Engine
	session *service.SessionService
	cart    *service.CartService
	orders  *service.OrderService
	catalog *service.CatalogService
	admin   *service.AdminService
	log     zerolog.Logger
}

func NewServer(svc Services, log zerolog.Logger) *Server {
	r := gin.New()
	// handlers pass *gin.Context down as context.Context
	r.ContextWithFallback = true
	r.Use(requestID(), requestLogger(log), recovery(log))
	s := &Server{
		engine:  r,
		session: svc.Session,
		cart:    svc.Cart,
		orders:  svc.Orders,
		catalog: svc.Catalog,
		admin:   svc.Admin,
		log:     log,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.engine.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	v1 := s.engine.Group("/api/v1")
	{
		session := v1.Group("/session")
		session.GET("", s.getSession)
		session.POST("/login", s.login)
		session.POST("/register", s.register)
		session.POST("/logout", s.logout)
		session.PUT("/profile", s.updateProfile)
		session.POST("/role-requests", s.requestRole)

		cart := v1.Group("/cart")
		cart.GET("", s.getCart)
		cart.DELETE("", s.clearCart)
		cart.POST("/items", s.addCartItem)
		cart.PUT("/items/:id", s.updateCartItem)
		cart.DELETE("/items/:id", s.removeCartItem)
		cart.POST("/coupon", s.applyCoupon)
		cart.DELETE("/coupon", s.removeCoupon)

		orders := v1.Group("/orders")
		orders.GET("", s.listOrders)
		orders.POST("", s.placeOrder)
		orders.POST("/card", s.placeOrderWithCard)
		orders.POST("/refresh", s.refreshOrders)
		orders.GET("/:id", s.getOrder)
		orders.PUT("/:id/status", s.updateOrderStatus)
		orders.PUT("/:id/assign-delivery", s.assignDelivery)
		orders.POST("/:id/instructions", s.setInstructions)

		v1.GET("/medicines", s.listMedicines)
		v1.DELETE("/medicines/:id", s.deleteMedicine)
		v1.GET("/pharmacies", s.listPharmacies)

		admin := v1.Group("/admin")
		admin.GET("/coupons", s.listCoupons)
		admin.POST("/coupons", s.createCoupon)
		admin.PUT("/coupons/:id", s.updateCoupon)
		admin.DELETE("/coupons/:id", s.deleteCoupon)
		admin.GET("/role-requests", s.listRoleRequests)
		admin.POST("/role-requests/:id/approve", s.approveRoleRequest)
		admin.POST("/role-requests/:id/reject", s.rejectRoleRequest)
		admin.GET("/users", s.listUsers)
		admin.GET("/users/:id", s.getUser)
	}
}

// fail пишет ошибку в формате {"error": msg}
func (s *Server) fail(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": errorMessage(err)})
}

func badJSON(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
}

func mapErrorToStatus(err error) int {
	var apiErr *backend.APIError
	var netErr *backend.NetworkError
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrMixedPharmacy):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrNotAssigned):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.As(err, &apiErr):
		return apiErr.Status
	case errors.As(err, &netErr), errors.Is(err, backend.ErrEmptyResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage сообщение бэкенда показывается как есть
func errorMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
