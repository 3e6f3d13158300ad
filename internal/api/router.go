package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/orderfood/ordering-system/internal/api/handler"
	"github.com/orderfood/ordering-system/internal/api/middleware"
	"github.com/orderfood/ordering-system/internal/core/ports"
	"github.com/orderfood/ordering-system/internal/core/service"
	mongostore "github.com/orderfood/ordering-system/internal/infrastructure/db/mongo"
	"github.com/orderfood/ordering-system/internal/session"
)

// RouterDeps carries the externally constructed dependencies the router
// wires together. The auth provider and the event dispatcher are built in
// main because they own background state (HTTP clients, worker goroutines).
type RouterDeps struct {
	DB         *mongo.Database
	Redis      *redis.Client
	Provider   ports.AuthProvider
	OAuth      handler.OAuthStarter
	Dispatcher handler.EventDispatcher
	ViewCache  service.ViewCache
	CookieOpts session.CookieOptions
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("orderfood"))

	// --- Stores ---
	elevatedUsers := mongostore.NewElevatedUserRepository(deps.DB)
	restrictedUsers := mongostore.NewRestrictedUserRepository(deps.DB)
	companies := mongostore.NewCompanyRepository(deps.DB)
	menus := mongostore.NewMenuRepository(deps.DB)
	orders := mongostore.NewOrderRepository(deps.DB)

	// --- Services ---
	reconciler := service.NewIdentityReconciler(elevatedUsers, deps.ViewCache, deps.Log)
	authorizer := service.NewAuthorizer(deps.Provider, elevatedUsers, service.DefaultRouteRoles(), deps.Log)
	adminService := service.NewAdminService(elevatedUsers, companies, deps.Log)
	menuService := service.NewMenuService(menus, deps.Log)
	orderService := service.NewOrderService(orders, menus, deps.Log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Provider, reconciler, deps.OAuth, deps.CookieOpts, deps.Log)
	profileHandler := handler.NewProfileHandler(restrictedUsers)
	adminHandler := handler.NewAdminHandler(adminService)
	menuHandler := handler.NewMenuHandler(menuService)
	orderHandler := handler.NewOrderHandler(orderService)
	kitchenHandler := handler.NewKitchenHandler(orderService, deps.Dispatcher)
	dashboardHandler := handler.NewDashboardHandler()

	// Every request passes the route guard; operational endpoints are the
	// only exceptions.
	e.Use(middleware.Authorize(authorizer, "/health", "/health/ready", "/metrics"))

	// --- Public surface ---
	e.GET("/", dashboardHandler.Landing)
	e.POST("/login", authHandler.Login)
	e.GET("/auth/google", authHandler.GoogleStart)
	e.GET("/auth/callback", authHandler.Callback)

	// --- Authenticated, any role ---
	e.POST("/logout", authHandler.Logout)
	e.GET("/me", authHandler.Me)

	// --- Admin dashboard ---
	e.GET("/admin", dashboardHandler.Home)
	e.GET("/admin/users", adminHandler.ListUsers)
	e.POST("/admin/users", adminHandler.CreateUser)
	e.PATCH("/admin/users/:id", adminHandler.UpdateUser)
	e.GET("/admin/companies", adminHandler.ListCompanies)
	e.POST("/admin/companies", adminHandler.CreateCompany)
	e.PATCH("/admin/companies/:id/active", adminHandler.SetCompanyActive)

	// --- Menu editor dashboard ---
	e.GET("/editor", dashboardHandler.Home)
	e.POST("/editor/menus", menuHandler.CreateMenu)
	e.GET("/editor/menus/:id", menuHandler.Get)
	e.POST("/editor/menus/:id/dishes", menuHandler.AddDish)
	e.POST("/editor/menus/:id/publish", menuHandler.Publish)

	// --- Employee dashboard ---
	e.GET("/employee", dashboardHandler.Home)
	e.GET("/employee/menu", menuHandler.Published)
	e.GET("/employee/orders", orderHandler.ListOwn)
	e.POST("/employee/orders", orderHandler.Place)
	e.GET("/employee/profile", profileHandler.Get)
	e.PUT("/employee/profile", profileHandler.Update)

	// --- Kitchen dashboard ---
	e.GET("/kitchen", dashboardHandler.Home)
	e.GET("/kitchen/orders", kitchenHandler.Board)
	e.POST("/kitchen/orders/events", kitchenHandler.ReceiveEvent)
	e.POST("/kitchen/orders/events/batch", kitchenHandler.ReceiveEventBatch)

	// --- Operational endpoints (no auth) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
