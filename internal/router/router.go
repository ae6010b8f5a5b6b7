package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/dormfix/internal/config"
	"github.com/iliyamo/dormfix/internal/handler"
	"github.com/iliyamo/dormfix/internal/middleware"
	"github.com/iliyamo/dormfix/internal/model"
	"github.com/iliyamo/dormfix/internal/repository"
)

// Deps bundles everything route registration needs: the handlers, the
// user repository for the approval gate, and the optional Redis client
// for rate limiting and response caching.
type Deps struct {
	Cfg         config.Config
	Auth        *handler.AuthHandler
	Tenants     *handler.LandlordTenantHandler
	Rooms       *handler.LandlordRoomHandler
	Maintenance *handler.MaintenanceHandler
	Upload      *handler.UploadHandler
	Users       *repository.UserRepo
	Redis       *redis.Client
}

// RegisterRoutes wires every endpoint onto the Echo instance.
//
// Route map:
//
//	POST /api/register, /api/login, /api/refresh, /api/logout  — no auth
//	GET  /healthz                                              — no auth
//	GET  /api/me                                               — any authenticated user
//	POST /api/maintenance                                      — approved tenants
//	GET  /api/maintenance/:userId                              — tenant or landlord view
//	GET  /api/landlord/tenants/:landlordId                     — landlord
//	PATCH /api/users/:id/status                                — landlord
//	DELETE /api/landlord/reject/:tenantId                      — landlord
//	GET/POST /api/landlord/rooms[...]                          — landlord
//	POST /api/landlord/assign                                  — landlord
//	POST /api/upload                                           — any authenticated user
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// Auth endpoints are the brute-force surface, so the token bucket
	// goes here and nowhere else. With Redis down it degrades to a no-op.
	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis)

	api := e.Group("/api")
	api.POST("/register", d.Auth.Register, rl)
	api.POST("/login", d.Auth.Login, rl)
	api.POST("/refresh", d.Auth.Refresh, rl)
	api.POST("/logout", d.Auth.Logout)

	authed := api.Group("")
	authed.Use(middleware.JWTAuth(d.Cfg.JWTSecret))
	authed.GET("/me", d.Auth.Me)
	authed.POST("/upload", d.Upload.Upload)

	// Maintenance: submission is tenant-only, the listing serves both
	// dashboards. Both sit behind the server-side approval gate, so a
	// pending tenant cannot act by calling the API directly.
	maint := authed.Group("")
	maint.Use(middleware.RequireApproved(d.Users))
	maint.POST("/maintenance", d.Maintenance.Submit, middleware.RequireRole(model.RoleTenant))
	maint.GET("/maintenance/:userId", d.Maintenance.List, middleware.RequireRole(model.RoleTenant, model.RoleLandlord))

	// Landlord routes. The list endpoints sit behind the response cache;
	// every mutation that changes what those lists show drops the
	// caller's cached entries so the dashboards never serve stale rows.
	cacheCfg := config.LoadCacheConfig()
	cache := middleware.NewRedisCache(cacheCfg, d.Redis)
	inval := middleware.NewCacheInvalidator(cacheCfg, d.Redis,
		"/api/landlord/tenants/%d", "/api/landlord/rooms/%d")

	landlord := authed.Group("")
	landlord.Use(middleware.RequireRole(model.RoleLandlord))
	landlord.GET("/landlord/tenants/:landlordId", d.Tenants.ListTenants, cache)
	landlord.PATCH("/users/:id/status", d.Tenants.UpdateTenantStatus, inval)
	landlord.DELETE("/landlord/reject/:tenantId", d.Tenants.RejectTenant, inval)
	landlord.POST("/landlord/rooms", d.Rooms.CreateRoom, inval)
	landlord.GET("/landlord/rooms/:landlordId", d.Rooms.ListRooms, cache)
	landlord.POST("/landlord/assign", d.Rooms.AssignRoom, inval)
	landlord.PATCH("/maintenance/status/:id", d.Maintenance.UpdateStatus)
}
