package router

import (
	"github.com/gin-gonic/gin"

	"github.com/danuarta/perpustakaan-app/controllers"
	"github.com/danuarta/perpustakaan-app/database"
	"github.com/danuarta/perpustakaan-app/middlewares"
	"github.com/danuarta/perpustakaan-app/services"
)

func SetupRouter(store *database.Store, flusher *services.Flusher) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	visitCtrl := controllers.NewVisitController(store, flusher)
	authCtrl := controllers.NewAuthController(store, flusher)
	settingCtrl := controllers.NewSettingController(store, flusher)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong", "store_ready": store.Ready()})
	})

	// Form check-in kiosk dan dashboard membaca tanpa login
	r.POST("/visits", visitCtrl.CreateVisit)
	r.GET("/visits", visitCtrl.GetVisits)
	r.GET("/visits/stats", visitCtrl.GetVisitStats)

	// Pengembalian loker self-service (kiosk)
	r.PUT("/visits/return-locker-by-number", visitCtrl.ReturnLockerByNumber)

	// Settings: GET publik, PUT butuh token.
	// operating-hours ditangani sebagai key khusus di dalam controller.
	r.GET("/settings/:key", settingCtrl.GetSetting)

	// Rate limiter ketat untuk endpoint kredensial
	public := r.Group("/auth")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", authCtrl.Login)
		public.POST("/register", authCtrl.Register)
		public.POST("/init", authCtrl.Init)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.PUT("/visits/return-locker/:id", visitCtrl.ReturnLockerByID)
		auth.PUT("/settings/:key", settingCtrl.UpdateSetting)
		auth.PUT("/auth/password", authCtrl.ChangePassword)
		auth.GET("/auth/admins", authCtrl.GetAdmins)
	}

	// WebSocket dashboard: token lewat query param
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/dashboard", controllers.DashboardFeedHandler)
	}

	return r
}
