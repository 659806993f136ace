package routes

import (
	"mealtracker/controllers"
	"mealtracker/middlewares"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Meals     *controllers.MealController
	Analytics *controllers.AnalyticsController
	Photos    *controllers.PhotoController
	Alerts    *controllers.AlertController
	Users     *controllers.UserController
	Auth      *controllers.AuthController
	Realtime  *controllers.RealtimeController
	Health    *controllers.HealthController

	Tokens         middlewares.TokenParser
	APISecret      string
	RequireAuth    bool
	AllowedOrigins []string
}

func SetupRouter(h Handlers) *gin.Engine {
	r := gin.Default()
	r.Use(middlewares.CORS(h.AllowedOrigins))

	r.GET("/healthz", h.Health.Health)
	r.POST("/bmi", h.Users.ComputeBMI)

	// Auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/signup", middlewares.APIKeyMiddleware(h.APISecret), h.Auth.Signup)
		auth.POST("/login", middlewares.APIKeyMiddleware(h.APISecret), h.Auth.Login)
		auth.GET("/profile", h.Auth.Profile)
		auth.POST("/logout", h.Auth.Logout)
	}

	api := r.Group("/api")
	api.GET("/healthz", h.Health.Health)
	if h.RequireAuth {
		api.Use(middlewares.AuthMiddleware(h.Tokens))
	}
	{
		api.GET("/meals", h.Meals.ListMeals)
		api.POST("/meals", h.Meals.LogMeal)
		api.GET("/meals/insights", h.Analytics.GetInsights)
		api.POST("/meals/insights", h.Analytics.ComputeInsights)
		api.POST("/meals/photos", h.Photos.Upload)

		api.GET("/alerts/push", h.Alerts.PushStatus)
		api.POST("/alerts/push", h.Alerts.TogglePush)
		api.POST("/alerts/test", h.Alerts.SendTest)

		api.GET("/users/profile", h.Users.GetProfile)
		api.PUT("/users/profile", h.Users.UpdateProfile)
		api.POST("/users/bmi", h.Users.ComputeBMI)
	}

	ws := r.Group("/ws")
	if h.RequireAuth {
		ws.Use(middlewares.AuthMiddleware(h.Tokens))
	}
	ws.GET("/alerts", h.Realtime.AlertsWS)

	return r
}
