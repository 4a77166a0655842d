package main

import (
	"github.com/gin-gonic/gin"

	"events-hub.backend/internal/interfaces/http/handlers"
	"events-hub.backend/internal/interfaces/http/middleware"
	"events-hub.backend/pkg/jwt"
)

type routeDeps struct {
	jwtService        *jwt.JWTService
	authHandler       *handlers.AuthHandler
	eventHandler      *handlers.EventHandler
	enrollmentHandler *handlers.EnrollmentHandler
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	authRequired := middleware.AuthMiddleware(d.jwtService)

	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", d.authHandler.Signup)
			auth.POST("/verify-email", d.authHandler.VerifyEmail)
			auth.POST("/resend-otp", d.authHandler.ResendOTP)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.GET("/me", authRequired, d.authHandler.GetMe)
		}

		// Event routes (authenticated read, facilitator write)
		events := v1.Group("/events")
		{
			events.GET("", authRequired, d.eventHandler.Search)
			events.GET("/:id", authRequired, d.eventHandler.Get)

			events.POST("", authRequired, middleware.RequireFacilitator(), d.eventHandler.Create)
			events.PATCH("/:id", authRequired, middleware.RequireFacilitator(), d.eventHandler.Update)
			events.DELETE("/:id", authRequired, middleware.RequireFacilitator(), d.eventHandler.Delete)
		}

		// Facilitator dashboard routes
		facilitator := v1.Group("/facilitator")
		facilitator.Use(authRequired, middleware.RequireFacilitator())
		{
			facilitator.GET("/events", d.eventHandler.ListMine)
		}

		// Seeker enrollment routes
		seeker := v1.Group("/seeker")
		seeker.Use(authRequired, middleware.RequireSeeker())
		{
			seeker.POST("/enrollments", d.enrollmentHandler.Enroll)
			seeker.GET("/enrollments", d.enrollmentHandler.List)
			seeker.DELETE("/enrollments/:id", d.enrollmentHandler.Cancel)
		}
	}
}
