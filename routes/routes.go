package routes

import (
	"taekwondo-union-api/controllers"
	"taekwondo-union-api/middleware"
	"taekwondo-union-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/reset-password", controllers.ResetPassword)

			// Membership intake is open to the public: applicants do not
			// have an account until their form is approved.
			public.POST("/membership-forms", controllers.CreateMembershipForm)

			// Competition calendar
			public.GET("/competitions", controllers.GetCompetitions)
			public.GET("/competitions/:id", controllers.GetCompetition)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Taekwondo Union API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Member submissions
			submissions := protected.Group("/submissions")
			{
				submissions.GET("/mine", controllers.GetMySubmissions)
				submissions.POST("/belt-tests", controllers.CreateBeltTest)
				submissions.POST("/competition-registrations", controllers.CreateCompetitionRegistration)
			}

			// In-app notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
			}

			// Admin moderation
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleIDAdmin))
			{
				admin.GET("/submissions", controllers.AdminListSubmissions)
				admin.GET("/submissions/:id", controllers.GetSubmissionDetails)
				admin.POST("/submissions/:id/approve", controllers.ApproveSubmission)
				admin.POST("/submissions/:id/reject", controllers.RejectSubmission)

				admin.POST("/competitions", controllers.CreateCompetition)
				admin.PUT("/competitions/:id", controllers.UpdateCompetition)
				admin.DELETE("/competitions/:id", controllers.DeactivateCompetition)
			}
		}
	}
}
