package api

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	profileService service.ProfileService,
	planService service.PlanService,
	activityService service.ActivityService,
	trainService service.TrainService,
	reportService service.ReportService,
	bodyPartService service.BodyPartService,
) {

	authHandler := NewAuthHandler(authService)
	profileHandler := NewProfileHandler(profileService)
	planHandler := NewPlanHandler(planService)
	activityHandler := NewActivityHandler(activityService)
	trainHandler := NewTrainHandler(trainService)
	reportHandler := NewReportHandler(reportService)
	bodyPartHandler := NewBodyPartHandler(bodyPartService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			principal, err := getPrincipalFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get principal from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"userId": principal.ID.Hex(),
				"role":   principal.Role,
				"email":  principal.Email,
				"name":   principal.Name,
			})
		})

		// --- Profile Routes ---
		profileGroup := protected.Group("/profiles")
		{
			profileGroup.GET("", profileHandler.ListProfiles)
			profileGroup.GET("/:profileId", profileHandler.GetProfileByID)
			profileGroup.PATCH("/:profileId", profileHandler.UpdateProfile)
			profileGroup.DELETE("/:profileId", profileHandler.DeleteProfile)
		}

		// --- Trainer Roster Routes ---
		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.POST("/trainees", profileHandler.AddTraineeByEmail)
			trainerGroup.GET("/trainees", profileHandler.GetMyTrainees)
		}

		// --- Plan Routes ---
		// Role checks beyond authentication live in the service layer: the
		// trainee forbidden/not-found split depends on which operation runs.
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("", planHandler.ListPlans)
			planGroup.GET("/:planId", planHandler.GetPlanByID)
			planGroup.PATCH("/:planId", planHandler.UpdatePlan)
			planGroup.DELETE("/:planId", planHandler.DeletePlan)
		}

		// --- Activity Routes ---
		activityGroup := protected.Group("/activities")
		{
			activityGroup.POST("", activityHandler.CreateActivity)
			activityGroup.GET("", activityHandler.ListActivities)
			activityGroup.GET("/:activityId", activityHandler.GetActivityByID)
			activityGroup.PATCH("/:activityId", activityHandler.UpdateActivity)
			activityGroup.DELETE("/:activityId", activityHandler.DeleteActivity)
		}

		// --- Train Session Routes ---
		trainGroup := protected.Group("/trains")
		{
			trainGroup.POST("", trainHandler.CreateTrain)
			trainGroup.GET("", trainHandler.ListTrains)
			trainGroup.GET("/:trainId", trainHandler.GetTrainByID)
			trainGroup.PATCH("/:trainId", trainHandler.UpdateTrain)
			trainGroup.DELETE("/:trainId", trainHandler.DeleteTrain)
		}

		// --- Report Routes ---
		reportGroup := protected.Group("/reports")
		{
			reportGroup.POST("", reportHandler.CreateReport)
			reportGroup.GET("", reportHandler.ListReports)
			reportGroup.GET("/:reportId", reportHandler.GetReportByID)
			reportGroup.PATCH("/:reportId", reportHandler.UpdateReport)
			reportGroup.DELETE("/:reportId", reportHandler.DeleteReport)

			// Photo attachment flow
			reportGroup.POST("/:reportId/attachments/upload-url", reportHandler.RequestAttachmentUploadURL)
			reportGroup.POST("/:reportId/attachments", reportHandler.ConfirmAttachment)
			reportGroup.GET("/:reportId/attachments", reportHandler.ListAttachments)
		}

		attachmentGroup := protected.Group("/attachments")
		{
			attachmentGroup.GET("/:attachmentId/download-url", reportHandler.GetAttachmentDownloadURL)
			attachmentGroup.DELETE("/:attachmentId", reportHandler.DeleteAttachment)
		}

		// --- Body Part Measurement Routes ---
		bodyPartGroup := protected.Group("/body-parts")
		{
			bodyPartGroup.POST("", bodyPartHandler.CreateBodyPart)
			bodyPartGroup.GET("", bodyPartHandler.ListBodyParts)
			bodyPartGroup.GET("/:bodyPartId", bodyPartHandler.GetBodyPartByID)
			bodyPartGroup.PATCH("/:bodyPartId", bodyPartHandler.UpdateBodyPart)
			bodyPartGroup.DELETE("/:bodyPartId", bodyPartHandler.DeleteBodyPart)
		}
	}
}
