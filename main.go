package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dentalops/dentallab-api/config"
	"github.com/dentalops/dentallab-api/controllers"
	"github.com/dentalops/dentallab-api/middleware"
	"github.com/dentalops/dentallab-api/models"
	"github.com/dentalops/dentallab-api/services"
)

func main() {
	log.Println("Starting Dental Lab API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.ProductionJob{},
		&models.JobAttachment{},
		&models.KanbanStage{},
		&models.ProductionStage{},
		&models.Notification{},
		&models.Comment{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if err := config.SeedStages(db); err != nil {
		log.Fatalf("Failed to seed stage catalogs: %v", err)
	}

	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitAttachmentService(s3Service)
	} else {
		log.Println("AWS_S3_BUCKET not set, attachment uploads disabled")
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://app.dentallab.example"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	auth := middleware.EnsureValidToken(cfg)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// Users
		v1.POST("/users", auth, controllers.CreateUser)
		v1.GET("/users", auth, controllers.ListTeamUsers)
		v1.GET("/users/me", auth, controllers.GetMyProfile)
		v1.PUT("/users/me", auth, controllers.UpdateMyProfile)

		// Orders (PATCH runs the transition engine)
		v1.GET("/orders", auth, controllers.GetOrders)
		v1.POST("/orders", auth, controllers.CreateOrder)
		v1.PATCH("/orders", auth, controllers.UpdateOrder)
		v1.DELETE("/orders", auth, controllers.DeleteOrder)
		v1.POST("/orders/:id/comments", auth, controllers.AddComment)
		v1.GET("/orders/:id/comments", auth, controllers.ListComments)

		// Production jobs and their stage catalog
		v1.GET("/production", auth, controllers.ListJobs)
		v1.POST("/production", auth, controllers.CreateJob)
		v1.PATCH("/production", auth, controllers.UpdateJob)
		v1.POST("/production/:id/attachments", auth, controllers.UploadJobAttachment)
		v1.GET("/production/stages", auth, controllers.ListProductionStages)
		v1.POST("/production/stages", auth, controllers.CreateProductionStage)
		v1.PUT("/production/stages", auth, controllers.ReorderProductionStages)
		v1.PATCH("/production/stages/:id", auth, controllers.UpdateProductionStage)
		v1.DELETE("/production/stages/:id", auth, controllers.DeleteProductionStage)

		// Kanban stage catalog
		v1.GET("/stages", auth, controllers.ListStages)
		v1.POST("/stages", auth, controllers.CreateStage)
		v1.PUT("/stages", auth, controllers.ReorderStages)
		v1.PATCH("/stages/:id", auth, controllers.UpdateStage)
		v1.DELETE("/stages/:id", auth, controllers.DeleteStage)
	}

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Dental Lab API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
