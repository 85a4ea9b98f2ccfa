package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deniz/fleettrack/internal/app/controllers"
	"github.com/deniz/fleettrack/internal/app/models"
	"github.com/deniz/fleettrack/internal/middleware"
	"github.com/deniz/fleettrack/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	schoolController *controllers.SchoolController,
	userController *controllers.UserController,
	studentController *controllers.StudentController,
	busController *controllers.BusController,
	attendanceController *controllers.AttendanceController,
	driverController *controllers.DriverController,
	parentController *controllers.ParentController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/auth/me", authController.Me)

	// Realtime bus topic subscription; the handler performs the
	// relationship check before upgrading
	authenticated.GET("/ws/buses/:id/location", wsHandler.HandleConnection)

	// --- Admin routes ---
	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		schools := admin.Group("/schools")
		{
			schools.GET("", schoolController.ListSchools)
			schools.POST("", schoolController.CreateSchool)
			schools.GET("/:id", schoolController.GetSchool)
			schools.PUT("/:id", schoolController.UpdateSchool)
			schools.DELETE("/:id", schoolController.DeleteSchool)
		}

		users := admin.Group("/users")
		{
			users.GET("", userController.ListUsers)
			users.POST("", userController.CreateUser)
			users.GET("/:id", userController.GetUser)
			users.PUT("/:id", userController.UpdateUser)
			users.DELETE("/:id", userController.DeleteUser)
		}

		students := admin.Group("/students")
		{
			students.GET("", studentController.ListStudents)
			students.POST("", studentController.CreateStudent)
			students.GET("/:id", studentController.GetStudent)
			students.PUT("/:id", studentController.UpdateStudent)
			students.DELETE("/:id", studentController.DeleteStudent)
			students.POST("/:id/assign-parent", studentController.AssignParent)
			students.POST("/:id/assign-bus", studentController.AssignBus)
			students.DELETE("/:id/parents/:parentId", studentController.RemoveParent)
			students.DELETE("/:id/bus", studentController.RemoveBus)
		}

		buses := admin.Group("/buses")
		{
			buses.GET("", busController.ListBuses)
			buses.POST("", busController.CreateBus)
			buses.GET("/locations", busController.FleetLocations)
			buses.GET("/:id", busController.GetBus)
			buses.PUT("/:id", busController.UpdateBus)
			buses.DELETE("/:id", busController.DeleteBus)
			buses.POST("/:id/assign-driver", busController.AssignDriver)
		}

		admin.GET("/logs/attendance", attendanceController.ListAttendanceLogs)
	}

	// --- Driver routes ---
	driver := authenticated.Group("/driver")
	driver.Use(authMiddleware.RoleRequired(models.RoleDriver))
	{
		driver.GET("/me/roster", driverController.GetRoster)
		driver.POST("/attendance/log", driverController.LogAttendance)
		driver.POST("/buses/me/location", driverController.ReportLocation)
	}

	// --- Parent routes ---
	parent := authenticated.Group("/parent")
	parent.Use(authMiddleware.RoleRequired(models.RoleParent))
	{
		parent.GET("/me/students", parentController.GetMyStudents)
		parent.GET("/me/notifications", parentController.GetMyNotifications)
		parent.GET("/students/:id/bus/location", parentController.GetStudentBusLocation)
		parent.GET("/students/:id/attendance/history", parentController.GetAttendanceHistory)
	}
}
