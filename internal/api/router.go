package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/wheels-backend/internal/auth"
	"github.com/nekogravitycat/wheels-backend/internal/pkg/imagestore"
	"github.com/nekogravitycat/wheels-backend/internal/rental"
	rentalHttp "github.com/nekogravitycat/wheels-backend/internal/rental/http"
	"github.com/nekogravitycat/wheels-backend/internal/user"
	userHttp "github.com/nekogravitycat/wheels-backend/internal/user/http"
	"github.com/nekogravitycat/wheels-backend/internal/vehicle"
	vehicleHttp "github.com/nekogravitycat/wheels-backend/internal/vehicle/http"
)

// Config holds the dependencies the router needs to assemble the API.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	UploadDir      string
	UserService    user.Service
	VehicleService vehicle.Service
	RentalService  rental.Service
	ImageStore     *imagestore.Store
	JWTManager     *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// Serve uploaded vehicle images as static files.
	if cfg.UploadDir != "" {
		r.Static("/uploads", cfg.UploadDir)
	}

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: Further checks if the authenticated user has admin privileges.
	adminMiddleware := RequireAdmin(cfg.UserService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	vehicleHandler := vehicleHttp.NewHandler(cfg.VehicleService, cfg.ImageStore)
	rentalHandler := rentalHttp.NewHandler(cfg.RentalService, cfg.UserService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		vehicleHttp.RegisterRoutes(v1, vehicleHandler, authMiddleware, adminMiddleware)
		rentalHttp.RegisterRoutes(v1, rentalHandler, authMiddleware)
	}

	return r
}
