package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nekogravitycat/wheels-backend/internal/api"
	"github.com/nekogravitycat/wheels-backend/internal/auth"
	"github.com/nekogravitycat/wheels-backend/internal/pkg/imagestore"
	"github.com/nekogravitycat/wheels-backend/internal/rental"
	"github.com/nekogravitycat/wheels-backend/internal/user"
	"github.com/nekogravitycat/wheels-backend/internal/vehicle"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	UploadDir    string
	DBPool       *pgxpool.Pool
	Logger       *zap.Logger
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	images, err := imagestore.New(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init image store: %w", err)
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Rental repository is created first so the vehicle module can consult it
	// before deleting a vehicle that still has an active rental.
	rentalRepo := rental.NewPgxRepository(cfg.DBPool)

	// Vehicle Module
	vehicleRepo := vehicle.NewPgxRepository(cfg.DBPool)
	vehicleService := vehicle.NewService(vehicleRepo, rentalRepo)

	// Rental Module
	rentalService := rental.NewService(rentalRepo, vehicleService, cfg.Logger)

	// API Router Config
	routerParams := api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		UploadDir:      cfg.UploadDir,
		UserService:    userService,
		VehicleService: vehicleService,
		RentalService:  rentalService,
		ImageStore:     images,
		JWTManager:     jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
