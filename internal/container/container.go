package container

import (
	"context"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"

	"snapbook/internal/config"
	"snapbook/internal/models"
	"snapbook/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger     *slog.Logger
	Config     *config.Config
	Cloudinary *cloudinary.Cloudinary
	// Database clients
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client

	mongoRepo *models.MongodbRepo

	UserService    *services.UserService
	CatalogService *services.CatalogService
	BookingService *services.BookingService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cloudinary *cloudinary.Cloudinary,
	supabaseClient *supabase.Client,
	mongoDBClient *mongo.Client,
	supaUrl, supaKey string,
	cfg *config.Config,
) *Container {
	supa := models.SupabaseNewRepo(supabaseClient, supaUrl, supaKey)
	mongo := models.MongodbNewRepo(mongoDBClient)

	userService := services.NewUserService(supa)
	catalogService := services.NewCatalogService(mongo)
	bookingService := services.NewBookingService(mongo, mongo, supa, cfg.AllowGuestBookings)

	return &Container{
		Logger:         logger,
		Config:         cfg,
		Cloudinary:     cloudinary,
		SupabaseClient: supabaseClient,
		MongoDBClient:  mongoDBClient,
		mongoRepo:      mongo,
		UserService:    userService,
		CatalogService: catalogService,
		BookingService: bookingService,
	}
}

// EnsureIndexes creates the Mongo indexes the booking and catalog queries
// rely on. Failures are returned rather than fatal; the collections still
// work without them, just slower.
func (c *Container) EnsureIndexes(ctx context.Context) error {
	if err := c.mongoRepo.EnsureServiceIndexes(ctx); err != nil {
		return err
	}
	return c.mongoRepo.EnsureBookingIndexes(ctx)
}
