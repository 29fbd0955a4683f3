package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"snapbook/internal/apperr"
	"snapbook/internal/connect"
	"snapbook/internal/helpers"
	"snapbook/internal/models"
)

// CatalogService manages the bookable service offerings.
type CatalogService struct {
	serviceRepo models.ServiceRepo
}

func NewCatalogService(serviceRepo models.ServiceRepo) *CatalogService {
	return &CatalogService{
		serviceRepo: serviceRepo,
	}
}

type CreateServiceInput struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
	Category        string  `json:"category"`
	ImageURL        string  `json:"imageUrl"`
	// Image, when set, is uploaded to Cloudinary and its hosted URL
	// replaces ImageURL. Accepts a base64 data URI or a remote URL.
	Image string `json:"image"`
}

func (cs *CatalogService) CreateService(ctx context.Context, caller Caller, in CreateServiceInput) (*models.Service, error) {
	if !caller.IsAdmin() {
		return nil, apperr.Forbidden("not authorized as an admin")
	}

	if strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Description) == "" ||
		in.Price == 0 ||
		in.DurationMinutes == 0 ||
		strings.TrimSpace(in.Category) == "" {
		return nil, apperr.Validation("please include all required fields for the service")
	}

	category := models.ServiceCategory(strings.TrimSpace(in.Category))
	if !category.Valid() {
		return nil, apperr.Validation("unsupported category: %s", in.Category)
	}

	service := &models.Service{
		Name:            helpers.StringTrim(in.Name),
		Description:     strings.TrimSpace(in.Description),
		Price:           in.Price,
		DurationMinutes: in.DurationMinutes,
		Category:        category,
		ImageURL:        strings.TrimSpace(in.ImageURL),
		IsAvailable:     true,
	}

	if err := models.Validate.Struct(service); err != nil {
		return nil, apperr.Validation("invalid service data provided: %v", err)
	}

	if strings.TrimSpace(in.Image) != "" {
		url, err := helpers.UploadImage(ctx, connect.Cld, in.Image, helpers.ServiceFolder)
		if err != nil {
			return nil, err
		}
		service.ImageURL = url
	}

	now := time.Now()
	service.CreatedAt = now
	service.UpdatedAt = now

	return cs.serviceRepo.CreateService(ctx, service)
}

func (cs *CatalogService) ListServices(ctx context.Context) ([]*models.Service, error) {
	return cs.serviceRepo.ListServices(ctx)
}

func (cs *CatalogService) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	parsed, err := primitive.ObjectIDFromHex(helpers.StringTrim(id))
	if err != nil {
		return nil, apperr.Validation("invalid service id format")
	}

	return cs.serviceRepo.GetServiceByID(ctx, parsed)
}
