package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"snapbook/internal/apperr"
)

const (
	ServicesDbName  = DBName
	ServicesColName = "services"
)

type ServiceCategory string

const (
	CategoryWedding    ServiceCategory = "Wedding"
	CategoryPortrait   ServiceCategory = "Portrait"
	CategoryEvent      ServiceCategory = "Event"
	CategoryCommercial ServiceCategory = "Commercial"
	CategoryOther      ServiceCategory = "Other"
)

func (c ServiceCategory) Valid() bool {
	switch c {
	case CategoryWedding, CategoryPortrait, CategoryEvent, CategoryCommercial, CategoryOther:
		return true
	}
	return false
}

const DefaultServiceImage = "https://via.placeholder.com/400x300/F0F0F0/888888?text=Service"

// Service is a bookable photography offering.
type Service struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name" validate:"required"`
	Description     string             `bson:"description" json:"description" validate:"required"`
	Price           float64            `bson:"price" json:"price" validate:"gte=0"`
	DurationMinutes int                `bson:"duration_minutes" json:"durationMinutes" validate:"required,gte=15"`
	Category        ServiceCategory    `bson:"category" json:"category"`
	ImageURL        string             `bson:"image_url" json:"imageUrl"`
	IsAvailable     bool               `bson:"is_available" json:"isAvailable"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

func (s *Service) BeforeCreate() error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	if s.Category == "" {
		s.Category = CategoryOther
	}
	if s.ImageURL == "" {
		s.ImageURL = DefaultServiceImage
	}
	return nil
}

type ServiceRepo interface {
	CreateService(ctx context.Context, service *Service) (*Service, error)
	GetServiceByID(ctx context.Context, id primitive.ObjectID) (*Service, error)
	ListServices(ctx context.Context) ([]*Service, error)
	EnsureServiceIndexes(ctx context.Context) error
}

// EnsureServiceIndexes creates the unique name index the schema relies on.
func (mdb *MongodbRepo) EnsureServiceIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ctx, ServicesDbName, ServicesColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "name", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("service_name_unique"),
		},
	}

	_, err = col.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("error creating indexes: %v", err)
	}

	return nil
}

func (mdb *MongodbRepo) CreateService(ctx context.Context, service *Service) (*Service, error) {
	if err := service.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare service for creation: %w", err)
	}

	col, err := mdb.GetCollection(ctx, ServicesDbName, ServicesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	_, err = col.InsertOne(ctx, service)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("a service named %q already exists", service.Name)
		}
		return nil, fmt.Errorf("error inserting service: %v", err)
	}

	return service, nil
}

func (mdb *MongodbRepo) GetServiceByID(ctx context.Context, id primitive.ObjectID) (*Service, error) {
	col, err := mdb.GetCollection(ctx, ServicesDbName, ServicesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var service Service
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&service)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("service not found")
		}
		return nil, fmt.Errorf("error finding service by ID: %v", err)
	}

	return &service, nil
}

func (mdb *MongodbRepo) ListServices(ctx context.Context) ([]*Service, error) {
	col, err := mdb.GetCollection(ctx, ServicesDbName, ServicesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	cursor, err := col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error finding services: %v", err)
	}
	defer cursor.Close(ctx)

	var services []*Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("error decoding services: %v", err)
	}

	return services, nil
}
