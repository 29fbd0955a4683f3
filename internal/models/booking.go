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
	BookingsDbName  = DBName
	BookingsColName = "bookings"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusConfirmed BookingStatus = "Confirmed"
	StatusCancelled BookingStatus = "Cancelled"
	StatusCompleted BookingStatus = "Completed"
)

// ValidTarget reports whether s may be set through the admin status update.
// Pending is deliberately excluded so a booking cannot be reverted to it.
func (s BookingStatus) ValidTarget() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Only these statuses hold a slot; cancelled and completed bookings never
// block new ones.
var blockingStatuses = []BookingStatus{StatusPending, StatusConfirmed}

// Booking reserves a service for a half-open [start, end) slot on one
// calendar day. Start and end are stored as the wall-clock strings the
// client sent; BookingDate carries the day.
type Booking struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         string             `bson:"user_id,omitempty" json:"userId,omitempty"`
	ServiceID      primitive.ObjectID `bson:"service_id" json:"serviceId"`
	PhotographerID string             `bson:"photographer_id,omitempty" json:"photographerId,omitempty"`
	BookingDate    time.Time          `bson:"booking_date" json:"bookingDate"`
	StartTime      string             `bson:"start_time" json:"startTime"`
	EndTime        string             `bson:"end_time" json:"endTime"`
	Occasion       string             `bson:"occasion" json:"occasion" validate:"required"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Status         BookingStatus      `bson:"status" json:"status"`
	TotalPrice     float64            `bson:"total_price" json:"totalPrice" validate:"gte=0"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}

func (b *Booking) BeforeCreate() error {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if b.Status == "" {
		b.Status = StatusPending
	}
	return nil
}

// Slot reconstructs the booking's comparable interval from its stored day
// and clock strings.
func (b *Booking) Slot() (Slot, error) {
	return NewSlot(StartOfDay(b.BookingDate), b.StartTime, b.EndTime)
}

// ServiceSummary is the subset of service fields expanded into booking
// listings.
type ServiceSummary struct {
	Name        string  `bson:"name" json:"name"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64 `bson:"price" json:"price"`
}

// BookedUser is the subset of profile fields expanded into the admin
// booking listing. It is resolved from the profile store, not Mongo.
type BookedUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ExpandedBooking is a booking with its service reference expanded, and,
// on admin listings, the owning user.
type ExpandedBooking struct {
	Booking `bson:",inline"`
	Service *ServiceSummary `bson:"service,omitempty" json:"service,omitempty"`
	User    *BookedUser     `bson:"-" json:"user,omitempty"`
}

type BookingRepo interface {
	InsertBooking(ctx context.Context, booking *Booking) (*Booking, error)
	GetBookingByID(ctx context.Context, id primitive.ObjectID) (*Booking, error)
	FindBlockingBookings(ctx context.Context, serviceID primitive.ObjectID, dayStart, dayEnd time.Time) ([]*Booking, error)
	ListBookingsByUser(ctx context.Context, userID string) ([]*ExpandedBooking, error)
	ListAllBookings(ctx context.Context) ([]*ExpandedBooking, error)
	SetBookingStatus(ctx context.Context, id primitive.ObjectID, status BookingStatus) (*Booking, error)
	EnsureBookingIndexes(ctx context.Context) error
}

// EnsureBookingIndexes creates the supporting indexes for the availability
// scan and the listing sorts. These are performance indexes only: the
// check-then-insert on booking creation is not serialized at the storage
// layer, matching the live availability computation.
func (mdb *MongodbRepo) EnsureBookingIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ctx, BookingsDbName, BookingsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	indexes := []mongo.IndexModel{
		// Availability scan: same service, same day, blocking statuses
		{
			Keys: bson.D{
				{Key: "service_id", Value: 1},
				{Key: "booking_date", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("service_day_status_idx"),
		},
		// Per-user listing
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "booking_date", Value: -1},
			},
			Options: options.Index().SetName("user_booking_date_idx"),
		},
		// Admin listing
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_idx"),
		},
	}

	_, err = col.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("error creating indexes: %v", err)
	}

	return nil
}

func (mdb *MongodbRepo) InsertBooking(ctx context.Context, booking *Booking) (*Booking, error) {
	if err := booking.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare booking for creation: %w", err)
	}

	col, err := mdb.GetCollection(ctx, BookingsDbName, BookingsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	_, err = col.InsertOne(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("error inserting booking: %v", err)
	}

	return booking, nil
}

func (mdb *MongodbRepo) GetBookingByID(ctx context.Context, id primitive.ObjectID) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingsDbName, BookingsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var booking Booking
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, fmt.Errorf("error finding booking by ID: %v", err)
	}

	return &booking, nil
}

// FindBlockingBookings returns every booking for the service whose date
// falls inside [dayStart, dayEnd] and whose status still holds its slot.
func (mdb *MongodbRepo) FindBlockingBookings(ctx context.Context, serviceID primitive.ObjectID, dayStart, dayEnd time.Time) ([]*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingsDbName, BookingsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{
		"service_id": serviceID,
		"booking_date": bson.M{
			"$gte": dayStart,
			"$lte": dayEnd,
		},
		"status": bson.M{"$in": blockingStatuses},
	}

	cursor, err := col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings: %v", err)
	}
	defer cursor.Close(ctx)

	var bookings []*Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %v", err)
	}

	return bookings, nil
}

// serviceLookupStages joins the referenced service document into the
// booking as a single embedded "service" field.
func serviceLookupStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         ServicesColName,
			"localField":   "service_id",
			"foreignField": "_id",
			"as":           "service",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$service",
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}

func (mdb *MongodbRepo) ListBookingsByUser(ctx context.Context, userID string) ([]*ExpandedBooking, error) {
	col, err := mdb.GetCollection(ctx, BookingsDbName, BookingsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "booking_date", Value: -1},
			{Key: "start_time", Value: -1},
		}}},
	}
	pipeline = append(pipeline, serviceLookupStages()...)

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating user bookings: %v", err)
	}
	defer cursor.Close(ctx)

	var bookings []*ExpandedBooking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding user bookings: %v", err)
	}

	return bookings, nil
}

func (mdb *MongodbRepo) ListAllBookings(ctx context.Context) ([]*ExpandedBooking, error) {
	col, err := mdb.GetCollection(ctx, BookingsDbName, BookingsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	pipeline = append(pipeline, serviceLookupStages()...)

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating bookings: %v", err)
	}
	defer cursor.Close(ctx)

	var bookings []*ExpandedBooking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %v", err)
	}

	return bookings, nil
}

func (mdb *MongodbRepo) SetBookingStatus(ctx context.Context, id primitive.ObjectID, status BookingStatus) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingsDbName, BookingsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Booking
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, fmt.Errorf("error updating booking status: %v", err)
	}

	return &updated, nil
}
