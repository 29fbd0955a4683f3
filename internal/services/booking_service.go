package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"snapbook/internal/apperr"
	"snapbook/internal/models"
)

// PendingConfirmationMessage accompanies every newly created booking.
const PendingConfirmationMessage = "Booking request received successfully. It is currently pending confirmation."

// Caller carries the authenticated principal's identity into each
// operation explicitly. The zero value is an unauthenticated guest.
type Caller struct {
	UserID      string
	Role        string
	AccessToken string
}

func (c Caller) IsAdmin() bool {
	return c.Role == "admin"
}

func (c Caller) IsAuthenticated() bool {
	return c.UserID != ""
}

type CreateBookingInput struct {
	ServiceID   string `json:"serviceId"`
	BookingDate string `json:"bookingDate"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Occasion    string `json:"occasion"`
	Notes       string `json:"notes"`
}

type BookingService struct {
	bookingRepo models.BookingRepo
	serviceRepo models.ServiceRepo
	userRepo    models.UserRepo
	allowGuest  bool
}

func NewBookingService(bookingRepo models.BookingRepo, serviceRepo models.ServiceRepo, userRepo models.UserRepo, allowGuest bool) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		userRepo:    userRepo,
		allowGuest:  allowGuest,
	}
}

// IsSlotAvailable reports whether the requested [start, end) slot for the
// service is free on the given day. It scans every same-day booking whose
// status still holds its slot and tests half-open interval overlap.
// Candidates with unparseable stored times never block.
func (bs *BookingService) IsSlotAvailable(ctx context.Context, serviceID primitive.ObjectID, day time.Time, startTime, endTime string) (bool, error) {
	requested, err := models.NewSlot(day, startTime, endTime)
	if err != nil {
		return false, apperr.Validation("invalid time format: %v", err)
	}

	dayStart, dayEnd := models.DayWindow(day)
	candidates, err := bs.bookingRepo.FindBlockingBookings(ctx, serviceID, dayStart, dayEnd)
	if err != nil {
		return false, err
	}

	for _, candidate := range candidates {
		existing, err := candidate.Slot()
		if err != nil {
			continue
		}
		if requested.Overlaps(existing) {
			return false, nil
		}
	}

	return true, nil
}

// CreateBooking validates the request, checks availability and persists a
// Pending booking priced from the service's current price.
//
// The availability check and the insert are not atomic: two concurrent
// requests for the same slot can both pass the check. Matching the live
// availability computation, the race is accepted rather than serialized.
func (bs *BookingService) CreateBooking(ctx context.Context, caller Caller, in CreateBookingInput) (*models.Booking, error) {
	if strings.TrimSpace(in.ServiceID) == "" ||
		strings.TrimSpace(in.BookingDate) == "" ||
		strings.TrimSpace(in.StartTime) == "" ||
		strings.TrimSpace(in.EndTime) == "" ||
		strings.TrimSpace(in.Occasion) == "" {
		return nil, apperr.Validation("please provide all required fields (service, date, time, occasion)")
	}

	if !bs.allowGuest && !caller.IsAuthenticated() {
		return nil, apperr.Unauthorized("authentication is required to create a booking")
	}

	serviceID, err := primitive.ObjectIDFromHex(strings.TrimSpace(in.ServiceID))
	if err != nil {
		return nil, apperr.Validation("invalid service id format")
	}

	service, err := bs.serviceRepo.GetServiceByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(in.BookingDate), time.Local)
	if err != nil {
		return nil, apperr.Validation("invalid booking date, expected YYYY-MM-DD")
	}
	day = models.StartOfDay(day)

	if day.Before(models.StartOfDay(time.Now())) {
		return nil, apperr.Validation("cannot book for a past date")
	}

	available, err := bs.IsSlotAvailable(ctx, service.ID, day, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, apperr.Conflict("the selected time slot is already booked or unavailable")
	}

	now := time.Now()
	booking := &models.Booking{
		UserID:      caller.UserID,
		ServiceID:   service.ID,
		BookingDate: day,
		StartTime:   strings.TrimSpace(in.StartTime),
		EndTime:     strings.TrimSpace(in.EndTime),
		Occasion:    strings.TrimSpace(in.Occasion),
		Notes:       strings.TrimSpace(in.Notes),
		Status:      models.StatusPending,
		TotalPrice:  service.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return bs.bookingRepo.InsertBooking(ctx, booking)
}

// ListMyBookings returns the caller's bookings with service fields
// expanded, latest booking date first.
func (bs *BookingService) ListMyBookings(ctx context.Context, caller Caller) ([]*models.ExpandedBooking, error) {
	if !caller.IsAuthenticated() {
		return nil, apperr.Unauthorized("authentication required")
	}

	return bs.bookingRepo.ListBookingsByUser(ctx, caller.UserID)
}

// ListAllBookings returns every booking with service fields expanded and
// the owning user resolved from the profile store, newest first.
func (bs *BookingService) ListAllBookings(ctx context.Context, caller Caller) ([]*models.ExpandedBooking, error) {
	if !caller.IsAdmin() {
		return nil, apperr.Forbidden("not authorized as an admin")
	}

	bookings, err := bs.bookingRepo.ListAllBookings(ctx)
	if err != nil {
		return nil, err
	}

	// Resolve each distinct owner once; guest bookings have no owner and
	// failed lookups leave the user unexpanded rather than failing the list.
	resolved := make(map[string]*models.BookedUser)
	for _, booking := range bookings {
		if booking.UserID == "" {
			continue
		}
		if user, seen := resolved[booking.UserID]; seen {
			booking.User = user
			continue
		}
		id, err := uuid.Parse(booking.UserID)
		if err != nil {
			resolved[booking.UserID] = nil
			continue
		}
		profile, err := bs.userRepo.GetUser(ctx, id, caller.AccessToken)
		if err != nil {
			resolved[booking.UserID] = nil
			continue
		}
		user := &models.BookedUser{Name: profile.FullName, Email: profile.Email}
		if user.Name == "" {
			user.Name = profile.Username
		}
		resolved[booking.UserID] = user
		booking.User = user
	}

	return bookings, nil
}

// UpdateBookingStatus moves a booking to Confirmed, Cancelled or
// Completed. Pending is not a valid target, and no prior-state restriction
// is imposed beyond the target enumeration.
func (bs *BookingService) UpdateBookingStatus(ctx context.Context, caller Caller, bookingID string, status string) (*models.Booking, error) {
	if !caller.IsAdmin() {
		return nil, apperr.Forbidden("not authorized as an admin")
	}

	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(bookingID))
	if err != nil {
		return nil, apperr.Validation("invalid booking id format")
	}

	if _, err := bs.bookingRepo.GetBookingByID(ctx, id); err != nil {
		return nil, err
	}

	target := models.BookingStatus(status)
	if !target.ValidTarget() {
		return nil, apperr.Validation("invalid booking status provided")
	}

	return bs.bookingRepo.SetBookingStatus(ctx, id, target)
}
