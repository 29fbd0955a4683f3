package models

import "testing"

func TestBookingStatusValidTarget(t *testing.T) {
	valid := []BookingStatus{StatusConfirmed, StatusCancelled, StatusCompleted}
	for _, s := range valid {
		if !s.ValidTarget() {
			t.Errorf("%s should be a valid status target", s)
		}
	}

	// Pending must not be reachable through the status update, and
	// arbitrary strings are rejected outright.
	invalid := []BookingStatus{StatusPending, "Archived", "confirmed", ""}
	for _, s := range invalid {
		if s.ValidTarget() {
			t.Errorf("%q should not be a valid status target", s)
		}
	}
}

func TestServiceCategoryValid(t *testing.T) {
	for _, c := range []ServiceCategory{CategoryWedding, CategoryPortrait, CategoryEvent, CategoryCommercial, CategoryOther} {
		if !c.Valid() {
			t.Errorf("%s should be a valid category", c)
		}
	}
	if ServiceCategory("Fashion").Valid() {
		t.Error("unknown category should be invalid")
	}
}

func TestBookingBeforeCreateDefaults(t *testing.T) {
	b := &Booking{}
	if err := b.BeforeCreate(); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}
	if b.ID.IsZero() {
		t.Error("BeforeCreate should assign an id")
	}
	if b.Status != StatusPending {
		t.Errorf("default status = %s, want %s", b.Status, StatusPending)
	}
}

func TestServiceBeforeCreateDefaults(t *testing.T) {
	s := &Service{Name: "Portrait Session"}
	if err := s.BeforeCreate(); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}
	if s.Category != CategoryOther {
		t.Errorf("default category = %s, want %s", s.Category, CategoryOther)
	}
	if s.ImageURL != DefaultServiceImage {
		t.Errorf("default image = %s, want placeholder", s.ImageURL)
	}
}
