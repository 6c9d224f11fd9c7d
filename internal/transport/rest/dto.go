package rest

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"salon/backend/internal/domain"
	"salon/backend/internal/service/bookings"
	"salon/backend/internal/service/catalog"
	"salon/backend/internal/service/entities"
	"salon/backend/internal/service/staff"
	"salon/backend/internal/service/users"
)

type userRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	MobileNo string `json:"mobile_no"`
	Password string `json:"password"`
	Gender   string `json:"gender"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	MobileNo  string    `json:"mobile_no"`
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func userInput(r userRequest) (users.Input, error) {
	return users.Input(r), nil
}

func renderUser(u domain.User) any {
	return userResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		MobileNo:  u.MobileNo,
		Gender:    u.Gender,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type staffRequest struct {
	Name      string  `json:"name"`
	Details   string  `json:"details"`
	Gender    string  `json:"gender"`
	ServiceID *string `json:"service_id"`
}

type staffResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Details   string    `json:"details"`
	Gender    string    `json:"gender,omitempty"`
	ServiceID *string   `json:"service_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func staffInput(r staffRequest) (staff.Input, error) {
	serviceID, err := optionalUUID("service_id", r.ServiceID)
	if err != nil {
		return staff.Input{}, err
	}
	return staff.Input{
		Name:      r.Name,
		Details:   r.Details,
		Gender:    r.Gender,
		ServiceID: serviceID,
	}, nil
}

func renderStaff(s domain.Staff) any {
	return staffResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Details:   s.Details,
		Gender:    string(s.Gender),
		ServiceID: uuidString(s.ServiceID),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type serviceRequest struct {
	Name   string   `json:"name"`
	Detail string   `json:"detail"`
	Price  *float64 `json:"price"`
}

type serviceResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Detail    string    `json:"detail"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func serviceInput(r serviceRequest) (catalog.Input, error) {
	return catalog.Input(r), nil
}

func renderService(s domain.Service) any {
	return serviceResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Detail:    s.Detail,
		Price:     s.Price,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

type bookingRequest struct {
	StaffID         string  `json:"staff_id"`
	UserID          *string `json:"user_id"`
	ServiceID       *string `json:"service_id"`
	Time            string  `json:"time"`
	Date            string  `json:"date"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	Status          string  `json:"status"`
}

type bookingResponse struct {
	ID        string    `json:"id"`
	StaffID   string    `json:"staff_id"`
	UserID    *string   `json:"user_id"`
	ServiceID *string   `json:"service_id"`
	Time      string    `json:"time"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func bookingInput(r bookingRequest) (bookings.Input, error) {
	staffID, err := requiredUUID("staff_id", r.StaffID)
	if err != nil {
		return bookings.Input{}, err
	}
	userID, err := optionalUUID("user_id", r.UserID)
	if err != nil {
		return bookings.Input{}, err
	}
	serviceID, err := optionalUUID("service_id", r.ServiceID)
	if err != nil {
		return bookings.Input{}, err
	}
	return bookings.Input{
		StaffID:         staffID,
		UserID:          userID,
		ServiceID:       serviceID,
		Time:            r.Time,
		Date:            r.Date,
		DurationMinutes: r.DurationMinutes,
		Price:           r.Price,
		Status:          r.Status,
	}, nil
}

func renderBooking(b domain.Booking) any {
	return bookingResponse{
		ID:        b.ID.String(),
		StaffID:   b.StaffID.String(),
		UserID:    uuidString(b.UserID),
		ServiceID: uuidString(b.ServiceID),
		Time:      b.Time,
		StartTime: b.StartTime.UTC(),
		EndTime:   b.EndTime.UTC(),
		Price:     b.Price,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func requiredUUID(field, s string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, entities.Invalid(field + " is required")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, entities.Invalid(field + " must be a UUID")
	}
	return id, nil
}

func optionalUUID(field string, s *string) (*uuid.UUID, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*s))
	if err != nil {
		return nil, entities.Invalid(field + " must be a UUID")
	}
	return &id, nil
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
