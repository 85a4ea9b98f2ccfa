package auth

import (
	"context"
	"errors"

	"github.com/deniz/fleettrack/internal/app/models"
	"github.com/deniz/fleettrack/internal/app/services"
	"github.com/deniz/fleettrack/internal/pkg/apperrors"
)

// AuthorizationService decides whether an authenticated user may read a
// given student, bus or attendance record. Admins see everything;
// parents see only their own children and their children's buses;
// drivers see only their current bus and its roster. Every decision is
// evaluated against current relationships at request time, so revoking
// a link takes effect on the next request.
type AuthorizationService struct {
	relations services.RelationStore
	buses     services.BusStore
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(relations services.RelationStore, buses services.BusStore) *AuthorizationService {
	return &AuthorizationService{
		relations: relations,
		buses:     buses,
	}
}

// CanViewStudent reports whether the user may read the student's record
func (s *AuthorizationService) CanViewStudent(ctx context.Context, userID string, role models.RoleType, studentID string) error {
	switch role {
	case models.RoleAdmin:
		return nil
	case models.RoleParent:
		linked, err := s.relations.IsParentOf(ctx, userID, studentID)
		if err != nil {
			return err
		}
		if !linked {
			return apperrors.NewForbiddenError("student is not linked to your account")
		}
		return nil
	case models.RoleDriver:
		bus, err := s.buses.GetByDriverID(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrDriverWithoutBus) {
				return apperrors.NewForbiddenError("no bus is assigned to you")
			}
			return err
		}
		onBus, err := s.relations.IsStudentOnBus(ctx, studentID, bus.ID)
		if err != nil {
			return err
		}
		if !onBus {
			return apperrors.NewForbiddenError("student is not on your bus")
		}
		return nil
	}
	return apperrors.ErrPermissionDenied
}

// CanViewBusLocation reports whether the user may read the bus's
// location feed
func (s *AuthorizationService) CanViewBusLocation(ctx context.Context, userID string, role models.RoleType, busID string) error {
	switch role {
	case models.RoleAdmin:
		return nil
	case models.RoleDriver:
		bus, err := s.buses.GetByDriverID(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrDriverWithoutBus) {
				return apperrors.NewForbiddenError("no bus is assigned to you")
			}
			return err
		}
		if bus.ID != busID {
			return apperrors.NewForbiddenError("you are not the current driver of this bus")
		}
		return nil
	case models.RoleParent:
		children, err := s.relations.StudentsForParent(ctx, userID)
		if err != nil {
			return err
		}
		for _, child := range children {
			onBus, err := s.relations.IsStudentOnBus(ctx, child.ID, busID)
			if err != nil {
				return err
			}
			if onBus {
				return nil
			}
		}
		return apperrors.NewForbiddenError("none of your students ride this bus")
	}
	return apperrors.ErrPermissionDenied
}

// CanSubscribeBus reports whether the user may subscribe to the bus's
// realtime topic. The rule is the same as for reading the location.
func (s *AuthorizationService) CanSubscribeBus(ctx context.Context, userID string, role models.RoleType, busID string) error {
	return s.CanViewBusLocation(ctx, userID, role, busID)
}

// CanViewAttendance reports whether the user may read the student's
// attendance history
func (s *AuthorizationService) CanViewAttendance(ctx context.Context, userID string, role models.RoleType, studentID string) error {
	return s.CanViewStudent(ctx, userID, role, studentID)
}
