package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AljAtok/spa-back-end-sub001/internal/domain"
	"github.com/AljAtok/spa-back-end-sub001/internal/repository"
)

var ErrLocationNotFound = errors.New("location not found")

// LocationService is the representative downstream consumer of the
// authorization engine, including the toggle-status path.
type LocationService struct {
	locationRepo repository.LocationRepository
}

func NewLocationService(locationRepo repository.LocationRepository) *LocationService {
	return &LocationService{locationRepo: locationRepo}
}

func (s *LocationService) List(ctx context.Context) ([]*domain.Location, error) {
	return s.locationRepo.List(ctx)
}

func (s *LocationService) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return location, nil
}

// ToggleStatus flips the location between active and inactive. The authorizer
// has already demanded the matching capability before this runs.
func (s *LocationService) ToggleStatus(ctx context.Context, id int64) (*domain.Location, error) {
	location, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus := domain.StatusInactive
	if location.StatusID != domain.StatusActive {
		newStatus = domain.StatusActive
	}

	if err := s.locationRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, fmt.Errorf("failed to toggle location status: %w", err)
	}

	location.StatusID = newStatus
	return location, nil
}

// ResourceStatus implements StatusReader for toggle-status authorization.
func (s *LocationService) ResourceStatus(ctx context.Context, id int64) (int64, error) {
	location, err := s.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return location.StatusID, nil
}
