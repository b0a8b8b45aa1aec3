package service

import (
	"github.com/pubmap/areas-backend-go/internal/models"
	"github.com/pubmap/areas-backend-go/internal/normalize"
	"github.com/pubmap/areas-backend-go/internal/repository"
)

// VenueService handles venue query logic
type VenueService struct {
	repo *repository.VenueRepository
}

// NewVenueService creates a new venue service
func NewVenueService(repo *repository.VenueRepository) *VenueService {
	return &VenueService{repo: repo}
}

// VenueView is a venue with its ownership canonicalized for display
type VenueView struct {
	*models.Venue
	StandardizedOwnership string `json:"standardized_ownership,omitempty"`
}

func toView(v *models.Venue) *VenueView {
	view := &VenueView{Venue: v}
	if standardized, matched := normalize.StandardizeOwnership(v.Ownership); matched {
		view.StandardizedOwnership = standardized
	}
	return view
}

// GetVenues retrieves venues with filtering and pagination
func (s *VenueService) GetVenues(filter models.VenueFilter) ([]*VenueView, int64, error) {
	venues, total, err := s.repo.GetVenues(filter)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*VenueView, 0, len(venues))
	for _, v := range venues {
		views = append(views, toView(v))
	}
	return views, total, nil
}

// GetVenue retrieves a single venue by ID, nil when absent
func (s *VenueService) GetVenue(id string) (*VenueView, error) {
	v, err := s.repo.GetVenueByID(id)
	if err != nil || v == nil {
		return nil, err
	}
	return toView(v), nil
}
