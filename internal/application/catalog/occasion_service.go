package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/floresya/backend/internal/domain/catalog"
	"github.com/floresya/backend/internal/domain/shared"
)

// OccasionService handles occasion management
type OccasionService struct {
	occasionRepo catalog.OccasionRepository
}

// NewOccasionService creates a new OccasionService
func NewOccasionService(occasionRepo catalog.OccasionRepository) *OccasionService {
	return &OccasionService{occasionRepo: occasionRepo}
}

// Create creates a new occasion with a unique slug
func (s *OccasionService) Create(ctx context.Context, req CreateOccasionRequest) (*OccasionResponse, error) {
	exists, err := s.occasionRepo.ExistsBySlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An occasion with this slug already exists")
	}

	o, err := catalog.NewOccasion(req.Name, req.Slug, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.occasionRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOccasionResponse(o)
	return &response, nil
}

// GetByID retrieves an occasion by ID
func (s *OccasionService) GetByID(ctx context.Context, id uuid.UUID) (*OccasionResponse, error) {
	o, err := s.occasionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOccasionResponse(o)
	return &response, nil
}

// GetBySlug retrieves an occasion by slug
func (s *OccasionService) GetBySlug(ctx context.Context, slug string) (*OccasionResponse, error) {
	o, err := s.occasionRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	response := ToOccasionResponse(o)
	return &response, nil
}

// List lists occasions ordered by display order
func (s *OccasionService) List(ctx context.Context, includeDeactivated bool) ([]OccasionResponse, error) {
	occasions, err := s.occasionRepo.FindAll(ctx, includeDeactivated)
	if err != nil {
		return nil, err
	}
	return ToOccasionResponses(occasions), nil
}

// Update updates an occasion's editable fields
func (s *OccasionService) Update(ctx context.Context, id uuid.UUID, req UpdateOccasionRequest) (*OccasionResponse, error) {
	o, err := s.occasionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.Update(req.Name, req.Description, req.Icon, req.Color, req.DisplayOrder); err != nil {
		return nil, err
	}

	if err := s.occasionRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOccasionResponse(o)
	return &response, nil
}

// Delete soft deletes an occasion
func (s *OccasionService) Delete(ctx context.Context, id uuid.UUID) error {
	o, err := s.occasionRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	o.Deactivate()
	return s.occasionRepo.Save(ctx, o)
}

// Restore reactivates a soft-deleted occasion
func (s *OccasionService) Restore(ctx context.Context, id uuid.UUID) (*OccasionResponse, error) {
	o, err := s.occasionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	o.Restore()
	if err := s.occasionRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOccasionResponse(o)
	return &response, nil
}
