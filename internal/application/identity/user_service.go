package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/floresya/backend/internal/domain/identity"
	"github.com/floresya/backend/internal/domain/shared"
)

// TokenIssuer issues JWT token pairs for authenticated users
type TokenIssuer interface {
	IssueTokenPair(userID uuid.UUID, email, role string) (access, refresh string, expiresIn int64, err error)
}

// UserService handles user account management and authentication
type UserService struct {
	userRepo identity.Repository
	tokens   TokenIssuer
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.Repository, tokens TokenIssuer) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Create registers a new user account
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
	}

	role := identity.RoleUser
	if req.Role != "" {
		role = identity.Role(req.Role)
	}

	u, err := identity.NewUser(req.Email, req.FullName, req.Phone, req.Password, role)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, u); err != nil {
		return nil, err
	}

	response := ToUserResponse(u)
	return &response, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(u)
	return &response, nil
}

// GetByEmail retrieves a user by email
func (s *UserService) GetByEmail(ctx context.Context, email string) (*UserResponse, error) {
	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(u)
	return &response, nil
}

// List retrieves users with filtering and pagination
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Role != nil {
		domainFilter.Filters["role"] = string(*filter.Role)
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	result, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToUserResponses(result.Items), result.Total, nil
}

// UpdateProfile updates a user's profile fields
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := u.UpdateProfile(req.FullName, req.Phone); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, u); err != nil {
		return nil, err
	}

	response := ToUserResponse(u)
	return &response, nil
}

// ChangePassword replaces a user's password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, req ChangePasswordRequest) error {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !u.VerifyPassword(req.CurrentPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	if err := u.SetPassword(req.NewPassword); err != nil {
		return err
	}

	return s.userRepo.Save(ctx, u)
}

// Deactivate soft deletes a user account
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) error {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := u.Deactivate(); err != nil {
		return err
	}

	return s.userRepo.Save(ctx, u)
}

// Reactivate restores a deactivated user account
func (s *UserService) Reactivate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := u.Reactivate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, u); err != nil {
		return nil, err
	}

	response := ToUserResponse(u)
	return &response, nil
}

// Login authenticates a user and issues a token pair.
// Failures are reported uniformly so attackers cannot probe for
// registered emails.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	invalidCredentials := shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

	u, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, invalidCredentials
	}
	if !u.CanLogin() || !u.VerifyPassword(req.Password) {
		return nil, invalidCredentials
	}

	access, refresh, expiresIn, err := s.tokens.IssueTokenPair(u.ID, u.Email, u.Role.String())
	if err != nil {
		return nil, err
	}

	u.RecordLogin()
	if err := s.userRepo.Save(ctx, u); err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
		User:         ToUserResponse(u),
	}, nil
}
