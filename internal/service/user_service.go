package service

import (
	"context"
	"strings"

	"devcamper/internal/models"
	"devcamper/internal/repository"
)

// PasswordHasher hashes plain passwords before they are stored.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type CreateUserInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,emailaddr"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty,role"`
}

type UpdateUserInput struct {
	Name     *string `json:"name" validate:"omitnil,required,max=100"`
	Email    *string `json:"email" validate:"omitnil,required,emailaddr"`
	Password *string `json:"password" validate:"omitnil,min=6,max=72"`
	Role     *string `json:"role" validate:"omitnil,role"`
}

// OwnedBootcampRemover deletes the bootcamps a user owns before the user goes.
type OwnedBootcampRemover interface {
	DeleteBootcampsOwnedBy(ctx context.Context, actor Actor, userID uint) (int, error)
}

// UserService backs the admin-only user management endpoints.
type UserService struct {
	userRepo  repository.UserRepository
	hasher    PasswordHasher
	bootcamps OwnedBootcampRemover
}

func NewUserService(userRepo repository.UserRepository, hasher PasswordHasher, bootcamps OwnedBootcampRemover) *UserService {
	return &UserService{userRepo: userRepo, hasher: hasher, bootcamps: bootcamps}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, repository.Page{Limit: limit, Offset: offset})
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate(in); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}

	hashed, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Role:     in.Role,
		Password: hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (*models.User, error) {
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		in.Email = &email
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Password != nil {
		hashed, err := s.hasher.HashPassword(*in.Password)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the user after every bootcamp they own, with its courses
// and reviews. Without a remover, deleting a bootcamp owner fails validation.
func (s *UserService) DeleteUser(ctx context.Context, actor Actor, id uint) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if s.bootcamps != nil {
		if _, err := s.bootcamps.DeleteBootcampsOwnedBy(ctx, actor, id); err != nil {
			return err
		}
	}
	return s.userRepo.Delete(ctx, id)
}

// SetRole changes a user's role.
func (s *UserService) SetRole(ctx context.Context, id uint, role string) (*models.User, error) {
	if !models.IsValidRole(role) {
		return nil, models.NewValidationError("role must be one of: user, publisher, admin")
	}
	if err := s.userRepo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ListAdmins(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListByRole(ctx, models.RoleAdmin)
}
