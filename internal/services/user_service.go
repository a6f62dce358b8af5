package services

import (
	"context"
	"fmt"

	"direct-chat/internal/domain/user"
	"direct-chat/internal/repository"

	"github.com/google/uuid"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetUsersForSidebar returns the caller's contacts, or every other user when
// all is set. The caller is looked up first in both modes, so an unknown
// caller fails either way.
func (s *UserService) GetUsersForSidebar(ctx context.Context, callerID uuid.UUID, all bool) ([]user.User, error) {
	caller, err := s.userRepo.GetUserByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("load caller %s: %w", callerID, err)
	}

	var users []user.User
	if all {
		users, err = s.userRepo.GetUsersExcept(ctx, callerID)
	} else {
		users, err = s.userRepo.GetUsersByIDs(ctx, caller.Contacts)
	}
	if err != nil {
		return nil, fmt.Errorf("list sidebar users: %w", err)
	}

	out := make([]user.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}
