package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Yousuf-177/TaskFlow/apperrors"
	"github.com/Yousuf-177/TaskFlow/logging"
	"github.com/Yousuf-177/TaskFlow/models"
	"github.com/Yousuf-177/TaskFlow/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RegisterInput is the registration form.
type RegisterInput struct {
	Name             string
	Email            string
	Password         string
	ProfileImageURL  string
	AdminInviteToken string
}

// ProfilePatch changes only the fields that are non-nil.
type ProfilePatch struct {
	Name            *string
	Email           *string
	Password        *string
	ProfileImageURL *string
}

// AuthResult is a user together with a freshly issued token.
type AuthResult struct {
	User  *models.User
	Token string
}

type UserService struct {
	users            UserStore
	tasks            TaskStore
	tokens           *JWTService
	adminInviteToken string
	now              func() time.Time
}

func NewUserService(users UserStore, tasks TaskStore, tokens *JWTService, adminInviteToken string) *UserService {
	return &UserService{
		users:            users,
		tasks:            tasks,
		tokens:           tokens,
		adminInviteToken: adminInviteToken,
		now:              time.Now,
	}
}

// ResolveRole grants admin only when an invite token is configured and the
// supplied one matches it exactly.
func ResolveRole(inviteToken, expectedToken string) models.Role {
	if expectedToken != "" && inviteToken == expectedToken {
		return models.RoleAdmin
	}
	return models.RoleMember
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperrors.Invalid("All fields are required")
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.Invalid("User Already Exist")
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, apperrors.Internalf(err, "Server Error")
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Internalf(err, "Server Error")
	}

	now := s.now()
	user := &models.User{
		Name:            in.Name,
		Email:           in.Email,
		Password:        hashed,
		ProfileImageURL: in.ProfileImageURL,
		Role:            ResolveRole(in.AdminInviteToken, s.adminInviteToken),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, apperrors.Invalid("User Already Exist")
		}
		return nil, apperrors.Internalf(err, "Server Error")
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered with role %s", user.ID.Hex(), user.Role)
	return s.issue(user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.Invalid("Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Unknown email %s", email)
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		return nil, apperrors.Internalf(err, "Server Error")
	}
	if !utils.CheckPassword(user.Password, password) {
		logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Wrong password for user %s", user.ID.Hex())
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	return s.issue(user)
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateAuthToken(user.ID.Hex())
	if err != nil {
		return nil, apperrors.Internalf(err, "Server Error")
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Resolve maps a token subject onto a stored user.
func (s *UserService) Resolve(ctx context.Context, userID string) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.Unauthorized("Not authorized, token failed")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, apperrors.Unauthorized("Not authorized, user not found")
		}
		return nil, apperrors.Internalf(err, "Server Error")
	}
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, apperrors.Missing("User not found")
		}
		return nil, apperrors.Internalf(err, "Server Error")
	}
	return user, nil
}

// UpdateProfile applies patch to the caller and returns a fresh token.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, patch ProfilePatch) (*AuthResult, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperrors.Invalid("Name cannot be empty")
		}
		user.Name = name
	}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email == "" {
			return nil, apperrors.Invalid("Email cannot be empty")
		}
		if email != user.Email {
			existing, err := s.users.FindByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != user.ID:
				return nil, apperrors.Invalid("Email is already in use")
			case err != nil && !errors.Is(err, models.ErrNotFound):
				return nil, apperrors.Internalf(err, "Server Error")
			}
		}
		user.Email = email
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, apperrors.Invalid("Password cannot be empty")
		}
		hashed, err := utils.HashPassword(*patch.Password)
		if err != nil {
			return nil, apperrors.Internalf(err, "Server Error")
		}
		user.Password = hashed
	}
	if patch.ProfileImageURL != nil {
		user.ProfileImageURL = *patch.ProfileImageURL
	}
	user.UpdatedAt = s.now()

	if err := s.users.Save(ctx, user); err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicate):
			return nil, apperrors.Invalid("Email is already in use")
		case errors.Is(err, models.ErrNotFound):
			return nil, apperrors.Missing("User not found")
		}
		return nil, apperrors.Internalf(err, "Server Error")
	}

	logging.Logger.Infof("Event ID: PROFILE_UPDATED, Description: User %s updated their profile", user.ID.Hex())
	return s.issue(user)
}

func (s *UserService) GetUserByID(ctx context.Context, rawID string) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, apperrors.Invalid("Invalid user ID")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, apperrors.Missing("User not found")
		}
		return nil, apperrors.Internalf(err, "Server Error")
	}
	return user, nil
}

// ListMembersWithCounts returns every member together with per-status
// counts of the tasks they are assigned to.
func (s *UserService) ListMembersWithCounts(ctx context.Context) ([]models.MemberTaskCounts, error) {
	members, err := s.users.FindByRole(ctx, models.RoleMember)
	if err != nil {
		return nil, apperrors.Internalf(err, "Server Error")
	}
	tasks, err := s.tasks.Find(ctx, models.TaskFilter{})
	if err != nil {
		return nil, apperrors.Internalf(err, "Server Error")
	}

	tallies := tallyAssignedTasks(tasks)
	out := make([]models.MemberTaskCounts, 0, len(members))
	for _, member := range members {
		t := tallies[member.ID]
		out = append(out, models.MemberTaskCounts{
			User:            member,
			PendingTasks:    t.pending,
			InProgressTasks: t.inProgress,
			CompletedTasks:  t.completed,
		})
	}
	return out, nil
}
