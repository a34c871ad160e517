package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/friend-graph/internal/model"
	"github.com/d60-Lab/friend-graph/internal/repository"
	"github.com/d60-Lab/friend-graph/pkg/logger"
)

// UserView 用户及其派生字段（好友列表、人气分），每次读取时实时计算
type UserView struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Age             int       `json:"age"`
	Hobbies         []string  `json:"hobbies"`
	Friends         []string  `json:"friends"`
	CreatedAt       time.Time `json:"createdAt"`
	PopularityScore float64   `json:"popularityScore"`
}

type CreateUserInput struct {
	Username string   `json:"username" validate:"required,max=64"`
	Age      *int     `json:"age" validate:"required,gte=0"`
	Hobbies  []string `json:"hobbies" validate:"required,dive,required"`
}

// UpdateUserInput nil 字段保持不变
type UpdateUserInput struct {
	Username *string   `json:"username,omitempty"`
	Age      *int      `json:"age,omitempty"`
	Hobbies  *[]string `json:"hobbies,omitempty"`
}

func (in UpdateUserInput) empty() bool {
	return in.Username == nil && in.Age == nil && in.Hobbies == nil
}

// UserService 用户与好友关系服务
type UserService interface {
	ListUsers(ctx context.Context) ([]*UserView, error)
	GetUser(ctx context.Context, id string) (*UserView, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*UserView, error)
	UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*UserView, error)
	DeleteUser(ctx context.Context, id string) error

	CreateFriendship(ctx context.Context, userID, friendID string) error
	// RemoveFriendship reports whether a row was deleted; absence is not an error.
	RemoveFriendship(ctx context.Context, userID, friendID string) (bool, error)
	// ComputePopularity returns 0 for unknown users.
	ComputePopularity(ctx context.Context, id string) (float64, error)

	Graph(ctx context.Context) (*GraphData, error)
}

type userService struct {
	users       repository.UserRepository
	friendships repository.FriendshipRepository
	validate    *validator.Validate
	now         func() time.Time
}

func NewUserService(users repository.UserRepository, friendships repository.FriendshipRepository) UserService {
	return &userService{
		users:       users,
		friendships: friendships,
		validate:    newValidator(),
		now:         time.Now,
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]*UserView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	rows, err := s.friendships.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}

	adjacency := make(map[string][]string, len(users))
	for _, f := range rows {
		adjacency[f.User1ID] = append(adjacency[f.User1ID], f.User2ID)
		adjacency[f.User2ID] = append(adjacency[f.User2ID], f.User1ID)
	}
	byID := make(map[string]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	views := make([]*UserView, 0, len(users))
	for _, u := range users {
		friendIDs := adjacency[u.ID]
		friends := make([]*model.User, 0, len(friendIDs))
		for _, id := range friendIDs {
			if f, ok := byID[id]; ok {
				friends = append(friends, f)
			}
		}
		views = append(views, toView(u, friendIDs, friends))
	}
	return views, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*UserView, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	friendIDs, friends, err := s.loadFriends(ctx, id)
	if err != nil {
		return nil, err
	}
	return toView(u, friendIDs, friends), nil
}

func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*UserView, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := s.validate.StructCtx(ctx, in); err != nil {
		return nil, validationError(err, "")
	}
	if err := s.ensureUsernameFree(ctx, in.Username, ""); err != nil {
		return nil, err
	}

	u := &model.User{
		ID:        uuid.New().String(),
		Username:  in.Username,
		Age:       *in.Age,
		Hobbies:   in.Hobbies,
		CreatedAt: s.now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	logger.Info("user created", zap.String("user", u.ID), zap.String("username", u.Username))
	return toView(u, nil, nil), nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*UserView, error) {
	ctx = repository.WithFreshRead(ctx)
	if err := s.validateUpdate(&in); err != nil {
		return nil, err
	}
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.empty() {
		return s.GetUser(ctx, id)
	}

	if in.Username != nil && *in.Username != u.Username {
		if err := s.ensureUsernameFree(ctx, *in.Username, id); err != nil {
			return nil, err
		}
		u.Username = *in.Username
	}
	if in.Age != nil {
		u.Age = *in.Age
	}
	if in.Hobbies != nil {
		u.Hobbies = *in.Hobbies
	}

	if err := s.users.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.GetUser(ctx, id)
}

func (s *userService) validateUpdate(in *UpdateUserInput) error {
	if in.Username != nil {
		name := strings.TrimSpace(*in.Username)
		in.Username = &name
		if err := s.validate.Var(name, "required,max=64"); err != nil {
			return validationError(err, "username")
		}
	}
	if in.Age != nil {
		if err := s.validate.Var(*in.Age, "gte=0"); err != nil {
			return validationError(err, "age")
		}
	}
	if in.Hobbies != nil {
		if err := s.validate.Var(*in.Hobbies, "dive,required"); err != nil {
			return validationError(err, "hobbies")
		}
	}
	return nil
}

// DeleteUser 存在好友关系时拒绝删除，不依赖级联；外键 RESTRICT 兜底并发写入
func (s *userService) DeleteUser(ctx context.Context, id string) error {
	ctx = repository.WithFreshRead(ctx)
	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}
	cnt, err := s.friendships.CountByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("count friendships: %w", err)
	}
	if cnt > 0 {
		return ErrUserHasFriendships
	}
	deleted, err := s.users.Delete(ctx, id)
	if errors.Is(err, repository.ErrForeignKey) {
		return ErrUserHasFriendships
	}
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	logger.Info("user deleted", zap.String("user", id))
	return nil
}

func (s *userService) CreateFriendship(ctx context.Context, userID, friendID string) error {
	if userID == friendID {
		return ErrSelfFriendship
	}
	ctx = repository.WithFreshRead(ctx)
	for _, id := range []string{userID, friendID} {
		if _, err := s.getUser(ctx, id); err != nil {
			return err
		}
	}

	u1, u2 := model.CanonicalPair(userID, friendID)
	exists, err := s.friendships.Exists(ctx, u1, u2)
	if err != nil {
		return fmt.Errorf("check friendship: %w", err)
	}
	if exists {
		return ErrFriendshipExists
	}
	if err := s.friendships.Create(ctx, u1, u2); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return ErrFriendshipExists
		case errors.Is(err, repository.ErrForeignKey):
			// 校验之后有一方被删除
			return fmt.Errorf("%w: %s or %s", ErrUserNotFound, userID, friendID)
		}
		return fmt.Errorf("create friendship: %w", err)
	}
	logger.Info("friendship created", zap.String("user1", u1), zap.String("user2", u2))
	return nil
}

func (s *userService) RemoveFriendship(ctx context.Context, userID, friendID string) (bool, error) {
	u1, u2 := model.CanonicalPair(userID, friendID)
	removed, err := s.friendships.Delete(ctx, u1, u2)
	if err != nil {
		return false, fmt.Errorf("remove friendship: %w", err)
	}
	if removed {
		logger.Info("friendship removed", zap.String("user1", u1), zap.String("user2", u2))
	}
	return removed, nil
}

func (s *userService) ComputePopularity(ctx context.Context, id string) (float64, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("get user: %w", err)
	}
	friendIDs, friends, err := s.loadFriends(ctx, id)
	if err != nil {
		return 0, err
	}
	return PopularityScore(u.Hobbies, len(friendIDs), friends), nil
}

func (s *userService) getUser(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *userService) loadFriends(ctx context.Context, id string) ([]string, []*model.User, error) {
	friendIDs, err := s.friendships.ListFriendIDs(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("list friends: %w", err)
	}
	friends, err := s.users.GetByIDs(ctx, friendIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("load friends: %w", err)
	}
	return friendIDs, friends, nil
}

// ensureUsernameFree fails with ErrUsernameTaken when another user owns username.
func (s *userService) ensureUsernameFree(ctx context.Context, username, selfID string) error {
	existing, err := s.users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("lookup username: %w", err)
	case existing.ID != selfID:
		return ErrUsernameTaken
	}
	return nil
}

func toView(u *model.User, friendIDs []string, friends []*model.User) *UserView {
	hobbies := u.Hobbies
	if hobbies == nil {
		hobbies = []string{}
	}
	ids := make([]string, len(friendIDs))
	copy(ids, friendIDs)
	return &UserView{
		ID:              u.ID,
		Username:        u.Username,
		Age:             u.Age,
		Hobbies:         hobbies,
		Friends:         ids,
		CreatedAt:       u.CreatedAt,
		PopularityScore: PopularityScore(hobbies, len(friendIDs), friends),
	}
}
