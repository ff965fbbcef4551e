package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/rakhadavedra/user-management-service/config"
	"github.com/rakhadavedra/user-management-service/internal/domain"
	"github.com/rakhadavedra/user-management-service/internal/dto"
	"github.com/rakhadavedra/user-management-service/internal/repository"
	pkgdto "github.com/rakhadavedra/user-management-service/pkg/dto"
	"github.com/rakhadavedra/user-management-service/pkg/errs"
	"github.com/rakhadavedra/user-management-service/pkg/utils"
)

const bcryptCost = 10

type UserService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (resp dto.RegisterResponse, err error)
	Login(ctx context.Context, payload dto.LoginRequest) (resp dto.LoginResponse, err error)
	GetUser(ctx context.Context, userID int64) (resp dto.UserResponse, err error)
	GetUsers(ctx context.Context, filter pkgdto.Filter) (resp []dto.UserResponse, err error)
	UpdateUser(ctx context.Context, payload dto.UpdateUserRequest) (err error)
	DeleteUser(ctx context.Context, userID int64) (err error)
	GetRoles(ctx context.Context) (resp []dto.RoleResponse, err error)
	GetPermissions(ctx context.Context) (resp []dto.PermissionResponse, err error)
	GetAgencies(ctx context.Context) (resp []dto.AgencyResponse, err error)
}

type ServiceImpl struct {
	repo          repository.UserRepository
	config        config.Config
	kafkaProducer *kafka.Conn
}

func CreateNewService(repo repository.UserRepository, config config.Config, kafkaProducer *kafka.Conn) UserService {
	return &ServiceImpl{repo: repo, config: config, kafkaProducer: kafkaProducer}
}

func (s *ServiceImpl) Register(ctx context.Context, payload dto.RegisterRequest) (resp dto.RegisterResponse, err error) {
	if payload.Username == "" || payload.Email == "" || payload.Password == "" {
		return resp, errs.ErrClient
	}

	user, err := s.repo.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		return
	}

	if user.ID != 0 {
		return resp, errs.ErrEmailAlreadyUsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcryptCost)
	if err != nil {
		log.Error().Err(err).Str("component", "Register").Msg("")
		return resp, errs.ErrInternalServer
	}

	userEnt := domain.User{
		Username:       payload.Username,
		Email:          payload.Email,
		Phone:          payload.Phone,
		Status:         payload.Status,
		AgencyID:       payload.AgencyID,
		HashedPassword: string(hash),
	}

	var userID int64
	err = s.repo.HandleTrx(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		userID, err = repo.AddUser(ctx, userEnt)
		if err != nil {
			return err
		}

		if err := repo.AddUserRoles(ctx, userID, payload.Roles); err != nil {
			return err
		}

		return repo.AddUserPermissions(ctx, userID, payload.Permissions)
	})
	if err != nil {
		return resp, err
	}

	s.publishUserEvent("user_created", dto.UserEvent{
		UserID:   userID,
		Username: payload.Username,
		Email:    payload.Email,
	})

	resp = dto.RegisterResponse{
		UserID:      userID,
		Username:    payload.Username,
		Email:       payload.Email,
		Phone:       payload.Phone,
		Status:      payload.Status,
		Roles:       payload.Roles,
		Permissions: payload.Permissions,
		AgencyID:    payload.AgencyID,
	}

	return resp, nil
}

func (s *ServiceImpl) Login(ctx context.Context, payload dto.LoginRequest) (resp dto.LoginResponse, err error) {
	user, err := s.repo.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		return
	}

	if user.ID == 0 {
		return resp, errs.ErrAccountNotFound
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(payload.Password))
	if err != nil {
		log.Error().Err(err).Str("component", "Login").Msg("")
		return resp, errs.ErrInvalidCredentials
	}

	token, err := utils.CreateJWTToken(user.ID, user.Email, s.config.JWTSecret)
	if err != nil {
		log.Error().Err(err).Str("component", "Login").Msg("")
		return resp, errs.ErrInternalServer
	}

	resp.Token = token

	return
}

func (s *ServiceImpl) GetUser(ctx context.Context, userID int64) (resp dto.UserResponse, err error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return
	}

	if user.ID == 0 {
		return resp, errs.ErrAccountNotFound
	}

	return s.buildUserResponse(ctx, user)
}

func (s *ServiceImpl) GetUsers(ctx context.Context, filter pkgdto.Filter) (resp []dto.UserResponse, err error) {
	users, err := s.repo.GetUsers(ctx, filter)
	if err != nil {
		return
	}

	resp = make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		userResp, err := s.buildUserResponse(ctx, user)
		if err != nil {
			return nil, err
		}
		resp = append(resp, userResp)
	}

	return resp, nil
}

func (s *ServiceImpl) UpdateUser(ctx context.Context, payload dto.UpdateUserRequest) (err error) {
	if payload.Username == "" || payload.Email == "" {
		return errs.ErrClient
	}

	userEnt := domain.User{
		ID:       payload.ID,
		Username: payload.Username,
		Email:    payload.Email,
		Phone:    payload.Phone,
		Status:   payload.Status,
		AgencyID: payload.AgencyID,
	}

	err = s.repo.HandleTrx(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		if err := repo.UpdateUser(ctx, userEnt); err != nil {
			return err
		}

		if err := repo.DeleteUserRoles(ctx, payload.ID); err != nil {
			return err
		}

		if err := repo.AddUserRoles(ctx, payload.ID, payload.Roles); err != nil {
			return err
		}

		if err := repo.DeleteUserPermissions(ctx, payload.ID); err != nil {
			return err
		}

		return repo.AddUserPermissions(ctx, payload.ID, payload.Permissions)
	})
	if err != nil {
		return err
	}

	s.publishUserEvent("user_updated", dto.UserEvent{
		UserID:   payload.ID,
		Username: payload.Username,
		Email:    payload.Email,
	})

	return nil
}

// DeleteUser removes the user row together with its role and permission
// associations in one transaction, so no orphan rows survive even without
// schema-level cascades.
func (s *ServiceImpl) DeleteUser(ctx context.Context, userID int64) (err error) {
	err = s.repo.HandleTrx(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		if err := repo.DeleteUserRoles(ctx, userID); err != nil {
			return err
		}

		if err := repo.DeleteUserPermissions(ctx, userID); err != nil {
			return err
		}

		return repo.DeleteUser(ctx, userID)
	})
	if err != nil {
		return err
	}

	s.publishUserEvent("user_deleted", dto.UserEvent{UserID: userID})

	return nil
}

func (s *ServiceImpl) GetRoles(ctx context.Context) (resp []dto.RoleResponse, err error) {
	roles, err := s.repo.GetRoles(ctx)
	if err != nil {
		return
	}

	resp = make([]dto.RoleResponse, 0, len(roles))
	for _, role := range roles {
		resp = append(resp, dto.RoleResponse{RoleID: role.ID, RoleName: role.Name})
	}

	return resp, nil
}

func (s *ServiceImpl) GetPermissions(ctx context.Context) (resp []dto.PermissionResponse, err error) {
	permissions, err := s.repo.GetPermissions(ctx)
	if err != nil {
		return
	}

	resp = make([]dto.PermissionResponse, 0, len(permissions))
	for _, permission := range permissions {
		resp = append(resp, dto.PermissionResponse{PermissionID: permission.ID, PermissionName: permission.Name})
	}

	return resp, nil
}

func (s *ServiceImpl) GetAgencies(ctx context.Context) (resp []dto.AgencyResponse, err error) {
	agencies, err := s.repo.GetAgencies(ctx)
	if err != nil {
		return
	}

	resp = make([]dto.AgencyResponse, 0, len(agencies))
	for _, agency := range agencies {
		resp = append(resp, dto.AgencyResponse{AgencyID: agency.ID, AgencyName: agency.Name})
	}

	return resp, nil
}

func (s *ServiceImpl) buildUserResponse(ctx context.Context, user domain.UserWithAgency) (resp dto.UserResponse, err error) {
	roles, err := s.repo.GetUserRoleNames(ctx, user.ID)
	if err != nil {
		return
	}

	permissions, err := s.repo.GetUserPermissionNames(ctx, user.ID)
	if err != nil {
		return
	}

	if roles == nil {
		roles = []string{}
	}
	if permissions == nil {
		permissions = []string{}
	}

	return dto.UserResponse{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Phone:       user.Phone,
		Status:      user.Status,
		AgencyName:  user.AgencyName,
		CreatedAt:   user.CreatedAt,
		Roles:       roles,
		Permissions: permissions,
	}, nil
}

// publishUserEvent notifies downstream consumers about a committed change.
// Delivery is best-effort: a broker failure is logged, never surfaced to the
// API caller.
func (s *ServiceImpl) publishUserEvent(eventType string, data dto.UserEvent) {
	if s.kafkaProducer == nil {
		return
	}

	kafkaMsg := dto.KafkaMessage{
		EventType: eventType,
		Data:      data,
	}

	jsonMsg, err := json.Marshal(kafkaMsg)
	if err != nil {
		log.Error().Err(err).Str("component", "publishUserEvent").Msg("")
		return
	}

	_, err = s.kafkaProducer.WriteMessages(kafka.Message{Value: jsonMsg})
	if err != nil {
		log.Error().Err(err).Str("component", "publishUserEvent").Msg("")
	}
}
