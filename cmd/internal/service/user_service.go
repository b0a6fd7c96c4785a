package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/domain/entity"
	"treinoexpresso/cmd/internal/domain/policy"
	cognitoclient "treinoexpresso/cmd/internal/infrastructure/aws/cognito"
	"treinoexpresso/cmd/internal/utils"
	"treinoexpresso/cmd/internal/utils/apierror"
	"treinoexpresso/cmd/internal/utils/uid"
)

// AdminGroup is the Cognito group whose members start as administrators.
const AdminGroup = "admin"

type UserRepository interface {
	FindAll() ([]*entity.User, error)
	FindByID(id int64) (*entity.User, error)
	FindBySub(sub string) (*entity.User, error)
	CreateIfAbsent(user *entity.User) (*entity.User, error)
	Save(user *entity.User) error
	UpdateRole(id int64, role entity.Role, now int64) error
}

type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*cognitoclient.AuthCreate, error)
	GlobalSignOut(ctx context.Context, accessToken string) error
}

type UserService struct {
	UserRepo UserRepository
	Validate *validator.Validate
	Cognito  IdentityProvider
	Policy   *policy.AccessPolicy

	// ListedAdmin reports whether an email is configured as administrator.
	ListedAdmin func(email string) bool
}

func NewUserService(
	userRepo UserRepository,
	validate *validator.Validate,
	idp IdentityProvider,
	pol *policy.AccessPolicy,
	listedAdmin func(email string) bool,
) *UserService {
	return &UserService{
		UserRepo:    userRepo,
		Validate:    validate,
		Cognito:     idp,
		Policy:      pol,
		ListedAdmin: listedAdmin,
	}
}

func (u *UserService) Login(ctx context.Context, req *contract.UserLoginRequest) (*contract.UserLoginResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	auth, err := u.Cognito.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, utils.MapCognitoError(err)
	}

	return &contract.UserLoginResponse{
		AccessToken:  auth.AccessToken,
		IDToken:      auth.IDToken,
		RefreshToken: auth.RefreshToken,
		ExpiresIn:    auth.ExpiresIn,
	}, nil
}

func (u *UserService) Logout(ctx context.Context, accessToken string) apierror.ErrorResponse {
	if accessToken == "" {
		return apierror.UnauthorizedError
	}

	if err := u.Cognito.GlobalSignOut(ctx, accessToken); err != nil {
		return utils.MapCognitoError(err)
	}
	return nil
}

// ResolveUser returns the account behind a verified token, creating it on first access.
// Profile fields follow the token; the role is only decided at creation.
func (u *UserService) ResolveUser(token *utils.TokenData) (*entity.User, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindBySub(token.Sub)
	if err != nil {
		log.Errorf("failed to find user (%s) by sub: %v", token.Sub, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return u.provision(token)
	}

	if !user.Active {
		return nil, apierror.InactiveUserError
	}

	if (token.Email != "" && token.Email != user.Email) || (token.Name != "" && token.Name != user.DisplayName) {
		if token.Email != "" {
			user.Email = token.Email
		}
		if token.Name != "" {
			user.DisplayName = token.Name
		}
		user.UpdatedAt = utils.NowUTC()
		if err := u.UserRepo.Save(user); err != nil {
			// Stale profile data is harmless, the request can go on.
			log.Errorf("failed to refresh profile of user %d: %v", user.ID, err)
		}
	}
	return user, nil
}

func (u *UserService) provision(token *utils.TokenData) (*entity.User, apierror.ErrorResponse) {
	listed := u.ListedAdmin != nil && u.ListedAdmin(token.Email)
	now := utils.NowUTC()

	user, err := u.UserRepo.CreateIfAbsent(&entity.User{
		ID:          uid.Generate(),
		SubUUID:     token.Sub,
		Email:       token.Email,
		DisplayName: token.Name,
		Role:        policy.InitialRole(listed, token.InGroup(AdminGroup)),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		log.Errorf("failed to provision user (%s): %v", token.Sub, err)
		return nil, apierror.InternalServerError
	}

	log.Infof("provisioned user %d (%s) as %s", user.ID, user.Email, user.Role)
	return user, nil
}

func (u *UserService) Me(actor *entity.User) *contract.UserResponse {
	return u.toUserResponse(actor)
}

func (u *UserService) GetUsers(actor *entity.User) ([]*contract.UserResponse, apierror.ErrorResponse) {
	if err := u.Policy.RequireAdmin(actor); err != nil {
		return nil, err
	}

	users, err := u.UserRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch users: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.UserResponse, len(users))
	for i, user := range users {
		resp[i] = u.toUserResponse(user)
	}
	return resp, nil
}

func (u *UserService) UpdateRole(actor *entity.User, targetID int64, req *contract.UpdateRoleRequest) (*contract.UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	target, err := u.UserRepo.FindByID(targetID)
	if err != nil {
		log.Errorf("failed to find user (%d) by id: %v", targetID, err)
		return nil, apierror.InternalServerError
	}

	role := entity.Role(req.Role)
	if perr := u.Policy.CanChangeRole(actor, target, role); perr != nil {
		return nil, perr
	}

	if target.Role == role {
		return u.toUserResponse(target), nil
	}

	now := utils.NowUTC()
	if err := u.UserRepo.UpdateRole(target.ID, role, now); err != nil {
		log.Errorf("actor %d failed to update role of user %d: %v", actor.ID, target.ID, err)
		return nil, apierror.InternalServerError
	}

	log.Infof("user %d changed role of user %d to %s", actor.ID, target.ID, role)
	target.Role, target.UpdatedAt = role, now
	return u.toUserResponse(target), nil
}

func (u *UserService) toUserResponse(user *entity.User) *contract.UserResponse {
	return &contract.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.Label(),
		Role:        string(user.Role),
		IsAdmin:     u.Policy.IsAdmin(user),
		CreatedAt:   utils.FormatEpoch(user.CreatedAt),
		UpdatedAt:   utils.FormatEpoch(user.UpdatedAt),
	}
}
