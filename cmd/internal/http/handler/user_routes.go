package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"treinoexpresso/cmd/internal/contract"
	"treinoexpresso/cmd/internal/domain/entity"
	"treinoexpresso/cmd/internal/utils"
	"treinoexpresso/cmd/internal/utils/apierror"
)

type UserService interface {
	Login(ctx context.Context, req *contract.UserLoginRequest) (*contract.UserLoginResponse, apierror.ErrorResponse)
	Logout(ctx context.Context, accessToken string) apierror.ErrorResponse
	Me(actor *entity.User) *contract.UserResponse
	GetUsers(actor *entity.User) ([]*contract.UserResponse, apierror.ErrorResponse)
	UpdateRole(actor *entity.User, targetID int64, req *contract.UpdateRoleRequest) (*contract.UserResponse, apierror.ErrorResponse)
}

type DefaultUserRoute struct {
	UserService UserService
}

func NewUserDefault(userService UserService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService}
}

func (u *DefaultUserRoute) CreateLogin(c echo.Context) error {
	var req contract.UserLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := u.UserService.Login(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (u *DefaultUserRoute) Logout(c echo.Context) error {
	apierr := u.UserService.Logout(c.Request().Context(), utils.BearerToken(c))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (u *DefaultUserRoute) GetSelf(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}
	return c.JSON(http.StatusOK, u.UserService.Me(user))
}

func (u *DefaultUserRoute) GetUsers(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	users, apierr := u.UserService.GetUsers(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"users": users}
	return c.JSON(http.StatusOK, &resp)
}

func (u *DefaultUserRoute) UpdateRole(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	targetID, perr := pathID(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	var req contract.UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	updated, apierr := u.UserService.UpdateRole(user, targetID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, updated)
}
