package controller

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/rakhadavedra/user-management-service/internal/dto"
	"github.com/rakhadavedra/user-management-service/internal/service"
	pkgdto "github.com/rakhadavedra/user-management-service/pkg/dto"
	"github.com/rakhadavedra/user-management-service/pkg/errs"
	"github.com/rakhadavedra/user-management-service/pkg/response"
)

type Controller struct {
	service service.UserService
}

func CreateController(g *echo.Group, service service.UserService, auth echo.MiddlewareFunc) {
	uc := Controller{
		service: service,
	}
	g.POST("/register", uc.Register)
	g.POST("/login", uc.Login)
	g.GET("/users/:userId", uc.GetUser, auth)
	g.PUT("/users/:userId", uc.UpdateUser, auth)
	g.DELETE("/users/:userId", uc.DeleteUser, auth)
	g.GET("/users", uc.GetUsers, auth)
	g.GET("/roles", uc.GetRoles, auth)
	g.GET("/permissions", uc.GetPermissions, auth)
	g.GET("/agencies", uc.GetAgencies, auth)
}

func (c *Controller) Register(e echo.Context) error {
	payload := dto.RegisterRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "Register").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := c.service.Register(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteCreatedResponse(e, "", resp)
}

func (c *Controller) Login(e echo.Context) error {
	payload := dto.LoginRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "Login").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := c.service.Login(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) GetUser(e echo.Context) error {
	userID, err := strconv.ParseInt(e.Param("userId"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := c.service.GetUser(e.Request().Context(), userID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) GetUsers(e echo.Context) error {
	filter := pkgdto.Filter{}
	err := e.Bind(&filter)
	if err != nil {
		log.Error().Err(err).Str("component", "GetUsers").Msg("")
	}

	resp, err := c.service.GetUsers(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) UpdateUser(e echo.Context) error {
	userID, err := strconv.ParseInt(e.Param("userId"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	payload := dto.UpdateUserRequest{}
	err = e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateUser").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	payload.ID = userID
	err = c.service.UpdateUser(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "User updated successfully", nil)
}

func (c *Controller) DeleteUser(e echo.Context) error {
	userID, err := strconv.ParseInt(e.Param("userId"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	err = c.service.DeleteUser(e.Request().Context(), userID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "User deleted successfully", nil)
}

func (c *Controller) GetRoles(e echo.Context) error {
	resp, err := c.service.GetRoles(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) GetPermissions(e echo.Context) error {
	resp, err := c.service.GetPermissions(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *Controller) GetAgencies(e echo.Context) error {
	resp, err := c.service.GetAgencies(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}
