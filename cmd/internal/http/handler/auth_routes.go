package handler

import (
	"net/http"

	"coursehub/cmd/internal/contract"
	"coursehub/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type AuthService interface {
	Register(req *contract.RegisterRequest) (*contract.AuthResponse, apierror.ErrorResponse)
	Login(req *contract.LoginRequest) (*contract.AuthResponse, apierror.ErrorResponse)
	GoogleLogin(req *contract.GoogleLoginRequest) (*contract.AuthResponse, apierror.ErrorResponse)
}

type DefaultAuthRoute struct {
	AuthService AuthService
}

func NewAuthDefault(authService AuthService) *DefaultAuthRoute {
	return &DefaultAuthRoute{AuthService: authService}
}

func (a *DefaultAuthRoute) Register(c echo.Context) error {
	var req contract.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	resp, apierr := a.AuthService.Register(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (a *DefaultAuthRoute) Login(c echo.Context) error {
	var req contract.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	resp, apierr := a.AuthService.Login(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *DefaultAuthRoute) GoogleLogin(c echo.Context) error {
	var req contract.GoogleLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	resp, apierr := a.AuthService.GoogleLogin(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
