package handler

import (
	"context"
	"mime/multipart"
	"net/http"

	"coursehub/cmd/internal/contract"
	"coursehub/cmd/internal/domain/entity"
	"coursehub/cmd/internal/utils"
	"coursehub/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type UserService interface {
	ChangePassword(actor *entity.User, req *contract.ChangePasswordRequest) apierror.ErrorResponse
	UpdateProfilePicture(ctx context.Context, actor *entity.User, fileHeader *multipart.FileHeader) (*contract.ProfilePictureResponse, apierror.ErrorResponse)
}

type DefaultUserRoute struct {
	UserService UserService
}

func NewUserDefault(userService UserService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService}
}

func (u *DefaultUserRoute) ChangePassword(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	if serr := u.UserService.ChangePassword(user, &req); serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return c.NoContent(http.StatusOK)
}

func (u *DefaultUserRoute) UpdateProfilePicture(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MissingFileError)
	}

	resp, apierr := u.UserService.UpdateProfilePicture(c.Request().Context(), user, fileHeader)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
