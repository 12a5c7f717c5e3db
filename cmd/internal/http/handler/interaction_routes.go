package handler

import (
	"net/http"

	"coursehub/cmd/internal/contract"
	"coursehub/cmd/internal/domain/entity"
	"coursehub/cmd/internal/utils"
	"coursehub/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type InteractionService interface {
	ToggleLike(contentID int64, actor *entity.User) (*contract.LikeResponse, apierror.ErrorResponse)
	AddComment(contentID int64, actor *entity.User, req *contract.CommentRequest) (*contract.CommentResponse, apierror.ErrorResponse)
	GetComments(contentID int64) ([]*contract.CommentResponse, apierror.ErrorResponse)
}

type DefaultInteractionRoute struct {
	InteractionService InteractionService
}

func NewInteractionDefault(interactionService InteractionService) *DefaultInteractionRoute {
	return &DefaultInteractionRoute{InteractionService: interactionService}
}

func (i *DefaultInteractionRoute) ToggleLike(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := parseIDParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp, apierr := i.InteractionService.ToggleLike(id, user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (i *DefaultInteractionRoute) AddComment(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := parseIDParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.CommentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	resp, apierr := i.InteractionService.AddComment(id, user, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (i *DefaultInteractionRoute) GetComments(c echo.Context) error {
	id, apierr := parseIDParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	comments, apierr := i.InteractionService.GetComments(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"comments": comments}
	return c.JSON(http.StatusOK, &resp)
}
