package handler

import (
	"net/http"

	"coursehub/cmd/internal/contract"
	"coursehub/cmd/internal/utils"
	"coursehub/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type NotificationService interface {
	GetUserNotifications(email string) ([]*contract.NotificationResponse, apierror.ErrorResponse)
	GetUnreadCount(email string) (int64, apierror.ErrorResponse)
	MarkRead(id int64) apierror.ErrorResponse
	MarkAllRead(email string) apierror.ErrorResponse
}

type DefaultNotificationRoute struct {
	NotificationService NotificationService
}

func NewNotificationDefault(notificationService NotificationService) *DefaultNotificationRoute {
	return &DefaultNotificationRoute{NotificationService: notificationService}
}

func (n *DefaultNotificationRoute) GetNotifications(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	notifications, apierr := n.NotificationService.GetUserNotifications(user.Email)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"notifications": notifications}
	return c.JSON(http.StatusOK, &resp)
}

func (n *DefaultNotificationRoute) GetUnreadCount(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	count, apierr := n.NotificationService.GetUnreadCount(user.Email)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, &contract.UnreadCountResponse{Count: count})
}

func (n *DefaultNotificationRoute) MarkRead(c echo.Context) error {
	if _, cerr := utils.GetUserFromContext(c); cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := parseIDParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if serr := n.NotificationService.MarkRead(id); serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return c.NoContent(http.StatusOK)
}

func (n *DefaultNotificationRoute) MarkAllRead(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	if serr := n.NotificationService.MarkAllRead(user.Email); serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return c.NoContent(http.StatusOK)
}
