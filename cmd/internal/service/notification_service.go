package service

import (
	"coursehub/cmd/internal/contract"
	"coursehub/cmd/internal/domain/entity"
	"coursehub/cmd/internal/utils"
	"coursehub/cmd/internal/utils/apierror"
	"coursehub/cmd/internal/utils/uid"

	"github.com/labstack/gommon/log"
)

type NotificationRepository interface {
	FindByID(id int64) (*entity.Notification, error)
	FindByRecipientID(recipientID int64) ([]*entity.Notification, error)
	CountUnread(recipientID int64) (int64, error)
	MarkAllRead(recipientID int64) error
	Save(notification *entity.Notification) error
}

type DefaultNotificationService struct {
	NotificationRepo NotificationRepository
	UserRepo         UserRepository
}

func NewNotificationService(notificationRepo NotificationRepository, userRepo UserRepository) *DefaultNotificationService {
	return &DefaultNotificationService{
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
	}
}

// Create persists a notification for the recipient. Self-notifications
// (recipient == actor) are silently dropped.
func (s *DefaultNotificationService) Create(recipient, actor *entity.User, content *entity.Content, typ entity.NotificationType) error {
	if recipient.ID == actor.ID {
		return nil
	}

	var message string
	switch typ {
	case entity.NotificationLike:
		message = actor.DisplayName() + " liked your post: " + content.FileName
	case entity.NotificationComment:
		message = actor.DisplayName() + " commented on: " + content.FileName
	}

	notification := &entity.Notification{
		ID:          uid.Generate(),
		Message:     message,
		Type:        typ,
		RecipientID: recipient.ID,
		ActorID:     actor.ID,
		ContentID:   content.ID,
		CreatedAt:   utils.NowUTC(),
	}
	return s.NotificationRepo.Save(notification)
}

func (s *DefaultNotificationService) GetUserNotifications(email string) ([]*contract.NotificationResponse, apierror.ErrorResponse) {
	user, apierr := s.fetchUser(email)
	if apierr != nil {
		return nil, apierr
	}

	notifications, err := s.NotificationRepo.FindByRecipientID(user.ID)
	if err != nil {
		log.Errorf("failed to fetch notifications of %s: %v", email, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.NotificationResponse, len(notifications))
	for i, n := range notifications {
		resp[i] = toNotificationResponse(n)
	}
	return resp, nil
}

func (s *DefaultNotificationService) GetUnreadCount(email string) (int64, apierror.ErrorResponse) {
	user, apierr := s.fetchUser(email)
	if apierr != nil {
		return 0, apierr
	}

	count, err := s.NotificationRepo.CountUnread(user.ID)
	if err != nil {
		log.Errorf("failed to count unread notifications of %s: %v", email, err)
		return 0, apierror.InternalServerError
	}
	return count, nil
}

// MarkRead flips the read flag. It is idempotent and a no-op for
// unknown ids, matching the listing semantics.
func (s *DefaultNotificationService) MarkRead(id int64) apierror.ErrorResponse {
	notification, err := s.NotificationRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch notification %d: %v", id, err)
		return apierror.InternalServerError
	}

	if notification == nil || notification.Read {
		return nil
	}

	notification.Read = true
	if err := s.NotificationRepo.Save(notification); err != nil {
		log.Errorf("failed to mark notification %d as read: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *DefaultNotificationService) MarkAllRead(email string) apierror.ErrorResponse {
	user, apierr := s.fetchUser(email)
	if apierr != nil {
		return apierr
	}

	if err := s.NotificationRepo.MarkAllRead(user.ID); err != nil {
		log.Errorf("failed to mark notifications of %s as read: %v", email, err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *DefaultNotificationService) fetchUser(email string) (*entity.User, apierror.ErrorResponse) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", email, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.UserNotFoundError
	}
	return user, nil
}

func toNotificationResponse(n *entity.Notification) *contract.NotificationResponse {
	return &contract.NotificationResponse{
		ID:         n.ID,
		Message:    n.Message,
		Read:       n.Read,
		Type:       string(n.Type),
		ActorName:  n.Actor.DisplayName(),
		ActorImage: n.Actor.ProfilePicture,
		ContentID:  n.ContentID,
		CreatedAt:  utils.FormatEpoch(n.CreatedAt),
	}
}
