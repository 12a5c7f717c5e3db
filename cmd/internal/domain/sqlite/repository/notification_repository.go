package repository

import (
	"errors"

	"coursehub/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultNotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *DefaultNotificationRepository {
	return &DefaultNotificationRepository{db: db}
}

func (d *DefaultNotificationRepository) FindByID(id int64) (*entity.Notification, error) {
	var notification entity.Notification
	err := d.db.First(&notification, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (d *DefaultNotificationRepository) FindByRecipientID(recipientID int64) ([]*entity.Notification, error) {
	var notifications []*entity.Notification
	err := d.db.
		Preload("Actor").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (d *DefaultNotificationRepository) CountUnread(recipientID int64) (int64, error) {
	var count int64
	err := d.db.
		Model(&entity.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (d *DefaultNotificationRepository) MarkAllRead(recipientID int64) error {
	return d.db.
		Model(&entity.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Update("read", true).Error
}

// DeleteReadOlderThan purges read notifications created before the cutoff
// (epoch millis). Used by the retention job.
func (d *DefaultNotificationRepository) DeleteReadOlderThan(cutoff int64) (int64, error) {
	res := d.db.
		Where("read = ? AND created_at < ?", true, cutoff).
		Delete(&entity.Notification{})
	return res.RowsAffected, res.Error
}

func (d *DefaultNotificationRepository) Save(notification *entity.Notification) error {
	return d.db.Omit("Actor").Save(notification).Error
}
