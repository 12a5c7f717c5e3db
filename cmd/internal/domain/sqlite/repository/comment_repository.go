package repository

import (
	"coursehub/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultCommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *DefaultCommentRepository {
	return &DefaultCommentRepository{db: db}
}

func (d *DefaultCommentRepository) FindByContentID(contentID int64) ([]*entity.Comment, error) {
	var comments []*entity.Comment
	err := d.db.
		Preload("User").
		Where("content_id = ?", contentID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (d *DefaultCommentRepository) CountByContentID(contentID int64) (int64, error) {
	var count int64
	err := d.db.
		Model(&entity.Comment{}).
		Where("content_id = ?", contentID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (d *DefaultCommentRepository) Save(comment *entity.Comment) error {
	return d.db.Omit("User").Save(comment).Error
}
