package repository

import (
	"errors"

	"coursehub/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *DefaultContentRepository {
	return &DefaultContentRepository{db: db}
}

// FindPage returns one feed page ordered by upload date descending,
// along with the total number of content rows.
func (d *DefaultContentRepository) FindPage(page, size int) ([]*entity.Content, int64, error) {
	var total int64
	err := d.db.Model(&entity.Content{}).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var contents []*entity.Content
	err = d.db.
		Preload("User").
		Preload("Likes").
		Order("upload_date DESC").
		Offset(page * size).
		Limit(size).
		Find(&contents).Error
	if err != nil {
		return nil, 0, err
	}
	return contents, total, nil
}

func (d *DefaultContentRepository) FindByID(id int64) (*entity.Content, error) {
	var content entity.Content
	err := d.db.
		Preload("User").
		Preload("Likes").
		First(&content, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (d *DefaultContentRepository) FindByOwnerEmail(email string) ([]*entity.Content, error) {
	var contents []*entity.Content
	err := d.db.
		Preload("User").
		Preload("Likes").
		Joins("JOIN users ON users.id = contents.user_id").
		Where("users.email = ?", email).
		Order("upload_date DESC").
		Find(&contents).Error
	if err != nil {
		return nil, err
	}
	return contents, nil
}

func (d *DefaultContentRepository) IsLikedBy(contentID, userID int64) (bool, error) {
	var exists int
	err := d.db.
		Raw("SELECT EXISTS(SELECT 1 FROM content_likes WHERE content_id = ? AND user_id = ?)",
			contentID, userID).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (d *DefaultContentRepository) Save(content *entity.Content) error {
	return d.db.Omit("Likes", "User").Save(content).Error
}

func (d *DefaultContentRepository) AddLike(content *entity.Content, user *entity.User) error {
	return d.db.Model(content).Association("Likes").Append(user)
}

func (d *DefaultContentRepository) RemoveLike(content *entity.Content, user *entity.User) error {
	return d.db.Model(content).Association("Likes").Delete(user)
}

// Delete removes the record and everything hanging off it in one
// transaction, in explicit order: comments, likes, notifications, content.
func (d *DefaultContentRepository) Delete(content *entity.Content) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("content_id = ?", content.ID).Delete(&entity.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM content_likes WHERE content_id = ?", content.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("content_id = ?", content.ID).Delete(&entity.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(content).Error
	})
}
