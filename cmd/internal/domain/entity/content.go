package entity

import "strings"

type Content struct {
	ID          int64  `gorm:"primaryKey"` // snowflake, assigned by the service
	FileName    string `gorm:"not null"`
	Description string
	FileType    string `gorm:"not null"`
	FileSize    int64  `gorm:"not null"`
	UploadDate  int64  `gorm:"not null"`
	// FileURL holds either an opaque object-store key or a literal external
	// URL. An http(s) prefix marks an external link, which cannot be
	// downloaded, deleted from storage or summarized.
	FileURL   string `gorm:"not null"`
	Summary   string
	KeyPoints string
	UserID    int64 `gorm:"not null"` // References: users(id)

	// Relations
	User  User    `gorm:"foreignKey:UserID;references:ID"`
	Likes []*User `gorm:"many2many:content_likes"`
}

func (c *Content) IsExternalLink() bool {
	return strings.HasPrefix(c.FileURL, "http")
}

func (c *Content) IsLikedBy(userID int64) bool {
	for _, u := range c.Likes {
		if u.ID == userID {
			return true
		}
	}
	return false
}
