package entity

type Comment struct {
	ID        int64  `gorm:"primaryKey"` // snowflake
	Text      string `gorm:"not null"`
	UserID    int64  `gorm:"not null"` // References: users(id)
	ContentID int64  `gorm:"not null;index"`
	CreatedAt int64  `gorm:"not null"`

	// Relations
	User User `gorm:"foreignKey:UserID;references:ID"`
}
