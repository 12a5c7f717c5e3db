package entity

type NotificationType string

const (
	NotificationLike    NotificationType = "LIKE"
	NotificationComment NotificationType = "COMMENT"
)

type Notification struct {
	ID          int64            `gorm:"primaryKey"` // snowflake
	Message     string           `gorm:"not null"`
	Read        bool             `gorm:"not null;default:false"`
	Type        NotificationType `gorm:"not null"`
	RecipientID int64            `gorm:"not null;index"` // References: users(id)
	ActorID     int64            `gorm:"not null"`
	ContentID   int64            `gorm:"not null;index"`
	CreatedAt   int64            `gorm:"not null"`

	// Relations
	Actor User `gorm:"foreignKey:ActorID;references:ID"`
}
