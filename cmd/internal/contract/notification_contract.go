package contract

type NotificationResponse struct {
	ID         int64  `json:"id"`
	Message    string `json:"message"`
	Read       bool   `json:"read"`
	Type       string `json:"type"`
	ActorName  string `json:"actor_name,omitempty"`
	ActorImage string `json:"actor_image,omitempty"`
	ContentID  int64  `json:"content_id,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
