package contract

type CommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

type CommentResponse struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	Username   string `json:"username"`
	UserAvatar string `json:"user_avatar,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type LikeResponse struct {
	ContentID int64 `json:"content_id"`
	Liked     bool  `json:"liked"`
	LikeCount int   `json:"like_count"`
}
