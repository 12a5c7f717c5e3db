package contract

const MaxUploadSizeBytes = 100 * 1024 * 1024

// AllowedUploadTypes is the MIME allow-list for file uploads. Anything
// outside of it is rejected before storage is touched.
var AllowedUploadTypes = []string{
	"application/pdf",
	"video/mp4",
	"image/jpeg",
	"image/png",
	"text/plain",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// File types assigned to external links, inferred from the URL itself.
const (
	FileTypeYouTube = "video/youtube"
	FileTypeLink    = "resource/link"
)

type ContentResponse struct {
	ID                 int64  `json:"id"`
	FileName           string `json:"file_name"`
	Description        string `json:"description,omitempty"`
	FileType           string `json:"file_type"`
	FileSize           int64  `json:"file_size"`
	UploadDate         string `json:"upload_date"`
	FileURL            string `json:"file_url"`
	UploadedBy         string `json:"uploaded_by"`
	UploaderImage      string `json:"uploader_image,omitempty"`
	LikeCount          int    `json:"like_count"`
	CommentCount       int64  `json:"comment_count"`
	LikedByCurrentUser bool   `json:"liked_by_current_user"`
}

type FeedResponse struct {
	Items         []*ContentResponse `json:"content"`
	Page          int                `json:"page"`
	Size          int                `json:"size"`
	TotalElements int64              `json:"total_elements"`
	TotalPages    int                `json:"total_pages"`
}

type UploadResponse struct {
	ID          int64  `json:"id"`
	FileName    string `json:"file_name"`
	FileType    string `json:"file_type"`
	FileSize    int64  `json:"file_size"`
	DownloadURL string `json:"download_url"`
}

type LinkRequest struct {
	URL         string `json:"url" validate:"required,url"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

type SummaryResponse struct {
	ContentID int64  `json:"content_id"`
	Summary   string `json:"summary"`
	KeyPoints string `json:"key_points"`
}

type ChatRequest struct {
	Question string `json:"question" validate:"required,min=1,max=2000"`
}

type ChatResponse struct {
	ContentID int64  `json:"content_id"`
	Answer    string `json:"answer"`
}
