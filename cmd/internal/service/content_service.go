package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"coursehub/cmd/internal/contract"
	"coursehub/cmd/internal/domain/entity"
	"coursehub/cmd/internal/domain/policy"
	"coursehub/cmd/internal/infrastructure/aws/storage"
	"coursehub/cmd/internal/service/cache"
	"coursehub/cmd/internal/utils"
	"coursehub/cmd/internal/utils/apierror"
	"coursehub/cmd/internal/utils/uid"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

const DefaultFeedPageSize = 10

type ContentRepository interface {
	FindPage(page, size int) ([]*entity.Content, int64, error)
	FindByID(id int64) (*entity.Content, error)
	FindByOwnerEmail(email string) ([]*entity.Content, error)
	IsLikedBy(contentID, userID int64) (bool, error)
	Save(content *entity.Content) error
	AddLike(content *entity.Content, user *entity.User) error
	RemoveLike(content *entity.Content, user *entity.User) error
	Delete(content *entity.Content) error
}

type CommentRepository interface {
	FindByContentID(contentID int64) ([]*entity.Comment, error)
	CountByContentID(contentID int64) (int64, error)
	Save(comment *entity.Comment) error
}

type TextExtractor interface {
	Text(data []byte, fileType, fileName string) string
}

type SummaryGenerator interface {
	Summary(ctx context.Context, text string) (string, error)
	KeyPoints(ctx context.Context, text string) (string, error)
	Ask(ctx context.Context, text, question string) (string, error)
}

type DefaultContentService struct {
	ContentRepo ContentRepository
	CommentRepo CommentRepository
	Storage     storage.ObjectStorage
	Extractor   TextExtractor
	AI          SummaryGenerator
	Policy      *policy.ContentPolicy
	Cache       *cache.FeedCache
	Validate    *validator.Validate
}

func NewContentService(
	contentRepo ContentRepository,
	commentRepo CommentRepository,
	objStorage storage.ObjectStorage,
	extractor TextExtractor,
	ai SummaryGenerator,
	contentPolicy *policy.ContentPolicy,
	feedCache *cache.FeedCache,
	validate *validator.Validate,
) *DefaultContentService {
	return &DefaultContentService{
		ContentRepo: contentRepo,
		CommentRepo: commentRepo,
		Storage:     objStorage,
		Extractor:   extractor,
		AI:          ai,
		Policy:      contentPolicy,
		Cache:       feedCache,
		Validate:    validate,
	}
}

// GetFeed serves one page of the public feed. The generic page is
// cached by (page, size); the liked-by-viewer overlay is computed per
// request on a copy and never enters the cache.
func (s *DefaultContentService) GetFeed(page, size int, viewer *entity.User) (*contract.FeedResponse, apierror.ErrorResponse) {
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = DefaultFeedPageSize
	}

	resp, ok := s.Cache.Get(page, size)
	if !ok {
		var apierr apierror.ErrorResponse
		resp, apierr = s.fetchPage(page, size)
		if apierr != nil {
			return nil, apierr
		}
		s.Cache.Put(page, size, resp)
	}

	if viewer == nil {
		return resp, nil
	}
	return s.personalize(resp, viewer)
}

func (s *DefaultContentService) fetchPage(page, size int) (*contract.FeedResponse, apierror.ErrorResponse) {
	contents, total, err := s.ContentRepo.FindPage(page, size)
	if err != nil {
		log.Errorf("failed to fetch feed page %d/%d: %v", page, size, err)
		return nil, apierror.InternalServerError
	}

	items := make([]*contract.ContentResponse, len(contents))
	for i, content := range contents {
		item, apierr := s.toContentResponse(content)
		if apierr != nil {
			return nil, apierr
		}
		items[i] = item
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return &contract.FeedResponse{
		Items:         items,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

// personalize clones the cached items before flagging likes, since the
// cached page is shared across requests.
func (s *DefaultContentService) personalize(resp *contract.FeedResponse, viewer *entity.User) (*contract.FeedResponse, apierror.ErrorResponse) {
	items := make([]*contract.ContentResponse, len(resp.Items))
	for i, item := range resp.Items {
		clone := *item
		liked, err := s.ContentRepo.IsLikedBy(item.ID, viewer.ID)
		if err != nil {
			log.Errorf("failed to check like state for content %d: %v", item.ID, err)
			return nil, apierror.InternalServerError
		}
		clone.LikedByCurrentUser = liked
		items[i] = &clone
	}

	return &contract.FeedResponse{
		Items:         items,
		Page:          resp.Page,
		Size:          resp.Size,
		TotalElements: resp.TotalElements,
		TotalPages:    resp.TotalPages,
	}, nil
}

func (s *DefaultContentService) Upload(ctx context.Context, actor *entity.User, description string, fileHeader *multipart.FileHeader, baseURL string) (*contract.UploadResponse, apierror.ErrorResponse) {
	if apierr := checkUploadFile(fileHeader); apierr != nil {
		return nil, apierr
	}

	data, apierr := readUploadFile(fileHeader)
	if apierr != nil {
		return nil, apierr
	}

	fileType := fileHeader.Header.Get("Content-Type")
	key := "uploads/" + uuid.NewString() + filepath.Ext(fileHeader.Filename)
	if err := s.Storage.Upload(ctx, key, data, fileType); err != nil {
		log.Errorf("failed to upload object %s: %v", key, err)
		return nil, apierror.InternalServerError
	}

	content := &entity.Content{
		ID:          uid.Generate(),
		FileName:    fileHeader.Filename,
		Description: strings.TrimSpace(description),
		FileType:    fileType,
		FileSize:    fileHeader.Size,
		UploadDate:  utils.NowUTC(),
		FileURL:     key,
		UserID:      actor.ID,
	}

	if err := s.ContentRepo.Save(content); err != nil {
		log.Errorf("failed to save content record: %v", err)
		return nil, apierror.InternalServerError
	}

	s.Cache.Flush()
	return &contract.UploadResponse{
		ID:          content.ID,
		FileName:    content.FileName,
		FileType:    content.FileType,
		FileSize:    content.FileSize,
		DownloadURL: fmt.Sprintf("%s/api/content/%d/download", baseURL, content.ID),
	}, nil
}

func (s *DefaultContentService) AddLink(actor *entity.User, req *contract.LinkRequest) (*contract.UploadResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	fileType := contract.FileTypeLink
	if strings.Contains(req.URL, "youtube.com") || strings.Contains(req.URL, "youtu.be") {
		fileType = contract.FileTypeYouTube
	}

	content := &entity.Content{
		ID:          uid.Generate(),
		FileName:    req.URL,
		Description: req.Description,
		FileType:    fileType,
		FileSize:    0,
		UploadDate:  utils.NowUTC(),
		FileURL:     req.URL,
		UserID:      actor.ID,
	}

	if err := s.ContentRepo.Save(content); err != nil {
		log.Errorf("failed to save link record: %v", err)
		return nil, apierror.InternalServerError
	}

	s.Cache.Flush()
	return &contract.UploadResponse{
		ID:          content.ID,
		FileName:    content.FileName,
		FileType:    content.FileType,
		FileSize:    content.FileSize,
		DownloadURL: req.URL,
	}, nil
}

// Delete removes a content record and its backing object. The object
// deletion is best-effort: the relational record must go away even when
// the store refuses.
func (s *DefaultContentService) Delete(ctx context.Context, caller *entity.User, id int64) apierror.ErrorResponse {
	content, apierr := s.fetchContent(id)
	if apierr != nil {
		return apierr
	}

	if perr := s.Policy.CanDelete(caller, content); perr != nil {
		return perr
	}

	if !content.IsExternalLink() {
		if err := s.Storage.Delete(ctx, content.FileURL); err != nil {
			log.Errorf("failed to delete object %s, record will still be removed: %v", content.FileURL, err)
		}
	}

	if err := s.ContentRepo.Delete(content); err != nil {
		log.Errorf("failed to delete content %d: %v", id, err)
		return apierror.InternalServerError
	}

	s.Cache.Flush()
	return nil
}

func (s *DefaultContentService) Download(ctx context.Context, id int64) ([]byte, *entity.Content, apierror.ErrorResponse) {
	content, apierr := s.fetchContent(id)
	if apierr != nil {
		return nil, nil, apierr
	}

	if content.IsExternalLink() {
		return nil, nil, apierror.ExternalLinkDownloadError
	}

	data, err := s.Storage.Download(ctx, content.FileURL)
	if err != nil {
		log.Errorf("failed to download object %s: %v", content.FileURL, err)
		return nil, nil, apierror.InternalServerError
	}
	return data, content, nil
}

// Summarize regenerates and overwrites the stored summary and key
// points. Re-invoking is idempotent by design.
func (s *DefaultContentService) Summarize(ctx context.Context, id int64) (*contract.SummaryResponse, apierror.ErrorResponse) {
	content, apierr := s.fetchContent(id)
	if apierr != nil {
		return nil, apierr
	}

	if content.IsExternalLink() {
		return nil, apierror.ExternalLinkSummaryError
	}

	data, err := s.Storage.Download(ctx, content.FileURL)
	if err != nil {
		log.Errorf("failed to download object %s: %v", content.FileURL, err)
		return nil, apierror.InternalServerError
	}

	text := s.Extractor.Text(data, content.FileType, content.FileName)

	summary, err := s.AI.Summary(ctx, text)
	if err != nil {
		log.Errorf("summary generation failed for content %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	points, err := s.AI.KeyPoints(ctx, text)
	if err != nil {
		log.Errorf("key point generation failed for content %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	content.Summary = summary
	content.KeyPoints = points
	if err := s.ContentRepo.Save(content); err != nil {
		log.Errorf("failed to persist summary for content %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	return &contract.SummaryResponse{
		ContentID: content.ID,
		Summary:   summary,
		KeyPoints: points,
	}, nil
}

func (s *DefaultContentService) GetSummary(id int64) (*contract.SummaryResponse, apierror.ErrorResponse) {
	content, apierr := s.fetchContent(id)
	if apierr != nil {
		return nil, apierr
	}

	return &contract.SummaryResponse{
		ContentID: content.ID,
		Summary:   content.Summary,
		KeyPoints: content.KeyPoints,
	}, nil
}

// Ask answers a free-form question about a stored document.
func (s *DefaultContentService) Ask(ctx context.Context, id int64, req *contract.ChatRequest) (*contract.ChatResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	content, apierr := s.fetchContent(id)
	if apierr != nil {
		return nil, apierr
	}

	if content.IsExternalLink() {
		return nil, apierror.ExternalLinkSummaryError
	}

	data, err := s.Storage.Download(ctx, content.FileURL)
	if err != nil {
		log.Errorf("failed to download object %s: %v", content.FileURL, err)
		return nil, apierror.InternalServerError
	}

	text := s.Extractor.Text(data, content.FileType, content.FileName)
	answer, err := s.AI.Ask(ctx, text, req.Question)
	if err != nil {
		log.Errorf("chat answer failed for content %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	return &contract.ChatResponse{ContentID: content.ID, Answer: answer}, nil
}

func (s *DefaultContentService) GetContent(id int64) (*contract.ContentResponse, apierror.ErrorResponse) {
	content, apierr := s.fetchContent(id)
	if apierr != nil {
		return nil, apierr
	}
	return s.toContentResponse(content)
}

func (s *DefaultContentService) GetMyContents(email string) ([]*contract.ContentResponse, apierror.ErrorResponse) {
	contents, err := s.ContentRepo.FindByOwnerEmail(email)
	if err != nil {
		log.Errorf("failed to fetch contents of %s: %v", email, err)
		return nil, apierror.InternalServerError
	}

	items := make([]*contract.ContentResponse, len(contents))
	for i, content := range contents {
		item, apierr := s.toContentResponse(content)
		if apierr != nil {
			return nil, apierr
		}
		items[i] = item
	}
	return items, nil
}

func (s *DefaultContentService) fetchContent(id int64) (*entity.Content, apierror.ErrorResponse) {
	content, err := s.ContentRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch content %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if content == nil {
		return nil, apierror.ContentNotFoundError
	}
	return content, nil
}

func (s *DefaultContentService) toContentResponse(content *entity.Content) (*contract.ContentResponse, apierror.ErrorResponse) {
	commentCount, err := s.CommentRepo.CountByContentID(content.ID)
	if err != nil {
		log.Errorf("failed to count comments of content %d: %v", content.ID, err)
		return nil, apierror.InternalServerError
	}

	fileURL := content.FileURL
	if !content.IsExternalLink() {
		fileURL = s.Storage.PublicURL(content.FileURL)
	}

	return &contract.ContentResponse{
		ID:            content.ID,
		FileName:      content.FileName,
		Description:   content.Description,
		FileType:      content.FileType,
		FileSize:      content.FileSize,
		UploadDate:    utils.FormatEpoch(content.UploadDate),
		FileURL:       fileURL,
		UploadedBy:    content.User.DisplayName(),
		UploaderImage: content.User.ProfilePicture,
		LikeCount:     len(content.Likes),
		CommentCount:  commentCount,
	}, nil
}

func checkUploadFile(fileHeader *multipart.FileHeader) apierror.ErrorResponse {
	if fileHeader == nil || fileHeader.Size == 0 {
		return apierror.EmptyFileError
	}

	fileType := fileHeader.Header.Get("Content-Type")
	if !utils.IsAllowedMimeType(fileType, contract.AllowedUploadTypes) {
		return apierror.NewInvalidFileTypeError(fileType)
	}

	if fileHeader.Size > contract.MaxUploadSizeBytes {
		return apierror.NewFileTooLargeError(contract.MaxUploadSizeBytes)
	}
	return nil
}

func readUploadFile(fileHeader *multipart.FileHeader) ([]byte, apierror.ErrorResponse) {
	file, err := fileHeader.Open()
	if err != nil {
		log.Errorf("failed to open file: %v", err)
		return nil, apierror.InternalServerError
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Errorf("failed to read file: %v", err)
		return nil, apierror.InternalServerError
	}
	return data, nil
}
