package service

import (
	"coursehub/cmd/internal/contract"
	"coursehub/cmd/internal/domain/entity"
	"coursehub/cmd/internal/service/cache"
	"coursehub/cmd/internal/utils"
	"coursehub/cmd/internal/utils/apierror"
	"coursehub/cmd/internal/utils/uid"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type Notifier interface {
	Create(recipient, actor *entity.User, content *entity.Content, typ entity.NotificationType) error
}

type DefaultInteractionService struct {
	ContentRepo ContentRepository
	CommentRepo CommentRepository
	Notifier    Notifier
	Cache       *cache.FeedCache
	Validate    *validator.Validate
}

func NewInteractionService(
	contentRepo ContentRepository,
	commentRepo CommentRepository,
	notifier Notifier,
	feedCache *cache.FeedCache,
	validate *validator.Validate,
) *DefaultInteractionService {
	return &DefaultInteractionService{
		ContentRepo: contentRepo,
		CommentRepo: commentRepo,
		Notifier:    notifier,
		Cache:       feedCache,
		Validate:    validate,
	}
}

// ToggleLike is its own inverse: present -> remove, absent -> add.
// Adding notifies the owner unless the actor likes their own content.
func (s *DefaultInteractionService) ToggleLike(contentID int64, actor *entity.User) (*contract.LikeResponse, apierror.ErrorResponse) {
	content, apierr := s.fetchContent(contentID)
	if apierr != nil {
		return nil, apierr
	}

	liked := !content.IsLikedBy(actor.ID)
	count := len(content.Likes)

	if liked {
		if err := s.ContentRepo.AddLike(content, actor); err != nil {
			log.Errorf("failed to add like on content %d: %v", contentID, err)
			return nil, apierror.InternalServerError
		}
		count++

		if err := s.Notifier.Create(&content.User, actor, content, entity.NotificationLike); err != nil {
			log.Errorf("failed to notify like on content %d: %v", contentID, err)
		}
	} else {
		if err := s.ContentRepo.RemoveLike(content, actor); err != nil {
			log.Errorf("failed to remove like on content %d: %v", contentID, err)
			return nil, apierror.InternalServerError
		}
		count--
	}

	s.Cache.Flush()
	return &contract.LikeResponse{
		ContentID: contentID,
		Liked:     liked,
		LikeCount: count,
	}, nil
}

func (s *DefaultInteractionService) AddComment(contentID int64, actor *entity.User, req *contract.CommentRequest) (*contract.CommentResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	content, apierr := s.fetchContent(contentID)
	if apierr != nil {
		return nil, apierr
	}

	comment := &entity.Comment{
		ID:        uid.Generate(),
		Text:      req.Text,
		UserID:    actor.ID,
		ContentID: contentID,
		CreatedAt: utils.NowUTC(),
	}

	if err := s.CommentRepo.Save(comment); err != nil {
		log.Errorf("failed to save comment on content %d: %v", contentID, err)
		return nil, apierror.InternalServerError
	}

	if err := s.Notifier.Create(&content.User, actor, content, entity.NotificationComment); err != nil {
		log.Errorf("failed to notify comment on content %d: %v", contentID, err)
	}

	s.Cache.Flush()
	return &contract.CommentResponse{
		ID:         comment.ID,
		Text:       comment.Text,
		Username:   actor.DisplayName(),
		UserAvatar: actor.ProfilePicture,
		CreatedAt:  utils.FormatEpoch(comment.CreatedAt),
	}, nil
}

func (s *DefaultInteractionService) GetComments(contentID int64) ([]*contract.CommentResponse, apierror.ErrorResponse) {
	if _, apierr := s.fetchContent(contentID); apierr != nil {
		return nil, apierr
	}

	comments, err := s.CommentRepo.FindByContentID(contentID)
	if err != nil {
		log.Errorf("failed to fetch comments of content %d: %v", contentID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.CommentResponse, len(comments))
	for i, c := range comments {
		resp[i] = &contract.CommentResponse{
			ID:         c.ID,
			Text:       c.Text,
			Username:   c.User.DisplayName(),
			UserAvatar: c.User.ProfilePicture,
			CreatedAt:  utils.FormatEpoch(c.CreatedAt),
		}
	}
	return resp, nil
}

func (s *DefaultInteractionService) fetchContent(id int64) (*entity.Content, apierror.ErrorResponse) {
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
