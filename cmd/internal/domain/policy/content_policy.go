package policy

import (
	"coursehub/cmd/internal/domain/entity"
	"coursehub/cmd/internal/utils/apierror"
)

// ContentPolicy encapsulates the business rules for content manipulation.
// It returns apierror.ErrorResponse directly for seamless integration
// with handlers.
type ContentPolicy struct{}

func NewContentPolicy() *ContentPolicy {
	return &ContentPolicy{}
}

// CanDelete checks whether the caller may delete the given content.
// A nil caller means a privileged/system deletion and skips the
// ownership check.
func (p *ContentPolicy) CanDelete(caller *entity.User, content *entity.Content) apierror.ErrorResponse {
	if caller == nil {
		return nil
	}

	if caller.Email != content.User.Email {
		return apierror.NewForbiddenError("only the owner can delete this content")
	}
	return nil
}
