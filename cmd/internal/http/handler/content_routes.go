package handler

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"coursehub/cmd/internal/contract"
	"coursehub/cmd/internal/domain/entity"
	"coursehub/cmd/internal/utils"
	"coursehub/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type ContentService interface {
	GetFeed(page, size int, viewer *entity.User) (*contract.FeedResponse, apierror.ErrorResponse)
	GetContent(id int64) (*contract.ContentResponse, apierror.ErrorResponse)
	GetMyContents(email string) ([]*contract.ContentResponse, apierror.ErrorResponse)
	Upload(ctx context.Context, actor *entity.User, description string, fileHeader *multipart.FileHeader, baseURL string) (*contract.UploadResponse, apierror.ErrorResponse)
	AddLink(actor *entity.User, req *contract.LinkRequest) (*contract.UploadResponse, apierror.ErrorResponse)
	Delete(ctx context.Context, caller *entity.User, id int64) apierror.ErrorResponse
	Download(ctx context.Context, id int64) ([]byte, *entity.Content, apierror.ErrorResponse)
	Summarize(ctx context.Context, id int64) (*contract.SummaryResponse, apierror.ErrorResponse)
	GetSummary(id int64) (*contract.SummaryResponse, apierror.ErrorResponse)
	Ask(ctx context.Context, id int64, req *contract.ChatRequest) (*contract.ChatResponse, apierror.ErrorResponse)
}

type DefaultContentRoute struct {
	ContentService ContentService
}

func NewContentDefault(contentService ContentService) *DefaultContentRoute {
	return &DefaultContentRoute{ContentService: contentService}
}

func (n *DefaultContentRoute) GetFeed(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))

	viewer := utils.OptionalUserFromContext(c)
	feed, apierr := n.ContentService.GetFeed(page, size, viewer)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, feed)
}

func (n *DefaultContentRoute) GetContent(c echo.Context) error {
	id, apierr := parseIDParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	content, apierr := n.ContentService.GetContent(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, content)
}

func (n *DefaultContentRoute) GetMyContents(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	contents, apierr := n.ContentService.GetMyContents(user.Email)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"contents": contents}
	return c.JSON(http.StatusOK, &resp)
}

func (n *DefaultContentRoute) Upload(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MissingFileError)
	}

	description := c.FormValue("description")
	resp, apierr := n.ContentService.Upload(c.Request().Context(), user, description, fileHeader, baseURL(c))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (n *DefaultContentRoute) AddLink(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.LinkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	resp, apierr := n.ContentService.AddLink(user, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (n *DefaultContentRoute) Delete(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, apierr := parseIDParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	if serr := n.ContentService.Delete(c.Request().Context(), user, id); serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return c.NoContent(http.StatusOK)
}

func (n *DefaultContentRoute) Download(c echo.Context) error {
	id, apierr := parseIDParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	data, content, apierr := n.ContentService.Download(c.Request().Context(), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, content.FileName))
	return c.Blob(http.StatusOK, content.FileType, data)
}

func (n *DefaultContentRoute) GenerateSummary(c echo.Context) error {
	id, apierr := parseIDParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp, apierr := n.ContentService.Summarize(c.Request().Context(), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (n *DefaultContentRoute) GetSummary(c echo.Context) error {
	id, apierr := parseIDParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp, apierr := n.ContentService.GetSummary(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (n *DefaultContentRoute) Chat(c echo.Context) error {
	id, apierr := parseIDParam(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req contract.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedJSONError)
	}

	resp, apierr := n.ContentService.Ask(c.Request().Context(), id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func parseIDParam(c echo.Context) (int64, apierror.ErrorResponse) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apierror.NewInvalidParamTypeError("id", "int64")
	}
	return id, nil
}

func baseURL(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host
}
