package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"coursehub/cmd/internal/contract"
	"coursehub/cmd/internal/domain/entity"
	"coursehub/cmd/internal/domain/policy"
	"coursehub/cmd/internal/service/cache"
)

type contentFixture struct {
	service   *DefaultContentService
	repo      *fakeContentRepo
	comments  *fakeCommentRepo
	storage   *fakeStorage
	extractor *fakeExtractor
	ai        *fakeAI
	cache     *cache.FeedCache
}

func newContentFixture() *contentFixture {
	repo := newFakeContentRepo()
	comments := &fakeCommentRepo{}
	objStorage := newFakeStorage()
	extractor := &fakeExtractor{text: "extracted text"}
	ai := &fakeAI{}
	feedCache := cache.NewFeedCache()

	svc := NewContentService(
		repo, comments, objStorage, extractor, ai,
		policy.NewContentPolicy(), feedCache, newTestValidator())
	return &contentFixture{
		service:   svc,
		repo:      repo,
		comments:  comments,
		storage:   objStorage,
		extractor: extractor,
		ai:        ai,
		cache:     feedCache,
	}
}

func makeFileHeader(t *testing.T, name, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create multipart part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write multipart part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to parse multipart form: %v", err)
	}
	return form.File["file"][0]
}

func seedContent(f *contentFixture, owner *entity.User) *entity.Content {
	content := &entity.Content{
		ID:         77,
		FileName:   "notes.pdf",
		FileType:   "application/pdf",
		FileSize:   10,
		UploadDate: 1700000000000,
		FileURL:    "uploads/abc.pdf",
		UserID:     owner.ID,
		User:       *owner,
	}
	f.repo.contents[content.ID] = content
	f.storage.objects[content.FileURL] = []byte("%PDF-data")
	return content
}

func TestUploadStoresFileAndRecord(t *testing.T) {
	f := newContentFixture()
	actor := &entity.User{ID: 1, Email: "ana@test.dev", Name: "Ana"}
	fileHeader := makeFileHeader(t, "a.pdf", "application/pdf", []byte("0123456789"))

	resp, apierr := f.service.Upload(context.Background(), actor, "  my notes  ", fileHeader, "http://localhost:7070")
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}

	if resp.FileName != "a.pdf" {
		t.Errorf("expected file name a.pdf, got %s", resp.FileName)
	}
	if resp.FileType != "application/pdf" {
		t.Errorf("expected type application/pdf, got %s", resp.FileType)
	}
	if resp.FileSize != 10 {
		t.Errorf("expected size 10, got %d", resp.FileSize)
	}
	wantURL := fmt.Sprintf("http://localhost:7070/api/content/%d/download", resp.ID)
	if resp.DownloadURL != wantURL {
		t.Errorf("expected download url %s, got %s", wantURL, resp.DownloadURL)
	}

	if f.storage.uploadCalls != 1 {
		t.Errorf("expected 1 storage upload, got %d", f.storage.uploadCalls)
	}
	saved := f.repo.contents[resp.ID]
	if saved == nil {
		t.Fatal("content record was not persisted")
	}
	if saved.Description != "my notes" {
		t.Errorf("expected trimmed description, got %q", saved.Description)
	}
	if !strings.HasPrefix(saved.FileURL, "uploads/") {
		t.Errorf("expected object key under uploads/, got %s", saved.FileURL)
	}
	if _, ok := f.storage.objects[saved.FileURL]; !ok {
		t.Error("object bytes missing from storage")
	}
}

func TestUploadRejectsDisallowedTypeBeforeAnySideEffect(t *testing.T) {
	f := newContentFixture()
	actor := &entity.User{ID: 1, Email: "ana@test.dev"}
	fileHeader := makeFileHeader(t, "payload.zip", "application/zip", []byte("PK data"))

	_, apierr := f.service.Upload(context.Background(), actor, "", fileHeader, "http://localhost:7070")
	if apierr == nil {
		t.Fatal("expected an error for disallowed type")
	}
	if apierr.Code() != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", apierr.Code())
	}
	if f.storage.uploadCalls != 0 {
		t.Errorf("storage was called %d times for a rejected upload", f.storage.uploadCalls)
	}
	if f.repo.saveCalls != 0 {
		t.Errorf("repository was called %d times for a rejected upload", f.repo.saveCalls)
	}
}

func TestUploadRejectsOversizedFileBeforeAnySideEffect(t *testing.T) {
	f := newContentFixture()
	actor := &entity.User{ID: 1, Email: "ana@test.dev"}
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", "video/mp4")
	fileHeader := &multipart.FileHeader{
		Filename: "lecture.mp4",
		Header:   header,
		Size:     contract.MaxUploadSizeBytes + 1,
	}

	_, apierr := f.service.Upload(context.Background(), actor, "", fileHeader, "http://localhost:7070")
	if apierr == nil {
		t.Fatal("expected an error for an oversized file")
	}
	if apierr.Code() != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", apierr.Code())
	}
	if f.storage.uploadCalls != 0 || f.repo.saveCalls != 0 {
		t.Error("oversized upload must not touch storage or persistence")
	}
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	f := newContentFixture()
	actor := &entity.User{ID: 1, Email: "ana@test.dev"}
	fileHeader := &multipart.FileHeader{Filename: "empty.pdf", Header: textproto.MIMEHeader{}, Size: 0}

	_, apierr := f.service.Upload(context.Background(), actor, "", fileHeader, "http://localhost:7070")
	if apierr == nil || apierr.Code() != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty file, got %v", apierr)
	}
}

func TestAddLinkInfersYouTubeType(t *testing.T) {
	f := newContentFixture()
	actor := &entity.User{ID: 1, Email: "ana@test.dev"}

	resp, apierr := f.service.AddLink(actor, &contract.LinkRequest{URL: "https://youtu.be/dQw4w9WgXcQ"})
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	if resp.FileType != contract.FileTypeYouTube {
		t.Errorf("expected %s, got %s", contract.FileTypeYouTube, resp.FileType)
	}
	if resp.FileSize != 0 {
		t.Errorf("expected size 0 for a link, got %d", resp.FileSize)
	}
	if resp.DownloadURL != "https://youtu.be/dQw4w9WgXcQ" {
		t.Errorf("expected the link itself as download url, got %s", resp.DownloadURL)
	}
}

func TestAddLinkGenericType(t *testing.T) {
	f := newContentFixture()
	actor := &entity.User{ID: 1, Email: "ana@test.dev"}

	resp, apierr := f.service.AddLink(actor, &contract.LinkRequest{URL: "https://example.com/article"})
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	if resp.FileType != contract.FileTypeLink {
		t.Errorf("expected %s, got %s", contract.FileTypeLink, resp.FileType)
	}
}

func TestDeleteByNonOwnerIsForbidden(t *testing.T) {
	f := newContentFixture()
	owner := &entity.User{ID: 1, Email: "owner@test.dev"}
	content := seedContent(f, owner)
	stranger := &entity.User{ID: 2, Email: "stranger@test.dev"}

	apierr := f.service.Delete(context.Background(), stranger, content.ID)
	if apierr == nil {
		t.Fatal("expected a forbidden error")
	}
	if apierr.Code() != http.StatusForbidden {
		t.Errorf("expected 403, got %d", apierr.Code())
	}
	if f.repo.contents[content.ID] == nil {
		t.Error("record must survive a forbidden delete")
	}
	if f.storage.deleteCalls != 0 {
		t.Error("object must survive a forbidden delete")
	}
}

func TestDeleteRemovesObjectAndRecord(t *testing.T) {
	f := newContentFixture()
	owner := &entity.User{ID: 1, Email: "owner@test.dev"}
	content := seedContent(f, owner)

	if apierr := f.service.Delete(context.Background(), owner, content.ID); apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	if f.repo.contents[content.ID] != nil {
		t.Error("record was not deleted")
	}
	if _, ok := f.storage.objects[content.FileURL]; ok {
		t.Error("object was not deleted")
	}
}

func TestDeleteSurvivesStorageFailure(t *testing.T) {
	f := newContentFixture()
	owner := &entity.User{ID: 1, Email: "owner@test.dev"}
	content := seedContent(f, owner)
	f.storage.deleteErr = fmt.Errorf("s3 unavailable")

	if apierr := f.service.Delete(context.Background(), owner, content.ID); apierr != nil {
		t.Fatalf("record deletion must not fail on storage errors, got: %v", apierr)
	}
	if f.repo.contents[content.ID] != nil {
		t.Error("record was not deleted")
	}
}

func TestDeleteExternalLinkSkipsStorage(t *testing.T) {
	f := newContentFixture()
	owner := &entity.User{ID: 1, Email: "owner@test.dev"}
	content := &entity.Content{
		ID:       88,
		FileName: "https://example.com/article",
		FileType: contract.FileTypeLink,
		FileURL:  "https://example.com/article",
		UserID:   owner.ID,
		User:     *owner,
	}
	f.repo.contents[content.ID] = content

	if apierr := f.service.Delete(context.Background(), owner, content.ID); apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	if f.storage.deleteCalls != 0 {
		t.Error("storage must not be touched when deleting an external link")
	}
}

func TestFeedPageIsCachedUntilWrite(t *testing.T) {
	f := newContentFixture()
	owner := &entity.User{ID: 1, Email: "owner@test.dev", Name: "Owner"}
	seedContent(f, owner)

	first, apierr := f.service.GetFeed(0, 10, nil)
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	second, apierr := f.service.GetFeed(0, 10, nil)
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}

	if f.repo.findPageCalls != 1 {
		t.Errorf("expected 1 repository query across both reads, got %d", f.repo.findPageCalls)
	}
	if len(first.Items) != len(second.Items) || first.TotalElements != second.TotalElements {
		t.Error("cached page differs from the original")
	}

	// Any write flushes the whole cache.
	actor := &entity.User{ID: 2, Email: "other@test.dev"}
	if _, apierr := f.service.AddLink(actor, &contract.LinkRequest{URL: "https://example.com/x"}); apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	if _, apierr := f.service.GetFeed(0, 10, nil); apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	if f.repo.findPageCalls != 2 {
		t.Errorf("expected a fresh query after a write, got %d queries", f.repo.findPageCalls)
	}
}

func TestFeedPersonalizationNeverEntersCache(t *testing.T) {
	f := newContentFixture()
	owner := &entity.User{ID: 1, Email: "owner@test.dev", Name: "Owner"}
	viewer := &entity.User{ID: 2, Email: "viewer@test.dev"}
	content := seedContent(f, owner)
	content.Likes = append(content.Likes, viewer)

	personalized, apierr := f.service.GetFeed(0, 10, viewer)
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	if !personalized.Items[0].LikedByCurrentUser {
		t.Error("expected liked flag for the viewer")
	}

	anonymous, apierr := f.service.GetFeed(0, 10, nil)
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	if anonymous.Items[0].LikedByCurrentUser {
		t.Error("liked flag leaked into the shared cached page")
	}
}

func TestFeedClampsPageAndSize(t *testing.T) {
	f := newContentFixture()

	resp, apierr := f.service.GetFeed(-3, 0, nil)
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	if resp.Page != 0 {
		t.Errorf("expected page clamped to 0, got %d", resp.Page)
	}
	if resp.Size != DefaultFeedPageSize {
		t.Errorf("expected default size %d, got %d", DefaultFeedPageSize, resp.Size)
	}
}

func TestSummarizeExternalLinkFailsWithoutSideEffects(t *testing.T) {
	f := newContentFixture()
	owner := &entity.User{ID: 1, Email: "owner@test.dev"}
	content := &entity.Content{
		ID:      99,
		FileURL: "https://example.com/article",
		UserID:  owner.ID,
		User:    *owner,
	}
	f.repo.contents[content.ID] = content

	_, apierr := f.service.Summarize(context.Background(), content.ID)
	if apierr == nil {
		t.Fatal("expected an error summarizing an external link")
	}
	if apierr.Code() != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", apierr.Code())
	}
	if f.extractor.calls != 0 {
		t.Error("extractor must not run for external links")
	}
	if f.ai.summaryCalls != 0 || f.ai.keyPointCalls != 0 {
		t.Error("model must not run for external links")
	}
}

func TestSummarizePersistsGeneratedFields(t *testing.T) {
	f := newContentFixture()
	owner := &entity.User{ID: 1, Email: "owner@test.dev"}
	content := seedContent(f, owner)

	resp, apierr := f.service.Summarize(context.Background(), content.ID)
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	if resp.Summary != "generated summary" || resp.KeyPoints != "- generated point" {
		t.Errorf("unexpected summary payload: %+v", resp)
	}
	if content.Summary != "generated summary" || content.KeyPoints != "- generated point" {
		t.Error("generated fields were not persisted on the record")
	}

	stored, apierr := f.service.GetSummary(content.ID)
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	if stored.Summary != resp.Summary {
		t.Error("stored summary differs from the generated one")
	}
}

func TestDownloadExternalLinkFails(t *testing.T) {
	f := newContentFixture()
	owner := &entity.User{ID: 1, Email: "owner@test.dev"}
	content := &entity.Content{
		ID:      100,
		FileURL: "http://example.com/article",
		UserID:  owner.ID,
		User:    *owner,
	}
	f.repo.contents[content.ID] = content

	_, _, apierr := f.service.Download(context.Background(), content.ID)
	if apierr == nil || apierr.Code() != http.StatusBadRequest {
		t.Fatalf("expected 400 downloading an external link, got %v", apierr)
	}
}

func TestDownloadReturnsStoredBytes(t *testing.T) {
	f := newContentFixture()
	owner := &entity.User{ID: 1, Email: "owner@test.dev"}
	content := seedContent(f, owner)

	data, got, apierr := f.service.Download(context.Background(), content.ID)
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	if string(data) != "%PDF-data" {
		t.Errorf("unexpected payload: %q", data)
	}
	if got.FileName != content.FileName {
		t.Errorf("unexpected content record: %+v", got)
	}
}

func TestAskAnswersQuestionAboutDocument(t *testing.T) {
	f := newContentFixture()
	owner := &entity.User{ID: 1, Email: "owner@test.dev"}
	content := seedContent(f, owner)

	resp, apierr := f.service.Ask(context.Background(), content.ID, &contract.ChatRequest{Question: "what is this about?"})
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	if resp.Answer != "generated answer" {
		t.Errorf("unexpected answer: %s", resp.Answer)
	}
	if f.ai.askCalls != 1 {
		t.Errorf("expected 1 model call, got %d", f.ai.askCalls)
	}
}

func TestAskRejectsBlankQuestion(t *testing.T) {
	f := newContentFixture()
	owner := &entity.User{ID: 1, Email: "owner@test.dev"}
	content := seedContent(f, owner)

	_, apierr := f.service.Ask(context.Background(), content.ID, &contract.ChatRequest{Question: "   "})
	if apierr == nil || apierr.Code() != http.StatusBadRequest {
		t.Fatalf("expected 400 for a blank question, got %v", apierr)
	}
	if f.ai.askCalls != 0 {
		t.Error("model must not run for an invalid question")
	}
}

func TestGetContentUnknownIDIs404(t *testing.T) {
	f := newContentFixture()

	_, apierr := f.service.GetContent(12345)
	if apierr == nil || apierr.Code() != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", apierr)
	}
}

func TestGetMyContentsFiltersByOwner(t *testing.T) {
	f := newContentFixture()
	owner := &entity.User{ID: 1, Email: "owner@test.dev", Name: "Owner"}
	other := &entity.User{ID: 2, Email: "other@test.dev"}
	seedContent(f, owner)
	f.repo.contents[500] = &entity.Content{
		ID: 500, FileName: "other.pdf", FileType: "application/pdf",
		FileURL: "uploads/other.pdf", UserID: other.ID, User: *other,
	}

	mine, apierr := f.service.GetMyContents(owner.Email)
	if apierr != nil {
		t.Fatalf("unexpected error: %v", apierr)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 content, got %d", len(mine))
	}
	if mine[0].UploadedBy != "Owner" {
		t.Errorf("unexpected uploader: %s", mine[0].UploadedBy)
	}
}
