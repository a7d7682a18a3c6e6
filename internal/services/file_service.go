package services

import (
	"context"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
)

const (
	fileBase        = "api/v1/files/merchant"
	FilePageSize    = 20
	MaxFilePageSize = 100
	MaxFileSize     = 10 << 20
)

// storableTypes are the sniffed content types the file manager accepts.
var storableTypes = []string{
	"image/jpeg", "image/png", "image/gif", "image/webp",
	"application/pdf",
	"text/plain", "text/csv",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// FileService is the merchant's blob storage browser.
type FileService struct {
	API      *apiclient.Client
	Transfer *apiclient.Client
}

func NewFileService(api *apiclient.Client, uploadTimeout time.Duration) *FileService {
	transfer := api
	if uploadTimeout > 0 {
		transfer = api.WithTimeout(uploadTimeout)
	}
	return &FileService{API: api, Transfer: transfer}
}

func (s *FileService) List(ctx context.Context, page, size int) (domain.PagedResult[domain.StoredFile], error) {
	if size < 1 || size > MaxFilePageSize {
		size = FilePageSize
	}
	res, err := apiclient.Get[domain.PagedResult[domain.StoredFile]](ctx, s.API, fileBase+"?"+pageQuery(page, size).Encode())
	if err != nil {
		return domain.EmptyPage[domain.StoredFile](page, size), err
	}
	if res.Items == nil {
		res.Items = []domain.StoredFile{}
	}
	return res, nil
}

// Upload stores one file. The content type is sniffed from the bytes, never taken from
// the browser, and must be on the allowlist.
func (s *FileService) Upload(ctx context.Context, file apiclient.FilePart) (domain.FileUploadResponse, error) {
	if len(file.Content) == 0 {
		return domain.FileUploadResponse{}, errx.Validation("Choose a file to upload")
	}
	if len(file.Content) > MaxFileSize {
		return domain.FileUploadResponse{}, errx.Validation("Files may be at most 10 MB")
	}
	ct, ok := SniffStorable(file.Content)
	if !ok {
		return domain.FileUploadResponse{}, errx.Validation("This file type is not allowed")
	}
	file.Field = "file"
	file.ContentType = ct
	return apiclient.Upload[domain.FileUploadResponse](ctx, s.Transfer, fileBase+"/upload", nil, file)
}

// SniffStorable detects the content type of b and reports whether it may be stored.
func SniffStorable(b []byte) (string, bool) {
	mt := mimetype.Detect(b)
	for m := mt; m != nil; m = m.Parent() {
		if i := slices.IndexFunc(storableTypes, m.Is); i >= 0 {
			return storableTypes[i], true
		}
	}
	return mt.String(), false
}

func (s *FileService) Delete(ctx context.Context, container, name string) error {
	if !SafeBlobName(container) || !SafeBlobName(name) {
		return errx.Validation("Invalid file name")
	}
	return s.API.Delete(ctx, fileBase+"/"+url.PathEscape(container)+"/"+url.PathEscape(name))
}

// SafeBlobName rejects empty names and anything that could step out of the container.
func SafeBlobName(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && !strings.ContainsAny(s, `/\`) && !strings.Contains(s, "..")
}
