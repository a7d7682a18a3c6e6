package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
)

const (
	documentBase     = "api/merchantdocument"
	DocumentPageSize = 20
)

// DocumentService manages merchant verification documents. Transfers go through a
// client with the longer upload timeout.
type DocumentService struct {
	API      *apiclient.Client
	Transfer *apiclient.Client
}

func NewDocumentService(api *apiclient.Client, uploadTimeout time.Duration) *DocumentService {
	transfer := api
	if uploadTimeout > 0 {
		transfer = api.WithTimeout(uploadTimeout)
	}
	return &DocumentService{API: api, Transfer: transfer}
}

func (s *DocumentService) List(ctx context.Context, merchantID uuid.UUID, docType, status string, page int) (domain.PagedResult[domain.MerchantDocument], error) {
	q := pageQuery(page, DocumentPageSize)
	q.Set("merchantId", merchantID.String())
	if docType != "" {
		q.Set("documentType", docType)
	}
	if status != "" {
		q.Set("status", status)
	}
	return apiclient.Get[domain.PagedResult[domain.MerchantDocument]](ctx, s.API, documentBase+"?"+q.Encode())
}

func (s *DocumentService) Progress(ctx context.Context, merchantID uuid.UUID) (domain.DocumentProgress, error) {
	return apiclient.Get[domain.DocumentProgress](ctx, s.API, documentBase+"/progress/"+merchantID.String())
}

func (s *DocumentService) RequiredTypes(ctx context.Context) ([]domain.DocumentType, error) {
	return apiclient.Get[[]domain.DocumentType](ctx, s.API, documentBase+"/required-types")
}

// Page loads the list with the progress and required types. Only the list is required.
func (s *DocumentService) Page(ctx context.Context, merchantID uuid.UUID, docType, status string, page int) (domain.DocumentsView, error) {
	view := domain.DocumentsView{DocumentType: docType, Status: status, RequiredTypes: []domain.DocumentType{}}
	docs, err := s.List(ctx, merchantID, docType, status, page)
	if err != nil {
		view.Documents = domain.EmptyPage[domain.MerchantDocument](page, DocumentPageSize)
		return view, err
	}
	view.Documents = docs
	if p, err := s.Progress(ctx, merchantID); err == nil {
		view.Progress = &p
	}
	if t, err := s.RequiredTypes(ctx); err == nil && t != nil {
		view.RequiredTypes = t
	}
	return view, nil
}

func (s *DocumentService) Upload(ctx context.Context, up domain.DocumentUpload) (domain.MerchantDocument, error) {
	if strings.TrimSpace(up.DocumentType) == "" || len(up.Content) == 0 {
		return domain.MerchantDocument{}, errx.Validation("A document type and a file are required")
	}
	fields := map[string]string{
		"MerchantId":   up.MerchantID.String(),
		"DocumentType": up.DocumentType,
	}
	if up.Notes != "" {
		fields["Notes"] = up.Notes
	}
	return apiclient.Upload[domain.MerchantDocument](ctx, s.Transfer, documentBase+"/upload", fields, apiclient.FilePart{
		Field:       "file",
		FileName:    up.FileName,
		ContentType: up.ContentType,
		Content:     up.Content,
	})
}

// Download returns the stored file unchanged.
func (s *DocumentService) Download(ctx context.Context, id uuid.UUID) (*apiclient.Download, error) {
	return s.Transfer.Download(ctx, documentBase+"/"+url.PathEscape(id.String())+"/download")
}

func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.API.Delete(ctx, documentBase+"/"+id.String())
}
