package service

import (
	"context"
	"path"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/policy"
	"inkwell/internal/repository"

	"github.com/google/uuid"
)

// MediaService manages the media library's metadata. File bytes live in an
// external store; the API records stored names, sizes and descriptions and
// hands out URLs under a configured base.
type MediaService struct {
	mediaRepo    repository.MediaRepository
	baseURL      string
	maxSizeBytes int64
}

// NewMediaService returns a MediaService. maxSizeMB caps what registration
// accepts.
func NewMediaService(mediaRepo repository.MediaRepository, baseURL string, maxSizeMB int) *MediaService {
	return &MediaService{
		mediaRepo:    mediaRepo,
		baseURL:      strings.TrimRight(baseURL, "/"),
		maxSizeBytes: int64(maxSizeMB) * 1024 * 1024,
	}
}

type RegisterMediaInput struct {
	Actor        policy.Actor
	OriginalName string
	MimeType     string
	SizeBytes    int64
	AltText      string
	Caption      string
}

func (s *MediaService) RegisterMedia(ctx context.Context, in RegisterMediaInput) (*models.Media, error) {
	if !policy.Allows(in.Actor, policy.OpMediaManage, in.Actor.ID) {
		return nil, models.NewPermissionDeniedError("media management requires editor access")
	}
	if strings.TrimSpace(in.OriginalName) == "" {
		return nil, models.NewValidationError("original_name is required")
	}
	if in.MimeType == "" {
		return nil, models.NewValidationError("mime_type is required")
	}
	if in.SizeBytes <= 0 {
		return nil, models.NewValidationError("size_bytes must be positive")
	}
	if in.SizeBytes > s.maxSizeBytes {
		return nil, models.NewValidationError("file exceeds the maximum allowed size")
	}

	// Stored names are opaque; the original name survives only as metadata.
	fileName := uuid.NewString() + strings.ToLower(path.Ext(in.OriginalName))
	media := &models.Media{
		FileName:     fileName,
		OriginalName: in.OriginalName,
		MimeType:     in.MimeType,
		SizeBytes:    in.SizeBytes,
		URL:          s.baseURL + "/" + fileName,
		AltText:      in.AltText,
		Caption:      in.Caption,
		UploaderID:   in.Actor.ID,
	}
	if err := s.mediaRepo.Create(ctx, media); err != nil {
		return nil, err
	}
	observability.MediaUploadBytes.Observe(float64(in.SizeBytes))
	return media, nil
}

type UpdateMediaInput struct {
	Actor   policy.Actor
	MediaID uint
	AltText *string
	Caption *string
}

func (s *MediaService) UpdateMedia(ctx context.Context, in UpdateMediaInput) (*models.Media, error) {
	if !policy.Allows(in.Actor, policy.OpMediaManage, in.Actor.ID) {
		return nil, models.NewPermissionDeniedError("media management requires editor access")
	}
	media, err := s.mediaRepo.GetByID(ctx, in.MediaID)
	if err != nil {
		return nil, err
	}
	if in.AltText != nil {
		media.AltText = *in.AltText
	}
	if in.Caption != nil {
		media.Caption = *in.Caption
	}
	if err := s.mediaRepo.Update(ctx, media); err != nil {
		return nil, err
	}
	return media, nil
}

func (s *MediaService) DeleteMedia(ctx context.Context, actor policy.Actor, mediaID uint) error {
	if !policy.Allows(actor, policy.OpMediaManage, actor.ID) {
		return models.NewPermissionDeniedError("media management requires editor access")
	}
	if _, err := s.mediaRepo.GetByID(ctx, mediaID); err != nil {
		return err
	}
	return s.mediaRepo.Delete(ctx, mediaID)
}

// MediaPage is one page of the media library.
type MediaPage struct {
	Media []models.Media `json:"media"`
	Total int64          `json:"total"`
}

// ListMedia returns the library, optionally filtered to one uploader.
func (s *MediaService) ListMedia(ctx context.Context, actor policy.Actor, uploaderID uint, limit, offset int) (*MediaPage, error) {
	if !policy.Allows(actor, policy.OpMediaManage, actor.ID) {
		return nil, models.NewPermissionDeniedError("media management requires editor access")
	}
	media, err := s.mediaRepo.List(ctx, uploaderID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.mediaRepo.Count(ctx, uploaderID)
	if err != nil {
		return nil, err
	}
	return &MediaPage{Media: media, Total: total}, nil
}
