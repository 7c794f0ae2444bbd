package services

import (
	"context"

	"declutteredWeb/internal/models"
	"declutteredWeb/internal/supabase"
	"declutteredWeb/utils"
)

// Size caps mirror what the processing service enforces, so bad
// uploads are rejected before any network call.
const (
	MaxImageBytes = 16 << 20
	MaxVideoBytes = 64 << 20
)

var allowedImageExts = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "bmp": true, "webp": true,
}

var allowedVideoExts = map[string]bool{
	"mp4": true, "mov": true, "webm": true, "avi": true,
}

// UploadService validates incoming files and writes durable copies
// into the storage buckets.
type UploadService struct {
	Storage       *supabase.Storage
	UploadsBucket string
	CroppedBucket string
	VideoBucket   string
}

func (s *UploadService) ValidateImage(filename string, size int64) error {
	if filename == "" {
		return models.ErrNoFile
	}
	if !allowedImageExts[utils.FileExt(filename)] {
		return models.ErrInvalidFileType
	}
	if size > MaxImageBytes {
		return models.ErrFileTooLarge
	}
	return nil
}

func (s *UploadService) ValidateVideo(filename string, size int64) error {
	if filename == "" {
		return models.ErrNoFile
	}
	if !allowedVideoExts[utils.FileExt(filename)] {
		return models.ErrInvalidFileType
	}
	if size > MaxVideoBytes {
		return models.ErrFileTooLarge
	}
	return nil
}

// StoreOriginal keeps the photo that went into a detection job.
func (s *UploadService) StoreOriginal(ctx context.Context, userID, filename string, data []byte) (string, error) {
	return s.Storage.Upload(ctx, s.UploadsBucket, utils.ObjectKey(userID, filename), data)
}

// StoreCrop keeps a durable copy of a detected object's crop, so the
// listing image outlives the processing service's scratch space.
func (s *UploadService) StoreCrop(ctx context.Context, userID, filename string, data []byte) (string, error) {
	return s.Storage.Upload(ctx, s.CroppedBucket, utils.ObjectKey(userID, filename), data)
}

func (s *UploadService) StoreVideo(ctx context.Context, userID, filename string, data []byte) (string, error) {
	if err := s.ValidateVideo(filename, int64(len(data))); err != nil {
		return "", err
	}
	return s.Storage.Upload(ctx, s.VideoBucket, utils.ObjectKey(userID, filename), data)
}
