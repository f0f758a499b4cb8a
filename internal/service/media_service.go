package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/maheshrc27/socialnet-api/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const maxMediaSize = 100 * 1024 * 1024

var allowedMediaTypes = map[string]struct{}{
	"mp4": {}, "mov": {}, "jpg": {}, "png": {}, "gif": {}, "webp": {},
}

type MediaService interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (*transfer.MediaUpload, error)
}

type mediaService struct {
	storage   ObjectStorage
	publicURL string
}

func NewMediaService(storage ObjectStorage, publicURL string) MediaService {
	return &mediaService{
		storage:   storage,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *mediaService) Upload(ctx context.Context, file *multipart.FileHeader) (*transfer.MediaUpload, error) {
	if file == nil {
		return nil, newError(ErrMissingField, "file is required")
	}
	if file.Size > maxMediaSize {
		return nil, newError(ErrInvalidMedia, "file is too large")
	}

	f, err := file.Open()
	if err != nil {
		return nil, newError(ErrInvalidMedia, "unable to open file")
	}
	defer f.Close()

	fileBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, newError(ErrInvalidMedia, "unable to read file")
	}

	kind, err := filetype.Match(fileBytes)
	if err != nil || kind == types.Unknown {
		return nil, newError(ErrInvalidMedia, "unsupported file type")
	}
	if _, ok := allowedMediaTypes[kind.Extension]; !ok {
		return nil, newError(ErrInvalidMedia, fmt.Sprintf("file type %s is not allowed", kind.Extension))
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, storageError("failed to generate media key", err)
	}
	key := id + "." + kind.Extension

	if err := s.storage.Upload(ctx, key, fileBytes, kind.MIME.Value); err != nil {
		return nil, storageError("failed to upload media", err)
	}

	return &transfer.MediaUpload{
		URL:         fmt.Sprintf("%s/%s", s.publicURL, key),
		Key:         key,
		ContentType: kind.MIME.Value,
		Size:        int64(len(fileBytes)),
	}, nil
}
