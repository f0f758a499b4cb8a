package service

import (
	"context"

	"github.com/maheshrc27/socialnet-api/internal/models"
	"github.com/maheshrc27/socialnet-api/internal/repository"
)

type PostService interface {
	List(ctx context.Context, userID int64) ([]*models.Post, error)
}

type postService struct {
	pr repository.PostRepository
}

func NewPostService(pr repository.PostRepository) PostService {
	return &postService{pr: pr}
}

func (s *postService) List(ctx context.Context, userID int64) ([]*models.Post, error) {
	posts, err := s.pr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storageError("failed to list posts", err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}
