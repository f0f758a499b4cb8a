package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/socialnet-api/internal/service"
	"github.com/maheshrc27/socialnet-api/internal/transfer"
)

type ScheduledPostHandler struct {
	s service.ScheduledPostService
}

func NewScheduledPostHandler(service service.ScheduledPostService) *ScheduledPostHandler {
	return &ScheduledPostHandler{s: service}
}

func (h *ScheduledPostHandler) Register(r fiber.Router) {
	r.Post("/scheduled-posts", h.CreateScheduledPost)
	r.Post("/scheduled-posts/publish", h.PublishDuePosts)
	r.Get("/scheduled-posts/user/:userId", h.ListScheduledPosts)
	r.Get("/scheduled-posts/user/:userId/history", h.ListPublishHistory)
	r.Put("/scheduled-posts/:postId", h.UpdateScheduledPost)
	r.Delete("/scheduled-posts/:postId", h.DeleteScheduledPost)
	r.Post("/scheduled-posts/:postId/publish-now", h.PublishNow)
}

func (h *ScheduledPostHandler) CreateScheduledPost(c *fiber.Ctx) error {
	var body transfer.ScheduledPostCreation
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	if _, err := requester(c, body.UserID); err != nil {
		return writeError(c, err)
	}

	sp, err := h.s.Create(c.UserContext(), &body)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(sp)
}

func (h *ScheduledPostHandler) ListScheduledPosts(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return writeError(c, err)
	}

	posts, err := h.s.ListPending(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *ScheduledPostHandler) UpdateScheduledPost(c *fiber.Ctx) error {
	postID, err := paramID(c, "postId")
	if err != nil {
		return writeError(c, err)
	}

	var body transfer.ScheduledPostUpdate
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	requesterID, err := requester(c, body.UserID)
	if err != nil {
		return writeError(c, err)
	}

	sp, err := h.s.Update(c.UserContext(), postID, requesterID, body.Patch())
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(sp)
}

func (h *ScheduledPostHandler) DeleteScheduledPost(c *fiber.Ctx) error {
	postID, err := paramID(c, "postId")
	if err != nil {
		return writeError(c, err)
	}

	var body transfer.Requester
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	requesterID, err := requester(c, body.UserID)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.s.Delete(c.UserContext(), postID, requesterID); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

func (h *ScheduledPostHandler) PublishDuePosts(c *fiber.Ctx) error {
	posts, err := h.s.Sweep(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(transfer.SweepResult{
		Message: fmt.Sprintf("Published %d scheduled posts", len(posts)),
		Posts:   posts,
	})
}

func (h *ScheduledPostHandler) PublishNow(c *fiber.Ctx) error {
	postID, err := paramID(c, "postId")
	if err != nil {
		return writeError(c, err)
	}

	var body transfer.Requester
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}
	requesterID, err := requester(c, body.UserID)
	if err != nil {
		return writeError(c, err)
	}

	post, err := h.s.PublishNow(c.UserContext(), postID, requesterID)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *ScheduledPostHandler) ListPublishHistory(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return writeError(c, err)
	}
	if _, err := requester(c, userID); err != nil {
		return writeError(c, err)
	}

	history, err := h.s.History(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(history)
}
