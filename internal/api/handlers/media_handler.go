package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/socialnet-api/internal/service"
)

type MediaHandler struct {
	s service.MediaService
}

func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{s: service}
}

func (h *MediaHandler) Register(r fiber.Router) {
	r.Post("/media", h.UploadMedia)
}

func (h *MediaHandler) UploadMedia(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return writeError(c, &service.Error{Kind: service.ErrMissingField, Message: "file is required"})
	}

	upload, err := h.s.Upload(c.UserContext(), file)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(upload)
}
