package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/socialnet-api/internal/service"
	"github.com/maheshrc27/socialnet-api/internal/transfer"
)

type UserHandler struct {
	s  service.UserService
	ps service.PostService
}

func NewUserHandler(service service.UserService, posts service.PostService) *UserHandler {
	return &UserHandler{s: service, ps: posts}
}

func (h *UserHandler) Register(r fiber.Router) {
	r.Post("/users", h.CreateUser)
	r.Get("/users/:userId", h.GetUserInfo)
	r.Get("/posts/user/:userId", h.ListPosts)
}

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var body transfer.UserCreation
	if err := parseBody(c, &body); err != nil {
		return writeError(c, err)
	}

	user, err := h.s.CreateUser(c.UserContext(), &body)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return writeError(c, err)
	}

	userInfo, err := h.s.GetUserInfo(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(userInfo.Profile())
}

func (h *UserHandler) ListPosts(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return writeError(c, err)
	}

	posts, err := h.ps.List(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}
