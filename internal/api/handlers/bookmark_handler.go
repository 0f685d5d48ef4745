package handlers

import (
	"recipe-share/domain"
	"recipe-share/internal/api/presenters"
	"recipe-share/pkg/authz"

	"github.com/gofiber/fiber/v2"
)

type (
	BookmarkHandler interface {
		ToggleBookmark(c *fiber.Ctx) error
		GetSavedRecipes(c *fiber.Ctx) error
	}

	bookmarkHandler struct {
		mediator authz.Mediator
	}
)

func NewBookmarkHandler(mediator authz.Mediator) BookmarkHandler {
	return &bookmarkHandler{mediator: mediator}
}

func (h *bookmarkHandler) ToggleBookmark(c *fiber.Ctx) error {
	res, err := h.mediator.ToggleBookmark(c.Context(), identityFrom(c), c.Params("id"))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedToggleBookmark, err)
	}

	message := domain.MessageSuccessUnsaveRecipe
	if res.Saved {
		message = domain.MessageSuccessSaveRecipe
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, message)
}

func (h *bookmarkHandler) GetSavedRecipes(c *fiber.Ctx) error {
	res, err := h.mediator.ListSaved(c.Context(), identityFrom(c))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetSaved, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetSaved)
}
