package handlers

import (
	"recipe-share/domain"
	"recipe-share/internal/api/presenters"
	"recipe-share/pkg/authz"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ReviewHandler interface {
		GetReviews(c *fiber.Ctx) error
		SubmitReview(c *fiber.Ctx) error
		DeleteReview(c *fiber.Ctx) error
	}

	reviewHandler struct {
		mediator  authz.Mediator
		validator *validator.Validate
	}
)

func NewReviewHandler(mediator authz.Mediator, validator *validator.Validate) ReviewHandler {
	return &reviewHandler{
		mediator:  mediator,
		validator: validator,
	}
}

func (h *reviewHandler) GetReviews(c *fiber.Ctx) error {
	res, err := h.mediator.ListReviews(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetReviews, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetReviews)
}

func (h *reviewHandler) SubmitReview(c *fiber.Ctx) error {
	req := new(domain.SubmitReviewRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	// Rating is range-checked by the mediator, after the self review check.
	if err := h.validator.StructExcept(req, "Rating"); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSubmitReview, err)
	}

	res, err := h.mediator.SubmitReview(c.Context(), identityFrom(c), c.Params("id"), *req)
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedSubmitReview, err)
	}

	if res.Created {
		return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateReview)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateReview)
}

func (h *reviewHandler) DeleteReview(c *fiber.Ctx) error {
	if err := h.mediator.DeleteReview(c.Context(), identityFrom(c), c.Params("id")); err != nil {
		return presenters.Failed(c, domain.MessageFailedDeleteReview, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteReview)
}
