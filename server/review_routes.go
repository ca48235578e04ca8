package server

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	scholar "github.com/scholarbridge/scholar-api"
)

type reviewPayload struct {
	ScholarshipID  string  `json:"scholarship_id"`
	UniversityName string  `json:"university_name"`
	UserEmail      string  `json:"user_email"`
	UserName       string  `json:"user_name"`
	UserImage      string  `json:"user_image"`
	Rating         float64 `json:"rating"`
	Comment        string  `json:"comment"`
}

func (p reviewPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ScholarshipID, validation.Required, is.UUID),
		validation.Field(&p.UserEmail, validation.Required, is.Email),
		validation.Field(&p.Rating, validation.Required, validation.Min(1.0), validation.Max(5.0)),
	)
}

func (s *Server) handleReviewCreate(c *fiber.Ctx) error {
	var payload reviewPayload
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid review payload").
			WithCode(fiber.StatusBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid review payload").
			WithCode(fiber.StatusBadRequest)
	}

	now := time.Now()
	record := &scholar.Review{
		ID:             uuid.New(),
		ScholarshipID:  uuid.MustParse(payload.ScholarshipID),
		UniversityName: payload.UniversityName,
		UserEmail:      scholar.NormalizeEmail(payload.UserEmail),
		UserName:       payload.UserName,
		UserImage:      payload.UserImage,
		Rating:         payload.Rating,
		Comment:        payload.Comment,
		ReviewDate:     &now,
	}

	saved, err := s.repo.Reviews().Create(c.UserContext(), record)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not store review")
	}

	return c.Status(fiber.StatusCreated).JSON(saved)
}

// handleReviewList returns reviews newest first, optionally scoped to one
// scholarship via ?scholarship_id=.
func (s *Server) handleReviewList(c *fiber.Ctx) error {
	if raw := c.Query("scholarship_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return goerrors.New("invalid scholarship id", goerrors.CategoryBadInput).
				WithCode(fiber.StatusBadRequest)
		}

		records, err := s.repo.Reviews().ListByScholarship(c.UserContext(), id)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not list reviews")
		}

		return c.JSON(records)
	}

	records, err := s.repo.Reviews().ListAll(c.UserContext())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not list reviews")
	}

	return c.JSON(records)
}
