package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	scholar "github.com/scholarbridge/scholar-api"
	"github.com/scholarbridge/scholar-api/middleware/tokenware"
)

type applicationPayload struct {
	ScholarshipID   string  `json:"scholarship_id"`
	UserEmail       string  `json:"user_email"`
	UserName        string  `json:"user_name"`
	Phone           string  `json:"phone_number"`
	Address         string  `json:"address"`
	Gender          string  `json:"gender"`
	Degree          string  `json:"degree"`
	SSCResult       string  `json:"ssc_result"`
	HSCResult       string  `json:"hsc_result"`
	StudyGap        string  `json:"study_gap"`
	ApplicationFees float64 `json:"application_fees"`
	ServiceCharge   float64 `json:"service_charge"`
}

func (p applicationPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ScholarshipID, validation.Required, is.UUID),
		validation.Field(&p.UserEmail, validation.Required, is.Email),
	)
}

// handleApplicationCreate files an application on behalf of the session
// holder. The applicant email defaults to the one in the session claims.
func (s *Server) handleApplicationCreate(c *fiber.Ctx) error {
	var payload applicationPayload
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid application payload").
			WithCode(fiber.StatusBadRequest)
	}

	if payload.UserEmail == "" {
		if claims, ok := tokenware.ClaimsFromFiber(c); ok {
			payload.UserEmail = claims.UserEmail()
		}
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid application payload").
			WithCode(fiber.StatusBadRequest)
	}

	var saved *scholar.AppliedScholarship

	handler := scholar.NewRecordApplicationHandler(s.repo).WithLogger(s.logger)
	err := handler.Execute(c.UserContext(), scholar.RecordApplicationMessage{
		ScholarshipID:   payload.ScholarshipID,
		UserEmail:       payload.UserEmail,
		UserName:        payload.UserName,
		Phone:           payload.Phone,
		Address:         payload.Address,
		Gender:          payload.Gender,
		Degree:          payload.Degree,
		SSCResult:       payload.SSCResult,
		HSCResult:       payload.HSCResult,
		StudyGap:        payload.StudyGap,
		ApplicationFees: payload.ApplicationFees,
		ServiceCharge:   payload.ServiceCharge,
		OnResponse: func(record *scholar.AppliedScholarship) {
			saved = record
		},
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(saved)
}

// handleApplicationList lists the session holder's applications, newest
// first.
func (s *Server) handleApplicationList(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		if claims, ok := tokenware.ClaimsFromFiber(c); ok {
			email = claims.UserEmail()
		}
	}

	if email == "" {
		return goerrors.New("email is required", goerrors.CategoryBadInput).
			WithCode(fiber.StatusBadRequest)
	}

	records, err := s.repo.Applications().ListByEmail(c.UserContext(), email)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not list applications")
	}

	return c.JSON(records)
}
