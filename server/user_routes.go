package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"

	scholar "github.com/scholarbridge/scholar-api"
)

type registrationPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone_number"`
	PhotoURL string `json:"photo_url"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

func (p registrationPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Role, validation.In(
			"",
			scholar.RoleUser,
			scholar.RoleModerator,
			scholar.RoleAdmin,
		)),
	)
}

// handleUserCreate registers a profile for an email, once. Replays of the
// same email get the existing record back instead of a duplicate.
func (s *Server) handleUserCreate(c *fiber.Ctx) error {
	var payload registrationPayload
	if err := c.BodyParser(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid user payload").
			WithCode(fiber.StatusBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid user payload").
			WithCode(fiber.StatusBadRequest)
	}

	var result *scholar.RegisterUserResponse

	handler := scholar.NewRegisterUserHandler(s.repo).WithLogger(s.logger)
	err := handler.Execute(c.UserContext(), scholar.RegisterUserMessage{
		Name:     payload.Name,
		Email:    payload.Email,
		Phone:    payload.Phone,
		PhotoURL: payload.PhotoURL,
		Role:     payload.Role,
		Password: payload.Password,
		OnResponse: func(res *scholar.RegisterUserResponse) {
			result = res
		},
	})
	if err != nil {
		return err
	}

	if !result.Created {
		return c.JSON(fiber.Map{
			"message": "user already exists",
			"user":    result.User,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(result.User)
}

func (s *Server) handleUserList(c *fiber.Ctx) error {
	users, err := s.repo.Users().ListAll(c.UserContext())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not list users")
	}

	return c.JSON(users)
}

// handleUserByEmail reports the role the gate and the web client key their
// dashboards off of.
func (s *Server) handleUserByEmail(c *fiber.Ctx) error {
	email := c.Params("email")

	user, err := s.repo.Users().GetByEmail(c.UserContext(), email)
	if err != nil {
		if repository.IsRecordNotFound(err) || goerrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "user not found",
			})
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not load user")
	}

	return c.JSON(fiber.Map{"role": user.Role})
}
