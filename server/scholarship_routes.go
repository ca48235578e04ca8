package server

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

func (s *Server) handleScholarshipList(c *fiber.Ctx) error {
	records, err := s.repo.Scholarships().ListAll(c.UserContext())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not list scholarships")
	}

	return c.JSON(records)
}

// handleTopScholarships surfaces the catalog ordered by cheapest application
// fee first, most recently posted breaking ties.
func (s *Server) handleTopScholarships(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	records, err := s.repo.Scholarships().TopByFees(c.UserContext(), limit)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not list top scholarships")
	}

	return c.JSON(records)
}

func (s *Server) handleScholarshipDetails(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return goerrors.New("invalid scholarship id", goerrors.CategoryBadInput).
			WithCode(fiber.StatusBadRequest)
	}

	record, err := s.repo.Scholarships().GetByID(c.UserContext(), id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) || goerrors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "scholarship not found",
			})
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not load scholarship")
	}

	return c.JSON(record)
}

func (s *Server) handleScholarshipSearch(c *fiber.Ctx) error {
	text := c.Params("text")

	records, err := s.repo.Scholarships().Search(c.UserContext(), text)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "scholarship search failed")
	}

	return c.JSON(records)
}
