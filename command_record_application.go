package scholar

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type RecordApplicationMessage struct {
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

	OnResponse func(*AppliedScholarship)
}

func (e RecordApplicationMessage) Type() string { return "application.record" }

// RecordApplicationHandler stores an application, denormalizing the
// scholarship attributes the dashboard lists are built from.
type RecordApplicationHandler struct {
	repo   RepositoryManager
	logger Logger
}

// NewRecordApplicationHandler creates a handler with sane defaults.
func NewRecordApplicationHandler(repo RepositoryManager) *RecordApplicationHandler {
	return &RecordApplicationHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *RecordApplicationHandler) WithLogger(logger Logger) *RecordApplicationHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RecordApplicationHandler) Execute(ctx context.Context, event RecordApplicationMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled while recording application",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RecordApplicationHandler) execute(ctx context.Context, event RecordApplicationMessage) error {
	scholarshipID, err := uuid.Parse(event.ScholarshipID)
	if err != nil {
		return goerrors.New("invalid scholarship id", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// The lookup has to ride the transaction: a pool-backed read here
		// deadlocks when the pool is down to the connection tx holds.
		scholarship, err := h.repo.Scholarships().FindByIDTx(ctx, tx, scholarshipID)
		if err != nil {
			if repository.IsRecordNotFound(err) || goerrors.IsNotFound(err) {
				return goerrors.New("scholarship not found", goerrors.CategoryNotFound).
					WithCode(goerrors.CodeNotFound)
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not load scholarship")
		}

		record := &AppliedScholarship{
			ID:                  uuid.New(),
			ScholarshipID:       scholarship.ID,
			UserEmail:           NormalizeEmail(event.UserEmail),
			UserName:            event.UserName,
			UniversityName:      scholarship.UniversityName,
			ScholarshipCategory: scholarship.ScholarshipCategory,
			SubjectCategory:     scholarship.SubjectCategory,
			Degree:              event.Degree,
			ApplicationFees:     scholarship.ApplicationFees,
			ServiceCharge:       scholarship.ServiceCharge,
			Phone:               normalizePhone(event.Phone),
			Address:             event.Address,
			Gender:              event.Gender,
			SSCResult:           event.SSCResult,
			HSCResult:           event.HSCResult,
			StudyGap:            event.StudyGap,
			Status:              ApplicationPending,
		}

		if event.ApplicationFees > 0 {
			record.ApplicationFees = event.ApplicationFees
		}
		if event.ServiceCharge > 0 {
			record.ServiceCharge = event.ServiceCharge
		}

		saved, err := h.repo.Applications().CreateTx(ctx, tx, record)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not record application")
		}

		if event.OnResponse != nil {
			event.OnResponse(saved)
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "application transaction failed")
	}

	return nil
}
