// Package intake turns raw submission payloads into storable requests.
//
// Validation collects every failure instead of stopping at the first one so a
// form can show all problems in a single round trip. Normalization is kept
// apart from persistence: the result is ready for any RequestRepository.
package intake

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/service-requests/internal/domain"
	apperrors "github.com/spec-kit/service-requests/pkg/util/errorutil"
)

const (
	MinFullNameLength    = 2
	MinDescriptionLength = 10
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Input is the raw submission payload.
type Input struct {
	FullName       string
	StudentID      string
	Email          string
	ServiceType    string
	Description    string
	SubmissionDate string
}

// submission mirrors Input after trimming; the tags drive validation order.
type submission struct {
	FullName       string `validate:"required,min=2"`
	StudentID      string `validate:"required"`
	Email          string `validate:"required,basic_email"`
	ServiceType    string `validate:"required,service_type"`
	SubmissionDate string `validate:"required_if=DateRequired true,omitempty,calendar_date"`
	Description    string `validate:"required,min=10"`
	DateRequired   bool
}

var messages = map[string]map[string]string{
	"FullName": {
		"required": "Full name is required.",
		"min":      "Name must be at least 2 characters.",
	},
	"StudentID": {
		"required": "Student/Employee ID is required.",
	},
	"Email": {
		"required":    "Email is required.",
		"basic_email": "Please enter a valid email.",
	},
	"ServiceType": {
		"required":     "Please select a request type.",
		"service_type": "Unknown request type.",
	},
	"SubmissionDate": {
		"required_if":   "Submission date is required.",
		"calendar_date": "Submission date must be in YYYY-MM-DD format.",
	},
	"Description": {
		"required": "Description is required.",
		"min":      "Please provide at least 10 characters.",
	},
}

// Validator validates and normalizes submissions against a closed set of
// service types.
type Validator struct {
	validate     *validator.Validate
	serviceTypes map[string]struct{}
	ordered      []string
	requireDate  bool
	now          func() time.Time
}

// Option customizes a Validator.
type Option func(*Validator)

// WithClock overrides the clock used to default the submission date.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// NewValidator builds a Validator accepting only the given service types.
func NewValidator(serviceTypes []string, requireSubmissionDate bool, opts ...Option) *Validator {
	v := &Validator{
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		serviceTypes: make(map[string]struct{}, len(serviceTypes)),
		requireDate:  requireSubmissionDate,
		now:          time.Now,
	}
	for _, st := range serviceTypes {
		st = strings.TrimSpace(st)
		if st == "" {
			continue
		}
		if _, dup := v.serviceTypes[st]; !dup {
			v.ordered = append(v.ordered, st)
		}
		v.serviceTypes[st] = struct{}{}
	}
	for _, opt := range opts {
		opt(v)
	}

	_ = v.validate.RegisterValidation("basic_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("service_type", func(fl validator.FieldLevel) bool {
		return v.IsServiceType(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(domain.DateLayout, fl.Field().String())
		return err == nil
	})
	return v
}

// ServiceTypes returns the recognized categories in configuration order.
func (v *Validator) ServiceTypes() []string {
	out := make([]string, len(v.ordered))
	copy(out, v.ordered)
	return out
}

// IsServiceType reports whether st is a recognized category.
func (v *Validator) IsServiceType(st string) bool {
	_, ok := v.serviceTypes[st]
	return ok
}

// Normalize validates in and returns a pending request with trimmed fields.
// Failures come back as a single validation error listing every message.
func (v *Validator) Normalize(in Input) (*domain.Request, error) {
	sub := submission{
		FullName:       strings.TrimSpace(in.FullName),
		StudentID:      strings.TrimSpace(in.StudentID),
		Email:          strings.TrimSpace(in.Email),
		ServiceType:    strings.TrimSpace(in.ServiceType),
		Description:    strings.TrimSpace(in.Description),
		SubmissionDate: strings.TrimSpace(in.SubmissionDate),
		DateRequired:   v.requireDate,
	}

	if err := v.validate.Struct(sub); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, err
		}
		return nil, apperrors.NewValidationErrors(Messages(verrs))
	}

	submissionDate := v.today()
	if sub.SubmissionDate != "" {
		// Already checked by calendar_date.
		submissionDate, _ = time.Parse(domain.DateLayout, sub.SubmissionDate)
	}

	return &domain.Request{
		FullName:       sub.FullName,
		StudentID:      sub.StudentID,
		Email:          sub.Email,
		ServiceType:    sub.ServiceType,
		Description:    sub.Description,
		SubmissionDate: submissionDate,
		Status:         domain.RequestStatusPending,
	}, nil
}

func (v *Validator) today() time.Time {
	now := v.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Messages renders validator failures as human readable sentences, in field order.
func Messages(verrs validator.ValidationErrors) []string {
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if msg, ok := messages[fe.StructField()][fe.Tag()]; ok {
			out = append(out, msg)
			continue
		}
		out = append(out, fe.Error())
	}
	return out
}
