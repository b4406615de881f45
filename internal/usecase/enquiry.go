package usecase

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hashtagchobi/chobi-site/internal/domain"
)

// DefaultWhatsAppNumber receives enquiries when the site config names none.
const DefaultWhatsAppNumber = "917003216321"

const minEnquiryMessageLength = 10

var phonePattern = regexp.MustCompile(`^\+?\d{1,3}[\s-]?\(?\d{1,4}?\)?[\s-]?\d{1,4}[\s-]?\d{1,4}$`)

// EnquiryInput is the contact form as submitted.
type EnquiryInput struct {
	FullName  string `json:"fullName"`
	Phone     string `json:"phone"`
	EventType string `json:"eventType"`
	EventDate string `json:"eventDate"`
	Location  string `json:"location"`
	Message   string `json:"message"`
}

// Validate checks the fields in form order and reports the first problem.
func (in EnquiryInput) Validate() error {
	if strings.TrimSpace(in.FullName) == "" {
		return domain.ValidationError{Field: "fullName", Message: "Please enter your full name."}
	}
	if !phonePattern.MatchString(in.Phone) {
		return domain.ValidationError{Field: "phone", Message: "Please enter a valid phone number."}
	}
	if strings.TrimSpace(in.EventType) == "" {
		return domain.ValidationError{Field: "eventType", Message: "Please specify the type of photography service you need."}
	}
	if strings.TrimSpace(in.EventDate) == "" {
		return domain.ValidationError{Field: "eventDate", Message: "Please select your event date."}
	}
	if strings.TrimSpace(in.Location) == "" {
		return domain.ValidationError{Field: "location", Message: "Please enter your event location."}
	}
	if strings.TrimSpace(in.Message) == "" || utf8.RuneCountInString(in.Message) < minEnquiryMessageLength {
		return domain.ValidationError{Field: "message", Message: "Your message should be at least 10 characters long."}
	}
	return nil
}

// WhatsAppMessage formats the enquiry as the chat message sent to the studio.
func (in EnquiryInput) WhatsAppMessage() string {
	return fmt.Sprintf(`*New Customer Enquiry*

*Name:* %s
*Phone:* %s
*Service:* %s
*Date:* %s
*Location:* %s

*Message:* %s`, in.FullName, in.Phone, in.EventType, in.EventDate, in.Location, in.Message)
}

// WhatsAppURL builds a click-to-chat link for number with text prefilled.
func WhatsAppURL(number, text string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + strings.TrimPrefix(number, "+") + "?text=" + escaped
}

type EnquiryUsecase struct {
	repo   EnquiryRepository
	number string
	now    func() time.Time
}

// NewEnquiryUsecase accepts a nil repo, in which case enquiries are only
// turned into WhatsApp links.
func NewEnquiryUsecase(repo EnquiryRepository, config domain.Config) *EnquiryUsecase {
	number := config.WhatsAppNumber
	if number == "" {
		number = DefaultWhatsAppNumber
	}
	return &EnquiryUsecase{repo: repo, number: number, now: time.Now}
}

func (uc *EnquiryUsecase) Submit(ctx context.Context, input EnquiryInput) (domain.Enquiry, error) {
	ctx, span := tracer.Start(ctx, "Enquiry.Usecase.Submit")
	defer span.End()

	if err := input.Validate(); err != nil {
		return domain.Enquiry{}, err
	}

	enquiry := domain.Enquiry{
		ID:          uuid.NewString(),
		FullName:    strings.TrimSpace(input.FullName),
		Phone:       input.Phone,
		EventType:   strings.TrimSpace(input.EventType),
		EventDate:   strings.TrimSpace(input.EventDate),
		Location:    strings.TrimSpace(input.Location),
		Message:     input.Message,
		WhatsAppURL: WhatsAppURL(uc.number, input.WhatsAppMessage()),
		CreatedAt:   uc.now().UTC(),
	}

	if uc.repo != nil {
		if err := uc.repo.Create(ctx, enquiry); err != nil {
			span.RecordError(err)
			return domain.Enquiry{}, err
		}
	}
	return enquiry, nil
}

// ErrEnquiriesNotStored is returned by the read methods when no repository
// is configured.
var ErrEnquiriesNotStored = domain.NotFoundError{Resource: "enquiry storage"}

const (
	defaultRecentEnquiries = 20
	maxRecentEnquiries     = 100
)

// Recent lists stored enquiries, newest first. limit is clamped to
// [1, 100] with 20 for non-positive values.
func (uc *EnquiryUsecase) Recent(ctx context.Context, limit int) ([]domain.Enquiry, error) {
	ctx, span := tracer.Start(ctx, "Enquiry.Usecase.Recent")
	defer span.End()

	if uc.repo == nil {
		return nil, ErrEnquiriesNotStored
	}
	if limit <= 0 {
		limit = defaultRecentEnquiries
	}
	if limit > maxRecentEnquiries {
		limit = maxRecentEnquiries
	}
	return uc.repo.Recent(ctx, limit)
}

func (uc *EnquiryUsecase) Get(ctx context.Context, id string) (domain.Enquiry, error) {
	ctx, span := tracer.Start(ctx, "Enquiry.Usecase.Get")
	defer span.End()

	if uc.repo == nil {
		return domain.Enquiry{}, ErrEnquiriesNotStored
	}
	return uc.repo.Get(ctx, id)
}
