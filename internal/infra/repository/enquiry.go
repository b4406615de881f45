package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hashtagchobi/chobi-site/internal/domain"
	"github.com/hashtagchobi/chobi-site/internal/infra/database/models"
)

type EnquiryRepository struct {
	db *gorm.DB
}

func NewEnquiryRepository(db *gorm.DB) *EnquiryRepository {
	return &EnquiryRepository{db: db}
}

func (r *EnquiryRepository) Create(ctx context.Context, enquiry domain.Enquiry) error {
	ctx, span := tracer.Start(ctx, "Enquiry.Repository.Create")
	defer span.End()

	record := models.Enquiry{
		ID:          enquiry.ID,
		FullName:    enquiry.FullName,
		Phone:       enquiry.Phone,
		EventType:   enquiry.EventType,
		EventDate:   enquiry.EventDate,
		Location:    enquiry.Location,
		Message:     enquiry.Message,
		WhatsAppURL: enquiry.WhatsAppURL,
		CDate:       enquiry.CreatedAt,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		DoNothing: true,
	}).Create(&record).Error
	if err != nil {
		err = errors.Wrap(err, "EnquiryRepository.Create: insert failed")
		span.RecordError(err)
		return err
	}
	return nil
}

func (r *EnquiryRepository) Get(ctx context.Context, id string) (domain.Enquiry, error) {
	ctx, span := tracer.Start(ctx, "Enquiry.Repository.Get")
	defer span.End()

	var record models.Enquiry
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Enquiry{}, domain.NotFoundError{Resource: "enquiry"}
		}
		span.RecordError(err)
		return domain.Enquiry{}, err
	}
	return toDomainEnquiry(record), nil
}

// Recent lists the newest enquiries first.
func (r *EnquiryRepository) Recent(ctx context.Context, limit int) ([]domain.Enquiry, error) {
	ctx, span := tracer.Start(ctx, "Enquiry.Repository.Recent")
	defer span.End()

	var records []models.Enquiry
	err := r.db.WithContext(ctx).Order("c_date DESC").Limit(limit).Find(&records).Error
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	enquiries := make([]domain.Enquiry, 0, len(records))
	for _, record := range records {
		enquiries = append(enquiries, toDomainEnquiry(record))
	}
	return enquiries, nil
}

func toDomainEnquiry(record models.Enquiry) domain.Enquiry {
	return domain.Enquiry{
		ID:          record.ID,
		FullName:    record.FullName,
		Phone:       record.Phone,
		EventType:   record.EventType,
		EventDate:   record.EventDate,
		Location:    record.Location,
		Message:     record.Message,
		WhatsAppURL: record.WhatsAppURL,
		CreatedAt:   record.CDate,
	}
}
