package implementation

import (
	"context"
	"errors"
	"time"

	"session-insight-be/internal/entity"
	"session-insight-be/internal/mapper"
	"session-insight-be/internal/model"
	"session-insight-be/internal/pkg/apperror"
	"session-insight-be/internal/repository/contract"
	"session-insight-be/internal/repository/specification"
	"session-insight-be/pkg/lifecycle"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PatientRepositoryImpl stores patient records in Postgres. Expired rows
// are filtered out of every read and removed by PurgeExpired.
type PatientRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PatientMapper
	clock  lifecycle.Clock
}

func NewPatientRepository(db *gorm.DB, clock lifecycle.Clock) contract.PatientRepository {
	if clock == nil {
		clock = lifecycle.SystemClock{}
	}
	return &PatientRepositoryImpl{
		db:     db,
		mapper: mapper.NewPatientMapper(),
		clock:  clock,
	}
}

func (r *PatientRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// visible is the scope every read and write goes through.
func (r *PatientRepositoryImpl) visible(id, ownerId uuid.UUID, now time.Time) []specification.Specification {
	return []specification.Specification{
		specification.ByID{ID: id},
		specification.OwnedBy{OwnerID: ownerId},
		specification.NotExpired{Now: now},
	}
}

func (r *PatientRepositoryImpl) Create(ctx context.Context, patient *entity.PatientRecord) error {
	now := r.clock.Now()
	if patient.Id == uuid.Nil {
		patient.Id = uuid.New()
	}
	if patient.CreatedAt.IsZero() {
		patient.CreatedAt = now
	}
	patient.UpdatedAt = now

	m, err := r.mapper.ToModel(patient)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("patient id already in use")
		}
		return err
	}

	stored, err := r.mapper.ToEntity(m)
	if err != nil {
		return err
	}
	*patient = *stored
	return nil
}

func (r *PatientRepositoryImpl) FindOne(ctx context.Context, id, ownerId uuid.UUID) (*entity.PatientRecord, error) {
	var m model.Patient
	query := r.applySpecifications(r.db.WithContext(ctx), r.visible(id, ownerId, r.clock.Now())...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("patient")
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

func (r *PatientRepositoryImpl) FindAllByOwner(ctx context.Context, ownerId uuid.UUID) ([]*entity.PatientRecord, error) {
	var models []*model.Patient
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.OwnedBy{OwnerID: ownerId},
		specification.NotExpired{Now: r.clock.Now()},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models)
}

// Update locks the row for the duration of the transaction so concurrent
// appends to the same history serialize. Only history and updated_at are
// written back.
func (r *PatientRepositoryImpl) Update(ctx context.Context, id, ownerId uuid.UUID, mutate contract.PatientMutator) (*entity.PatientRecord, error) {
	var result *entity.PatientRecord

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := r.clock.Now()

		var m model.Patient
		query := r.applySpecifications(tx.Clauses(clause.Locking{Strength: "UPDATE"}), r.visible(id, ownerId, now)...)
		if err := query.First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("patient")
			}
			return err
		}

		current, err := r.mapper.ToEntity(&m)
		if err != nil {
			return err
		}
		next := current.Clone()
		if mutate != nil {
			if err := mutate(next); err != nil {
				return err
			}
		}

		history, err := r.mapper.EncodeHistory(next.History)
		if err != nil {
			return err
		}
		if err := tx.Model(&model.Patient{}).
			Where("id = ?", current.Id).
			Updates(map[string]interface{}{
				"history":    history,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		current.History = next.History
		current.UpdatedAt = now
		result = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PatientRepositoryImpl) Delete(ctx context.Context, id, ownerId uuid.UUID) error {
	query := r.applySpecifications(r.db.WithContext(ctx), r.visible(id, ownerId, r.clock.Now())...)
	res := query.Delete(&model.Patient{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("patient")
	}
	return nil
}

func (r *PatientRepositoryImpl) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := specification.ExpiredAt{Now: now}.Apply(r.db.WithContext(ctx)).Delete(&model.Patient{})
	return res.RowsAffected, res.Error
}
