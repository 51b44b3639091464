package mapper

import (
	"encoding/json"
	"fmt"

	"session-insight-be/internal/entity"
	"session-insight-be/internal/model"

	"gorm.io/datatypes"
)

type PatientMapper struct{}

func NewPatientMapper() *PatientMapper {
	return &PatientMapper{}
}

func (m *PatientMapper) ToEntity(p *model.Patient) (*entity.PatientRecord, error) {
	if p == nil {
		return nil, nil
	}

	var entries []model.AnalysisEntry
	if len(p.History) > 0 {
		if err := json.Unmarshal(p.History, &entries); err != nil {
			return nil, fmt.Errorf("decode history of patient %s: %w", p.Id, err)
		}
	}

	return &entity.PatientRecord{
		Id:        p.Id,
		Name:      p.Name,
		CreatedBy: p.CreatedBy,
		History:   toAnalysisResults(entries),
		ExpiresAt: p.ExpiresAt,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

func (m *PatientMapper) ToModel(p *entity.PatientRecord) (*model.Patient, error) {
	if p == nil {
		return nil, nil
	}

	history, err := m.EncodeHistory(p.History)
	if err != nil {
		return nil, err
	}

	return &model.Patient{
		Id:        p.Id,
		Name:      p.Name,
		CreatedBy: p.CreatedBy,
		History:   history,
		ExpiresAt: p.ExpiresAt,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

// EncodeHistory renders a history as the jsonb column value.
func (m *PatientMapper) EncodeHistory(history []entity.AnalysisResult) (datatypes.JSON, error) {
	raw, err := json.Marshal(toAnalysisEntries(history))
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func (m *PatientMapper) ToEntities(patients []*model.Patient) ([]*entity.PatientRecord, error) {
	entities := make([]*entity.PatientRecord, 0, len(patients))
	for _, p := range patients {
		e, err := m.ToEntity(p)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}
