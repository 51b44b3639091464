package entity

import (
	"time"

	"github.com/google/uuid"
)

type PatientRecord struct {
	Id        uuid.UUID
	Name      string
	CreatedBy uuid.UUID        // owning account
	History   []AnalysisResult // newest first
	ExpiresAt time.Time        // fixed at creation
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *PatientRecord) Clone() *PatientRecord {
	if p == nil {
		return nil
	}
	c := *p
	c.History = cloneAnalyses(p.History)
	return &c
}
