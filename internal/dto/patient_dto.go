package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePatientRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type PatientResponse struct {
	Id        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	CreatedBy uuid.UUID          `json:"createdBy"`
	History   []AnalysisResponse `json:"history"`
	ExpiresAt time.Time          `json:"expiresAt"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type PatientAnalyzeResponse struct {
	Entry  AnalysisResponse `json:"entry"`
	Record PatientResponse  `json:"record"`
}
