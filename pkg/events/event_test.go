package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	at := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	raw, err := Encode(PatientDeleted("p-1", "owner-1", at))
	require.NoError(t, err)

	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, TypePatientDeleted, got.EventType())
	assert.Equal(t, "p-1", got.Payload()["patientId"])
	assert.True(t, got.Timestamp().Equal(at))
}

func TestDecode_RejectsUntyped(t *testing.T) {
	_, err := Decode([]byte(`{"data":{}}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestAnalysisRecorded_CarriesNoText(t *testing.T) {
	e := AnalysisRecorded("session", "", "anxiety", 3, time.Now())
	for key := range e.Payload() {
		assert.NotEqual(t, "text", key)
	}
	assert.Equal(t, 3, e.Payload()["historySize"])
}
