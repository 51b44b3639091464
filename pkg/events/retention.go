package events

import "time"

const (
	TypeAnalysisRecorded = "analysis.recorded"
	TypePatientCreated   = "patient.created"
	TypePatientDeleted   = "patient.deleted"
	TypeSessionDeleted   = "session.deleted"
	TypeRetentionPurged  = "retention.purged"
)

// Constructors below never take note text; events describe lifecycle only.

// AnalysisRecorded takes an empty subjectId for anonymous sessions.
func AnalysisRecorded(scope, subjectId, topPattern string, historySize int, at time.Time) Event {
	return BaseEvent{
		Type: TypeAnalysisRecorded,
		Data: map[string]interface{}{
			"scope":       scope,
			"subjectId":   subjectId,
			"topPattern":  topPattern,
			"historySize": historySize,
		},
		OccurredAt: at,
	}
}

func PatientCreated(patientId, ownerId string, expiresAt, at time.Time) Event {
	return BaseEvent{
		Type: TypePatientCreated,
		Data: map[string]interface{}{
			"patientId": patientId,
			"ownerId":   ownerId,
			"expiresAt": expiresAt.UTC().Format(time.RFC3339),
		},
		OccurredAt: at,
	}
}

func PatientDeleted(patientId, ownerId string, at time.Time) Event {
	return BaseEvent{
		Type: TypePatientDeleted,
		Data: map[string]interface{}{
			"patientId": patientId,
			"ownerId":   ownerId,
		},
		OccurredAt: at,
	}
}

// SessionDeleted omits the session id; holding it grants access.
func SessionDeleted(at time.Time) Event {
	return BaseEvent{
		Type:       TypeSessionDeleted,
		Data:       map[string]interface{}{},
		OccurredAt: at,
	}
}

func RetentionPurged(collection string, purged int64, at time.Time) Event {
	return BaseEvent{
		Type: TypeRetentionPurged,
		Data: map[string]interface{}{
			"collection": collection,
			"purged":     purged,
		},
		OccurredAt: at,
	}
}
