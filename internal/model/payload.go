package model

// Payload is the submission shape handed to the persistence sink.
type Payload struct {
	Profile          PayloadProfile  `json:"profile" bson:"profile"`
	SelectedEntities []string        `json:"selectedEntities" bson:"selectedEntities"`
	Answers          map[string]any  `json:"answers" bson:"answers"`
	Metadata         PayloadMetadata `json:"metadata" bson:"metadata"`
}

type PayloadProfile struct {
	Gender string   `json:"gender" bson:"gender"`
	Age    *float64 `json:"age,omitempty" bson:"age,omitempty"`
	Role   string   `json:"role" bson:"role"`
}

type PayloadMetadata struct {
	CreatedAt     string `json:"createdAt" bson:"createdAt"` // ISO-8601, UTC
	SchemaVersion string `json:"schemaVersion" bson:"schemaVersion"`
}
