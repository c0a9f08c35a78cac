package model

import "time"

// Questionnaire is a stored catalog document: the entities questions can
// repeat over plus every question in display order.
type Questionnaire struct {
	ID            string       `json:"id" yaml:"id,omitempty" bson:"_id,omitempty"`
	Title         string       `json:"title" yaml:"title" bson:"title"`
	SchemaVersion string       `json:"schemaVersion" yaml:"schemaVersion" bson:"schemaVersion"`
	Entities      []Option     `json:"entities" yaml:"entities" bson:"entities"`
	Questions     []Descriptor `json:"questions" yaml:"questions" bson:"questions"`
	CreatedAt     time.Time    `json:"createdAt" yaml:"-" bson:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt" yaml:"-" bson:"updatedAt"`
}
