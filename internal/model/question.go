package model

import (
	"fmt"
	"strings"
)

// Kind is the input kind of a question. The set is closed: the wizard keeps
// one validation handler per kind and rejects anything else at catalog load.
type Kind string

const (
	KindSingleChoice Kind = "single_choice" // one option out of a list
	KindNumeric      Kind = "numeric"       // number within optional bounds
	KindMultiChoice  Kind = "multi_choice"  // any subset of a list
	KindMatrix       Kind = "matrix"        // single choice, repeated per entity
	KindText         Kind = "text"          // free text
	KindInfo         Kind = "info"          // read-only screen
	KindReview       Kind = "review"        // terminal summary, triggers submit
)

// AllKinds returns every known kind in declaration order.
func AllKinds() []Kind {
	return []Kind{
		KindSingleChoice,
		KindNumeric,
		KindMultiChoice,
		KindMatrix,
		KindText,
		KindInfo,
		KindReview,
	}
}

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	for _, known := range AllKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// HasOptions reports whether the kind is answered by picking from a list.
func (k Kind) HasOptions() bool {
	return k == KindSingleChoice || k == KindMultiChoice || k == KindMatrix
}

// Target says where a committed value lands in the response state.
type Target string

const (
	TargetAnswers  Target = "answers"
	TargetConsent  Target = "consent"
	TargetGender   Target = "profile.gender"
	TargetAge      Target = "profile.age"
	TargetRole     Target = "profile.role"
	TargetEntities Target = "entities"
)

// IsValid reports whether t is a known target. The empty target means answers.
func (t Target) IsValid() bool {
	switch t {
	case "", TargetAnswers, TargetConsent, TargetGender, TargetAge, TargetRole, TargetEntities:
		return true
	}
	return false
}

// Normalized maps the empty target to TargetAnswers.
func (t Target) Normalized() Target {
	if t == "" {
		return TargetAnswers
	}
	return t
}

// Axis names the response-state set a question repeats over.
//
// AxisEntities repeats once per selected entity. The form "answers.<key>"
// repeats once per option chosen in the multi-choice answer stored under key.
type Axis string

const (
	AxisNone     Axis = ""
	AxisEntities Axis = "entities"

	answersAxisPrefix = "answers."
)

// AnswerKey returns the answer key for an "answers.<key>" axis.
func (a Axis) AnswerKey() (string, bool) {
	if !strings.HasPrefix(string(a), answersAxisPrefix) {
		return "", false
	}
	key := strings.TrimPrefix(string(a), answersAxisPrefix)
	return key, key != ""
}

// Option is a value/label pair offered by choice questions.
type Option struct {
	Value string `json:"value" yaml:"value" bson:"value"`
	Label string `json:"label" yaml:"label" bson:"label"`
}

// Descriptor is one immutable catalog entry.
type Descriptor struct {
	Key         string     `json:"key" yaml:"key" bson:"key"`
	Title       string     `json:"title" yaml:"title" bson:"title"`
	Kind        Kind       `json:"kind" yaml:"kind" bson:"kind"`
	Required    bool       `json:"required" yaml:"required" bson:"required"`
	Options     []Option   `json:"options,omitempty" yaml:"options,omitempty" bson:"options,omitempty"`
	Min         *float64   `json:"min,omitempty" yaml:"min,omitempty" bson:"min,omitempty"` // numeric only
	Max         *float64   `json:"max,omitempty" yaml:"max,omitempty" bson:"max,omitempty"` // numeric only
	Placeholder string     `json:"placeholder,omitempty" yaml:"placeholder,omitempty" bson:"placeholder,omitempty"`
	Body        string     `json:"body,omitempty" yaml:"body,omitempty" bson:"body,omitempty"` // info only
	Target      Target     `json:"target,omitempty" yaml:"target,omitempty" bson:"target,omitempty"`
	When        *Condition `json:"when,omitempty" yaml:"when,omitempty" bson:"when,omitempty"`
	Repeat      Axis       `json:"repeat,omitempty" yaml:"repeat,omitempty" bson:"repeat,omitempty"`
}

// HasOption reports whether value is one of the declared option values.
func (d *Descriptor) HasOption(value string) bool {
	for _, opt := range d.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// OptionLabel returns the label for value, or value itself when unknown.
func (d *Descriptor) OptionLabel(value string) string {
	for _, opt := range d.Options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

// Repeats reports whether the descriptor expands into one step per axis element.
func (d *Descriptor) Repeats() bool {
	return d.Repeat != AxisNone
}

// BoundsText renders the numeric bounds for messages.
func (d *Descriptor) BoundsText() (string, string) {
	return formatBound(d.Min), formatBound(d.Max)
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return FormatNumber(*v)
}

// FormatNumber renders whole numbers without a decimal point.
func FormatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
