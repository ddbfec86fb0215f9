package triage

import (
	"fmt"
	"math"
)

type Gender string

const (
	GenderMale        Gender = "Male"
	GenderFemale      Gender = "Female"
	GenderUnspecified Gender = "Not specified"
)

// Condition is one of the chronic conditions tracked in the medical history.
type Condition string

const (
	Diabetes      Condition = "diabetes"
	Hypertension  Condition = "hypertension"
	Asthma        Condition = "asthma"
	HeartDisease  Condition = "heart_disease"
	StrokeHistory Condition = "stroke_history"
	KidneyDisease Condition = "kidney_disease"
)

// Conditions lists the tracked conditions in their canonical order.
var Conditions = []Condition{Diabetes, Hypertension, Asthma, HeartDisease, StrokeHistory, KidneyDisease}

// MedicalHistory always holds exactly one entry per tracked condition.
type MedicalHistory map[Condition]bool

func NewMedicalHistory() MedicalHistory {
	h := make(MedicalHistory, len(Conditions))
	for _, c := range Conditions {
		h[c] = false
	}
	return h
}

// Active returns the conditions flagged true, in canonical order.
func (h MedicalHistory) Active() []Condition {
	var active []Condition
	for _, c := range Conditions {
		if h[c] {
			active = append(active, c)
		}
	}
	return active
}

func (h MedicalHistory) clone() MedicalHistory {
	out := NewMedicalHistory()
	for _, c := range Conditions {
		out[c] = h[c]
	}
	return out
}

// Profile is the structured record gathered during one triage conversation.
// Optional fields are nil until captured.
type Profile struct {
	Age                *int           `json:"age"`
	Gender             *Gender        `json:"gender"`
	PrimarySymptom     *string        `json:"primary_symptom"`
	Duration           *string        `json:"duration"`
	SeverityScore      float64        `json:"severity_score"`
	MedicalHistory     MedicalHistory `json:"medical_history"`
	CurrentMedications []string       `json:"current_medications"`
	Allergies          []string       `json:"allergies"`
	AdditionalSymptoms []string       `json:"additional_symptoms"`
}

func NewProfile() Profile {
	return Profile{
		MedicalHistory:     NewMedicalHistory(),
		CurrentMedications: []string{},
		Allergies:          []string{},
		AdditionalSymptoms: []string{},
	}
}

// Clone returns a deep copy so callers cannot mutate engine-owned state.
func (p Profile) Clone() Profile {
	out := p
	if p.Age != nil {
		v := *p.Age
		out.Age = &v
	}
	if p.Gender != nil {
		v := *p.Gender
		out.Gender = &v
	}
	if p.PrimarySymptom != nil {
		v := *p.PrimarySymptom
		out.PrimarySymptom = &v
	}
	if p.Duration != nil {
		v := *p.Duration
		out.Duration = &v
	}
	out.MedicalHistory = p.MedicalHistory.clone()
	out.CurrentMedications = append([]string{}, p.CurrentMedications...)
	out.Allergies = append([]string{}, p.Allergies...)
	out.AdditionalSymptoms = append([]string{}, p.AdditionalSymptoms...)
	return out
}

// Symptom returns the primary symptom or "" when it was never captured.
func (p Profile) Symptom() string {
	if p.PrimarySymptom == nil {
		return ""
	}
	return *p.PrimarySymptom
}

func (p Profile) DurationText() string {
	if p.Duration == nil {
		return ""
	}
	return *p.Duration
}

// Fields flattens the profile into a string-keyed mapping. Unset optional
// fields map to nil.
func (p Profile) Fields() map[string]any {
	history := make(map[string]bool, len(Conditions))
	for _, c := range Conditions {
		history[string(c)] = p.MedicalHistory[c]
	}

	m := map[string]any{
		"age":                 nil,
		"gender":              nil,
		"primary_symptom":     nil,
		"duration":            nil,
		"severity_score":      p.SeverityScore,
		"medical_history":     history,
		"current_medications": append([]string{}, p.CurrentMedications...),
		"allergies":           append([]string{}, p.Allergies...),
		"additional_symptoms": append([]string{}, p.AdditionalSymptoms...),
	}
	if p.Age != nil {
		m["age"] = *p.Age
	}
	if p.Gender != nil {
		m["gender"] = string(*p.Gender)
	}
	if p.PrimarySymptom != nil {
		m["primary_symptom"] = *p.PrimarySymptom
	}
	if p.Duration != nil {
		m["duration"] = *p.Duration
	}
	return m
}

// ProfileFromFields rebuilds a profile from the mapping produced by Fields.
// It also accepts the shapes encoding/json produces when that mapping has
// been round-tripped through JSON (float64 numbers, []any lists).
func ProfileFromFields(m map[string]any) (Profile, error) {
	p := NewProfile()

	if v, ok := m["age"]; ok && v != nil {
		n, err := toInt(v)
		if err != nil {
			return p, fmt.Errorf("age: %w", err)
		}
		p.Age = &n
	}
	if v, ok := m["gender"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return p, fmt.Errorf("gender: unexpected type %T", v)
		}
		g := Gender(s)
		p.Gender = &g
	}
	if v, ok := m["primary_symptom"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return p, fmt.Errorf("primary_symptom: unexpected type %T", v)
		}
		p.PrimarySymptom = &s
	}
	if v, ok := m["duration"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return p, fmt.Errorf("duration: unexpected type %T", v)
		}
		p.Duration = &s
	}
	if v, ok := m["severity_score"]; ok && v != nil {
		f, err := toFloat(v)
		if err != nil {
			return p, fmt.Errorf("severity_score: %w", err)
		}
		p.SeverityScore = clampSeverity(f)
	}
	if v, ok := m["medical_history"]; ok && v != nil {
		switch h := v.(type) {
		case map[string]bool:
			for _, c := range Conditions {
				p.MedicalHistory[c] = h[string(c)]
			}
		case map[string]any:
			for _, c := range Conditions {
				b, _ := h[string(c)].(bool)
				p.MedicalHistory[c] = b
			}
		default:
			return p, fmt.Errorf("medical_history: unexpected type %T", v)
		}
	}

	lists := map[string]*[]string{
		"current_medications": &p.CurrentMedications,
		"allergies":           &p.Allergies,
		"additional_symptoms": &p.AdditionalSymptoms,
	}
	for key, dst := range lists {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		items, err := toStrings(v)
		if err != nil {
			return p, fmt.Errorf("%s: %w", key, err)
		}
		*dst = items
	}

	return p, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("non-integer value %v", n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func toStrings(v any) ([]string, error) {
	switch l := v.(type) {
	case []string:
		return append([]string{}, l...), nil
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected element type %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unexpected type %T", v)
	}
}

func clampSeverity(v float64) float64 {
	return math.Min(10, math.Max(0, v))
}
