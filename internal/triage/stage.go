package triage

// Field names a profile attribute a stage is responsible for populating.
type Field string

const (
	FieldAge                Field = "age"
	FieldGender             Field = "gender"
	FieldPrimarySymptom     Field = "primary_symptom"
	FieldDuration           Field = "duration"
	FieldSeverityScore      Field = "severity_score"
	FieldMedicalHistory     Field = "medical_history"
	FieldCurrentMedications Field = "current_medications"
	FieldAllergies          Field = "allergies"
	FieldAdditionalSymptoms Field = "additional_symptoms"
)

// Stage is a position in the linear triage conversation. The only transition
// is Next, so stages cannot be skipped.
type Stage int

const (
	StageGreeting Stage = iota
	StageBasicInfo
	StagePrimarySymptom
	StageSymptomDuration
	StageSeverityAssessment
	StageMedicalHistory
	StageMedications
	StageAllergies
	StageAdditionalSymptoms
	StageComplete
)

type stageDef struct {
	name   string
	prompt string
	fields []Field
}

var stages = [...]stageDef{
	StageGreeting: {
		name:   "greeting",
		prompt: "Hello. I'm HealthMate, your emergency first-aid assistant. I'm here to help you assess your condition. Please know that I'm not a replacement for a doctor. Let me ask you a few quick questions to understand what's happening.",
	},
	StageBasicInfo: {
		name:   "basic_info",
		prompt: "First, could you please tell me your age and gender?",
		fields: []Field{FieldAge, FieldGender},
	},
	StagePrimarySymptom: {
		name:   "primary_symptom",
		prompt: "What's your main concern or symptom right now?",
		fields: []Field{FieldPrimarySymptom},
	},
	StageSymptomDuration: {
		name:   "symptom_duration",
		prompt: "How long have you been experiencing this symptom?",
		fields: []Field{FieldDuration},
	},
	StageSeverityAssessment: {
		name:   "severity_assessment",
		prompt: "On a scale of 1 to 10, how severe would you rate your pain or discomfort? 1 being very mild, 10 being the worst possible.",
		fields: []Field{FieldSeverityScore},
	},
	StageMedicalHistory: {
		name:   "medical_history",
		prompt: "Do you have any chronic conditions? For example: diabetes, high blood pressure, asthma, or heart disease?",
		fields: []Field{FieldMedicalHistory},
	},
	StageMedications: {
		name:   "medications",
		prompt: "Are you currently taking any medications? If yes, please list them.",
		fields: []Field{FieldCurrentMedications},
	},
	StageAllergies: {
		name:   "allergies",
		prompt: "Do you have any known allergies to medications?",
		fields: []Field{FieldAllergies},
	},
	StageAdditionalSymptoms: {
		name:   "additional_symptoms",
		prompt: "Besides your main symptom, are you experiencing any other symptoms? Such as fever, nausea, dizziness, etc.?",
		fields: []Field{FieldAdditionalSymptoms},
	},
	StageComplete: {
		name:   "complete",
		prompt: completionMessage,
	},
}

const (
	completionMessage = "Thank you for providing all information. Let me analyze your condition now..."
	emergencyMessage  = "EMERGENCY DETECTED - Please call 911 immediately!"
)

func (s Stage) valid() bool { return s >= StageGreeting && s <= StageComplete }

func (s Stage) String() string {
	if !s.valid() {
		return "unknown"
	}
	return stages[s].name
}

// Prompt is the assistant message that asks for this stage's information.
func (s Stage) Prompt() string {
	if !s.valid() {
		return ""
	}
	return stages[s].prompt
}

// Fields lists the profile fields owed by this stage.
func (s Stage) Fields() []Field {
	if !s.valid() {
		return nil
	}
	return append([]Field(nil), stages[s].fields...)
}

// Next returns the following stage. StageComplete is terminal.
func (s Stage) Next() Stage {
	if s >= StageComplete {
		return StageComplete
	}
	return s + 1
}

func (s Stage) Terminal() bool { return s == StageComplete }

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
