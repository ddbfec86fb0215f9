package triage

import (
	"fmt"
	"math"
	"strings"
)

// UrgencyLevel orders triage outcomes by severity: Green < Yellow < Red.
type UrgencyLevel int

const (
	Green UrgencyLevel = iota
	Yellow
	Red
)

type urgencyDef struct {
	name       string
	label      string
	upperBound float64
	glyph      string
}

var urgencies = [...]urgencyDef{
	Green:  {"GREEN", "mild", 0.33, "🟢"},
	Yellow: {"YELLOW", "moderate", 0.66, "🟡"},
	Red:    {"RED", "emergency", 1.0, "🔴"},
}

func (u UrgencyLevel) valid() bool { return u >= Green && u <= Red }

func (u UrgencyLevel) String() string {
	if !u.valid() {
		return "UNKNOWN"
	}
	return urgencies[u].name
}

// Label is the canonical lowercase label (mild, moderate, emergency).
func (u UrgencyLevel) Label() string {
	if !u.valid() {
		return ""
	}
	return urgencies[u].label
}

// UpperBound is the top of the score band the level represents.
func (u UrgencyLevel) UpperBound() float64 {
	if !u.valid() {
		return 0
	}
	return urgencies[u].upperBound
}

func (u UrgencyLevel) Glyph() string {
	if !u.valid() {
		return ""
	}
	return urgencies[u].glyph
}

func (u UrgencyLevel) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *UrgencyLevel) UnmarshalText(b []byte) error {
	switch strings.ToUpper(string(b)) {
	case "GREEN", "MILD":
		*u = Green
	case "YELLOW", "MODERATE":
		*u = Yellow
	case "RED", "EMERGENCY":
		*u = Red
	default:
		return fmt.Errorf("unknown urgency level %q", string(b))
	}
	return nil
}

// Max returns the more severe of two levels.
func (u UrgencyLevel) Max(other UrgencyLevel) UrgencyLevel {
	if other > u {
		return other
	}
	return u
}

// Score weights. They sum to 1.
const (
	weightSymptomSeverity = 0.4
	weightChronicDisease  = 0.3
	weightSymptomCount    = 0.15
	weightDuration        = 0.15
)

// Urgency thresholds. Red requires an overall score of exactly 1.0 under the
// weights above; the value is kept as is because it defines triage behavior.
const (
	thresholdRed    = 1.0
	thresholdYellow = 0.66
)

const (
	highUrgencyMultiplier     = 1.5
	moderateUrgencyMultiplier = 1.2
)

var highUrgencySymptoms = []string{
	"chest pain", "difficulty breathing", "unconscious", "seizure",
	"heavy bleeding", "stroke symptoms", "severe trauma", "poisoning",
	"anaphylaxis", "severe allergic reaction", "choking", "cardiac symptoms",
}

var moderateUrgencySymptoms = []string{
	"high fever", "severe vomiting", "severe diarrhea", "severe dehydration",
	"severe abdominal pain", "severe head pain", "severe injury",
	"uncontrolled bleeding", "severe breathing difficulty",
}

var chronicConditionRisk = map[Condition]float64{
	Diabetes:      0.15,
	Hypertension:  0.12,
	HeartDisease:  0.25,
	StrokeHistory: 0.20,
	Asthma:        0.10,
	KidneyDisease: 0.18,
}

var recommendationsByUrgency = map[UrgencyLevel][]string{
	Red: {
		"🚨 EMERGENCY - CALL 911 IMMEDIATELY",
		"Do not drive to the hospital - call an ambulance",
		"Have insurance information and medication list ready",
		"If possible, have someone stay with you",
		"Keep this assessment record for paramedics",
	},
	Yellow: {
		"🟡 Moderate Urgency - Visit doctor or urgent care soon",
		"Schedule appointment or visit walk-in clinic today/tomorrow",
		"Monitor your condition closely for any worsening",
		"Keep hydrated and rest",
		"Avoid driving if dizzy or impaired",
		"Have your medical history and medications available",
	},
	Green: {
		"🟢 Mild - Home care may be sufficient",
		"Rest, hydration, and over-the-counter care if needed",
		"Monitor symptoms - seek care if worsening",
		"Contact primary care doctor if symptoms persist >48 hours",
		"Avoid self-medication without consulting pharmacist",
		"Stay home if fever/infectious symptoms to prevent spread",
	},
}

// RiskScore is the outcome of scoring a completed profile.
type RiskScore struct {
	SymptomSeverity float64      `json:"symptom_severity"`
	ChronicDisease  float64      `json:"chronic_disease"`
	SymptomCount    float64      `json:"symptom_count"`
	Duration        float64      `json:"duration"`
	OverallScore    float64      `json:"overall_score"`
	UrgencyLevel    UrgencyLevel `json:"urgency_level"`
	Reasoning       string       `json:"reasoning"`
	Recommendations []string     `json:"recommendations"`
}

// RiskScorer is stateless and safe for concurrent use.
type RiskScorer struct{}

func NewRiskScorer() RiskScorer { return RiskScorer{} }

// Score computes the weighted risk for a profile. It is deterministic and
// never fails.
func (RiskScorer) Score(p Profile) RiskScore {
	severity := SymptomSeverityScore(p)
	chronic := ChronicDiseaseScore(p.MedicalHistory)
	count := SymptomCountScore(len(p.AdditionalSymptoms))
	duration := DurationScore(p.DurationText())

	overall := clamp01(weightSymptomSeverity*severity +
		weightChronicDisease*chronic +
		weightSymptomCount*count +
		weightDuration*duration)

	urgency := UrgencyFor(overall)

	return RiskScore{
		SymptomSeverity: severity,
		ChronicDisease:  chronic,
		SymptomCount:    count,
		Duration:        duration,
		OverallScore:    overall,
		UrgencyLevel:    urgency,
		Reasoning:       reasoning(p, severity, chronic, count, duration),
		Recommendations: Recommendations(urgency),
	}
}

// UrgencyFor maps an overall score to an urgency level.
func UrgencyFor(overall float64) UrgencyLevel {
	switch {
	case overall >= thresholdRed:
		return Red
	case overall >= thresholdYellow:
		return Yellow
	default:
		return Green
	}
}

// Recommendations returns a copy of the canned advice for a level.
func Recommendations(u UrgencyLevel) []string {
	return append([]string(nil), recommendationsByUrgency[u]...)
}

// SymptomSeverityScore scales the self-reported severity by the most urgent
// symptom class present.
func SymptomSeverityScore(p Profile) float64 {
	text := strings.ToLower(p.Symptom() + " " + strings.Join(p.AdditionalSymptoms, " "))
	return clamp01(p.SeverityScore / 10 * severityMultiplier(text))
}

func severityMultiplier(text string) float64 {
	for _, s := range highUrgencySymptoms {
		if strings.Contains(text, s) {
			return highUrgencyMultiplier
		}
	}
	for _, s := range moderateUrgencySymptoms {
		if strings.Contains(text, s) {
			return moderateUrgencyMultiplier
		}
	}
	return 1.0
}

// ChronicDiseaseScore adds the risk weight of every active condition.
func ChronicDiseaseScore(h MedicalHistory) float64 {
	total := 0.0
	for _, c := range Conditions {
		if h[c] {
			total += chronicConditionRisk[c]
		}
	}
	return math.Min(1, total)
}

// SymptomCountScore is a step function over the number of additional symptoms.
func SymptomCountScore(n int) float64 {
	switch {
	case n <= 0:
		return 0
	case n == 1:
		return 0.1
	case n <= 3:
		return 0.3
	default:
		// 0.7 + 0.1*(n-3), computed in tenths to stay exact.
		return math.Min(1, float64(n+4)/10)
	}
}

// DurationScore interprets a free-text duration. Cues are checked in a fixed
// order because "hour" is a substring of "hours".
func DurationScore(text string) float64 {
	d := strings.ToLower(text)
	switch {
	case strings.Contains(d, "minutes") || (strings.Contains(d, "hour") && !strings.Contains(d, "hours")):
		return 0.1
	case strings.Contains(d, "hours"):
		return 0.2
	case strings.Contains(d, "day"):
		days, ok := FirstInteger(d)
		switch {
		case !ok:
			return 0.4
		case days <= 3:
			return 0.3
		case days <= 7:
			return 0.5
		default:
			return 0.7
		}
	case strings.Contains(d, "week"):
		return 0.8
	case strings.Contains(d, "month"):
		return 0.9
	default:
		return 0.2
	}
}

func reasoning(p Profile, severity, chronic, count, duration float64) string {
	var reasons []string

	switch {
	case severity >= 0.7:
		reasons = append(reasons, fmt.Sprintf("High symptom severity (score: %.2f) - symptoms are severe", severity))
	case severity >= 0.4:
		reasons = append(reasons, fmt.Sprintf("Moderate symptom severity (score: %.2f)", severity))
	}

	if chronic > 0 {
		active := p.MedicalHistory.Active()
		names := make([]string, len(active))
		for i, c := range active {
			names[i] = c.DisplayName()
		}
		reasons = append(reasons, fmt.Sprintf("Chronic conditions increase risk: %s (score: %.2f)", strings.Join(names, ", "), chronic))
	}

	if count >= 0.3 {
		reasons = append(reasons, fmt.Sprintf("Multiple symptoms present (%d additional symptoms)", len(p.AdditionalSymptoms)))
	}

	if duration >= 0.5 {
		reasons = append(reasons, "Extended symptom duration increases concern")
	}

	if len(reasons) == 0 {
		return "Risk Assessment: Mild symptoms, recent onset"
	}
	return "Risk Assessment: " + strings.Join(reasons, "; ")
}

// DisplayName renders heart_disease as "Heart Disease".
func (c Condition) DisplayName() string {
	words := strings.Split(string(c), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
