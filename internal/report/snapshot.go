// Package report renders triage reports and delivers them to the on-call
// doctor.
package report

import (
	"fmt"
	"strings"
	"time"

	"healthmate/internal/triage"
)

// Snapshot is everything known about a session at report time.
type Snapshot struct {
	SessionID   string
	GeneratedAt time.Time
	Profile     triage.Profile
	Stage       triage.Stage
	Emergency   *triage.Trigger
	Risk        *triage.RiskScore
	Assessment  *triage.DiagnosticAssessment
	// Analysis is the narrative report produced by the analyst, if any.
	Analysis string
}

type line struct {
	text    string
	heading bool
}

const footer = "This report is triage guidance only. It is NOT a medical diagnosis."

func (s Snapshot) lines() []line {
	var out []line
	add := func(format string, args ...any) {
		out = append(out, line{text: fmt.Sprintf(format, args...)})
	}
	heading := func(text string) {
		out = append(out, line{}, line{text: text, heading: true})
	}

	out = append(out, line{text: "HEALTHMATE TRIAGE REPORT", heading: true})
	add("Session: %s", s.SessionID)
	add("Generated: %s", s.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"))
	add("Stage: %s", s.Stage)

	p := s.Profile
	heading("PATIENT")
	add("Age: %s", optionalInt(p.Age))
	gender := "Not provided"
	if p.Gender != nil {
		gender = string(*p.Gender)
	}
	add("Gender: %s", gender)
	add("Primary symptom: %s", orNotProvided(p.Symptom()))
	add("Duration: %s", orNotProvided(p.DurationText()))
	add("Severity: %g/10", p.SeverityScore)
	add("Medical history: %s", historyText(p.MedicalHistory))
	add("Current medications: %s", listText(p.CurrentMedications))
	add("Allergies: %s", listText(p.Allergies))
	add("Additional symptoms: %s", listText(p.AdditionalSymptoms))

	if s.Emergency != nil {
		heading("EMERGENCY")
		add("Category: %s", s.Emergency.Category)
		add("Matched phrase: %q", s.Emergency.Phrase)
	}

	if r := s.Risk; r != nil {
		heading("RISK ASSESSMENT")
		add("Urgency: %s %s (%s)", r.UrgencyLevel.Glyph(), r.UrgencyLevel, r.UrgencyLevel.Label())
		add("Overall score: %.2f", r.OverallScore)
		add("Symptom severity %.2f, chronic disease %.2f, symptom count %.2f, duration %.2f",
			r.SymptomSeverity, r.ChronicDisease, r.SymptomCount, r.Duration)
		add("%s", r.Reasoning)
		add("Recommendations:")
		for _, rec := range r.Recommendations {
			add("- %s", rec)
		}
	}

	if a := s.Assessment; a != nil {
		heading("DIAGNOSTIC ASSESSMENT")
		for _, l := range strings.Split(strings.Trim(a.Summary(), "\n"), "\n") {
			add("%s", l)
		}
	}

	if s.Analysis != "" {
		heading("ANALYSIS")
		for _, l := range strings.Split(strings.TrimSpace(s.Analysis), "\n") {
			add("%s", l)
		}
	}

	out = append(out, line{}, line{text: footer})
	return out
}

// Text renders the snapshot as plain text.
func Text(s Snapshot) string {
	var b strings.Builder
	for _, l := range s.lines() {
		b.WriteString(l.text)
		b.WriteString("\n")
	}
	return b.String()
}

func optionalInt(v *int) string {
	if v == nil {
		return "Not provided"
	}
	return fmt.Sprint(*v)
}

func orNotProvided(s string) string {
	if s == "" {
		return "Not provided"
	}
	return s
}

func listText(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

func historyText(h triage.MedicalHistory) string {
	active := h.Active()
	names := make([]string, len(active))
	for i, c := range active {
		names[i] = c.DisplayName()
	}
	return listText(names)
}
