package agent

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const localModel = "local"

const reportDisclaimer = `IMPORTANT MEDICAL DISCLAIMER
===========================
This assessment is for triage guidance only.
It is NOT a medical diagnosis.
It does NOT replace professional medical evaluation.
Always consult qualified healthcare professionals.
In emergencies, CALL 911 IMMEDIATELY.
===========================`

var urgencyActions = map[string]string{
	"RED":    "CALL 911 or go to ER immediately",
	"YELLOW": "Schedule doctor visit within 24 hours",
	"GREEN":  "Supportive home care measures",
}

// LocalAnalyst synthesizes the analysis and report from the triage alone.
type LocalAnalyst struct {
	now func() time.Time
}

func NewLocalAnalyst() *LocalAnalyst {
	return &LocalAnalyst{now: time.Now}
}

func (a *LocalAnalyst) Analyze(_ context.Context, req Request) Result {
	analysis := a.analysis(req)
	return Result{
		Analysis: analysis,
		Report:   a.report(req, analysis),
		Model:    localModel,
		Success:  true,
	}
}

func (a *LocalAnalyst) analysis(req Request) string {
	p := req.Profile
	urgency := normalizeUrgency(req.Urgency)

	var b strings.Builder
	b.WriteString("TRIAGE ANALYSIS\n\n")

	b.WriteString("1. SYMPTOM ANALYSIS\n")
	fmt.Fprintf(&b, "- Primary symptom: %s\n", profileText(p, "primary_symptom"))
	fmt.Fprintf(&b, "- Duration: %s\n", profileText(p, "duration"))
	fmt.Fprintf(&b, "- Severity (1-10): %s\n", profileText(p, "severity_score"))
	fmt.Fprintf(&b, "- Additional symptoms: %s\n\n", profileText(p, "additional_symptoms"))

	b.WriteString("2. RED FLAGS ASSESSMENT\n")
	fmt.Fprintf(&b, "- Medical history: %s\n", profileText(p, "medical_history"))
	if req.RiskAssessment != "" {
		fmt.Fprintf(&b, "- %s\n", req.RiskAssessment)
	}
	b.WriteString("\n")

	b.WriteString("3. URGENCY DETERMINATION\n")
	fmt.Fprintf(&b, "- %s\n\n", urgency)

	b.WriteString("4. RECOMMENDED ACTIONS\n")
	fmt.Fprintf(&b, "- %s\n", urgencyAction(urgency))
	b.WriteString("- Monitor symptoms and seek care if they worsen\n\n")

	b.WriteString("5. FOLLOW-UP QUESTIONS\n")
	fmt.Fprintf(&b, "- Current medications: %s\n", profileText(p, "current_medications"))
	fmt.Fprintf(&b, "- Allergies: %s\n", profileText(p, "allergies"))
	return b.String()
}

func (a *LocalAnalyst) report(req Request, analysis string) string {
	p := req.Profile
	urgency := normalizeUrgency(req.Urgency)

	var b strings.Builder
	b.WriteString("HEALTHMATE TRIAGE ASSESSMENT REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", a.now().Format("2006-01-02 15:04"))

	b.WriteString("PATIENT INFORMATION\n")
	fmt.Fprintf(&b, "- Age: %s\n", profileText(p, "age"))
	fmt.Fprintf(&b, "- Gender: %s\n\n", profileText(p, "gender"))

	fmt.Fprintf(&b, "CHIEF COMPLAINT\n%s\n\n", profileText(p, "primary_symptom"))

	fmt.Fprintf(&b, "TRIAGE SEVERITY LEVEL\n%s\n", urgency)
	if req.RiskAssessment != "" {
		fmt.Fprintf(&b, "%s\n", req.RiskAssessment)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "CLINICAL OBSERVATIONS\n%s\n", strings.TrimSpace(analysis))
	b.WriteString("\n")

	fmt.Fprintf(&b, "IMMEDIATE RECOMMENDATIONS\n- %s\n\n", urgencyAction(urgency))

	b.WriteString("WHEN TO SEEK EMERGENCY CARE\n")
	b.WriteString("- Chest pain\n- Difficulty breathing\n- Loss of consciousness\n- Severe pain\n\n")

	b.WriteString(reportDisclaimer)
	b.WriteString("\n")
	return b.String()
}

func normalizeUrgency(u string) string {
	u = strings.ToUpper(strings.TrimSpace(u))
	if u == "" {
		return "UNKNOWN"
	}
	return u
}

func urgencyAction(urgency string) string {
	if a, ok := urgencyActions[urgency]; ok {
		return a
	}
	return "Consult a healthcare professional"
}
