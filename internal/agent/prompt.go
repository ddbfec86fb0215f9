package agent

import (
	"fmt"
	"sort"
	"strings"
)

const grokSystemPrompt = "You are an experienced medical triage specialist. " +
	"Provide thorough but safe assessment. Always err on side of caution."

func analysisPrompt(req Request) string {
	p := req.Profile
	return fmt.Sprintf(`You are a medical triage specialist. Analyze this patient:

PATIENT INFORMATION:
Age: %s
Gender: %s
Primary Symptom: %s
Duration: %s
Severity (1-10): %s
Medical History: %s
Additional Symptoms: %s
Current Medications: %s
Allergies: %s

IMPORTANT GUIDELINES:
- This is for TRIAGE ASSESSMENT ONLY, not diagnosis
- Be conservative in assessment
- Escalate uncertainty to professional care
- Do NOT prescribe medications
- Focus on red flags and urgency

PROVIDE ANALYSIS WITH:

1. SYMPTOM ANALYSIS
2. RED FLAGS ASSESSMENT
3. URGENCY DETERMINATION (GREEN: home care, YELLOW: doctor within 24 hours, RED: emergency care)
4. RECOMMENDED ACTIONS
5. FOLLOW-UP QUESTIONS

Format clearly with headers. Be thorough but concise.`,
		profileText(p, "age"),
		profileText(p, "gender"),
		profileText(p, "primary_symptom"),
		profileText(p, "duration"),
		profileText(p, "severity_score"),
		profileText(p, "medical_history"),
		profileText(p, "additional_symptoms"),
		profileText(p, "current_medications"),
		profileText(p, "allergies"),
	)
}

func reportPrompt(req Request, analysis string) string {
	p := req.Profile
	urgency := normalizeUrgency(req.Urgency)
	return fmt.Sprintf(`Generate a professional TRIAGE ASSESSMENT REPORT (not a diagnosis):

PATIENT DEMOGRAPHICS:
- Age: %s
- Gender: %s

CHIEF COMPLAINT:
%s

ANALYSIS:
%s

ASSESSED URGENCY LEVEL: %s

CREATE REPORT WITH SECTIONS:
HEALTHMATE TRIAGE ASSESSMENT REPORT, PATIENT INFORMATION, CHIEF COMPLAINT,
SYMPTOM ASSESSMENT, TRIAGE SEVERITY LEVEL, CLINICAL OBSERVATIONS,
DIFFERENTIAL CONSIDERATIONS, IMMEDIATE RECOMMENDATIONS, WHEN TO SEEK EMERGENCY CARE,
HOME CARE SUGGESTIONS, WHAT TO TELL YOUR HEALTHCARE PROVIDER, FOLLOW-UP.

End with this disclaimer verbatim:
%s

Make report suitable for patient to share with healthcare provider.`,
		profileText(p, "age"),
		profileText(p, "gender"),
		profileText(p, "primary_symptom"),
		analysis,
		urgency,
		reportDisclaimer,
	)
}

// profileText renders one profile field for prose. Missing values read as
// "Not provided", empty lists as "None".
func profileText(p map[string]any, key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return "Not provided"
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return "Not provided"
		}
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case []string:
		return joinOrNone(t)
	case []any:
		items := make([]string, 0, len(t))
		for _, item := range t {
			items = append(items, fmt.Sprint(item))
		}
		return joinOrNone(items)
	case map[string]bool:
		var active []string
		for k, on := range t {
			if on {
				active = append(active, k)
			}
		}
		sort.Strings(active)
		return joinOrNone(active)
	case map[string]any:
		var active []string
		for k, on := range t {
			if b, _ := on.(bool); b {
				active = append(active, k)
			}
		}
		sort.Strings(active)
		return joinOrNone(active)
	default:
		return fmt.Sprint(t)
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
