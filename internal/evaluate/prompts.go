package evaluate

import "fmt"

const evaluatorSystemPrompt = `You are an expert sales analyst scoring lead quality against a rubric. Respond with a single JSON object and nothing else.`

const evaluationTemplate = `Decide how well this lead fits the rubric below.

Lead's PROFILE SUMMARY:
%s

Lead's COMPANY SUMMARY:
%s

%s

Respond in JSON:
{"icp_fit_strength": "High" | "Medium" | "Low", "reason": "one or two sentences"}`

const validatorSystemPrompt = `You are a senior quality-control analyst and a skeptical reviewer of lead classifications. Respond ONLY with valid JSON, no other text.`

const validationTemplate = `Judge from scratch whether the classification below is correct. Read it, but do not rely on its reasoning. Scrutinize "High" and "Low" labels especially hard.

Lead's PROFILE SUMMARY:
%s

Lead's COMPANY SUMMARY:
%s

CLASSIFICATION UNDER REVIEW:
- Fit strength: %s
- Reason: %s

RUBRIC:
%s

validation_judgement must be exactly one of:
- "Correct": the label matches the evidence and the rubric
- "Incorrect": the label clearly contradicts the evidence
- "Unsure": edge case or not enough information

validation_reason: one or two short sentences citing specific evidence.

Respond with only this JSON object:
{"validation_judgement": "Correct" | "Incorrect" | "Unsure", "validation_reason": "..."}`

func evaluationPrompt(profileSummary, companySummary, rubric string) string {
	return fmt.Sprintf(evaluationTemplate, profileSummary, companySummary, rubric)
}

func validationPrompt(profileSummary, companySummary string, ev Evaluation, rubric string) string {
	reason := ev.Reason
	if reason == "" {
		reason = "No reason provided"
	}
	return fmt.Sprintf(validationTemplate, profileSummary, companySummary, ev.FitStrength, reason, rubric)
}
