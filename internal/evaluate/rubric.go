package evaluate

import (
	"strings"

	"github.com/sells-group/leadscout/internal/model"
)

// icpRubric is the built-in Ideal Customer Profile used when no custom
// criteria are supplied.
const icpRubric = `## About us
Dograh is an open-source voice AI workflow builder: a drag-and-drop platform for building and deploying voice agents with full control over the STT/LLM/TTS pipeline, positioned as an alternative to proprietary platforms such as Vapi and Bland AI. We also run a fully managed SaaS offering where we build, integrate and maintain the agent for the customer and charge a setup fee plus per-minute usage.

## Who fits
- Anyone building voice AI agents on top of a platform is a potential customer. Anyone building a voice AI platform is a competitor.
- Open-source software attracts builders: small startups that ship voice agents (for example restaurant voice ordering) usually build on some platform and can be High or Medium fits.
- Strong verticals: fintech, mortgage, insurance and claims, credit unions, financial services, collections and accounts receivable, home services, logistics, travel and hospitality.
- Call centers, customer support and CX/contact-center transformation companies.
- Agencies and people at agencies: voice app builders on Voiceflow/Retell/Vapi, no-code and low-code automation shops, Twilio/Dialogflow/Rasa implementation partners, conversational AI studios, system integrators and consulting partners.
- Founders fit High or Medium only when their company or work could use our offerings.
- People building voice agents with Retell, Vapi and similar tools (not employed there) are good fits.

## Who does not fit (Low)
- HR, marketing, personal branding, coaches, students and content creators.
- Junior, non-technical roles at large companies, and people just starting their careers (unless engineers or founders).
- Companies that built proprietary voice platforms from scratch, and anyone currently employed at competitor or big-tech platforms such as Google, Amazon, Microsoft, Meta, Oracle, SAP, Salesforce, OpenAI, Twilio, Vapi, Bland AI, Retell AI, ElevenLabs, Deepgram, AssemblyAI, Speechmatics, Cartesia, Voiceflow, Synthflow, PlayAI, Cognigy, Kore.ai, Yellow.ai, Uniphore, Plivo, Vonage or Telnyx. Consulting partners of these companies are Medium.

## How to judge
Look closely at the last two roles for hands-on voice AI work, the person's decision-making authority, seniority, company size and industry. Use "High" or "Low" only when confident; when in doubt use "Medium".`

// RenderRubric returns the rubric text for criteria. A nil criteria yields the
// built-in ICP rubric. Optional refinements are rendered one per line and only
// when present.
func RenderRubric(c *model.EvaluationCriteria) string {
	if c == nil {
		return icpRubric
	}

	lines := []string{"## What we are looking for", strings.TrimSpace(c.UseCaseDescription)}
	add := func(label, value string) {
		if v := strings.TrimSpace(value); v != "" {
			lines = append(lines, label+": "+v)
		}
	}
	add("Target roles", c.TargetRoles)
	add("Target industries", c.TargetIndustries)
	add("Company size", string(c.CompanySize))
	add("Additional notes", c.AdditionalNotes)
	lines = append(lines,
		`Classify how well the lead matches these criteria. Use "High" or "Low" only when confident; when in doubt use "Medium".`)
	return strings.Join(lines, "\n")
}
