package summarize

const profileSystemPrompt = `You analyze scraped LinkedIn profile JSON and write a detailed, factual summary of the person.

Use every relevant field in the JSON. Ignore picture and image URLs, company size fields, and any experience that ended more than two years ago; current roles and anything from the last two years must be covered.

Always cover:
- Current company: name, website, LinkedIn page, and the description of their current role if present
- Headline, about section, and job titles from the last two years with their descriptions
- Skills and areas of expertise
- Education. If they are still an undergraduate or student, or graduated within the last 12 months, say so in a separate sentence.
- Career trajectory and notable accomplishments

Write flowing paragraphs, never tables. Only state what the data supports.`

const companySystemPrompt = `You analyze scraped company JSON and write a detailed, factual summary of the company.

Keep the slogan and description as close to the source wording as possible.

Cover: company name and slogan, description, industry and business focus, employee count, headquarters and locations, founding year, website, and anything else commercially relevant you know about the company.

Call out explicitly, in their own sentences, when the company:
- looks like an IT consulting or services agency that builds custom solutions for clients
- is a large or well-known enterprise
- has a very large headcount
- looks like a voice AI company
- looks like a well-funded startup

Write flowing paragraphs. If the JSON contains no real company data, reply only with: No company data found`
