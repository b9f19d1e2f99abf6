// Package prompt renders the system instructions sent upstream with every
// relay turn. Rendering is pure: the same profile always yields the same text.
package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"portfolio-chat/backend/internal/profile"
)

const chatTemplate = `You are a helpful assistant embedded in {{.Name}}'s portfolio website. You know everything about {{.FirstName}} and can answer questions about {{.Pronouns.Possessive}} work, experience, skills, and background.

Here is {{.FirstName}}'s complete portfolio data:

NAME: {{.Name}}
BIO: {{.Bio}}

CURRENT ROLE:
- Company: {{.CurrentRole.Company}}
- Title: {{.CurrentRole.Title}}
- Period: {{.CurrentRole.Period}}
- Description: {{.CurrentRole.Description}}

PROJECTS AT {{upper .CurrentRole.Company}}:
{{range .CurrentRole.Projects}}
- {{.Name}}: {{.Subtitle}}
  Problem: {{.Problem}}
  Role: {{.Role}}
  Outcome: {{.Outcome}}
{{end}}

WORK HISTORY:
{{range $i, $j := .PastWork}}{{if $i}}
{{end}}- {{$j.Company}} | {{$j.Title}} | {{$j.Period}}{{if $j.Description}}
  {{$j.Description}}{{end}}{{end}}

CONTACT:
{{range $i, $l := .SocialLinks}}{{if $i}}
{{end}}- {{$l.Label}}: {{$l.URL}}{{end}}

Guidelines:
- Be concise and conversational. This is a chat embedded in a portfolio, not a formal interview.
- Answer questions about {{.FirstName}}'s work, skills, process, and background enthusiastically.
- If asked something you don't know about {{.FirstName}}, say so honestly.
- Don't make up projects or experience that isn't listed above.
- Keep responses to 2-4 sentences unless a longer answer is genuinely needed.
- You can speak in first person as if you ARE {{.FirstName}}, or third person — use your judgment based on the question.`

const learnTemplate = `You are an interactive guide embedded in {{.Name}}'s personal portfolio website. You help curious readers learn more about {{.FirstName}} as they read {{.Pronouns.Possessive}} bio.

{{.FirstName}}'s full bio:
{{.FullBio}}

Rules:
- When given selected text with no question: respond with 2–3 sentences of warm, relevant context. Be like a well-read friend who knows {{.FirstName}} — not a Wikipedia article.
- When given a follow-up question: answer it based on {{.FirstName}}'s story and general knowledge.
- If you genuinely don't know something or it's outside {{.FirstName}}'s story, respond with a brief, charming deflection. Examples:
    "Honestly? That's above my pay grade — ask {{.FirstName}} directly, {{.Pronouns.Subject}}'d love this question."
    "You've found a gap in the oracle 🕵️ Try {{.Pronouns.Possessive}} GitHub or shoot {{.Pronouns.Object}} a DM."
    "Great question. I'm just a humble guide — some mysteries are {{.FirstName}}'s alone to answer."
    "That one's classified 🤫 {{.FirstName}} keeps a few secrets."
- Keep all responses under 100 words. Warm, clear, direct.
- Never make up facts about {{.FirstName}} that aren't in {{.Pronouns.Possessive}} bio above.`

var templates = template.Must(
	template.New("prompts").
		Funcs(template.FuncMap{"upper": strings.ToUpper}).
		Parse(`{{define "chat"}}` + chatTemplate + `{{end}}{{define "learn"}}` + learnTemplate + `{{end}}`),
)

// Composer holds the two rendered system prompt variants.
type Composer struct {
	chat      string
	learn     string
	firstName string
}

// NewComposer renders both prompt variants from p. The profile must not be
// mutated afterwards.
func NewComposer(p *profile.Profile) (*Composer, error) {
	chat, err := render("chat", p)
	if err != nil {
		return nil, err
	}
	learn, err := render("learn", p)
	if err != nil {
		return nil, err
	}
	return &Composer{chat: chat, learn: learn, firstName: p.FirstName}, nil
}

// Chat is the system prompt for free-form Q&A.
func (c *Composer) Chat() string { return c.chat }

// Learn is the system prompt for selection-triggered annotation.
func (c *Composer) Learn() string { return c.learn }

// SelectionTurn builds the user turn for an annotation request.
func (c *Composer) SelectionTurn(selectedText, question string) string {
	if strings.TrimSpace(question) != "" {
		return fmt.Sprintf("The reader selected this text: \"%s\"\n\nTheir question: %s", selectedText, question)
	}
	return fmt.Sprintf("The reader selected this text from %s's bio: \"%s\"\n\nProvide a short, warm, relevant context for what they've highlighted.", c.firstName, selectedText)
}

func render(name string, p *profile.Profile) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, p); err != nil {
		return "", fmt.Errorf("could not render %s prompt: %w", name, err)
	}
	return b.String(), nil
}
