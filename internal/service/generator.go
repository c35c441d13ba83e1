package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"cmbs_reminder/internal/domain"
	"cmbs_reminder/internal/logger"
)

// DefaultSubject is used whenever the generated text carries no parseable
// subject line.
const DefaultSubject = "Automated Reminder"

// Generator produces the reminder text for one assembled context. It must
// degrade rather than fail: implementations return an error-marker body on
// collaborator failure instead of propagating it.
type Generator interface {
	Generate(ctx context.Context, combined *domain.CombinedContext) (subject, body string, err error)
}

// TemplateGenerator renders reminders from a fixed template, with no
// external calls. It is the fallback when no API key is configured, and the
// generator used in tests.
type TemplateGenerator struct{}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

func (g *TemplateGenerator) Generate(ctx context.Context, combined *domain.CombinedContext) (string, string, error) {
	task := combined.Task

	subject := fmt.Sprintf("Reminder: %s (due %s)", task.Description, task.DueDate)
	if task.Priority == domain.PriorityCritical || task.Priority == domain.PriorityHigh {
		subject = "URGENT: " + subject
	}

	var b strings.Builder
	fmt.Fprintf(&b, "This is a reminder for task %s: %s.\n", task.ID, task.Description)
	fmt.Fprintf(&b, "Status: %s. Priority: %s. Due date: %s.\n", task.Status, task.Priority, task.DueDate)
	if task.PropertyID != "" {
		fmt.Fprintf(&b, "Property: %s.\n", task.PropertyID)
	}
	if task.LoanID != "" {
		fmt.Fprintf(&b, "Loan: %s.\n", task.LoanID)
	}
	if len(task.DependentTasksStatus) > 0 {
		b.WriteString("Dependent task status:\n")
		for _, depID := range sortedKeys(task.DependentTasksStatus) {
			fmt.Fprintf(&b, "- %s: %s\n", depID, task.DependentTasksStatus[depID])
		}
	}
	if combined.MarketNewsSummary != "" {
		fmt.Fprintf(&b, "Market insight: %s\n", combined.MarketNewsSummary)
	}
	return subject, b.String(), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GeminiGenerator calls the Gemini generateContent REST endpoint to write
// the reminder. Any failure (transport, HTTP status, empty candidates)
// degrades to an error-marker body.
type GeminiGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiGenerator(apiKey, model string) *GeminiGenerator {
	if model == "" {
		model = "gemini-pro"
	}
	return &GeminiGenerator{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiGenerator) Generate(ctx context.Context, combined *domain.CombinedContext) (string, string, error) {
	prompt := BuildReminderPrompt(combined, domain.Today())

	text, err := g.call(ctx, prompt)
	if err != nil {
		logger.Error("gemini call failed", "task_id", combined.Task.ID, "error", err)
		return DefaultSubject, fmt.Sprintf("Error generating reminder: %v", err), nil
	}

	subject, body := ParseSubjectBody(text)
	return subject, body, nil
}

func (g *GeminiGenerator) call(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ParseSubjectBody splits generated text on the "Subject:" marker into a
// subject line and body. This is deliberately best-effort: the model is
// instructed to lead with "Subject: ..." followed by a blank line, but when
// the marker or the blank-line separator is missing we fall back rather
// than fail (subject defaults to DefaultSubject, the whole text becomes the
// body). Leading salutations and trailing sign-offs are trimmed.
func ParseSubjectBody(content string) (string, string) {
	subject := DefaultSubject
	body := content

	if idx := strings.Index(content, "Subject:"); idx >= 0 {
		rest := strings.TrimSpace(content[idx+len("Subject:"):])
		if sep := strings.Index(rest, "\n\n"); sep >= 0 {
			subject = strings.TrimSpace(rest[:sep])
			body = strings.TrimSpace(rest[sep+2:])
		} else if line, _, ok := strings.Cut(rest, "\n"); ok {
			subject = strings.TrimSpace(line)
			body = rest
		} else {
			subject = rest
			body = rest
		}
	}

	if strings.HasPrefix(body, "Dear") {
		if parts := strings.SplitN(body, "\n", 3); len(parts) == 3 {
			body = parts[2]
		}
	}
	if idx := strings.Index(body, "Best regards,"); idx >= 0 {
		body = strings.TrimSpace(body[:idx])
	}
	return subject, body
}

// BuildReminderPrompt lays out the full asset-management prompt: task
// details, dependency statuses, property and loan context, market note, and
// the output-format instructions the parser expects.
func BuildReminderPrompt(combined *domain.CombinedContext, current domain.Date) string {
	task := combined.Task

	var b strings.Builder
	b.WriteString("You are an AI assistant specialized in CMBS (Commercial Mortgage-Backed Securities) asset management.\n")
	b.WriteString("Your goal is to generate a highly detailed, urgent, and actionable follow-up email reminder for an asset manager.\n")
	b.WriteString("The reminder should be professional, concise, and guide the user on critical next steps.\n\n")

	b.WriteString("Here are the task details:\n")
	fmt.Fprintf(&b, "- Task ID: %s\n", task.ID)
	fmt.Fprintf(&b, "- Description: %s\n", task.Description)
	fmt.Fprintf(&b, "- Assigned To: %s\n", task.AssignedTo)
	fmt.Fprintf(&b, "- Original Due Date: %s\n", task.DueDate)
	fmt.Fprintf(&b, "- Current Date: %s\n", current)
	fmt.Fprintf(&b, "- Status: %s\n", task.Status)
	fmt.Fprintf(&b, "- Priority: %s\n", task.Priority)
	fmt.Fprintf(&b, "- Task Type: %s\n", orNA(task.TaskType))
	fmt.Fprintf(&b, "- Property ID: %s\n", orNA(task.PropertyID))
	fmt.Fprintf(&b, "- Loan ID: %s\n", orNA(task.LoanID))
	if task.LastUpdateDate != nil {
		fmt.Fprintf(&b, "- Last Update Date: %s\n", task.LastUpdateDate)
	} else {
		b.WriteString("- Last Update Date: N/A\n")
	}
	fmt.Fprintf(&b, "- Last Update Notes: %s\n", orNone(task.LastUpdateNotes))

	if len(task.Dependencies) > 0 {
		b.WriteString("\nDependent Tasks Status:\n")
		for _, depID := range sortedKeys(task.DependentTasksStatus) {
			fmt.Fprintf(&b, "- %s: %s\n", depID, task.DependentTasksStatus[depID])
		}
	}

	if prop := combined.Property; prop != nil {
		b.WriteString("\nProperty Context:\n")
		fmt.Fprintf(&b, "- Property Type: %s\n", prop.PropertyType)
		fmt.Fprintf(&b, "- Current Occupancy: %.0f%%\n", prop.OccupancyRate*100)
	}

	if loan := combined.Loan; loan != nil {
		b.WriteString("\nLoan Context:\n")
		fmt.Fprintf(&b, "- Loan Type: %s\n", loan.LoanType)
		fmt.Fprintf(&b, "- Maturity Date: %s\n", loan.MaturityDate)
		fmt.Fprintf(&b, "- DSCR Covenant: %.2f (important for financial statements and performance reviews)\n", loan.DSCRCovenant)
	}

	if combined.MarketNewsSummary != "" {
		b.WriteString("\nRelevant Market Insight:\n")
		fmt.Fprintf(&b, "- %s\n", combined.MarketNewsSummary)
	}

	b.WriteString("\nThe reminder should:\n")
	b.WriteString("- Start with \"Subject: \" followed by the email subject line, then two newlines, then the email body.\n")
	b.WriteString("- Clearly state the current status (e.g., overdue, due soon) and its exact duration (e.g., \"overdue by X days\").\n")
	b.WriteString("- Emphasize the importance and potential implications based on task type, property, and loan context (e.g., compliance risks, impact on valuation/surveillance, market trends, covenant breaches).\n")
	b.WriteString("- Reference the last update and suggest concrete, actionable next steps based on the current situation and previous attempts. If dependencies are met, mention that. If the last update notes suggest a blocker, provide advice to overcome it.\n")
	b.WriteString("- Maintain a professional, concise, and actionable tone suitable for an internal asset manager.\n")
	fmt.Fprintf(&b, "- The recipient is %s.\n", task.AssignedTo)

	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
