// Package summary turns an instructor's consultation notes into feedback for the homeroom teacher.
package summary

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/jakechorley/consult-hub/pkg/core/model"
)

const (
	DefaultModel = "gemini-3-flash-preview"

	// Returned when the model produced no text
	NoSummaryMessage = "요약을 생성할 수 없습니다."
	// Returned when the model could not be reached
	FailureMessage = "AI 연동 중 오류가 발생했습니다."
)

// Summarizer produces a summary for a request. It always returns a displayable string.
type Summarizer interface {
	Summarize(ctx context.Context, rec model.ConsultationRequest) string
}

// Generator runs a single text prompt against a language model
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NotesSummarizer builds the feedback prompt and maps generator failures to fixed messages
type NotesSummarizer struct {
	generator Generator
	logger    *zap.Logger
}

func NewNotesSummarizer(generator Generator, logger *zap.Logger) *NotesSummarizer {
	return &NotesSummarizer{generator: generator, logger: logger}
}

// Summarize never returns an error; failures yield one of the fixed messages
func (s *NotesSummarizer) Summarize(ctx context.Context, rec model.ConsultationRequest) string {
	text, err := s.generator.Generate(ctx, Prompt(rec))
	if err != nil {
		s.logger.Error("Summary generation failed", zap.String("id", rec.ID), zap.Error(err))
		return FailureMessage
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Warn("Summary generation returned no text", zap.String("id", rec.ID))
		return NoSummaryMessage
	}
	return text
}

// Prompt renders the summarization prompt for rec
func Prompt(rec model.ConsultationRequest) string {
	var b strings.Builder
	b.WriteString("You are an expert school counselor assistant.\n")
	b.WriteString("Summarize the following student consultation notes into a professional, concise feedback for the homeroom teacher.\n")
	b.WriteString("The feedback should include:\n")
	b.WriteString("1. Key issues discussed.\n")
	b.WriteString("2. Suggested action items or follow-ups.\n\n")
	b.WriteString("Language: Korean (Professional school tone)\n\n")
	fmt.Fprintf(&b, "Student: %s (%s)\n", rec.StudentName, rec.StudentClass)
	fmt.Fprintf(&b, "Subject: %s\n", rec.Subject)
	fmt.Fprintf(&b, "Homeroom Teacher's Request: %s\n", rec.Reason)
	fmt.Fprintf(&b, "Subject Instructor's Notes: %s\n", rec.InstructorNotes)
	return b.String()
}

// GeminiGenerator calls the Gemini API
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini API client. An empty model selects DefaultModel.
func NewGeminiGenerator(ctx context.Context, apiKey, modelName string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, model: modelName}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return resp.Text(), nil
}

var (
	_ Summarizer = (*NotesSummarizer)(nil)
	_ Generator  = (*GeminiGenerator)(nil)
)
