package review

import (
	"context"
	"fmt"

	"talent/internal/platform/llm"
)

type AssistantResult struct {
	EmployeeName         string       `json:"employeeName"`
	Title                string       `json:"title"`
	Department           string       `json:"department"`
	Email                string       `json:"email"`
	SuggestedPerformance string       `json:"suggestedPerformance" jsonschema:"enum=low,enum=medium,enum=high"`
	SuggestedPotential   string       `json:"suggestedPotential" jsonschema:"enum=low,enum=medium,enum=high"`
	Objectives           []string     `json:"objectives"`
	ActionItems          []ActionItem `json:"actionItems"`
	SuccessMetrics       []string     `json:"successMetrics"`
	Reasoning            string       `json:"reasoning"`
	KeyStrengths         []string     `json:"keyStrengths"`
	DevelopmentAreas     []string     `json:"developmentAreas"`
}

type Assistant interface {
	AnalyzeReview(ctx context.Context, reviewText string) (AssistantResult, error)
}

const assistantSystemPrompt = `You analyze employee performance reviews for an HR talent team.
Classify performance and potential as low, medium, or high using only evidence in the review.
Extract the employee's name, title, department and email when present; use empty strings otherwise.
Propose up to 5 objectives, up to 6 action items (dueOffsetDays counts from plan start) and up to 5 success metrics.
Keep reasoning to two sentences.`

type LLMAssistant struct {
	client llm.Client
	schema any
}

func NewLLMAssistant(client llm.Client) *LLMAssistant {
	return &LLMAssistant{client: client, schema: llm.GenerateSchema[AssistantResult]()}
}

func (a *LLMAssistant) AnalyzeReview(ctx context.Context, reviewText string) (AssistantResult, error) {
	var result AssistantResult
	_, err := a.client.Chat(ctx, llm.Request{
		SystemPrompt: assistantSystemPrompt,
		UserPrompt:   "Performance review:\n\n" + reviewText,
		SchemaName:   "review_analysis",
		Schema:       a.schema,
		Temperature:  llm.Temp(0),
	}, &result)
	if err != nil {
		return AssistantResult{}, fmt.Errorf("review assistant: %w", err)
	}
	return result, nil
}
