package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"talent/internal/domain/lexicon"
)

const (
	DefaultAssistantTimeout = 20 * time.Second
	assistantConfidence     = 85
)

var (
	ErrAssistantUnavailable = errors.New("ai assistant not configured")
	ErrInvalidAssistantData = errors.New("ai assistant returned an invalid rating")
)

type Analyzer struct {
	lexicons  lexicon.Set
	assistant Assistant
	timeout   time.Duration
}

type Option func(*Analyzer)

// WithAssistant enables AI-assisted analysis. A non-positive timeout uses
// DefaultAssistantTimeout.
func WithAssistant(a Assistant, timeout time.Duration) Option {
	return func(an *Analyzer) {
		an.assistant = a
		if timeout > 0 {
			an.timeout = timeout
		}
	}
}

func NewAnalyzer(lexicons lexicon.Set, opts ...Option) *Analyzer {
	a := &Analyzer{lexicons: lexicons, timeout: DefaultAssistantTimeout}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) AssistantEnabled() bool {
	return a.assistant != nil
}

// Analyze never fails. In AI mode any assistant error, timeout or invalid
// reply falls back to pattern analysis and is reported on the result.
func (a *Analyzer) Analyze(ctx context.Context, text string, mode Mode) Analysis {
	if mode != ModeAI {
		return a.analyzePatterns(text)
	}

	analysis, err := a.analyzeWithAssistant(ctx, text)
	if err == nil {
		return analysis
	}

	slog.Warn("review ai analysis failed, using pattern analysis", "err", err)
	fallback := a.analyzePatterns(text)
	fallback.FallbackUsed = true
	fallback.FallbackReason = err.Error()
	return fallback
}

func (a *Analyzer) analyzePatterns(text string) Analysis {
	f := extractFields(text)
	sec := extractSections(text)

	perf := lexicon.Score(text, a.lexicons.Performance)
	pot := lexicon.Score(text, a.lexicons.Potential)
	placement := PlacementSuggestion{
		Performance: perf.Rating,
		Potential:   pot.Rating,
		Confidence:  meanConfidence(perf.Confidence, pot.Confidence),
	}

	planType := DeterminePlanType(placement.Performance, placement.Potential)
	plan := buildPlan(planInputs{
		planType:    planType,
		performance: placement.Performance,
		potential:   placement.Potential,
		title:       f.Title,
		strengths:   sec.Strengths,
		gaps:        sec.Improvements,
	})

	return Analysis{
		EmployeeName: f.Name,
		Title:        f.Title,
		Department:   f.Department,
		Email:        f.Email,
		Placement:    placement,
		Plan:         plan,
		KeyInsights:  keyInsights(placement, perf.Confidence, pot.Confidence, sec, planType),
		Strengths:    sec.Strengths,
		Improvements: sec.Improvements,
		Achievements: sec.Achievements,
		Challenges:   sec.Challenges,
		Source:       SourcePattern,
	}
}

type assistantReply struct {
	result AssistantResult
	err    error
}

func (a *Analyzer) analyzeWithAssistant(ctx context.Context, text string) (Analysis, error) {
	if a.assistant == nil {
		return Analysis{}, ErrAssistantUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	replies := make(chan assistantReply, 1)
	go func() {
		result, err := a.assistant.AnalyzeReview(ctx, text)
		replies <- assistantReply{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		return Analysis{}, fmt.Errorf("ai analysis: %w", ctx.Err())
	case reply := <-replies:
		if reply.err != nil {
			return Analysis{}, reply.err
		}
		return fromAssistant(reply.result, text)
	}
}

func fromAssistant(res AssistantResult, text string) (Analysis, error) {
	perf := lexicon.Rating(strings.ToLower(strings.TrimSpace(res.SuggestedPerformance)))
	pot := lexicon.Rating(strings.ToLower(strings.TrimSpace(res.SuggestedPotential)))
	if !perf.Valid() || !pot.Valid() {
		return Analysis{}, fmt.Errorf("%w: performance=%q potential=%q", ErrInvalidAssistantData, res.SuggestedPerformance, res.SuggestedPotential)
	}

	f := extractFields(text)
	sec := extractSections(text)
	sec.Strengths = preferNonEmpty(cleanList(res.KeyStrengths), sec.Strengths)
	sec.Improvements = preferNonEmpty(cleanList(res.DevelopmentAreas), sec.Improvements)

	placement := PlacementSuggestion{Performance: perf, Potential: pot, Confidence: assistantConfidence}
	planType := DeterminePlanType(perf, pot)
	title := orDefault(res.Title, f.Title)

	templated := buildPlan(planInputs{
		planType:    planType,
		performance: perf,
		potential:   pot,
		title:       title,
		strengths:   sec.Strengths,
		gaps:        sec.Improvements,
	})
	plan := DraftPlan{
		PlanType:       planType,
		Objectives:     head(preferNonEmpty(cleanList(res.Objectives), templated.Objectives), maxObjectives),
		ActionItems:    head(preferNonEmpty(normalizeActionItems(res.ActionItems), templated.ActionItems), maxActionItems),
		SuccessMetrics: head(preferNonEmpty(cleanList(res.SuccessMetrics), templated.SuccessMetrics), maxSuccessMetrics),
		Timeline:       templated.Timeline,
	}

	insights := keyInsights(placement, assistantConfidence, assistantConfidence, sec, planType)
	return Analysis{
		EmployeeName: orDefault(res.EmployeeName, f.Name),
		Title:        title,
		Department:   orDefault(res.Department, f.Department),
		Email:        orDefault(res.Email, f.Email),
		Placement:    placement,
		Plan:         plan,
		KeyInsights:  insights,
		Strengths:    sec.Strengths,
		Improvements: sec.Improvements,
		Achievements: sec.Achievements,
		Challenges:   sec.Challenges,
		Reasoning:    strings.TrimSpace(res.Reasoning),
		Source:       SourceAI,
	}, nil
}

func normalizeActionItems(items []ActionItem) []ActionItem {
	var out []ActionItem
	for _, item := range items {
		item.Description = strings.TrimSpace(item.Description)
		if item.Description == "" {
			continue
		}
		switch item.Priority {
		case PriorityHigh, PriorityMedium, PriorityLow:
		default:
			item.Priority = PriorityMedium
		}
		switch item.Owner {
		case OwnerEmployee, OwnerManager, OwnerHR:
		default:
			item.Owner = OwnerEmployee
		}
		item.DueOffsetDays = max(item.DueOffsetDays, 0)
		item.Completed = false
		out = append(out, item)
	}
	return out
}

func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func preferNonEmpty[T any](primary, fallback []T) []T {
	if len(primary) > 0 {
		return primary
	}
	return fallback
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func meanConfidence(a, b int) int {
	return (a + b + 1) / 2
}
