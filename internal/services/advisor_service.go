package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// AdviceInput is the performance snapshot the advisor reasons about.
type AdviceInput struct {
	GuildName          string
	TotalRevenueMNT    int64
	WeeklyRevenueMNT   int64
	AvailableMNT       int64
	SubscriptionActive bool
	ActivePlanCount    int
}

// AdvisorService turns a weekly snapshot into short actionable
// recommendations. Implementations must degrade to canned advice instead
// of returning an error: reports always go out.
type AdvisorService interface {
	Advise(ctx context.Context, in AdviceInput) string
}

func advicePrompt(in AdviceInput) string {
	status := "Inactive or Expired"
	if in.SubscriptionActive {
		status = "Active"
	}
	return fmt.Sprintf(`You are a business advisor for Discord server monetization. Analyze this server's performance and give 3 concise, actionable recommendations in 150 words or less.

Server: %s
All-Time Revenue: %d MNT
Last 7 Days Revenue: %d MNT
Available Balance: %d MNT
Bot Subscription: %s
Active Role Plans: %d

Focus on:
1. Revenue trends (growth/decline)
2. Bot subscription status
3. Actionable improvements

Use emojis and be encouraging. Keep it brief and practical.`,
		in.GuildName, in.TotalRevenueMNT, in.WeeklyRevenueMNT, in.AvailableMNT, status, in.ActivePlanCount)
}

// fallbackAdvice covers LLM outages with something still useful.
func fallbackAdvice(in AdviceInput) string {
	switch {
	case in.WeeklyRevenueMNT == 0:
		return "💡 No revenue this week. Try promoting your roles more actively and consider adding new perks to attract members!"
	case in.TotalRevenueMNT > 0 && in.WeeklyRevenueMNT > in.TotalRevenueMNT/2:
		return "🔥 Amazing week! Your revenue is growing fast. Keep up the great work and consider expanding your offerings!"
	default:
		return "📈 Steady progress! Focus on member retention and consider surveying your community to understand what they value most."
	}
}

type openAIAdvisor struct {
	client *openai.Client
	model  string
}

func NewOpenAIAdvisor() AdvisorService {
	model := os.Getenv("OPENAI_ADVISOR_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}
	return &openAIAdvisor{
		client: openai.NewClient(os.Getenv("OPENAI_API_KEY")),
		model:  model,
	}
}

func (a *openAIAdvisor) Advise(ctx context.Context, in AdviceInput) string {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     a.model,
		MaxTokens: 300,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a helpful business advisor specializing in Discord server monetization. Be concise, encouraging, and actionable.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: advicePrompt(in),
			},
		},
	})
	if err != nil || len(resp.Choices) == 0 {
		log.Printf("advisor: openai request failed: %v", err)
		return fallbackAdvice(in)
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return fallbackAdvice(in)
	}
	return out
}

type geminiAdvisor struct {
	client *genai.Client
	model  string
}

// NewGeminiAdvisor is the free-tier alternative, selected with
// ADVISOR_PROVIDER=gemini.
func NewGeminiAdvisor(ctx context.Context) (AdvisorService, error) {
	model := os.Getenv("GEMINI_ADVISOR_MODEL")
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(os.Getenv("GEMINI_API_KEY")))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiAdvisor{client: client, model: model}, nil
}

func (a *geminiAdvisor) Advise(ctx context.Context, in AdviceInput) string {
	m := a.client.GenerativeModel(a.model)
	m.SetTemperature(0.4)

	resp, err := m.GenerateContent(ctx, genai.Text(advicePrompt(in)))
	if err != nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		log.Printf("advisor: gemini request failed: %v", err)
		return fallbackAdvice(in)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return fallbackAdvice(in)
	}
	return out
}

type staticAdvisor struct{}

// NewStaticAdvisor is used when no LLM key is configured and in tests.
func NewStaticAdvisor() AdvisorService { return staticAdvisor{} }

func (staticAdvisor) Advise(_ context.Context, in AdviceInput) string {
	return fallbackAdvice(in)
}
