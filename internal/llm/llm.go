package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/smartcut/internal/transcript"
)

const duplicatePrompt = `You are analyzing a video transcript where the speaker often repeats the same phrase multiple times (multiple takes). The LAST take is always the best.

Below are consecutive text blocks separated by pauses. Identify groups of blocks that are duplicate takes of the same content. For each group, mark which one to KEEP (always the last one in the group) and which ones to REMOVE.

Rules:
- Only group blocks that are clearly attempts at saying the same thing
- If a block is unique content (not a retry), don't include it in any group
- The "keep" block should always be the last one in the duplicate group
- Be conservative - only mark as duplicates if you're confident

Blocks:
%s

Return JSON in this exact format:
{
  "groups": [
    {
      "block_ids": [1, 2, 3],
      "keep": 3,
      "remove": [1, 2],
      "reason": "Three attempts at the same intro"
    }
  ]
}

If there are no duplicates, return: {"groups": []}`

const accentPrompt = `Identify 2-4 key words in this subtitle text that should be visually emphasized (highlighted in a different color). Choose important nouns, verbs, or key terms that carry the main meaning.

Text: "%s"

Return JSON array of words to accent (exactly as they appear in the text):
{"accent_words": ["word1", "word2"]}

Rules:
- Choose 2-4 words maximum
- Pick words that carry the core meaning
- Don't accent common words like "и", "в", "на", "это", "the", "is", "a"
- Return words exactly as they appear (same case, same form)`

const (
	duplicateTemperature = 0.1
	accentTemperature    = 0.3
)

// DetectDuplicates asks the model to group paragraphs that are repeat
// takes of the same content. Any failure is logged and reported as "no
// duplicates" so the cut still happens, just without dedupe.
func (a *implAnalyst) DetectDuplicates(ctx context.Context, paragraphs []transcript.Paragraph) []transcript.DuplicateGroup {
	if len(paragraphs) == 0 {
		return nil
	}

	blocks := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		blocks[i] = fmt.Sprintf("[%d] %q", p.ID, p.Text)
	}
	prompt := fmt.Sprintf(duplicatePrompt, strings.Join(blocks, "\n"))

	raw, err := a.generate(ctx, prompt, duplicateTemperature)
	if err != nil {
		a.logger.Warn(ctx, "Duplicate detection failed: %v", err)
		return nil
	}

	groups, err := parseDuplicateGroups(raw)
	if err != nil {
		a.logger.Warn(ctx, "Duplicate detection returned unusable JSON: %v", err)
		return nil
	}
	return groups
}

// AccentWords picks the emphasis words for one subtitle line. Lines
// under three words are skipped without a model call.
func (a *implAnalyst) AccentWords(ctx context.Context, text string) []string {
	if len(strings.Fields(text)) < 3 {
		return nil
	}

	raw, err := a.generate(ctx, fmt.Sprintf(accentPrompt, text), accentTemperature)
	if err != nil {
		a.logger.Warn(ctx, "Accent word identification failed: %v", err)
		return nil
	}

	var parsed struct {
		AccentWords []string `json:"accent_words"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		a.logger.Warn(ctx, "Accent words returned unusable JSON: %v", err)
		return nil
	}
	return parsed.AccentWords
}

func parseDuplicateGroups(raw string) ([]transcript.DuplicateGroup, error) {
	var parsed struct {
		Groups []transcript.DuplicateGroup `json:"groups"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, err
	}
	return parsed.Groups, nil
}

// callGemini runs one JSON-mode generation, rotating API keys on 429 /
// quota errors.
func (a *implAnalyst) callGemini(ctx context.Context, prompt string, temperature float32) (string, error) {
	attempts := len(a.apiKeys)
	if attempts == 0 {
		return "", fmt.Errorf("no Gemini API key configured")
	}
	var lastErr error

	for range attempts {
		key := a.apiKeys[a.currentKey]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			a.rotateKey()
			continue
		}

		config := &genai.GenerateContentConfig{
			Temperature:      genai.Ptr(temperature),
			ResponseMIMEType: "application/json",
		}
		result, err := client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), config)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				a.logger.Warn(ctx, "Key %d rate limited, rotating...", a.currentKey+1)
				a.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			return text, nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (a *implAnalyst) rotateKey() {
	a.currentKey = (a.currentKey + 1) % len(a.apiKeys)
}
