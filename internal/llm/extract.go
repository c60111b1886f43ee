package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// responseExtractor locates the JSON payload inside a model's text answer.
// Vendors differ: OpenAI returns clean JSON when asked for a json_object,
// while Anthropic may wrap the object in prose. Each adapter picks the
// strategy matching its vendor's capability so the brittle part stays
// isolated and testable.
type responseExtractor interface {
	Extract(text string) ([]byte, error)
}

// strictJSONExtractor expects the whole answer to be the JSON document.
type strictJSONExtractor struct{}

func (strictJSONExtractor) Extract(text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("empty response text")
	}
	return []byte(text), nil
}

// embeddedJSONExtractor scans the answer for the first balanced top-level
// JSON object, skipping prose before and after it. String literals and
// escapes are honored so braces inside card text do not break the scan.
type embeddedJSONExtractor struct{}

func (embeddedJSONExtractor) Extract(text string) ([]byte, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if start == -1 {
			if c == '{' {
				start = i
				depth = 1
			}
			continue
		}
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return []byte(text[start : i+1]), nil
			}
		}
	}
	return nil, fmt.Errorf("no JSON object found in response")
}

// rawCard is the wire shape of one card as models actually emit it,
// including the question/answer aliases some models use for front/back.
type rawCard struct {
	ID          string   `json:"id"`
	Front       string   `json:"front"`
	Back        string   `json:"back"`
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Tags        []string `json:"tags"`
	SourceQuote string   `json:"sourceQuote"`
}

type rawGeneration struct {
	Cards []rawCard `json:"cards"`
}

// parseGeneration extracts, parses, and normalizes a model answer into a
// GenerationResult. A missing cards array or malformed JSON is fatal; the
// error is wrapped, never swallowed.
func parseGeneration(text string, extractor responseExtractor, model string, opts Options) (*GenerationResult, error) {
	raw, err := extractor.Extract(text)
	if err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}

	var parsed rawGeneration
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse model response as JSON: %w", err)
	}
	if parsed.Cards == nil {
		return nil, fmt.Errorf("invalid response format: missing cards array")
	}

	cards := make([]Card, 0, len(parsed.Cards))
	for i, rc := range parsed.Cards {
		card := Card{
			ID:          rc.ID,
			Front:       rc.Front,
			Back:        rc.Back,
			Tags:        rc.Tags,
			SourceQuote: rc.SourceQuote,
		}
		if card.Front == "" {
			card.Front = rc.Question
		}
		if card.Back == "" {
			card.Back = rc.Answer
		}
		if card.Tags == nil {
			card.Tags = []string{}
		}
		if card.ID == "" {
			// Zero-padded sequential fallback keeps ids unique within
			// one result when the model omits them.
			card.ID = fmt.Sprintf("fc_%03d", i+1)
		}
		cards = append(cards, card)
	}

	return &GenerationResult{
		Cards: cards,
		Meta: Meta{
			Language:    opts.Language,
			CardCount:   len(cards),
			Model:       model,
			GeneratedAt: time.Now().UTC(),
		},
	}, nil
}

// checkExtractedText rejects the sentinel and near-empty OCR output.
func checkExtractedText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == noTextSentinel || len(trimmed) < minExtractedTextLen {
		return "", Validationf("Could not extract sufficient text from the image. " +
			"Please ensure the image contains clear, readable text.")
	}
	return text, nil
}
