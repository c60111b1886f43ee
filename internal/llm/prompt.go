package llm

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
)

//go:embed prompt.tmpl
var generationPromptTemplate string

// extractImagePrompt is the fixed instruction for image text extraction.
// The sentinel lets the caller distinguish "no text" from a real answer.
const extractImagePrompt = "Extract all text content from this image. " +
	"Return only the text content, preserving the structure and formatting " +
	"as much as possible. If there is no text in the image, respond with 'NO_TEXT_FOUND'."

const noTextSentinel = "NO_TEXT_FOUND"

// minExtractedTextLen is a language-agnostic floor below which an OCR result
// is treated as insufficient rather than returned as a near-empty success.
const minExtractedTextLen = 10

const generationSystemPrompt = "You are an educational content expert " +
	"specialized in creating high-quality flashcards for learning."

var styleInstructions = map[Style]string{
	StyleQA:      "Each flashcard should have a clear question on the front and a complete answer on the back.",
	StyleConcept: "Each flashcard should have a concept or term on the front and its definition or explanation on the back.",
}

var difficultyInstructions = map[Difficulty]string{
	DifficultyBasic:        "Focus on fundamental concepts and core ideas that are essential for beginners.",
	DifficultyIntermediate: "Include more detailed concepts and relationships between ideas for learners with some background.",
	DifficultyAdvanced:     "Create cards that test deep understanding, edge cases, and complex relationships for advanced learners.",
}

type promptData struct {
	CardCount              int
	Language               string
	StyleInstructions      string
	Difficulty             Difficulty
	DifficultyInstructions string
	FocusList              string
	Content                string
}

// buildGenerationPrompt renders the deterministic instruction prompt shared
// by both adapters. Options must already have defaults applied.
func buildGenerationPrompt(content string, opts Options) (string, error) {
	tmpl, err := template.New("prompt").Parse(generationPromptTemplate)
	if err != nil {
		return "", err
	}

	style, ok := styleInstructions[opts.Style]
	if !ok {
		style = styleInstructions[StyleQA]
	}
	difficulty, ok := difficultyInstructions[opts.Difficulty]
	if !ok {
		difficulty = difficultyInstructions[DifficultyBasic]
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, promptData{
		CardCount:              opts.CardCount,
		Language:               opts.Language,
		StyleInstructions:      style,
		Difficulty:             opts.Difficulty,
		DifficultyInstructions: difficulty,
		FocusList:              strings.Join(opts.FocusTypes, ", "),
		Content:                content,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
