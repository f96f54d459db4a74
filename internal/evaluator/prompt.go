package evaluator

import (
	"fmt"
	"strings"
)

// BuildContent assembles the evaluation prompt for text answers. The
// trailing JSON contract keeps backends from wrapping their verdict in
// prose or markdown fences.
func BuildContent(question, answer, rubric string) string {
	return fmt.Sprintf(`Instruction:
%s

Question:
%s

Answer:
%s

Return ONLY valid JSON in the following format.
DO NOT add explanations, markdown, or extra text.
DO NOT wrap in %s.

JSON schema:
{
  "score": number (0-100),
  "feedback": string
}`,
		strings.TrimSpace(rubric),
		strings.TrimSpace(question),
		strings.TrimSpace(answer),
		"```",
	)
}

// BuildVisualContent assembles the evaluation prompt for PDF answers.
func BuildVisualContent(question, rubric string) string {
	return fmt.Sprintf(`Instruction:
%s

Question:
%s

Use ONLY the provided visual document (PDF or images) to answer.
Do NOT rely on prior knowledge.
If information is missing, reflect that in the feedback.

Return ONLY valid JSON in the following format.
DO NOT add explanations, markdown, or extra text.
DO NOT wrap in %s.

JSON schema:
{
  "score": number (0-100),
  "feedback": string
}`,
		strings.TrimSpace(rubric),
		strings.TrimSpace(question),
		"```",
	)
}
