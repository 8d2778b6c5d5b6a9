package ai

import (
	"fmt"
	"strings"
)

// Literal markers the model (and the tests) rely on.
const (
	NoFilesSentinel       = "No files were uploaded."
	URLNotProvided        = "Not provided."
	DocumentationCriteria = "Documentation"
)

// FileStartMarker returns the delimiter opening an embedded file.
func FileStartMarker(name string) string {
	return fmt.Sprintf("--- FILE START: %s ---", name)
}

// FileEndMarker returns the delimiter closing an embedded file.
func FileEndMarker(name string) string {
	return fmt.Sprintf("--- FILE END: %s ---", name)
}

// ComposePrompt renders the full instruction set for one evaluation request.
// The output depends only on its arguments.
func ComposePrompt(cfg EvaluationConfig, files []UploadedFile) string {
	b := strings.Builder{}

	b.WriteString("You are ASAP AI, a strict, unemotional and professional university professor evaluating a student project.\n")
	b.WriteString("Provide a comprehensive, critical and objective evaluation based ONLY on the information supplied below.\n")
	b.WriteString("Do not invent details. Your tone must be formal and academic.\n")

	b.WriteString("\n**Project Details:**\n")
	fmt.Fprintf(&b, "- Title: \"%s\"\n", cfg.ProjectTitle)
	fmt.Fprintf(&b, "- Discipline: %s\n", cfg.Discipline)
	fmt.Fprintf(&b, "- Academic Level: %s\n", cfg.AcademicLevel)
	fmt.Fprintf(&b, "- Project URL: %s\n", projectURL(cfg.ProjectURL))
	fmt.Fprintf(&b, "- Evaluation Context: %s\n", cfg.EvaluationContext)

	b.WriteString("\n**Project Files:**\n")
	writeFiles(&b, files)

	b.WriteString("\n**Evaluation Mandate:**\n")
	b.WriteString("1. **Analyze and Score:** Evaluate the project against each of the following criteria. For every criterion give a score from 0 to 100 and a list of justifications for that score.\n")
	fmt.Fprintf(&b, "   - Evaluation Criteria: %s\n", strings.Join(cfg.EvaluationCriteria, ", "))
	if len(files) == 0 && containsCriterion(cfg.EvaluationCriteria, DocumentationCriteria) {
		fmt.Fprintf(&b, "   - **Special Instruction:** No project files were uploaded. You MUST assign the '%s' criterion a score of exactly 0 and justify it by stating that no documents were provided for review. Evaluate every other criterion as normal using only the available information (the project URL and the evaluation context).\n", DocumentationCriteria)
	}
	b.WriteString("2. **Calculate Overall Score:** Compute a weighted average of the criteria scores to determine the overall score (an integer from 0 to 100).\n")
	b.WriteString("3. **Provide Summary:** Write a concise summary title (e.g., \"Pass with Distinction\", \"Requires Major Revision\").\n")
	b.WriteString("4. **Detailed Analysis:** Write a comprehensive paragraph analysing the project's strengths and weaknesses.\n")
	b.WriteString("5. **Actionable Suggestions:** Provide a list of concrete, actionable steps the student should take to improve the work.\n")
	fmt.Fprintf(&b, "6. **Viva Questions:** Generate exactly %d challenging viva voce (oral defence) questions that probe the student's understanding of the project, its context and its limitations. Number them from 1 to %d and accompany each question with a list of the key points expected in a good answer.\n", VivaQuestionCount, VivaQuestionCount)
	if cfg.CheckOriginality {
		b.WriteString(originalityInstructions)
	}

	b.WriteString("\n**Output Format:**\n")
	b.WriteString("You MUST return your entire response as a single, valid JSON object that strictly adheres to the provided schema. Do not include any text, explanations or markdown formatting outside of the JSON object.\n")
	fmt.Fprintf(&b, "If 'checkOriginality' was false, the '%s' key must be omitted entirely from the final JSON.\n", OriginalityProperty)

	return b.String()
}

// OriginalityHeading opens the originality block; its presence marks the block in a prompt.
const OriginalityHeading = "7. **Originality Check:**"

const originalityInstructions = OriginalityHeading + ` Perform a conceptual originality check. This is not a plagiarism-database lookup.
   - Assess whether the project concept is novel or a common, tutorial-level implementation.
   - Identify potential sources of unoriginality (e.g., standard library examples, popular online tutorials, highly similar public repositories).
   - Provide an "Originality Score" from 0 to 100 (where 100 is completely original) and a summary.
   - List specific findings only if concerns exist. If the project appears original, the findings array MUST be empty; never use placeholders or null.
`

func writeFiles(b *strings.Builder, files []UploadedFile) {
	if len(files) == 0 {
		b.WriteString(NoFilesSentinel)
		b.WriteString("\n")
		return
	}
	for _, f := range files {
		b.WriteString(FileStartMarker(f.Name))
		b.WriteString("\n")
		if f.MimeType != "" {
			fmt.Fprintf(b, "Type: %s\n", f.MimeType)
		}
		fmt.Fprintf(b, "Content (Base64 Encoded): %s\n", f.ContentBase64)
		b.WriteString(FileEndMarker(f.Name))
		b.WriteString("\n")
	}
}

func projectURL(url string) string {
	if strings.TrimSpace(url) == "" {
		return URLNotProvided
	}
	return url
}

func containsCriterion(criteria []string, name string) bool {
	for _, c := range criteria {
		if c == name {
			return true
		}
	}
	return false
}
