package ai

import "context"

// Criteria bounds enforced by the configuration editor and re-checked before evaluation.
const (
	MinCriteria = 3
	MaxCriteria = 7
)

// VivaQuestionCount is the exact number of oral-defence questions every report carries.
const VivaQuestionCount = 10

// EvaluationConfig describes a single project submitted for evaluation.
type EvaluationConfig struct {
	ProjectTitle       string   `json:"projectTitle" validate:"required,notblank"`
	Discipline         string   `json:"discipline"`
	AcademicLevel      string   `json:"academicLevel"`
	EvaluationContext  string   `json:"evaluationContext" validate:"required,notblank"`
	ProjectURL         string   `json:"projectURL" validate:"omitempty,projecturl"`
	EvaluationCriteria []string `json:"evaluationCriteria" validate:"min=3,max=7,dive,required"`
	CheckOriginality   bool     `json:"checkOriginality"`
}

// Clone returns a copy that shares no slices with the receiver.
func (c EvaluationConfig) Clone() EvaluationConfig {
	c.EvaluationCriteria = append([]string(nil), c.EvaluationCriteria...)
	return c
}

// UploadedFile is a project artefact already encoded for the prompt.
type UploadedFile struct {
	Name          string `json:"name" validate:"required"`
	MimeType      string `json:"mimeType"`
	ContentBase64 string `json:"contentBase64"`
}

// ScoredCategory is the model's verdict on one evaluation criterion.
type ScoredCategory struct {
	Category      string   `json:"category"`
	Score         int      `json:"score"`
	Justification []string `json:"justification"`
}

// VivaQuestion is one oral-defence question with the points a good answer covers.
type VivaQuestion struct {
	QuestionNumber       int      `json:"question_number"`
	Question             string   `json:"question"`
	ExpectedAnswerPoints []string `json:"expected_answer_points"`
}

// OriginalityFinding is a single originality concern.
type OriginalityFinding struct {
	Finding     string `json:"finding"`
	Explanation string `json:"explanation"`
}

// OriginalityReport is the conceptual originality assessment.
type OriginalityReport struct {
	OriginalityScore int                  `json:"originalityScore"`
	Summary          string               `json:"summary"`
	Findings         []OriginalityFinding `json:"findings"`
}

// Report is the model-provided part of a project report, before identity is assigned.
type Report struct {
	ProjectTitle      string             `json:"projectTitle"`
	SubmissionType    string             `json:"submissionType"`
	Discipline        string             `json:"discipline"`
	AcademicLevel     string             `json:"academicLevel"`
	OverallScore      int                `json:"overallScore"`
	SummaryTitle      string             `json:"summaryTitle"`
	ScoredCategories  []ScoredCategory   `json:"scoredCategories"`
	OriginalityReport *OriginalityReport `json:"originalityReport,omitempty"`
	OverallAnalysis   string             `json:"overallAnalysis"`
	SuggestedActions  []string           `json:"suggestedActions"`
	VivaQuestions     []VivaQuestion     `json:"vivaQuestions"`
}

// ProjectReport is a finalized, persistable report.
type ProjectReport struct {
	ID        string `json:"id"`
	SavedDate string `json:"savedDate"`
	Report
}

// GenerateRequest is what the pipeline sends to the remote model.
type GenerateRequest struct {
	Model       string
	Prompt      string
	Schema      EvaluationSchema
	Temperature float32
}

// GenerateResponse carries the raw text produced by the model.
type GenerateResponse struct {
	Text string
}

// Generator is an opaque remote text model able to honour a response schema.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Name() string
}
