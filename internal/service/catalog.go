package service

import (
	"github.com/noah-isme/asap-api/internal/dto"
	"github.com/noah-isme/asap-api/pkg/ai"
)

// DefaultDiscipline and DefaultAcademicLevel seed a fresh configuration.
const (
	DefaultDiscipline    = "General"
	DefaultAcademicLevel = "Undergraduate (Year 3-4)"
)

// AcademicLevels lists the supported academic levels in display order.
var AcademicLevels = []string{
	"Undergraduate (Year 1-2)",
	"Undergraduate (Year 3-4)",
	"Masters",
	"PhD",
	"Professional Development",
}

var disciplineOrder = []string{
	"General",
	"Computer Science",
	"Electrical Engineering",
	"Biology",
	"Literature",
	"Finance",
	"History",
	"Art",
	"Physics",
	"Pharmacy",
	"Law",
}

var disciplineCriteria = map[string][]string{
	"General":                {"Clarity & Structure", "Depth of Research", "Originality"},
	"Computer Science":       {"Code Quality", "Algorithmic Depth", "System Design", "Documentation"},
	"Electrical Engineering": {"Circuit Design", "Signal Processing", "Control Systems", "Prototyping"},
	"Biology":                {"Methodology", "Data Analysis", "Literature Review", "Ethical Considerations"},
	"Literature":             {"Textual Analysis", "Argument Cohesion", "Historical Context", "Theoretical Framework"},
	"Finance":                {"Quantitative Analysis", "Market Understanding", "Risk Assessment", "Model Validity"},
	"History":                {"Primary Source Analysis", "Historiography", "Argumentation", "Chronological Accuracy"},
	"Art":                    {"Technical Skill", "Conceptual Strength", "Aesthetic Quality", "Artist Statement"},
	"Physics":                {"Theoretical Soundness", "Experimental Design", "Mathematical Rigor", "Data Interpretation"},
	"Pharmacy":               {"Pharmacology", "Clinical Application", "Regulatory Compliance", "Patient Safety"},
	"Law":                    {"Legal Reasoning", "Precedent Analysis", "Statutory Interpretation", "Argument Structure"},
}

// DisciplineCriteria returns a copy of the default criteria for a discipline.
func DisciplineCriteria(discipline string) ([]string, bool) {
	criteria, ok := disciplineCriteria[discipline]
	if !ok {
		return nil, false
	}
	return append([]string(nil), criteria...), true
}

// DefaultConfig is the configuration used when none has been saved.
func DefaultConfig() ai.EvaluationConfig {
	criteria, _ := DisciplineCriteria(DefaultDiscipline)
	return ai.EvaluationConfig{
		Discipline:         DefaultDiscipline,
		AcademicLevel:      DefaultAcademicLevel,
		EvaluationCriteria: criteria,
		CheckOriginality:   true,
	}
}

// Catalog returns the disciplines and academic levels offered to clients.
func Catalog() dto.CatalogResponse {
	disciplines := make([]dto.DisciplineResponse, 0, len(disciplineOrder))
	for _, name := range disciplineOrder {
		criteria, _ := DisciplineCriteria(name)
		disciplines = append(disciplines, dto.DisciplineResponse{Name: name, Criteria: criteria})
	}

	return dto.CatalogResponse{
		Disciplines:    disciplines,
		AcademicLevels: append([]string(nil), AcademicLevels...),
		MinCriteria:    ai.MinCriteria,
		MaxCriteria:    ai.MaxCriteria,
	}
}
