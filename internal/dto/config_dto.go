package dto

// DisciplineResponse describes a discipline and its default criteria.
type DisciplineResponse struct {
	Name     string   `json:"name"`
	Criteria []string `json:"criteria"`
}

// CatalogResponse lists the choices available when configuring an evaluation.
type CatalogResponse struct {
	Disciplines    []DisciplineResponse `json:"disciplines"`
	AcademicLevels []string             `json:"academicLevels"`
	MinCriteria    int                  `json:"minCriteria"`
	MaxCriteria    int                  `json:"maxCriteria"`
}

// DisciplineRequest switches the working configuration to another discipline.
type DisciplineRequest struct {
	Discipline string `json:"discipline" validate:"required"`
}

// CriterionRequest appends a criterion. An empty value adds a blank slot for editing.
type CriterionRequest struct {
	Criterion string `json:"criterion" validate:"max=200"`
}
