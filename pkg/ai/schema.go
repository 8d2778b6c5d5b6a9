package ai

import (
	"bytes"
	"encoding/json"
)

// SchemaType enumerates the JSON types used by the evaluation schema.
type SchemaType string

const (
	SchemaObject  SchemaType = "object"
	SchemaString  SchemaType = "string"
	SchemaInteger SchemaType = "integer"
	SchemaArray   SchemaType = "array"
)

// OriginalityProperty is the key of the optional originality section.
const OriginalityProperty = "originalityReport"

// SchemaNode is one node of a declarative response schema. Property order is kept
// so the rendered schema is stable across calls.
type SchemaNode struct {
	Type        SchemaType
	Description string
	Properties  []SchemaProperty
	Items       *SchemaNode
	Required    []string
}

// SchemaProperty names a child node of an object schema.
type SchemaProperty struct {
	Name   string
	Schema *SchemaNode
}

// Property returns the named child node, if present.
func (n *SchemaNode) Property(name string) (*SchemaNode, bool) {
	if n == nil {
		return nil, false
	}
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// MarshalJSON renders the node as a JSON Schema document.
func (n *SchemaNode) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	typ, _ := json.Marshal(string(n.Type))
	buf.Write(typ)

	if n.Description != "" {
		desc, err := json.Marshal(n.Description)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"description":`)
		buf.Write(desc)
	}

	if len(n.Properties) > 0 {
		buf.WriteString(`,"properties":{`)
		for i, p := range n.Properties {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(p.Name)
			child, err := p.Schema.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(child)
		}
		buf.WriteByte('}')
	}

	if n.Items != nil {
		items, err := n.Items.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"items":`)
		buf.Write(items)
	}

	if len(n.Required) > 0 {
		required, err := json.Marshal(n.Required)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"required":`)
		buf.Write(required)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EvaluationSchema is the response shape requested from the model. It is either
// WithOriginality or WithoutOriginality.
type EvaluationSchema interface {
	// Document returns the schema tree. Every call of BuildSchema yields a fresh tree.
	Document() *SchemaNode
	IncludesOriginality() bool
	json.Marshaler

	variant()
}

// WithOriginality is the schema variant that carries the originality section.
type WithOriginality struct {
	doc *SchemaNode
}

func (s WithOriginality) Document() *SchemaNode        { return s.doc }
func (s WithOriginality) IncludesOriginality() bool    { return true }
func (s WithOriginality) MarshalJSON() ([]byte, error) { return s.doc.MarshalJSON() }
func (WithOriginality) variant()                       {}

// WithoutOriginality is the schema variant with no originality property at all.
type WithoutOriginality struct {
	doc *SchemaNode
}

func (s WithoutOriginality) Document() *SchemaNode        { return s.doc }
func (s WithoutOriginality) IncludesOriginality() bool    { return false }
func (s WithoutOriginality) MarshalJSON() ([]byte, error) { return s.doc.MarshalJSON() }
func (WithoutOriginality) variant()                       {}

// BuildSchema constructs the schema the model must satisfy.
func BuildSchema(includeOriginality bool) EvaluationSchema {
	if includeOriginality {
		return WithOriginality{doc: reportSchema(true)}
	}
	return WithoutOriginality{doc: reportSchema(false)}
}

var reportRequired = []string{
	"projectTitle", "submissionType", "discipline", "academicLevel", "overallScore",
	"summaryTitle", "scoredCategories", "overallAnalysis", "suggestedActions", "vivaQuestions",
}

func reportSchema(includeOriginality bool) *SchemaNode {
	props := []SchemaProperty{
		{Name: "projectTitle", Schema: str("")},
		{Name: "submissionType", Schema: str("")},
		{Name: "discipline", Schema: str("")},
		{Name: "academicLevel", Schema: str("")},
		{Name: "overallScore", Schema: integer("A score from 0 to 100")},
		{Name: "summaryTitle", Schema: str("A concise, professional title for the summary, e.g., 'Excellent with Minor Revisions'")},
		{Name: "scoredCategories", Schema: arrayOf(&SchemaNode{
			Type: SchemaObject,
			Properties: []SchemaProperty{
				{Name: "category", Schema: str("")},
				{Name: "score", Schema: integer("")},
				{Name: "justification", Schema: arrayOf(str(""))},
			},
			Required: []string{"category", "score", "justification"},
		})},
	}

	if includeOriginality {
		props = append(props, SchemaProperty{Name: OriginalityProperty, Schema: &SchemaNode{
			Type: SchemaObject,
			Properties: []SchemaProperty{
				{Name: "originalityScore", Schema: integer("")},
				{Name: "summary", Schema: str("")},
				{Name: "findings", Schema: arrayOf(&SchemaNode{
					Type: SchemaObject,
					Properties: []SchemaProperty{
						{Name: "finding", Schema: str("")},
						{Name: "explanation", Schema: str("")},
					},
					Required: []string{"finding", "explanation"},
				})},
			},
		}})
	}

	props = append(props,
		SchemaProperty{Name: "overallAnalysis", Schema: str("A detailed paragraph of overall analysis.")},
		SchemaProperty{Name: "suggestedActions", Schema: arrayOf(str(""))},
		SchemaProperty{Name: "vivaQuestions", Schema: arrayOf(&SchemaNode{
			Type: SchemaObject,
			Properties: []SchemaProperty{
				{Name: "question_number", Schema: integer("")},
				{Name: "question", Schema: str("")},
				{Name: "expected_answer_points", Schema: arrayOf(str(""))},
			},
			Required: []string{"question_number", "question", "expected_answer_points"},
		})},
	)

	return &SchemaNode{
		Type:       SchemaObject,
		Properties: props,
		Required:   append([]string(nil), reportRequired...),
	}
}

func str(description string) *SchemaNode {
	return &SchemaNode{Type: SchemaString, Description: description}
}

func integer(description string) *SchemaNode {
	return &SchemaNode{Type: SchemaInteger, Description: description}
}

func arrayOf(items *SchemaNode) *SchemaNode {
	return &SchemaNode{Type: SchemaArray, Items: items}
}
