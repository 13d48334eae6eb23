// Package report defines the planning report document, its static
// generator, and the typed partial update applied by chat refinement.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Report is the structured planning document stored per project.
type Report struct {
	ProjectIdea  string       `json:"project_idea"`
	GeneratedAt  time.Time    `json:"generated_at"`
	Roadmap      *Roadmap     `json:"roadmap,omitempty"`
	Intelligence Intelligence `json:"intelligence"`
}

type Intelligence struct {
	Opportunity *OpportunityAnalysis  `json:"opportunity,omitempty"`
	Competitive *CompetitiveLandscape `json:"competitive,omitempty"`
	MVP         *MVPBlueprint         `json:"mvp,omitempty"`
	TechStack   *TechStack            `json:"tech_stack,omitempty"`
	Learning    *LearningHub          `json:"learning,omitempty"`
}

type Roadmap struct {
	ProjectName       string   `json:"project_name"`
	EstimatedTimeline string   `json:"estimated_timeline"`
	Phases            []Phase  `json:"phases"`
	SuccessMetrics    []string `json:"success_metrics"`
}

type Phase struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Duration      string   `json:"duration"`
	Description   string   `json:"description"`
	KeyActivities []string `json:"key_activities"`
	Deliverables  []string `json:"deliverables"`
	Status        string   `json:"status"`
}

type OpportunityAnalysis struct {
	MarketSize        string   `json:"market_size"`
	TargetAudience    string   `json:"target_audience"`
	PainPoints        []string `json:"pain_points"`
	OpportunityScore  float64  `json:"opportunity_score"`
	MarketTrends      []string `json:"market_trends"`
	ValidationSources []string `json:"validation_sources"`
}

type CompetitiveLandscape struct {
	DirectCompetitors     []Competitor `json:"direct_competitors"`
	IndirectCompetitors   []string     `json:"indirect_competitors"`
	CompetitiveAdvantages []string     `json:"competitive_advantages"`
	MarketGap             string       `json:"market_gap"`
}

type Competitor struct {
	Name        string   `json:"name"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	MarketShare string   `json:"market_share"`
}

type MVPBlueprint struct {
	CoreFeatures          []Feature `json:"core_features"`
	NiceToHaveFeatures    []string  `json:"nice_to_have_features"`
	TechnicalRequirements []string  `json:"technical_requirements"`
}

type Feature struct {
	Name        string `json:"name"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
	Effort      string `json:"effort"`
}

type TechStack struct {
	Frontend            TechChoice `json:"frontend"`
	Backend             TechChoice `json:"backend"`
	Database            TechChoice `json:"database"`
	Deployment          TechChoice `json:"deployment"`
	DevelopmentTimeline string     `json:"development_timeline"`
}

type TechChoice struct {
	Primary         string   `json:"primary"`
	Reasoning       string   `json:"reasoning"`
	Alternatives    []string `json:"alternatives"`
	SupportingTools []string `json:"supporting_tools"`
}

type LearningHub struct {
	BeginnerPath          []string              `json:"beginner_path"`
	IntermediatePath      []string              `json:"intermediate_path"`
	AdvancedPath          []string              `json:"advanced_path"`
	ResourcesByTechnology map[string][]Resource `json:"resources_by_technology"`
	EstimatedLearningTime string                `json:"estimated_learning_time"`
}

type Resource struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Type   string `json:"type"`
	Rating string `json:"rating"`
}

// Patch is a partial update. Only the tech stack and the roadmap may be
// replaced; a nil field leaves the stored section untouched.
type Patch struct {
	TechStack *TechStack `json:"tech_stack,omitempty"`
	Roadmap   *Roadmap   `json:"roadmap,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p.TechStack == nil && p.Roadmap == nil
}

// Apply returns a copy of r with every non-nil patch field replacing the
// corresponding section. r is not modified.
func (r Report) Apply(p Patch) Report {
	merged := r
	if p.TechStack != nil {
		ts := *p.TechStack
		merged.Intelligence.TechStack = &ts
	}
	if p.Roadmap != nil {
		rm := p.Roadmap.Clone()
		merged.Roadmap = rm
	}
	return merged
}

// Clone copies the roadmap including its phase list so the copy's phases
// can be edited without touching the original.
func (rm *Roadmap) Clone() *Roadmap {
	if rm == nil {
		return nil
	}
	c := *rm
	c.Phases = make([]Phase, len(rm.Phases))
	copy(c.Phases, rm.Phases)
	return &c
}

// Decode parses a stored report, rejecting unknown keys.
func Decode(data []byte) (Report, error) {
	var r Report
	if err := decodeStrict(data, &r); err != nil {
		return Report{}, fmt.Errorf("decoding report: %w", err)
	}
	return r, nil
}

// DecodePatch parses a stored patch, rejecting unknown keys.
func DecodePatch(data []byte) (Patch, error) {
	var p Patch
	if err := decodeStrict(data, &p); err != nil {
		return Patch{}, fmt.Errorf("decoding patch: %w", err)
	}
	return p, nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
