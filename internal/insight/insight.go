// Package insight manages insight records for the banking analytics product:
// persistence in PostgreSQL, filtered listing, and CSV import/export.
package insight

import (
	"strings"
	"time"

	"github.com/JonMunkholm/datacatalog/internal/apperrors"
)

// DefaultMaintenanceDate signals "no scheduled maintenance".
const DefaultMaintenanceDate = "2099-12-31"

// Insight is a configured analytic message shown to banking product users.
// TargetBanks, TargetTables and StoryImages are ordered sequences.
type Insight struct {
	ID                int64     `json:"id"`
	CreationNumber    int       `json:"creationNumber"`
	Subject           string    `json:"subject"`
	InsightID         string    `json:"insightId"`
	Status            string    `json:"status"`
	StartDate         *string   `json:"startDate"`
	UpdateDate        *string   `json:"updateDate"`
	EndDate           *string   `json:"endDate"`
	Type              string    `json:"type"`
	MainCategory      string    `json:"mainCategory"`
	SubCategory       string    `json:"subCategory"`
	DataCategory      string    `json:"dataCategory"`
	TargetBanks       []string  `json:"targetBanks"`
	LogicFormula      string    `json:"logicFormula"`
	TargetTables      []string  `json:"targetTables"`
	TargetUsers       string    `json:"targetUsers"`
	RelatedInsight    string    `json:"relatedInsight"`
	RevenueCategory   string    `json:"revenueCategory"`
	IconType          string    `json:"iconType"`
	Score             string    `json:"score"`
	RelevancePolicy   string    `json:"relevancePolicy"`
	RelevanceScore    string    `json:"relevanceScore"`
	DisplayCount      int       `json:"displayCount"`
	SelectCount       int       `json:"selectCount"`
	NextPolicy        string    `json:"nextPolicy"`
	NextValue         string    `json:"nextValue"`
	AppLink           string    `json:"appLink"`
	ExternalLink      string    `json:"externalLink"`
	TeaserImage       *string   `json:"teaserImage"`
	StoryImages       []string  `json:"storyImages"`
	MaintenanceDate   string    `json:"maintenanceDate"`
	MaintenanceReason string    `json:"maintenanceReason"`
	Remarks           string    `json:"remarks"`
	UpdatedBy         string    `json:"updatedBy"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Input is the set of attributes a client may create or update.
// Identity and timestamps are owned by the store.
type Input struct {
	CreationNumber    int      `json:"creationNumber"`
	Subject           string   `json:"subject"`
	InsightID         string   `json:"insightId"`
	Status            string   `json:"status"`
	StartDate         *string  `json:"startDate"`
	UpdateDate        *string  `json:"updateDate"`
	EndDate           *string  `json:"endDate"`
	Type              string   `json:"type"`
	MainCategory      string   `json:"mainCategory"`
	SubCategory       string   `json:"subCategory"`
	DataCategory      string   `json:"dataCategory"`
	TargetBanks       []string `json:"targetBanks"`
	LogicFormula      string   `json:"logicFormula"`
	TargetTables      []string `json:"targetTables"`
	TargetUsers       string   `json:"targetUsers"`
	RelatedInsight    string   `json:"relatedInsight"`
	RevenueCategory   string   `json:"revenueCategory"`
	IconType          string   `json:"iconType"`
	Score             string   `json:"score"`
	RelevancePolicy   string   `json:"relevancePolicy"`
	RelevanceScore    string   `json:"relevanceScore"`
	DisplayCount      int      `json:"displayCount"`
	SelectCount       int      `json:"selectCount"`
	NextPolicy        string   `json:"nextPolicy"`
	NextValue         string   `json:"nextValue"`
	AppLink           string   `json:"appLink"`
	ExternalLink      string   `json:"externalLink"`
	TeaserImage       *string  `json:"teaserImage"`
	StoryImages       []string `json:"storyImages"`
	MaintenanceDate   string   `json:"maintenanceDate"`
	MaintenanceReason string   `json:"maintenanceReason"`
	Remarks           string   `json:"remarks"`
	UpdatedBy         string   `json:"updatedBy"`
}

// Normalize fills defaults: counters of zero become 1, nil arrays become
// empty, and an empty maintenance date becomes DefaultMaintenanceDate.
func (in *Input) Normalize() {
	if in.CreationNumber == 0 {
		in.CreationNumber = 1
	}
	if in.DisplayCount == 0 {
		in.DisplayCount = 1
	}
	if in.SelectCount == 0 {
		in.SelectCount = 1
	}
	if in.TargetBanks == nil {
		in.TargetBanks = []string{}
	}
	if in.TargetTables == nil {
		in.TargetTables = []string{}
	}
	if in.StoryImages == nil {
		in.StoryImages = []string{}
	}
	if in.MaintenanceDate == "" {
		in.MaintenanceDate = DefaultMaintenanceDate
	}
}

// Validate checks the fields the store requires.
func (in *Input) Validate() error {
	if strings.TrimSpace(in.InsightID) == "" {
		return apperrors.Validation("insightId", "required field is empty")
	}
	return nil
}

// Input returns the updatable attributes of an existing insight.
func (i *Insight) Input() Input {
	return Input{
		CreationNumber:    i.CreationNumber,
		Subject:           i.Subject,
		InsightID:         i.InsightID,
		Status:            i.Status,
		StartDate:         i.StartDate,
		UpdateDate:        i.UpdateDate,
		EndDate:           i.EndDate,
		Type:              i.Type,
		MainCategory:      i.MainCategory,
		SubCategory:       i.SubCategory,
		DataCategory:      i.DataCategory,
		TargetBanks:       i.TargetBanks,
		LogicFormula:      i.LogicFormula,
		TargetTables:      i.TargetTables,
		TargetUsers:       i.TargetUsers,
		RelatedInsight:    i.RelatedInsight,
		RevenueCategory:   i.RevenueCategory,
		IconType:          i.IconType,
		Score:             i.Score,
		RelevancePolicy:   i.RelevancePolicy,
		RelevanceScore:    i.RelevanceScore,
		DisplayCount:      i.DisplayCount,
		SelectCount:       i.SelectCount,
		NextPolicy:        i.NextPolicy,
		NextValue:         i.NextValue,
		AppLink:           i.AppLink,
		ExternalLink:      i.ExternalLink,
		TeaserImage:       i.TeaserImage,
		StoryImages:       i.StoryImages,
		MaintenanceDate:   i.MaintenanceDate,
		MaintenanceReason: i.MaintenanceReason,
		Remarks:           i.Remarks,
		UpdatedBy:         i.UpdatedBy,
	}
}
