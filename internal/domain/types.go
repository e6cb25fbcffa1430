// Package domain defines the normalized domain types for GitHub Projects v2.
// These types represent the core concepts independent of the GitHub GraphQL API structure
// and the JSON emitted by the gh CLI.
package domain

import (
	"strconv"
	"strings"
)

// ItemType is the discriminant of an item's content variant.
type ItemType string

// ItemType values, as reported by the ProjectV2Item.type field.
const (
	ItemTypeDraftIssue  ItemType = "DRAFT_ISSUE"
	ItemTypeIssue       ItemType = "ISSUE"
	ItemTypePullRequest ItemType = "PULL_REQUEST"
	ItemTypeRedacted    ItemType = "REDACTED"
)

// DraftIssueContentPrefix marks the node ID of a draft issue's content.
// Title and body edits must target an ID with this prefix.
const DraftIssueContentPrefix = "DI_"

// Content is the textual content backing a project item.
type Content struct {
	ID    string // Content node ID (DI_ prefix for draft issues)
	Title string // Content title
	Body  string // Content body
	URL   string // Issue/PR URL, empty for draft issues
}

// FieldValue is the value of a named field on a single item.
// Value is a string (date, text, or single-select option name), a float64
// (number), or nil when the field exists on the project but is unset for the item.
type FieldValue struct {
	ID    string // Field node ID
	Value any
}

// String formats the value for use as an action output, "" when unset.
func (f FieldValue) String() string {
	switch v := f.Value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Item is one row on a project board.
// Type decides which parts are populated: Content is nil for REDACTED items,
// and Content.URL is empty for DRAFT_ISSUE items.
type Item struct {
	ID        string      // ProjectV2Item node ID
	ProjectID string      // Owning project node ID
	Type      ItemType    // Content variant
	Content   *Content    // nil when the viewer cannot see the content
	Field     *FieldValue // Only set when a field was requested and the item is not redacted
}

// IsDraftIssue reports whether the item wraps a draft issue.
func (i *Item) IsDraftIssue() bool {
	return i.Type == ItemTypeDraftIssue
}

// Owner is the user or organization owning a project.
type Owner struct {
	Type  string `json:"type"` // "Organization" or "User"
	Login string `json:"login"`
}

// Count wraps the totalCount objects in gh CLI output.
type Count struct {
	TotalCount int `json:"totalCount"`
}

// ProjectDetails is a snapshot of a project's metadata as reported by gh.
type ProjectDetails struct {
	ID               string `json:"id"`
	Number           int    `json:"number"`
	Title            string `json:"title"`
	Readme           string `json:"readme"`
	ShortDescription string `json:"shortDescription"`
	URL              string `json:"url"`
	Public           bool   `json:"public"`
	Closed           bool   `json:"closed"`
	Owner            Owner  `json:"owner"`
	Items            Count  `json:"items"`
	Fields           Count  `json:"fields"`
}

// WorkflowDetails is a named automation rule attached to a project.
type WorkflowDetails struct {
	ID        string
	Name      string
	Number    int
	Enabled   bool
	ProjectID string
}

// FieldType constants for project field data types.
const (
	FieldTypeSingleSelect = "SINGLE_SELECT"
	FieldTypeText         = "TEXT"
	FieldTypeNumber       = "NUMBER"
	FieldTypeDate         = "DATE"
	FieldTypeIteration    = "ITERATION"
)

// FieldDescriptor is the resolved ID and data type of a project field.
type FieldDescriptor struct {
	ID       string
	DataType string
}

// ItemEdit describes an edit to a project item.
// Title/Body and Field/FieldValue are mutually exclusive.
type ItemEdit struct {
	Title      *string
	Body       *string
	Field      string
	FieldValue string
}

// EditsContent reports whether the edit touches the title or body.
func (e ItemEdit) EditsContent() bool {
	return e.Title != nil || e.Body != nil
}

// ProjectEdit describes an edit to a project's metadata. Nil fields are left unchanged.
type ProjectEdit struct {
	Title       *string
	Description *string
	Readme      *string
	Public      *bool
}

// SplitOwnerName splits an "owner/name" reference (repository or org/team).
// ok is false when either side is empty.
func SplitOwnerName(ref string) (owner, name string, ok bool) {
	owner, name, found := strings.Cut(ref, "/")
	if !found || owner == "" || name == "" {
		return "", "", false
	}
	return owner, name, true
}
