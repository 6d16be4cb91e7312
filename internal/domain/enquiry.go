package domain

import (
	"fmt"
	"time"
)

// Stage enumerates pipeline positions for a candidate, in funnel order.
type Stage string

const (
	StageEnquiry        Stage = "enquiry stage"
	StageDemo           Stage = "demo"
	StageQualifiedDemo  Stage = "qualified demo"
	StageClass          Stage = "class"
	StageClassQualified Stage = "class qualified"
	StagePlacement      Stage = "placement"
)

// stageOrder is the canonical pipeline ordering used for progress rendering.
// It is presentational only: any permitted stage may be set from any other.
var stageOrder = []Stage{
	StageEnquiry,
	StageDemo,
	StageQualifiedDemo,
	StageClass,
	StageClassQualified,
	StagePlacement,
}

// Stages returns the canonical ordered stage list.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// StageIndex returns the position of a stage in the canonical order.
// An out-of-enum value is an error, never a silently wrong index.
func StageIndex(s Stage) (int, error) {
	for i, stage := range stageOrder {
		if stage == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown stage %q", s)
}

// Valid reports whether s is one of the canonical stages.
func (s Stage) Valid() bool {
	_, err := StageIndex(s)
	return err == nil
}

// DemoStatus tracks the outcome of the demo phase. Unordered.
type DemoStatus string

const (
	DemoNotStarted    DemoStatus = "Not yet started"
	DemoInProgress    DemoStatus = "In Progress"
	DemoCompleted     DemoStatus = "Completed"
	DemoNotInterested DemoStatus = "Not interested"
)

// DemoStatuses returns all demo status values.
func DemoStatuses() []DemoStatus {
	return []DemoStatus{DemoNotStarted, DemoInProgress, DemoCompleted, DemoNotInterested}
}

// Valid reports whether d is a known demo status.
func (d DemoStatus) Valid() bool {
	switch d {
	case DemoNotStarted, DemoInProgress, DemoCompleted, DemoNotInterested:
		return true
	}
	return false
}

// Enquiry is the aggregate for a prospective-student record.
type Enquiry struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	Location      string
	PackageID     *string
	SubjectIDs    []string
	TrainingMode  string
	TrainingTime  string
	StartTime     string
	Profession    string
	Qualification string
	Experience    string
	Referral      string
	Consent       bool
	Stage         Stage
	DemoStatus    DemoStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Clone returns a deep copy so a captured snapshot stays immutable.
func (e Enquiry) Clone() Enquiry {
	out := e
	if e.PackageID != nil {
		id := *e.PackageID
		out.PackageID = &id
	}
	if e.SubjectIDs != nil {
		out.SubjectIDs = make([]string, len(e.SubjectIDs))
		copy(out.SubjectIDs, e.SubjectIDs)
	}
	return out
}
