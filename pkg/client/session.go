package client

import (
	"context"
	"fmt"
	"sync"
)

// stageRank gives canonical funnel positions for option ordering.
var stageRank = map[Stage]int{
	StageEnquiry:        0,
	StageDemo:           1,
	StageQualifiedDemo:  2,
	StageClass:          3,
	StageClassQualified: 4,
	StagePlacement:      5,
}

// StageOption is one entry in the stage picker. The candidate's current
// stage is always present so progress renders correctly, but it is only
// selectable when the caller's role may set it.
type StageOption struct {
	Stage      Stage
	Selectable bool
	Current    bool
}

// EnquirySession drives one candidate's detail view. Mutations apply
// locally first so the caller can render immediately, then commit the
// server's copy, or roll back to the pre-mutation snapshot when the
// write fails. Mutations are serialized; a second mutation waits for
// the first to settle rather than racing its rollback.
type EnquirySession struct {
	client *Client

	mu       sync.Mutex
	current  Enquiry
	pipeline Pipeline
}

// NewEnquirySession loads the candidate and the caller's pipeline view.
func NewEnquirySession(ctx context.Context, c *Client, enquiryID string) (*EnquirySession, error) {
	detail, err := c.GetEnquiry(ctx, enquiryID)
	if err != nil {
		return nil, err
	}
	return &EnquirySession{
		client:   c,
		current:  detail.Enquiry.Clone(),
		pipeline: clonePipeline(detail.Pipeline),
	}, nil
}

// Refresh reloads the candidate from the server, discarding local state.
func (s *EnquirySession) Refresh(ctx context.Context) error {
	detail, err := s.client.GetEnquiry(ctx, s.enquiryID())
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = detail.Enquiry.Clone()
	s.pipeline = clonePipeline(detail.Pipeline)
	return nil
}

// Snapshot returns a copy of the candidate as currently rendered.
func (s *EnquirySession) Snapshot() Enquiry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Pipeline returns a copy of the role-scoped pipeline view.
func (s *EnquirySession) Pipeline() Pipeline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePipeline(s.pipeline)
}

// StageOptions returns the stage picker entries for this candidate:
// every stage the caller's role may set, plus the current stage as a
// non-selectable entry when it falls outside the role's visible window.
func (s *EnquirySession) StageOptions() []StageOption {
	s.mu.Lock()
	defer s.mu.Unlock()

	options := make([]StageOption, 0, len(s.pipeline.VisibleStages)+1)
	currentListed := false
	for _, stage := range s.pipeline.VisibleStages {
		opt := StageOption{Stage: stage, Selectable: true}
		if stage == s.current.Stage {
			opt.Current = true
			currentListed = true
		}
		options = append(options, opt)
	}
	if !currentListed {
		options = append(options, StageOption{Stage: s.current.Stage, Current: true})
		sortStageOptions(options)
	}
	return options
}

// DemoStatusEditable reports whether the demo status control is active.
func (s *EnquirySession) DemoStatusEditable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipeline.DemoStatusEditable
}

// BillingVisible reports whether the billing tab should render.
func (s *EnquirySession) BillingVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pipeline.BillingAuthorized
}

// ChangeStage moves the candidate to newStage. The stage applies
// locally before the server write; a failed write restores the
// snapshot and returns the error. Setting the current stage again is a
// no-op.
func (s *EnquirySession) ChangeStage(ctx context.Context, newStage Stage) error {
	return s.changeStage(ctx, newStage, nil)
}

// ChangeStageWithDemo moves the candidate and then records a demo
// outcome. The demo write only runs once the stage write has
// committed: a failed stage write rolls everything back untouched,
// while a failed demo write keeps the committed stage and rolls back
// only the demo status.
func (s *EnquirySession) ChangeStageWithDemo(ctx context.Context, newStage Stage, demoStatus DemoStatus) error {
	return s.changeStage(ctx, newStage, &demoStatus)
}

func (s *EnquirySession) changeStage(ctx context.Context, newStage Stage, demoStatus *DemoStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stageSelectable(newStage) && newStage != s.current.Stage {
		return fmt.Errorf("stage %q is not selectable for this role", newStage)
	}

	if newStage != s.current.Stage {
		snapshot := s.current.Clone()
		s.applyStage(newStage)

		committed, err := s.client.ChangeStatus(ctx, s.current.ID, newStage)
		if err != nil {
			s.current = snapshot
			return err
		}
		s.adopt(*committed)
	}

	if demoStatus == nil || *demoStatus == s.current.DemoStatus {
		return nil
	}

	snapshot := s.current.Clone()
	s.current.DemoStatus = *demoStatus

	committed, err := s.client.UpdateEnquiry(ctx, s.current.ID, EnquiryUpdate{DemoStatus: demoStatus})
	if err != nil {
		s.current = snapshot
		return err
	}
	s.adopt(*committed)
	return nil
}

// SetDemoStatus records a demo outcome without moving stages.
func (s *EnquirySession) SetDemoStatus(ctx context.Context, status DemoStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pipeline.DemoStatusEditable {
		return fmt.Errorf("demo status is not editable for this role and stage")
	}
	if status == s.current.DemoStatus {
		return nil
	}

	snapshot := s.current.Clone()
	s.current.DemoStatus = status

	committed, err := s.client.UpdateEnquiry(ctx, s.current.ID, EnquiryUpdate{DemoStatus: &status})
	if err != nil {
		s.current = snapshot
		return err
	}
	s.adopt(*committed)
	return nil
}

// UpdateFields sends partial detail edits. Changes apply locally
// first; a failed write restores the full pre-edit snapshot.
func (s *EnquirySession) UpdateFields(ctx context.Context, update EnquiryUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.current.Clone()
	applyUpdate(&s.current, update)

	committed, err := s.client.UpdateEnquiry(ctx, s.current.ID, update)
	if err != nil {
		s.current = snapshot
		return err
	}
	s.adopt(*committed)
	return nil
}

func (s *EnquirySession) enquiryID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.ID
}

func (s *EnquirySession) stageSelectable(stage Stage) bool {
	for _, visible := range s.pipeline.VisibleStages {
		if visible == stage {
			return true
		}
	}
	return false
}

func (s *EnquirySession) applyStage(stage Stage) {
	s.current.Stage = stage
	if rank, ok := stageRank[stage]; ok {
		s.current.StageIndex = rank
	}
}

// adopt replaces local state with the server's committed copy.
func (s *EnquirySession) adopt(committed Enquiry) {
	s.current = committed.Clone()
}

func applyUpdate(e *Enquiry, update EnquiryUpdate) {
	if update.Name != nil {
		e.Name = *update.Name
	}
	if update.Email != nil {
		e.Email = *update.Email
	}
	if update.Phone != nil {
		e.Phone = *update.Phone
	}
	if update.Location != nil {
		e.Location = *update.Location
	}
	if update.PackageID != nil {
		if *update.PackageID == "" {
			e.PackageID = nil
		} else {
			id := *update.PackageID
			e.PackageID = &id
		}
	}
	if update.SubjectIDs != nil {
		ids := make([]string, len(*update.SubjectIDs))
		copy(ids, *update.SubjectIDs)
		e.SubjectIDs = ids
	}
	if update.TrainingMode != nil {
		e.TrainingMode = *update.TrainingMode
	}
	if update.TrainingTime != nil {
		e.TrainingTime = *update.TrainingTime
	}
	if update.StartTime != nil {
		e.StartTime = *update.StartTime
	}
	if update.Profession != nil {
		e.Profession = *update.Profession
	}
	if update.Qualification != nil {
		e.Qualification = *update.Qualification
	}
	if update.Experience != nil {
		e.Experience = *update.Experience
	}
	if update.Referral != nil {
		e.Referral = *update.Referral
	}
	if update.DemoStatus != nil {
		e.DemoStatus = *update.DemoStatus
	}
}

func clonePipeline(p Pipeline) Pipeline {
	out := p
	out.Stages = append([]Stage(nil), p.Stages...)
	out.VisibleStages = append([]Stage(nil), p.VisibleStages...)
	return out
}

func sortStageOptions(options []StageOption) {
	for i := 1; i < len(options); i++ {
		for j := i; j > 0 && stageRank[options[j].Stage] < stageRank[options[j-1].Stage]; j-- {
			options[j], options[j-1] = options[j-1], options[j]
		}
	}
}
