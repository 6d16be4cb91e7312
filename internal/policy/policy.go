// Package policy holds the role-gating rules for the enquiry pipeline.
// Everything here is a pure function over the closed role and stage enums,
// safe to evaluate on every request.
package policy

import "github.com/spec-kit/enquiry-service/internal/domain"

// stageVisibility maps each role to the ordered subset of stages it may set.
var stageVisibility = map[domain.Role][]domain.Stage{
	domain.RoleAdmin: {
		domain.StageEnquiry,
		domain.StageDemo,
		domain.StageQualifiedDemo,
		domain.StageClass,
		domain.StageClassQualified,
		domain.StagePlacement,
	},
	domain.RoleCounsellor: {
		domain.StageEnquiry,
		domain.StageDemo,
		domain.StageQualifiedDemo,
	},
	domain.RoleAccounts: {
		domain.StageQualifiedDemo,
		domain.StageClass,
		domain.StageClassQualified,
	},
	domain.RoleHR: {
		domain.StageClassQualified,
		domain.StagePlacement,
	},
}

// VisibleStages returns the stages the given role is permitted to select,
// preserving canonical order. An unknown or absent role fails closed to the
// first stage only.
func VisibleStages(role domain.Role) []domain.Stage {
	stages, ok := stageVisibility[role]
	if !ok {
		return []domain.Stage{domain.StageEnquiry}
	}
	out := make([]domain.Stage, len(stages))
	copy(out, stages)
	return out
}

// CanSetStage reports whether the role may move a candidate to the stage.
func CanSetStage(role domain.Role, stage domain.Stage) bool {
	for _, s := range stageVisibility[role] {
		if s == stage {
			return true
		}
	}
	return false
}

// IsDemoStatusEditable reports whether the demo status control is enabled
// for the role while the candidate sits at currentStage.
func IsDemoStatusEditable(role domain.Role, currentStage domain.Stage) bool {
	if role != domain.RoleAdmin && role != domain.RoleCounsellor {
		return false
	}
	return currentStage == domain.StageDemo || currentStage == domain.StageQualifiedDemo
}

// IsBillingAuthorized reports whether the role may read or write billing data.
func IsBillingAuthorized(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleAccounts
}
