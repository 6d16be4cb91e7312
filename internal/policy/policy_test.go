package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/enquiry-service/internal/domain"
)

var allRoles = []domain.Role{
	domain.RoleAdmin,
	domain.RoleCounsellor,
	domain.RoleAccounts,
	domain.RoleHR,
}

func Test_VisibleStages(t *testing.T) {
	t.Run("Should map every role to its fixed segment", func(t *testing.T) {
		assert.Equal(t, domain.Stages(), VisibleStages(domain.RoleAdmin))
		assert.Equal(t, []domain.Stage{
			domain.StageEnquiry, domain.StageDemo, domain.StageQualifiedDemo,
		}, VisibleStages(domain.RoleCounsellor))
		assert.Equal(t, []domain.Stage{
			domain.StageQualifiedDemo, domain.StageClass, domain.StageClassQualified,
		}, VisibleStages(domain.RoleAccounts))
		assert.Equal(t, []domain.Stage{
			domain.StageClassQualified, domain.StagePlacement,
		}, VisibleStages(domain.RoleHR))
	})
	t.Run("Should be a non-empty canonical-order subset for every role", func(t *testing.T) {
		for _, role := range allRoles {
			visible := VisibleStages(role)
			require.NotEmpty(t, visible)
			lastIdx := -1
			for _, stage := range visible {
				idx, err := domain.StageIndex(stage)
				require.NoError(t, err)
				assert.Greater(t, idx, lastIdx, "stages out of canonical order for role %s", role)
				lastIdx = idx
			}
		}
	})
	t.Run("Should fail closed for an unknown role", func(t *testing.T) {
		assert.Equal(t, []domain.Stage{domain.StageEnquiry}, VisibleStages(domain.Role("INTERN")))
		assert.Equal(t, []domain.Stage{domain.StageEnquiry}, VisibleStages(domain.Role("")))
	})
	t.Run("Should return a copy callers cannot mutate", func(t *testing.T) {
		visible := VisibleStages(domain.RoleHR)
		visible[0] = domain.StageEnquiry
		assert.Equal(t, domain.StageClassQualified, VisibleStages(domain.RoleHR)[0])
	})
}

func Test_CanSetStage(t *testing.T) {
	t.Run("Should agree with VisibleStages membership", func(t *testing.T) {
		for _, role := range allRoles {
			visible := map[domain.Stage]bool{}
			for _, stage := range VisibleStages(role) {
				visible[stage] = true
			}
			for _, stage := range domain.Stages() {
				assert.Equal(t, visible[stage], CanSetStage(role, stage),
					"role %s stage %s", role, stage)
			}
		}
	})
	t.Run("Should deny everything for an unknown role", func(t *testing.T) {
		for _, stage := range domain.Stages() {
			assert.False(t, CanSetStage(domain.Role("INTERN"), stage))
		}
	})
}

func Test_IsDemoStatusEditable(t *testing.T) {
	t.Run("Should only allow admin and counsellor during the demo stages", func(t *testing.T) {
		for _, role := range allRoles {
			for _, stage := range domain.Stages() {
				want := (role == domain.RoleAdmin || role == domain.RoleCounsellor) &&
					(stage == domain.StageDemo || stage == domain.StageQualifiedDemo)
				assert.Equal(t, want, IsDemoStatusEditable(role, stage),
					"role %s stage %s", role, stage)
			}
		}
	})
}

func Test_IsBillingAuthorized(t *testing.T) {
	t.Run("Should authorize admin and accounts only", func(t *testing.T) {
		assert.True(t, IsBillingAuthorized(domain.RoleAdmin))
		assert.True(t, IsBillingAuthorized(domain.RoleAccounts))
		assert.False(t, IsBillingAuthorized(domain.RoleCounsellor))
		assert.False(t, IsBillingAuthorized(domain.RoleHR))
		assert.False(t, IsBillingAuthorized(domain.Role("")))
	})
}
