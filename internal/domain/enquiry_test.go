package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_StageIndex(t *testing.T) {
	t.Run("Should return canonical positions for all six stages", func(t *testing.T) {
		expected := map[Stage]int{
			StageEnquiry:        0,
			StageDemo:           1,
			StageQualifiedDemo:  2,
			StageClass:          3,
			StageClassQualified: 4,
			StagePlacement:      5,
		}
		for stage, want := range expected {
			idx, err := StageIndex(stage)
			require.NoError(t, err)
			assert.Equal(t, want, idx)
		}
	})
	t.Run("Should fail loudly for an out-of-enum value", func(t *testing.T) {
		_, err := StageIndex(Stage("graduated"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "graduated")
	})
}

func Test_Stages(t *testing.T) {
	t.Run("Should return a copy of the canonical order", func(t *testing.T) {
		stages := Stages()
		require.Len(t, stages, 6)
		assert.Equal(t, StageEnquiry, stages[0])
		assert.Equal(t, StagePlacement, stages[5])

		stages[0] = StagePlacement
		assert.Equal(t, StageEnquiry, Stages()[0])
	})
}

func Test_DemoStatus_Valid(t *testing.T) {
	t.Run("Should accept the four known statuses", func(t *testing.T) {
		for _, status := range DemoStatuses() {
			assert.True(t, status.Valid())
		}
	})
	t.Run("Should reject unknown values", func(t *testing.T) {
		assert.False(t, DemoStatus("Maybe later").Valid())
		assert.False(t, DemoStatus("").Valid())
	})
}

func Test_Enquiry_Clone(t *testing.T) {
	t.Run("Should copy pointer and slice fields", func(t *testing.T) {
		pkg := "pkg-1"
		original := Enquiry{
			ID:         "enq-1",
			Name:       "Asha",
			PackageID:  &pkg,
			SubjectIDs: []string{"subj-1", "subj-2"},
			Stage:      StageDemo,
		}

		snapshot := original.Clone()
		*original.PackageID = "pkg-2"
		original.SubjectIDs[0] = "subj-9"

		assert.Equal(t, "pkg-1", *snapshot.PackageID)
		assert.Equal(t, "subj-1", snapshot.SubjectIDs[0])
	})
}
