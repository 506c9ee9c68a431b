package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileFindingsFullPass(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, testProjectInput(
		testFindingInput("blocked exit"),
		testFindingInput("missing guard rail"),
		testFindingInput("leaking valve"),
	), nil)
	require.NoError(t, err)
	require.Len(t, project.Findings, 3)

	keptA := project.Findings[0]
	keptB := project.Findings[1]

	// Resubmit two of the three with changes plus one brand-new finding; the
	// third persisted finding is absent from the submission and must go.
	inputs := []FindingInput{
		{
			ID:                 &keptA.ID,
			FindingType:        keptA.FindingType,
			FindingDescription: keptA.FindingDescription,
			ActionDescription:  "barrier installed",
			Status:             "Closed",
		},
		{
			ID:                 &keptB.ID,
			FindingType:        keptB.FindingType,
			FindingDescription: keptB.FindingDescription,
			ActionDescription:  keptB.ActionDescription,
			Status:             "In Progress",
		},
		testFindingInput("corroded ladder"),
	}

	result, err := svc.ReconcileFindings(ctx, project.ID, inputs)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 1, result.Deleted)
	require.Len(t, result.Findings, 3)

	byID := make(map[uuid.UUID]string, len(result.Findings))
	for _, f := range result.Findings {
		byID[f.ID] = f.Status
	}
	assert.Equal(t, "Closed", byID[keptA.ID])
	assert.Equal(t, "In Progress", byID[keptB.ID])
	assert.NotContains(t, byID, project.Findings[2].ID)
}

func TestReconcileFindingsStaleIDSkipped(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, testProjectInput(testFindingInput("dim lighting")), nil)
	require.NoError(t, err)

	staleID := uuid.New()
	in := testFindingInput("phantom")
	in.ID = &staleID

	// The stale input is skipped, not turned into a create, and since nothing
	// touched the persisted finding it is removed by the difference pass.
	result, err := svc.ReconcileFindings(ctx, project.ID, []FindingInput{in})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 1, result.Deleted)
	assert.Empty(t, result.Findings)
}

func TestReconcileFindingsCrossProjectIDSkipped(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	victim, err := svc.CreateProject(ctx, testProjectInput(testFindingInput("other project's finding")), nil)
	require.NoError(t, err)

	project, err := svc.CreateProject(ctx, testProjectInput(testFindingInput("own finding")), nil)
	require.NoError(t, err)

	in := testFindingInput("hijack attempt")
	in.ID = &victim.Findings[0].ID

	result, err := svc.ReconcileFindings(ctx, project.ID, []FindingInput{in})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 1, result.Deleted)

	// The other project's finding is untouched.
	other, err := svc.GetProject(ctx, victim.ID)
	require.NoError(t, err)
	require.Len(t, other.Findings, 1)
	assert.Equal(t, "other project's finding", other.Findings[0].FindingDescription)
}

func TestReconcileFindingsImageReplaceReleasesOldBlob(t *testing.T) {
	svc, uploadDir := newTestService(t)
	ctx := context.Background()

	in := testFindingInput("frayed sling")
	in.Image = &ImageUpload{Data: []byte("old-photo"), ContentType: "image/jpeg"}

	project, err := svc.CreateProject(ctx, testProjectInput(in), nil)
	require.NoError(t, err)

	oldBlob := project.Findings[0].ImagePath()
	require.NotEmpty(t, oldBlob)
	require.Equal(t, []string{oldBlob}, blobPaths(t, uploadDir))

	update := testFindingInput("frayed sling")
	update.ID = &project.Findings[0].ID
	update.Image = &ImageUpload{Data: []byte("new-photo"), ContentType: "image/png"}

	result, err := svc.ReconcileFindings(ctx, project.ID, []FindingInput{update})
	require.NoError(t, err)
	require.Equal(t, 1, result.Updated)

	newBlob := result.Findings[0].ImagePath()
	require.NotEmpty(t, newBlob)
	assert.NotEqual(t, oldBlob, newBlob)

	// Only the replacement survives on disk.
	assert.Equal(t, []string{newBlob}, blobPaths(t, uploadDir))
}

func TestReconcileFindingsDeleteReleasesBlob(t *testing.T) {
	svc, uploadDir := newTestService(t)
	ctx := context.Background()

	withImage := testFindingInput("broken step")
	withImage.Image = &ImageUpload{Data: []byte("photo"), ContentType: "image/jpeg"}

	project, err := svc.CreateProject(ctx, testProjectInput(withImage, testFindingInput("kept")), nil)
	require.NoError(t, err)
	require.Len(t, blobPaths(t, uploadDir), 1)

	var keep FindingInput
	for _, f := range project.Findings {
		if f.ImagePath() == "" {
			id := f.ID
			keep = testFindingInput(f.FindingDescription)
			keep.ID = &id
		}
	}
	require.NotNil(t, keep.ID)

	result, err := svc.ReconcileFindings(ctx, project.ID, []FindingInput{keep})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Deleted)
	assert.Empty(t, blobPaths(t, uploadDir))
}

func TestReconcileFindingsEmptyListDeletesAll(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, testProjectInput(
		testFindingInput("a"),
		testFindingInput("b"),
	), nil)
	require.NoError(t, err)

	result, err := svc.ReconcileFindings(ctx, project.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Deleted)
	assert.Empty(t, result.Findings)
}

func TestDiffFindingIDs(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	toDelete := diffFindingIDs([]uuid.UUID{a, b, c}, map[uuid.UUID]bool{b: true})
	assert.Equal(t, []uuid.UUID{a, c}, toDelete)

	assert.Empty(t, diffFindingIDs(nil, nil))
	assert.Empty(t, diffFindingIDs([]uuid.UUID{a}, map[uuid.UUID]bool{a: true}))
}
