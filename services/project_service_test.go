package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alriefqyd/gemba-api/database"
	"github.com/alriefqyd/gemba-api/errs"
	"github.com/alriefqyd/gemba-api/models"
	"github.com/alriefqyd/gemba-api/storage"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*ProjectService, string) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "gemba.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	db := database.New(gdb)
	require.NoError(t, db.Migrate())

	uploadDir := t.TempDir()
	store, err := storage.NewStorage(storage.Config{Type: "local", BasePath: uploadDir})
	require.NoError(t, err)

	return NewProjectService(db, store), uploadDir
}

func testFindingInput(desc string) FindingInput {
	return FindingInput{
		FindingType:        "Unsafe Condition",
		Date:               "2024-03-15",
		SafetyOfficer:      "Rina",
		Supervisor:         "Budi",
		FindingDescription: desc,
		ActionDescription:  "Fix it",
		Status:             "Open",
	}
}

func testProjectInput(findings ...FindingInput) ProjectInput {
	return ProjectInput{
		ProjectTitle: "Plant Walkdown",
		ProjectNo:    "PRJ-001",
		ProjectArea:  "Boiler House",
		Findings:     findings,
	}
}

// blobPaths lists the attachment files currently on disk, relative to the
// upload dir.
func blobPaths(t *testing.T, uploadDir string) []string {
	t.Helper()

	var paths []string
	err := filepath.Walk(uploadDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			rel, err := filepath.Rel(uploadDir, path)
			if err != nil {
				return err
			}
			paths = append(paths, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	return paths
}

func TestCreateProject(t *testing.T) {
	svc, uploadDir := newTestService(t)
	ctx := context.Background()

	img := &ImageUpload{Data: []byte("jpeg-bytes"), ContentType: "image/jpeg"}
	in := testProjectInput(
		testFindingInput("exposed wiring"),
		FindingInput{
			FindingType:        "Housekeeping",
			FindingDescription: "debris on walkway",
			ActionDescription:  "clear walkway",
			Image:              img,
		},
	)

	createdBy := "inspector-1"
	project, err := svc.CreateProject(ctx, in, &createdBy)
	require.NoError(t, err)

	assert.Equal(t, "Plant Walkdown", project.ProjectTitle)
	assert.Equal(t, "PRJ-001", project.ProjectNo)
	assert.Equal(t, models.PlaceholderImage, project.Images)
	require.NotNil(t, project.CreatedBy)
	assert.Equal(t, "inspector-1", *project.CreatedBy)
	require.Len(t, project.Findings, 2)

	// Exactly one finding carries a stored blob, and the blob is on disk.
	var stored []string
	for _, f := range project.Findings {
		if path := f.ImagePath(); path != "" {
			stored = append(stored, path)
		}
	}
	require.Len(t, stored, 1)
	assert.Equal(t, blobPaths(t, uploadDir), stored)
}

func TestGetProjectNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetProject(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestUpdateProjectReplacesFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, testProjectInput(testFindingInput("loose railing")), nil)
	require.NoError(t, err)

	in := testProjectInput(FindingInput{
		ID:                 &project.Findings[0].ID,
		FindingType:        "Unsafe Condition",
		FindingDescription: "loose railing",
		ActionDescription:  "weld railing",
		Status:             "Closed",
	})
	in.ProjectTitle = "Plant Walkdown Q2"
	in.ProjectArea = "Turbine Hall"

	updated, result, err := svc.UpdateProject(ctx, project.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "Plant Walkdown Q2", updated.ProjectTitle)
	assert.Equal(t, "Turbine Hall", updated.ProjectArea)
	// The images column is always rewritten with the update placeholder.
	assert.Equal(t, models.UpdatedPlaceholderImage, updated.Images)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Deleted)
	require.Len(t, updated.Findings, 1)
	assert.Equal(t, "Closed", updated.Findings[0].Status)
}

func TestUpdateProjectNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.UpdateProject(context.Background(), uuid.New(), testProjectInput(testFindingInput("x")))
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestDeleteProjectRemovesRowsAndBlobs(t *testing.T) {
	svc, uploadDir := newTestService(t)
	ctx := context.Background()

	img := &ImageUpload{Data: []byte("png-bytes"), ContentType: "image/png"}
	in := testProjectInput(
		FindingInput{
			FindingType:        "PPE",
			FindingDescription: "missing helmet",
			ActionDescription:  "enforce PPE",
			Image:              img,
		},
		testFindingInput("oil spill"),
	)

	project, err := svc.CreateProject(ctx, in, nil)
	require.NoError(t, err)
	require.Len(t, blobPaths(t, uploadDir), 1)

	require.NoError(t, svc.DeleteProject(ctx, project.ID))

	_, err = svc.GetProject(ctx, project.ID)
	assert.True(t, errs.IsNotFound(err))

	var count int64
	require.NoError(t, svc.db.Model(&models.Finding{}).Where("project_id = ?", project.ID).Count(&count).Error)
	assert.Zero(t, count)

	assert.Empty(t, blobPaths(t, uploadDir))
}

func TestDeleteProjectNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.DeleteProject(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestListProjects(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, testProjectInput(testFindingInput("a")), nil)
	require.NoError(t, err)
	_, err = svc.CreateProject(ctx, testProjectInput(testFindingInput("b")), nil)
	require.NoError(t, err)

	projects, err := svc.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}
