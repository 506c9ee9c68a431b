package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/alriefqyd/gemba-api/models"
	"github.com/alriefqyd/gemba-api/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReportService(t *testing.T) (*ReportService, storage.Storage) {
	t.Helper()

	store, err := storage.NewStorage(storage.Config{Type: "local", BasePath: t.TempDir()})
	require.NoError(t, err)
	return NewReportService(store), store
}

func slideNames(t *testing.T, path string) []string {
	t.Helper()

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	var slides []string
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slides = append(slides, f.Name)
		}
	}
	return slides
}

func TestGenerateReportCoverOnly(t *testing.T) {
	svc, _ := newTestReportService(t)

	project := layoutProject()
	report, err := svc.GenerateReport(context.Background(), project, nil)
	require.NoError(t, err)
	defer report.Cleanup()

	assert.Equal(t, fmt.Sprintf("project_%s_generated.pptx", project.ID), report.Filename)

	// Zero findings still produce a valid cover-only deck.
	assert.Len(t, slideNames(t, report.Path), 1)
}

func TestGenerateReportPaginatesFindings(t *testing.T) {
	svc, _ := newTestReportService(t)

	project := layoutProject()
	findings := make([]models.Finding, 4)
	for i := range findings {
		findings[i] = layoutFinding("Unsafe Act", fmt.Sprintf("finding %d", i+1))
	}

	report, err := svc.GenerateReport(context.Background(), project, findings)
	require.NoError(t, err)
	defer report.Cleanup()

	// Cover plus two content slides for four findings.
	assert.Len(t, slideNames(t, report.Path), 3)
}

func TestGenerateReportEmbedsStoredImages(t *testing.T) {
	svc, store := newTestReportService(t)
	ctx := context.Background()

	blob := "findings_images/photo.jpg"
	require.NoError(t, store.Save(ctx, blob, bytes.NewReader([]byte("jpeg-bytes")), "image/jpeg"))

	f := layoutFinding("PPE", "no gloves")
	f.Image = &blob

	project := layoutProject()
	report, err := svc.GenerateReport(ctx, project, []models.Finding{f})
	require.NoError(t, err)
	defer report.Cleanup()

	zr, err := zip.OpenReader(report.Path)
	require.NoError(t, err)
	defer zr.Close()

	var media []string
	for _, zf := range zr.File {
		if strings.HasPrefix(zf.Name, "ppt/media/") {
			media = append(media, zf.Name)
		}
	}
	assert.Len(t, media, 1)
}

func TestGenerateReportSkipsMissingImages(t *testing.T) {
	svc, _ := newTestReportService(t)

	missing := "findings_images/" + uuid.NewString() + ".jpg"
	f := layoutFinding("Housekeeping", "cluttered aisle")
	f.Image = &missing

	report, err := svc.GenerateReport(context.Background(), layoutProject(), []models.Finding{f})
	require.NoError(t, err)
	defer report.Cleanup()

	// The finding still renders; only the image area is left blank.
	assert.Len(t, slideNames(t, report.Path), 2)

	zr, err := zip.OpenReader(report.Path)
	require.NoError(t, err)
	defer zr.Close()
	for _, zf := range zr.File {
		assert.NotContains(t, zf.Name, "ppt/media/")
	}
}

func TestReportFileCleanup(t *testing.T) {
	svc, _ := newTestReportService(t)

	report, err := svc.GenerateReport(context.Background(), layoutProject(), nil)
	require.NoError(t, err)

	require.NoError(t, report.Cleanup())

	_, err = os.Stat(report.Path)
	assert.True(t, os.IsNotExist(err))
}
