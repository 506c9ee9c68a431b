package services

import (
	"testing"
	"time"

	"github.com/alriefqyd/gemba-api/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func layoutProject() *models.Project {
	return &models.Project{
		ID:           uuid.New(),
		ProjectTitle: "Night Shift Audit",
		ProjectNo:    "PRJ-042",
		ProjectArea:  "Warehouse B",
		Images:       models.PlaceholderImage,
	}
}

func layoutFinding(findingType, desc string) models.Finding {
	return models.Finding{
		ID:                 uuid.New(),
		FindingType:        findingType,
		Date:               datatypes.Date(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		SafetyOfficer:      "Sari",
		Supervisor:         "Agus",
		FindingDescription: desc,
		ActionDescription:  "remediate",
		Status:             "Open",
	}
}

func TestBuildReportLayoutPagination(t *testing.T) {
	project := layoutProject()

	cases := []struct {
		findings int
		slides   int
		lastCols int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{3, 1, 3},
		{4, 2, 1},
		{7, 3, 1},
		{9, 3, 3},
	}

	for _, tc := range cases {
		findings := make([]models.Finding, tc.findings)
		for i := range findings {
			findings[i] = layoutFinding("Unsafe Act", "desc")
		}

		layout := BuildReportLayout(project, findings)
		assert.Len(t, layout.Slides, tc.slides, "findings=%d", tc.findings)
		assert.Equal(t, 1+tc.slides, layout.SlideCount(), "findings=%d", tc.findings)
		if tc.slides > 0 {
			assert.Len(t, layout.Slides[tc.slides-1].Columns, tc.lastCols, "findings=%d", tc.findings)
		}
	}
}

func TestBuildReportLayoutCover(t *testing.T) {
	project := layoutProject()

	layout := BuildReportLayout(project, nil)
	assert.Equal(t, "Night Shift Audit", layout.Cover.Title)
	assert.Equal(t, "PRJ-042 — Warehouse B", layout.Cover.Subtitle)
	// Placeholder image values never reach the cover.
	assert.Empty(t, layout.Cover.ImagePath)

	project.Images = "covers/site.jpg"
	layout = BuildReportLayout(project, nil)
	assert.Equal(t, "covers/site.jpg", layout.Cover.ImagePath)
}

func TestBuildReportLayoutColumnGeometry(t *testing.T) {
	project := layoutProject()
	findings := []models.Finding{
		layoutFinding("A", "first"),
		layoutFinding("B", "second"),
		layoutFinding("C", "third"),
	}

	layout := BuildReportLayout(project, findings)
	require.Len(t, layout.Slides, 1)
	cols := layout.Slides[0].Columns
	require.Len(t, cols, 3)

	colWidth := int64(SlideWidthEMU/FindingsPerSlide - ColumnPaddingEMU)
	for i, col := range cols {
		assert.Equal(t, int64(i)*(SlideWidthEMU/FindingsPerSlide)+ColumnPaddingEMU/2, col.X)
		assert.Equal(t, colWidth, col.Width)
		assert.LessOrEqual(t, col.X+col.Width, int64(SlideWidthEMU))
	}

	// Columns keep the submission order.
	assert.Equal(t, "A", cols[0].Header)
	assert.Equal(t, "B", cols[1].Header)
	assert.Equal(t, "C", cols[2].Header)
}

func TestBuildReportLayoutMissingFieldsFallBack(t *testing.T) {
	project := layoutProject()
	project.ProjectArea = ""

	finding := models.Finding{ID: uuid.New()}
	layout := BuildReportLayout(project, []models.Finding{finding})

	require.Len(t, layout.Slides, 1)
	col := layout.Slides[0].Columns[0]

	assert.Equal(t, NAValue, col.Header)
	assert.Empty(t, col.ImagePath)

	require.Len(t, col.Lines, 8)
	for _, line := range col.Lines {
		if line.Bold {
			assert.Equal(t, "Detailed Description", line.Value)
			continue
		}
		assert.Equal(t, NAValue, line.Value, "label=%s", line.Label)
	}
}

func TestBuildReportLayoutFindingLines(t *testing.T) {
	project := layoutProject()
	f := layoutFinding("Unsafe Condition", "guard removed")
	image := "findings_images/abc.jpg"
	f.Image = &image

	layout := BuildReportLayout(project, []models.Finding{f})
	col := layout.Slides[0].Columns[0]

	assert.Equal(t, image, col.ImagePath)

	require.Len(t, col.Lines, 8)
	assert.Equal(t, TextLine{Label: "Date", Value: "2024-06-01"}, col.Lines[0])
	assert.Equal(t, TextLine{Label: "Area", Value: "Warehouse B"}, col.Lines[1])
	assert.Equal(t, TextLine{Label: "Supervisor", Value: "Agus"}, col.Lines[2])
	assert.Equal(t, TextLine{Label: "Safety Officer", Value: "Sari"}, col.Lines[3])
	assert.Equal(t, TextLine{Value: "Detailed Description", Bold: true}, col.Lines[4])
	assert.Equal(t, TextLine{Value: "guard removed"}, col.Lines[5])
	assert.Equal(t, TextLine{Value: "remediate"}, col.Lines[6])
	assert.Equal(t, TextLine{Label: "Status", Value: "Open"}, col.Lines[7])
}
