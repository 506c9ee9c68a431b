package services

import (
	"fmt"
	"time"

	"github.com/alriefqyd/gemba-api/models"
	"gorm.io/datatypes"
)

// Slide geometry in EMU (914400 per inch). Decks are 10x7.5in, three
// findings per content slide in equal-width columns.
const (
	SlideWidthEMU    = 9144000
	SlideHeightEMU   = 6858000
	ColumnPaddingEMU = 228600
	FindingsPerSlide = 3

	columnTopEMU    = 914400
	headerHeightEMU = 365760
	imageHeightEMU  = 1828800
	textHeightEMU   = 3200400
)

// NAValue substitutes absent or empty finding fields in the report
const NAValue = "N/A"

// ReportLayout is the deterministic slide layout for one project report:
// a cover slide followed by ceil(len(findings)/3) content slides.
type ReportLayout struct {
	Cover  CoverSlide
	Slides []ContentSlide
}

type CoverSlide struct {
	Title    string
	Subtitle string
	// ImagePath references an optional background image blob; rendering
	// skips it when the blob does not exist.
	ImagePath string
}

type ContentSlide struct {
	Columns []FindingColumn
}

// FindingColumn is one finding laid out in one of the three slide columns.
// Geometry is in EMU, already resolved against the slide size.
type FindingColumn struct {
	X     int64
	Y     int64
	Width int64
	// Header shown above the column content
	Header string
	// ImagePath references the finding photo, empty when the finding has
	// none. The renderer checks existence and skips missing blobs silently.
	ImagePath string
	// Lines is the fixed-format text block under the image
	Lines []TextLine
}

type TextLine struct {
	Label string
	Value string
	Bold  bool
}

// BuildReportLayout computes the paginated layout for a project and its
// findings in the order given. It is pure: no storage access, no clock.
// Zero findings still produce a valid layout with only the cover slide.
func BuildReportLayout(project *models.Project, findings []models.Finding) ReportLayout {
	layout := ReportLayout{
		Cover: CoverSlide{
			Title:    orNA(project.ProjectTitle),
			Subtitle: fmt.Sprintf("%s — %s", orNA(project.ProjectNo), orNA(project.ProjectArea)),
		},
	}
	if project.HasImage() {
		layout.Cover.ImagePath = project.Images
	}

	colWidth := int64(SlideWidthEMU/FindingsPerSlide - ColumnPaddingEMU)

	for start := 0; start < len(findings); start += FindingsPerSlide {
		end := start + FindingsPerSlide
		if end > len(findings) {
			end = len(findings)
		}

		slide := ContentSlide{}
		for i, f := range findings[start:end] {
			col := FindingColumn{
				X:         int64(i)*(SlideWidthEMU/FindingsPerSlide) + ColumnPaddingEMU/2,
				Y:         columnTopEMU,
				Width:     colWidth,
				Header:    orNA(f.FindingType),
				ImagePath: f.ImagePath(),
				Lines:     findingLines(project, f),
			}
			slide.Columns = append(slide.Columns, col)
		}
		layout.Slides = append(layout.Slides, slide)
	}

	return layout
}

// SlideCount returns the total number of slides the layout renders to
func (l ReportLayout) SlideCount() int {
	return 1 + len(l.Slides)
}

// findingLines builds the fixed-format text block for one finding. Every
// field falls back to "N/A" when absent.
func findingLines(project *models.Project, f models.Finding) []TextLine {
	return []TextLine{
		{Label: "Date", Value: orNA(formatDate(f.Date))},
		{Label: "Area", Value: orNA(project.ProjectArea)},
		{Label: "Supervisor", Value: orNA(f.Supervisor)},
		{Label: "Safety Officer", Value: orNA(f.SafetyOfficer)},
		{Value: "Detailed Description", Bold: true},
		{Value: orNA(f.FindingDescription)},
		{Value: orNA(f.ActionDescription)},
		{Label: "Status", Value: orNA(f.Status)},
	}
}

func formatDate(d datatypes.Date) string {
	t := time.Time(d)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func orNA(s string) string {
	if s == "" {
		return NAValue
	}
	return s
}
