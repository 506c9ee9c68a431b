package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	// Decoders for proportional image sizing in reports.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/alriefqyd/gemba-api/errs"
	"github.com/alriefqyd/gemba-api/models"
	"github.com/alriefqyd/gemba-api/pptx"
	"github.com/alriefqyd/gemba-api/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ReportService renders a project and its findings into a pptx slide deck.
// Generation is synchronous and runs to completion or fails outright; there
// is no partial output.
type ReportService struct {
	store  storage.Storage
	logger zerolog.Logger
}

func NewReportService(store storage.Storage) *ReportService {
	return &ReportService{
		store:  store,
		logger: log.With().Str("serviceName", "reportService").Logger(),
	}
}

// ReportFile is a generated deck written to a scoped temporary location.
// The caller streams it back and must call Cleanup once delivery finishes,
// on every exit path.
type ReportFile struct {
	Path     string
	Filename string
	dir      string
}

// Cleanup removes the temporary artifact
func (r *ReportFile) Cleanup() error {
	return os.RemoveAll(r.dir)
}

// GenerateReport builds the deck for a project: a cover slide plus one
// content slide per chunk of three findings, in the order given. Findings
// whose image blob is missing still render, with the image area left blank.
// A project with no findings produces a valid cover-only deck.
func (s *ReportService) GenerateReport(ctx context.Context, project *models.Project, findings []models.Finding) (*ReportFile, error) {
	layout := BuildReportLayout(project, findings)

	deck := pptx.New(SlideWidthEMU, SlideHeightEMU)
	s.renderCover(ctx, deck.AddSlide(), layout.Cover)
	for _, content := range layout.Slides {
		s.renderContentSlide(ctx, deck.AddSlide(), content)
	}

	dir, err := os.MkdirTemp("", "gemba-report-")
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to create report directory", err)
	}

	filename := fmt.Sprintf("project_%s_generated.pptx", project.ID)
	path := filepath.Join(dir, filename)
	if err := deck.WriteFile(path); err != nil {
		os.RemoveAll(dir)
		return nil, errs.NewInternalErrorWithCause("failed to write report", err)
	}

	return &ReportFile{Path: path, Filename: filename, dir: dir}, nil
}

func (s *ReportService) renderCover(ctx context.Context, slide *pptx.Slide, cover CoverSlide) {
	if cover.ImagePath != "" {
		if data, contentType, ok := s.fetchImage(ctx, cover.ImagePath); ok {
			// Full-slide background; text boxes draw on top.
			if err := slide.AddPicture(0, 0, SlideWidthEMU, SlideHeightEMU, data, contentType); err != nil {
				s.logger.Warn().Err(err).Str("path", cover.ImagePath).Msg("skipping cover background image")
			}
		}
	}

	slide.AddTextBox(pptx.TextBox{
		X:     914400,
		Y:     2286000,
		Width: SlideWidthEMU - 2*914400,
		Height: 1143000,
		Paragraphs: []pptx.Paragraph{
			pptx.Text(cover.Title, true, 40),
		},
	})
	slide.AddTextBox(pptx.TextBox{
		X:     914400,
		Y:     3429000,
		Width: SlideWidthEMU - 2*914400,
		Height: 457200,
		Paragraphs: []pptx.Paragraph{
			pptx.Text(cover.Subtitle, false, 20),
		},
	})
}

func (s *ReportService) renderContentSlide(ctx context.Context, slide *pptx.Slide, content ContentSlide) {
	for _, col := range content.Columns {
		slide.AddTextBox(pptx.TextBox{
			X:      col.X,
			Y:      col.Y,
			Width:  col.Width,
			Height: headerHeightEMU,
			Paragraphs: []pptx.Paragraph{
				pptx.Text(col.Header, true, 14),
			},
		})

		textY := col.Y + headerHeightEMU
		if col.ImagePath != "" {
			if data, contentType, ok := s.fetchImage(ctx, col.ImagePath); ok {
				w, h := fitProportionally(data, col.Width, imageHeightEMU)
				if err := slide.AddPicture(col.X, textY, w, h, data, contentType); err != nil {
					s.logger.Warn().Err(err).Str("path", col.ImagePath).Msg("skipping finding image")
				} else {
					textY += imageHeightEMU
				}
			}
		}

		var paras []pptx.Paragraph
		for _, line := range col.Lines {
			text := line.Value
			if line.Label != "" {
				text = fmt.Sprintf("%s: %s", line.Label, line.Value)
			}
			paras = append(paras, pptx.Text(text, line.Bold, 11))
		}
		slide.AddTextBox(pptx.TextBox{
			X:          col.X,
			Y:          textY,
			Width:      col.Width,
			Height:     textHeightEMU,
			Paragraphs: paras,
		})
	}
}

// fetchImage loads an attachment blob for embedding. Any failure (missing
// blob, unreadable data) is logged and reported as absent rather than
// failing the report.
func (s *ReportService) fetchImage(ctx context.Context, path string) ([]byte, string, bool) {
	exists, err := s.store.Exists(ctx, path)
	if err != nil || !exists {
		if err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("attachment existence check failed")
		}
		return nil, "", false
	}

	reader, err := s.store.Get(ctx, path)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("attachment read failed, leaving image area blank")
		return nil, "", false
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("attachment read failed, leaving image area blank")
		return nil, "", false
	}

	return data, contentTypeFor(path), true
}

// fitProportionally scales an image to the column width, capped at maxHeight,
// preserving aspect ratio. Undecodable images fill the full area.
func fitProportionally(data []byte, width, maxHeight int64) (int64, int64) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return width, maxHeight
	}

	height := width * int64(cfg.Height) / int64(cfg.Width)
	if height > maxHeight {
		width = maxHeight * int64(cfg.Width) / int64(cfg.Height)
		height = maxHeight
	}
	return width, height
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
