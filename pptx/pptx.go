// Package pptx writes minimal PresentationML (.pptx) slide decks. It covers
// exactly what report generation needs: blank slides carrying positioned
// text boxes and pictures. Geometry is expressed in EMU (914400 per inch).
package pptx

import "fmt"

// Presentation is an in-memory slide deck. Build it up with AddSlide and the
// slide shape methods, then serialize it with Write or WriteFile.
type Presentation struct {
	widthEMU  int64
	heightEMU int64
	slides    []*Slide
}

// New creates an empty presentation with the given slide size
func New(widthEMU, heightEMU int64) *Presentation {
	return &Presentation{widthEMU: widthEMU, heightEMU: heightEMU}
}

// AddSlide appends a blank slide and returns it for population
func (p *Presentation) AddSlide() *Slide {
	s := &Slide{}
	p.slides = append(p.slides, s)
	return s
}

// SlideCount returns the number of slides added so far
func (p *Presentation) SlideCount() int {
	return len(p.slides)
}

// Slide is one slide under construction
type Slide struct {
	textBoxes []TextBox
	pictures  []picture
}

// TextBox is a positioned block of paragraphs
type TextBox struct {
	X, Y, Width, Height int64
	Paragraphs          []Paragraph
}

// Paragraph is one line of runs inside a text box
type Paragraph struct {
	Runs []Run
}

// Run is a span of uniformly formatted text. Size is in points; zero means
// the default size.
type Run struct {
	Text string
	Bold bool
	Size int
}

type picture struct {
	x, y, width, height int64
	data                []byte
	contentType         string
}

// AddTextBox places a text box on the slide
func (s *Slide) AddTextBox(tb TextBox) {
	s.textBoxes = append(s.textBoxes, tb)
}

// AddPicture places an image on the slide. Supported content types are
// image/jpeg, image/png and image/gif.
func (s *Slide) AddPicture(x, y, width, height int64, data []byte, contentType string) error {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif":
	default:
		return fmt.Errorf("unsupported picture content type: %s", contentType)
	}
	s.pictures = append(s.pictures, picture{x, y, width, height, data, contentType})
	return nil
}

// Text is a convenience constructor for a single-run paragraph
func Text(text string, bold bool, size int) Paragraph {
	return Paragraph{Runs: []Run{{Text: text, Bold: bold, Size: size}}}
}

func imageExtension(contentType string) string {
	switch contentType {
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	default:
		return "jpeg"
	}
}
