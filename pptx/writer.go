package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Write serializes the presentation as a pptx archive. The output is a
// complete OPC package: content types, package relationships, presentation
// part, one slide master/layout/theme, and one part per slide with its
// embedded media.
func (p *Presentation) Write(w io.Writer) error {
	zw := zip.NewWriter(w)

	parts := map[string]string{
		"[Content_Types].xml":                          p.contentTypesXML(),
		"_rels/.rels":                                  packageRelsXML,
		"ppt/presentation.xml":                         p.presentationXML(),
		"ppt/_rels/presentation.xml.rels":              p.presentationRelsXML(),
		"ppt/slideMasters/slideMaster1.xml":            slideMasterXML,
		"ppt/slideMasters/_rels/slideMaster1.xml.rels": slideMasterRelsXML,
		"ppt/slideLayouts/slideLayout1.xml":            slideLayoutXML,
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels": slideLayoutRelsXML,
		"ppt/theme/theme1.xml":                         themeXML,
	}

	mediaIndex := 0
	for i, slide := range p.slides {
		slideName := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		relsName := fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1)

		var mediaRefs []string
		var rels strings.Builder
		rels.WriteString(xmlHeader)
		rels.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
		rels.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)
		for j, pic := range slide.pictures {
			mediaIndex++
			mediaName := fmt.Sprintf("ppt/media/image%d.%s", mediaIndex, imageExtension(pic.contentType))
			relID := fmt.Sprintf("rId%d", j+2)
			rels.WriteString(fmt.Sprintf(`<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image%d.%s"/>`,
				relID, mediaIndex, imageExtension(pic.contentType)))
			mediaRefs = append(mediaRefs, relID)

			fw, err := zw.Create(mediaName)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", mediaName, err)
			}
			if _, err := fw.Write(pic.data); err != nil {
				return fmt.Errorf("failed to write %s: %w", mediaName, err)
			}
		}
		rels.WriteString(`</Relationships>`)

		parts[slideName] = slide.xml(mediaRefs)
		parts[relsName] = rels.String()
	}

	for _, name := range p.partOrder() {
		content, ok := parts[name]
		if !ok {
			continue
		}
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		if _, err := io.WriteString(fw, content); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	return zw.Close()
}

// WriteFile serializes the presentation to a file on disk
func (p *Presentation) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := p.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// partOrder keeps the archive layout deterministic
func (p *Presentation) partOrder() []string {
	order := []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideMasters/_rels/slideMaster1.xml.rels",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/slideLayouts/_rels/slideLayout1.xml.rels",
		"ppt/theme/theme1.xml",
	}
	for i := range p.slides {
		order = append(order,
			fmt.Sprintf("ppt/slides/slide%d.xml", i+1),
			fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1))
	}
	return order
}

func (p *Presentation) contentTypesXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Default Extension="jpeg" ContentType="image/jpeg"/>`)
	b.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	b.WriteString(`<Default Extension="gif" ContentType="image/gif"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := range p.slides {
		b.WriteString(fmt.Sprintf(`<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1))
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func (p *Presentation) presentationXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:sldIdLst>`)
	for i := range p.slides {
		b.WriteString(fmt.Sprintf(`<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+2))
	}
	b.WriteString(`</p:sldIdLst>`)
	b.WriteString(fmt.Sprintf(`<p:sldSz cx="%d" cy="%d"/>`, p.widthEMU, p.heightEMU))
	b.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func (p *Presentation) presentationRelsXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := range p.slides {
		b.WriteString(fmt.Sprintf(`<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+2, i+1))
	}
	b.WriteString(fmt.Sprintf(`<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="theme/theme1.xml"/>`, len(p.slides)+2))
	b.WriteString(`</Relationships>`)
	return b.String()
}

// xml renders the slide part. mediaRefs holds the relationship ID for each
// picture in order.
func (s *Slide) xml(mediaRefs []string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)

	shapeID := 2
	for i, pic := range s.pictures {
		b.WriteString(fmt.Sprintf(`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture %d"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`, shapeID, i+1))
		b.WriteString(fmt.Sprintf(`<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`, mediaRefs[i]))
		b.WriteString(fmt.Sprintf(`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`,
			pic.x, pic.y, pic.width, pic.height))
		shapeID++
	}

	for i, tb := range s.textBoxes {
		b.WriteString(fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, shapeID, i+1))
		b.WriteString(fmt.Sprintf(`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`,
			tb.X, tb.Y, tb.Width, tb.Height))
		b.WriteString(`<p:txBody><a:bodyPr wrap="square"/><a:lstStyle/>`)
		for _, para := range tb.Paragraphs {
			b.WriteString(`<a:p>`)
			for _, run := range para.Runs {
				b.WriteString(`<a:r><a:rPr lang="en-US"`)
				if run.Size > 0 {
					b.WriteString(fmt.Sprintf(` sz="%d"`, run.Size*100))
				}
				if run.Bold {
					b.WriteString(` b="1"`)
				}
				b.WriteString(`/><a:t>`)
				b.WriteString(escapeXML(run.Text))
				b.WriteString(`</a:t></a:r>`)
			}
			b.WriteString(`</a:p>`)
		}
		b.WriteString(`</p:txBody></p:sp>`)
		shapeID++
	}

	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return ""
	}
	return buf.String()
}
