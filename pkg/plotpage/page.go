// Package plotpage renders report outputs as themed HTML pages of go-echarts charts.
package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
)

const styleTagLen = 8 // len("</style>")

// Width is the horizontal share of the page a section takes.
type Width string

// Section widths.
const (
	WidthFull Width = "full"
	WidthHalf Width = "half"
)

// Section represents a chart position within a page.
type Section struct {
	Title    string
	Subtitle string
	Width    Width
	// Chart is nil for an intentionally empty position.
	Chart Renderable
}

// Selector is the report picker shown above the charts.
type Selector struct {
	// Action is the form target; an empty action renders the selection read-only.
	Action string
	Kinds  []Option
	Years  []Option
}

// Option is one choice of a selector drop-down.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Page represents a complete visualization page.
type Page struct {
	Title       string
	Description string
	Theme       Theme
	Selector    *Selector
	// Notice is shown instead of the charts when set.
	Notice   string
	Sections []Section
}

// NewPage creates a new visualization page.
func NewPage(title, description string) *Page {
	return &Page{
		Title:       title,
		Description: description,
		Theme:       ThemeLight,
	}
}

// WithTheme sets the theme for the page.
func (p *Page) WithTheme(theme Theme) *Page {
	p.Theme = theme

	return p
}

// Add appends sections to the page.
func (p *Page) Add(sections ...Section) {
	p.Sections = append(p.Sections, sections...)
}

// Render writes the page as HTML.
func (p *Page) Render(w io.Writer) error {
	return HTMLRenderer{}.Render(w, p)
}

// Renderable is the interface for chart components.
type Renderable interface {
	Render(w io.Writer) error
}

// HTMLRenderer renders pages as HTML.
type HTMLRenderer struct {
	ExtraCSS string
}

// Render writes the page as HTML to the writer.
func (r HTMLRenderer) Render(w io.Writer, page *Page) error {
	header, err := renderTemplate("header.html", headerData{
		Title:       page.Title,
		Description: page.Description,
	})
	if err != nil {
		return fmt.Errorf("render header: %w", err)
	}

	var selector template.HTML

	if page.Selector != nil {
		selector, err = renderTemplate("selector.html", page.Selector)
		if err != nil {
			return fmt.Errorf("render selector: %w", err)
		}
	}

	var sectionsHTML bytes.Buffer

	for _, section := range page.Sections {
		sectionHTML, sectionErr := r.renderSection(section)
		if sectionErr != nil {
			return fmt.Errorf("render section: %w", sectionErr)
		}

		sectionsHTML.WriteString(string(sectionHTML))
	}

	darkClass := ""
	if page.Theme == ThemeDark {
		darkClass = "dark"
	}

	data := pageData{
		Title:     page.Title,
		DarkClass: darkClass,
		Theme:     GetThemeConfig(page.Theme),
		ExtraCSS:  template.CSS(r.ExtraCSS),
		Header:    header,
		Selector:  selector,
		Notice:    page.Notice,
		Content:   template.HTML(sectionsHTML.String()),
		EChartsJS: echartsJS,
	}

	html, err := renderTemplate("page.html", data)
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	_, err = io.WriteString(w, string(html))
	if err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	return nil
}

func (r HTMLRenderer) renderSection(section Section) (template.HTML, error) {
	chartHTML, err := renderChart(section.Chart)
	if err != nil {
		return "", err
	}

	width := section.Width
	if width == "" {
		width = WidthFull
	}

	return renderTemplate("section.html", sectionData{
		Title:    section.Title,
		Subtitle: section.Subtitle,
		Width:    string(width),
		Empty:    section.Chart == nil,
		Chart:    template.HTML(chartHTML),
	})
}

func renderChart(chart Renderable) (string, error) {
	if chart == nil {
		return "", nil
	}

	var buf bytes.Buffer

	err := chart.Render(&buf)
	if err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}

	return extractChartContent(buf.String()), nil
}

// extractChartContent keeps the chart element and script of a full echarts page.
func extractChartContent(html string) string {
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}

	start := strings.Index(html, `<div class="container">`)
	if start == -1 {
		return html
	}

	end := strings.Index(html, `</body>`)
	if end == -1 {
		return html
	}

	content := html[start:end]
	content = strings.ReplaceAll(content, `class="container"`, `class="echart-box"`)

	return removeStyleTags(content)
}

func removeStyleTags(content string) string {
	for {
		i := strings.Index(content, `<style>`)
		if i == -1 {
			break
		}

		j := strings.Index(content[i:], `</style>`)
		if j == -1 {
			break
		}

		content = content[:i] + content[i+j+styleTagLen:]
	}

	return content
}
