package plotpage

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"
)

//go:embed templates/*.html
var templateFS embed.FS

// echartsJS is the echarts bundle every chart script expects.
const echartsJS = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

var (
	templates     *template.Template
	templatesOnce sync.Once
	errTemplates  error
)

// getTemplates returns the parsed templates, loading them once.
func getTemplates() (*template.Template, error) {
	templatesOnce.Do(func() {
		var parseErr error

		templates, parseErr = template.New("").ParseFS(templateFS, "templates/*.html")
		if parseErr != nil {
			errTemplates = fmt.Errorf("parsing templates: %w", parseErr)
		}
	})

	return templates, errTemplates
}

// renderTemplate renders a named template with the given data.
func renderTemplate(name string, data any) (template.HTML, error) {
	tmpl, err := getTemplates()
	if err != nil {
		return "", fmt.Errorf("loading templates: %w", err)
	}

	var buf bytes.Buffer

	err = tmpl.ExecuteTemplate(&buf, name, data)
	if err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}

	return template.HTML(buf.String()), nil //nolint:gosec // output of html/template.
}

// pageData holds data for the page template.
type pageData struct {
	Title     string
	DarkClass string
	Theme     ThemeConfig
	ExtraCSS  template.CSS
	Header    template.HTML
	Selector  template.HTML
	Notice    string
	Content   template.HTML
	EChartsJS string
}

// headerData holds data for the header template.
type headerData struct {
	Title       string
	Description string
}

// sectionData holds data for the section template.
type sectionData struct {
	Title    string
	Subtitle string
	Width    string
	Empty    bool
	Chart    template.HTML
}
