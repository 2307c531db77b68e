package chartexport

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"
)

// DefaultAssetsHost serves the ECharts script referenced by pages.
const DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

const styleTagLen = len("</style>")

//go:embed templates/*.html
var templateFS embed.FS

var (
	templates     *template.Template
	templatesOnce sync.Once
	errTemplates  error
)

// Renderable is anything that writes itself as HTML, such as go-echarts
// charts.
type Renderable interface {
	Render(w io.Writer) error
}

// Section is one chart on a page.
type Section struct {
	Title    string
	Subtitle string
	Chart    Renderable
}

// Page is a standalone HTML document holding several charts.
type Page struct {
	Title       string
	Description string
	Theme       Theme
	AssetsHost  string
	Sections    []Section
}

// NewPage creates an empty page.
func NewPage(title, description string, theme Theme) *Page {
	return &Page{
		Title:       title,
		Description: description,
		Theme:       theme,
		AssetsHost:  DefaultAssetsHost,
	}
}

// Add appends sections to the page.
func (p *Page) Add(sections ...Section) {
	p.Sections = append(p.Sections, sections...)
}

type pageData struct {
	Title       string
	Description string
	AssetsHost  string
	Theme       ThemeConfig
	Content     template.HTML
}

type sectionData struct {
	Title    string
	Subtitle string
	Chart    template.HTML
}

// Render writes the page as HTML.
func (p *Page) Render(w io.Writer) error {
	var content bytes.Buffer

	for i, section := range p.Sections {
		chart, err := renderChart(section.Chart)
		if err != nil {
			return fmt.Errorf("render section %d: %w", i, err)
		}

		html, err := renderTemplate("section.html", sectionData{
			Title:    section.Title,
			Subtitle: section.Subtitle,
			Chart:    template.HTML(chart), //nolint:gosec // chart markup comes from go-echarts
		})
		if err != nil {
			return fmt.Errorf("render section %d: %w", i, err)
		}

		content.WriteString(string(html))
	}

	html, err := renderTemplate("page.html", pageData{
		Title:       p.Title,
		Description: p.Description,
		AssetsHost:  p.AssetsHost,
		Theme:       GetThemeConfig(p.Theme),
		Content:     template.HTML(content.String()), //nolint:gosec // assembled from escaped templates
	})
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	_, err = io.WriteString(w, string(html))
	if err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	return nil
}

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

func renderTemplate(name string, data any) (template.HTML, error) {
	tmpl, err := getTemplates()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer

	err = tmpl.ExecuteTemplate(&buf, name, data)
	if err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}

	return template.HTML(buf.String()), nil //nolint:gosec // output of html/template
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

// extractChartContent keeps the chart container and script of a full
// go-echarts page. Fragments pass through unchanged.
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
			return content
		}

		j := strings.Index(content[i:], `</style>`)
		if j == -1 {
			return content
		}

		content = content[:i] + content[i+j+styleTagLen:]
	}
}
