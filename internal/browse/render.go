package browse

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"
	"os"
)

//go:embed page.html.tmpl
var pageTemplate string

var pageTmpl = template.Must(template.New("browse").Parse(pageTemplate))

type pageData struct {
	Total     int
	Available int
	NotFound  int
	Data      template.JS
}

// RenderHTML produces the self-contained browse page. The result rows
// are embedded as JSON so the page can filter and re-sort client side.
func RenderHTML(results []Result, notFound int) ([]byte, error) {
	rows, err := json.Marshal(results)
	if err != nil {
		return nil, err
	}

	available := 0
	for _, r := range results {
		if r.IsAvailable {
			available++
		}
	}

	var buf bytes.Buffer
	err = pageTmpl.Execute(&buf, pageData{
		Total:     len(results),
		Available: available,
		NotFound:  notFound,
		Data:      template.JS(rows),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteHTML renders the page to a file.
func WriteHTML(path string, results []Result, notFound int) error {
	html, err := RenderHTML(results, notFound)
	if err != nil {
		return err
	}
	return os.WriteFile(path, html, 0o644)
}
