package handlers

import (
	"fmt"
	"html"
	"os"

	"github.com/gofiber/fiber/v3"
	"go.yaml.in/yaml/v3"
)

// ============================================================
// Swagger Handlers
// ============================================================

// Docs отдаёт OpenAPI описание шлюза и страницу Swagger UI.
type Docs struct {
	document []byte
	title    string
}

// LoadDocs читает OpenAPI YAML и проверяет, что он разбирается.
func LoadDocs(path string) (*Docs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read openapi: %w", err)
	}

	var doc struct {
		OpenAPI string `yaml:"openapi"`
		Info    struct {
			Title string `yaml:"title"`
		} `yaml:"info"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse openapi: %w", err)
	}
	if doc.OpenAPI == "" {
		return nil, fmt.Errorf("%s: missing openapi version", path)
	}

	title := doc.Info.Title
	if title == "" {
		title = "API Gateway"
	}
	return &Docs{document: data, title: title}, nil
}

// YAML отдаёт OpenAPI YAML.
func (d *Docs) YAML(c fiber.Ctx) error {
	c.Type("yaml")
	return c.Send(d.document)
}

// UI отдаёт страницу Swagger UI, читающую описание из /docs/openapi.yaml.
func (d *Docs) UI(c fiber.Ctx) error {
	page := `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>` + html.EscapeString(d.title) + `</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '/docs/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
    });
  };
</script>
</body>
</html>`

	c.Type("html")
	return c.SendString(page)
}
