package docs

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSwaggerInfoRegistered(t *testing.T) {
	if SwaggerInfo == nil {
		t.Fatal("swagger info not initialized")
	}
	if SwaggerInfo.Title != "GoldMarketCap API" {
		t.Fatalf("unexpected swagger title: %q", SwaggerInfo.Title)
	}
}

func TestDocTemplateCoversRoutes(t *testing.T) {
	for _, route := range []string{
		`"/api/board"`,
		`"/api/board/refresh"`,
		`"/api/charts/{source}/candles"`,
		`"/api/charts/{source}/line"`,
		`"/api/collector/health"`,
		`"/api/sources"`,
		`"/api/stats"`,
		`"/health"`,
	} {
		if !strings.Contains(docTemplate, route) {
			t.Errorf("doc template missing route %s", route)
		}
	}
}

func TestDocTemplateIsValidJSON(t *testing.T) {
	rendered := strings.NewReplacer(
		"{{ marshal .Schemes }}", "[]",
		"{{escape .Description}}", "d",
		"{{.Title}}", "t",
		"{{.Version}}", "v",
		"{{.Host}}", "h",
		"{{.BasePath}}", "/",
	).Replace(docTemplate)

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(rendered), &doc); err != nil {
		t.Fatalf("doc template is not valid JSON after substitution: %v", err)
	}
	if _, ok := doc["paths"]; !ok {
		t.Fatal("doc template missing paths object")
	}
}
