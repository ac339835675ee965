package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestSwaggerDoc_RendersAllRoutes(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc error: %v", err)
	}

	var doc struct {
		Swagger string                    `json:"swagger"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("doc is not valid json: %v", err)
	}
	if doc.Swagger != "2.0" {
		t.Fatalf("expected swagger 2.0, got %q", doc.Swagger)
	}

	want := map[string][]string{
		"/health":                              {"get"},
		"/medicines":                           {"get", "post"},
		"/medicines/summary":                   {"get"},
		"/medicines/{medicineID}":              {"get", "patch", "delete"},
		"/medicines/taken":                     {"get", "post", "delete"},
		"/schedule":                            {"get"},
		"/schedule/next":                       {"get"},
		"/calendar":                            {"get"},
		"/adherence":                           {"get"},
		"/users/profile":                       {"get", "put"},
		"/notifications":                       {"get"},
		"/notifications/read-all":              {"post"},
		"/notifications/{notificationID}/read": {"post"},
		"/notifications/{notificationID}":      {"delete"},
	}
	for path, methods := range want {
		ops, ok := doc.Paths[path]
		if !ok {
			t.Fatalf("missing path %s", path)
		}
		for _, m := range methods {
			if _, ok := ops[m]; !ok {
				t.Fatalf("missing %s %s", m, path)
			}
		}
	}
}
