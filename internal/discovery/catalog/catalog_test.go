package catalog

import "testing"

func TestParse(t *testing.T) {
	data := []byte(`
sources:
  - name: regional-directory
    url: https://directory.example/web?q={query}
    category: directory
    enabled: true
    maxResults: 20
    ratePerMinute: 12
  - name: disabled-source
    url: https://other.example/list
    category: directory
    enabled: false
`)

	cat, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(cat.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(cat.Sources))
	}

	first := cat.Sources[0]
	if first.Name != "regional-directory" || first.MaxResults != 20 || !first.Enabled {
		t.Errorf("unexpected first source: %+v", first)
	}
	if first.Kind != KindHTML {
		t.Errorf("kind should default to %q, got %q", KindHTML, first.Kind)
	}
	if first.RatePerMinute != 12 {
		t.Errorf("ratePerMinute = %d, want 12", first.RatePerMinute)
	}

	enabled := cat.Enabled()
	if len(enabled) != 1 || enabled[0].Name != "regional-directory" {
		t.Errorf("Enabled() = %+v, want only regional-directory", enabled)
	}

	if _, ok := cat.ByName("disabled-source"); !ok {
		t.Error("ByName should find disabled sources too")
	}
	if _, ok := cat.ByName("nope"); ok {
		t.Error("ByName should miss unknown names")
	}
}

func TestBuildURL(t *testing.T) {
	src := Source{URL: "https://directory.example/web?q={query}"}
	if got := src.BuildURL("kadeřnictví praha"); got != "https://directory.example/web?q=kade%C5%99nictv%C3%AD+praha" {
		t.Errorf("BuildURL = %q", got)
	}
	if got := src.BuildURL(""); got != "https://directory.example/web?q=" {
		t.Errorf("BuildURL with empty query = %q", got)
	}

	plain := Source{URL: "https://other.example/list"}
	if got := plain.BuildURL("ignored"); got != plain.URL {
		t.Errorf("sources without a placeholder must ignore the query, got %q", got)
	}
}

func TestParseRejectsMissingFields(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"missing name", "sources:\n  - url: https://a.example\n"},
		{"missing url", "sources:\n  - name: a\n"},
		{"unknown kind", "sources:\n  - name: a\n    url: https://a.example\n    kind: rss\n"},
		{"negative rate", "sources:\n  - name: a\n    url: https://a.example\n    ratePerMinute: -1\n"},
	}

	for _, tc := range cases {
		if _, err := Parse([]byte(tc.data)); err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}
}
