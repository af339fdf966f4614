package app

import "testing"

func TestNewLogger(t *testing.T) {
	if NewLogger(&Config{LogFormat: "json", AppEnv: "production"}) == nil {
		t.Fatal("expected a logger for json format")
	}
	if NewLogger(&Config{LogFormat: "pretty"}) == nil {
		t.Fatal("expected a logger for text format")
	}
	// nil config must not panic and falls back to the text handler.
	if NewLogger(nil) == nil {
		t.Fatal("expected a logger for nil config")
	}
}
