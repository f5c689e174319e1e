package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDemoModeResolution(t *testing.T) {
	cases := []struct {
		name      string
		apiKey    string
		projectID string
		demo      bool
	}{
		{"both configured", "AIzaSyExample", "corps-prod", false},
		{"api key absent", "", "corps-prod", true},
		{"api key placeholder", PlaceholderAPIKey, "corps-prod", true},
		{"project absent", "AIzaSyExample", "", true},
		{"project placeholder", "AIzaSyExample", PlaceholderProjectID, true},
		{"both absent", "", "", true},
		{"both placeholders", PlaceholderAPIKey, PlaceholderProjectID, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{APIKey: tc.apiKey, ProjectID: tc.projectID}
			assert.Equal(t, tc.demo, cfg.DemoMode())
		})
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("CORPSHQ_API_KEY", "real-key")
	t.Setenv("CORPSHQ_PROJECT_ID", "real-project")
	t.Setenv("CORPSHQ_HTTP_PORT", "9999")
	t.Setenv("CORPSHQ_PUBLIC_BASE_URL", "https://hq.example.org/")

	cfg := Load()

	assert.False(t, cfg.DemoMode())
	assert.Equal(t, "9999", cfg.HTTPPort)
	assert.Equal(t, "https://hq.example.org", cfg.PublicBaseURL)
}

func TestLoadDefaultsToDemo(t *testing.T) {
	t.Setenv("CORPSHQ_API_KEY", "")
	t.Setenv("CORPSHQ_PROJECT_ID", "")

	cfg := Load()

	assert.True(t, cfg.DemoMode())
	assert.Equal(t, "corpshq", cfg.AppName)
}
