package toolexecutor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolPolicy_IsToolAllowed(t *testing.T) {
	tests := []struct {
		name    string
		policy  *ToolPolicy
		tool    string
		allowed bool
	}{
		{"nil policy allows all", nil, "http_get", true},
		{"wildcard allow", &ToolPolicy{Allow: []string{"*"}}, "http_get", true},
		{"explicit allow", &ToolPolicy{Allow: []string{"http_get"}}, "http_get", true},
		{"not in allow list", &ToolPolicy{Allow: []string{"http_get"}}, "http_post", false},
		{"deny overrides allow", &ToolPolicy{Allow: []string{"*"}, Deny: []string{"http_post"}}, "http_post", false},
		{"wildcard deny", &ToolPolicy{Allow: []string{"http_get"}, Deny: []string{"*"}}, "http_get", false},
		{"empty policy denies", &ToolPolicy{}, "http_get", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.policy.IsToolAllowed(tt.tool))
		})
	}
}
