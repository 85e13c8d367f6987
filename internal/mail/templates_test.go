package mail

import (
	"strings"
	"testing"
)

func TestRenderKnownKinds(t *testing.T) {
	tests := []struct {
		kind     string
		data     map[string]string
		wantBody []string
	}{
		{
			kind:     KindWelcome,
			data:     map[string]string{"username": "alice"},
			wantBody: []string{"alice", "Welcome"},
		},
		{
			kind:     KindNewRating,
			data:     map[string]string{"username": "alice", "rating": "4"},
			wantBody: []string{"alice", "4-star"},
		},
		{
			kind:     KindPasswordReset,
			data:     map[string]string{"username": "alice", "token": "tok-123"},
			wantBody: []string{"alice", "tok-123"},
		},
		{
			kind:     KindPasswordResetSuccess,
			data:     map[string]string{"username": "alice"},
			wantBody: []string{"alice", "changed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			subject, body, err := Render(tt.kind, tt.data)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if subject == "" {
				t.Error("empty subject")
			}
			for _, want := range tt.wantBody {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q:\n%s", want, body)
				}
			}
		})
	}
}

func TestRenderUnknownKind(t *testing.T) {
	if _, _, err := Render("newsletter", nil); err == nil {
		t.Fatal("unknown kind accepted")
	}
}
