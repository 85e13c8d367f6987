package storage

import (
	"testing"

	"ngplus/api/internal/config"
)

func testStore(t *testing.T) *ObjectStore {
	t.Helper()
	store, err := NewObjectStore(config.StorageConfig{
		Endpoint:  "http://localhost:9000",
		PublicURL: "https://files.ngplus.example.com",
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    "ngplus-files",
		Region:    "us-east-1",
	})
	if err != nil {
		t.Fatalf("NewObjectStore: %v", err)
	}
	return store
}

func TestPublicURL(t *testing.T) {
	store := testStore(t)

	got := store.PublicURL("alice/2pXk9.png")
	want := "https://files.ngplus.example.com/ngplus-files/alice/2pXk9.png"
	if got != want {
		t.Errorf("PublicURL = %s, want %s", got, want)
	}
}

func TestParseKey(t *testing.T) {
	store := testStore(t)

	tests := []struct {
		name    string
		url     string
		wantKey string
		wantErr bool
	}{
		{
			name:    "well formed",
			url:     "https://files.ngplus.example.com/ngplus-files/alice/photo.png",
			wantKey: "alice/photo.png",
		},
		{
			name:    "round trips through PublicURL",
			url:     store.PublicURL("bob/clip.mp4"),
			wantKey: "bob/clip.mp4",
		},
		{
			name:    "wrong host",
			url:     "https://evil.example.com/ngplus-files/alice/photo.png",
			wantErr: true,
		},
		{
			name:    "wrong bucket",
			url:     "https://files.ngplus.example.com/other-bucket/alice/photo.png",
			wantErr: true,
		},
		{
			name:    "empty key",
			url:     "https://files.ngplus.example.com/ngplus-files/",
			wantKey: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := store.ParseKey(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseKey(%s) succeeded with key %q", tt.url, key)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKey(%s): %v", tt.url, err)
			}
			if key != tt.wantKey {
				t.Errorf("key = %q, want %q", key, tt.wantKey)
			}
		})
	}
}
