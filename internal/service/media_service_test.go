package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"ngplus/api/internal/apperr"
	"ngplus/api/internal/models"
)

func newMediaFixture() (*MediaService, *fakeMediaStore) {
	users := newFakeUserStore(
		models.User{ID: "owner-1", Username: "owner"},
	)
	store := newFakeMediaStore(users)
	return NewMediaService(store, zerolog.Nop()), store
}

func TestCreateMediaSetsOwner(t *testing.T) {
	svc, _ := newMediaFixture()

	media, err := svc.Create(context.Background(), mediaOwner, CreateMediaInput{
		Title:      "Sunset",
		ContentURL: "https://cdn.test/ngplus-files/owner/sunset.png",
		Category:   models.MediaCategoryArtwork,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if media.UserID != "owner-1" {
		t.Errorf("owner = %s, want owner-1", media.UserID)
	}
	if media.ThumbnailURL == "" {
		t.Error("default thumbnail not applied")
	}
}

func TestCreateMediaInvalidCategory(t *testing.T) {
	svc, _ := newMediaFixture()

	_, err := svc.Create(context.Background(), mediaOwner, CreateMediaInput{
		Title:      "Oddball",
		ContentURL: "https://cdn.test/x",
		Category:   "podcast",
	})
	if !apperr.IsKind(err, apperr.KindBadRequest) {
		t.Fatalf("error = %v, want bad request", err)
	}
}

func TestListMediaEmptyIsNotFound(t *testing.T) {
	svc, _ := newMediaFixture()

	_, _, err := svc.List(context.Background(), ListPage{Page: 1, Limit: 10})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("error = %v, want not found", err)
	}
}

func TestUpdateMediaOwnership(t *testing.T) {
	svc, _ := newMediaFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, mediaOwner, CreateMediaInput{
		Title:      "Sunset",
		ContentURL: "https://cdn.test/x",
		Category:   models.MediaCategoryArtwork,
	})
	if err != nil {
		t.Fatal(err)
	}

	newTitle := "Sunrise"
	if _, err := svc.Update(ctx, rater, created.ID, UpdateMediaInput{Title: &newTitle}); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("non-owner update error = %v, want forbidden", err)
	}

	updated, err := svc.Update(ctx, mediaOwner, created.ID, UpdateMediaInput{Title: &newTitle})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "Sunrise" {
		t.Errorf("title = %s", updated.Title)
	}
}

func TestDeleteMediaOwnershipAndAdminOverride(t *testing.T) {
	svc, store := newMediaFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, mediaOwner, CreateMediaInput{
		Title:      "Sunset",
		ContentURL: "https://cdn.test/x",
		Category:   models.MediaCategoryArtwork,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Delete(ctx, rater, created.ID); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("non-owner delete error = %v, want forbidden", err)
	}
	if _, ok := store.media[created.ID]; !ok {
		t.Fatal("media removed by forbidden delete")
	}

	removed, err := svc.Delete(ctx, admin, created.ID)
	if err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if removed.ID != created.ID || removed.Title != "Sunset" {
		t.Errorf("removed = %+v", removed)
	}

	if _, err := svc.Get(ctx, created.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("get after delete error = %v, want not found", err)
	}
}
