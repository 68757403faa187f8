package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"ireporter/internal/authz"
	"ireporter/internal/media/models"
	mediastore "ireporter/internal/media/store/media"
	"ireporter/internal/media/uploader"
	recordmodels "ireporter/internal/record/models"
	recordstore "ireporter/internal/record/store/record"
	dErrors "ireporter/pkg/domain-errors"
)

var (
	owner    = authz.Citizen{ID: "user-owner"}
	stranger = authz.Citizen{ID: "user-stranger"}
	admin    = authz.Admin{ID: "user-admin", WorkerID: "worker_id_1"}
)

func newTestService(t *testing.T) (*Service, *uploader.Memory) {
	t.Helper()
	records := recordstore.NewMemoryStore()
	rec := &recordmodels.Record{
		PublicID:  "rec-1",
		OwnerID:   owner.ID,
		Type:      recordmodels.TypeRedFlag,
		Title:     "t",
		Status:    recordmodels.StatusUnderInvestigation,
		CreatedAt: time.Now(),
	}
	if err := records.Create(context.Background(), rec); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	objects := uploader.NewMemory()
	return New(mediastore.NewMemoryStore(), records, objects), objects
}

func imageInput(recordID string) UploadInput {
	return UploadInput{
		RecordID:    recordID,
		Kind:        models.KindImage,
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("data"),
	}
}

func TestUploadOwnerOnly(t *testing.T) {
	svc, objects := newTestService(t)
	ctx := context.Background()

	m, err := svc.Upload(ctx, owner, imageInput("rec-1"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if m.RecordID != "rec-1" || m.UploaderID != owner.ID || m.Kind != models.KindImage {
		t.Fatalf("unexpected media %+v", m)
	}
	if m.URL == "" {
		t.Fatalf("expected a stored URL")
	}
	if _, ok := objects.Object(m.ObjectKey); !ok {
		t.Fatalf("object %q not stored", m.ObjectKey)
	}

	if _, err := svc.Upload(ctx, stranger, imageInput("rec-1")); !dErrors.HasCode(err, dErrors.CodeForbidden) {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}
	// Admins may change status but never attach to others' records.
	if _, err := svc.Upload(ctx, admin, imageInput("rec-1")); !dErrors.HasCode(err, dErrors.CodeForbidden) {
		t.Fatalf("expected forbidden for admin, got %v", err)
	}
	if _, err := svc.Upload(ctx, owner, imageInput("no-such-record")); !dErrors.HasCode(err, dErrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUploadValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := imageInput("rec-1")
	in.ContentType = "application/pdf"
	if _, err := svc.Upload(ctx, owner, in); !dErrors.HasCode(err, dErrors.CodeValidation) {
		t.Fatalf("expected validation error for bad content type, got %v", err)
	}

	in = imageInput("rec-1")
	in.ContentType = "video/mp4"
	if _, err := svc.Upload(ctx, owner, in); !dErrors.HasCode(err, dErrors.CodeValidation) {
		t.Fatalf("expected validation error for kind mismatch, got %v", err)
	}

	in = imageInput("rec-1")
	in.Body = nil
	in.Size = 0
	if _, err := svc.Upload(ctx, owner, in); !dErrors.HasCode(err, dErrors.CodeValidation) {
		t.Fatalf("expected validation error for missing file, got %v", err)
	}
}

func TestListAndGetFollowRecordReadRules(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	m, err := svc.Upload(ctx, owner, imageInput("rec-1"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	for _, p := range []authz.Principal{owner, admin} {
		items, err := svc.List(ctx, p, "rec-1", models.KindImage)
		if err != nil {
			t.Fatalf("list as %T: %v", p, err)
		}
		if len(items) != 1 {
			t.Fatalf("expected 1 image, got %d", len(items))
		}
		if _, err := svc.Get(ctx, p, models.KindImage, m.PublicID); err != nil {
			t.Fatalf("get as %T: %v", p, err)
		}
	}

	if _, err := svc.List(ctx, stranger, "rec-1", models.KindImage); !dErrors.HasCode(err, dErrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	// The video endpoint must not see an image.
	if _, err := svc.Get(ctx, owner, models.KindVideo, m.PublicID); !dErrors.HasCode(err, dErrors.CodeNotFound) {
		t.Fatalf("expected not found for wrong kind, got %v", err)
	}
}

func TestDeleteUploaderOnly(t *testing.T) {
	svc, objects := newTestService(t)
	ctx := context.Background()

	m, err := svc.Upload(ctx, owner, imageInput("rec-1"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(ctx, admin, models.KindImage, m.PublicID); !dErrors.HasCode(err, dErrors.CodeForbidden) {
		t.Fatalf("expected forbidden for admin, got %v", err)
	}
	if err := svc.Delete(ctx, owner, models.KindImage, m.PublicID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := objects.Object(m.ObjectKey); ok {
		t.Fatalf("object should be removed with the row")
	}
	if err := svc.Delete(ctx, owner, models.KindImage, m.PublicID); !dErrors.HasCode(err, dErrors.CodeNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestPurgeRecordRemovesRowsAndObjects(t *testing.T) {
	svc, objects := newTestService(t)
	ctx := context.Background()

	img, err := svc.Upload(ctx, owner, imageInput("rec-1"))
	if err != nil {
		t.Fatalf("upload image: %v", err)
	}
	vid, err := svc.Upload(ctx, owner, UploadInput{
		RecordID:    "rec-1",
		Kind:        models.KindVideo,
		ContentType: "video/mp4",
		Size:        4,
		Body:        strings.NewReader("data"),
	})
	if err != nil {
		t.Fatalf("upload video: %v", err)
	}

	if err := svc.PurgeRecord(ctx, "rec-1"); err != nil {
		t.Fatalf("purge: %v", err)
	}

	if _, err := svc.Get(ctx, owner, models.KindImage, img.PublicID); !dErrors.HasCode(err, dErrors.CodeNotFound) {
		t.Fatalf("expected image gone, got %v", err)
	}
	if _, err := svc.Get(ctx, owner, models.KindVideo, vid.PublicID); !dErrors.HasCode(err, dErrors.CodeNotFound) {
		t.Fatalf("expected video gone, got %v", err)
	}
	for _, key := range []string{img.ObjectKey, vid.ObjectKey} {
		if _, ok := objects.Object(key); ok {
			t.Fatalf("object %q should be removed", key)
		}
	}

	// A record with no attachments purges cleanly.
	if err := svc.PurgeRecord(ctx, "rec-1"); err != nil {
		t.Fatalf("purge of empty record: %v", err)
	}
}

func TestReplaceVideo(t *testing.T) {
	svc, objects := newTestService(t)
	ctx := context.Background()

	in := UploadInput{
		RecordID:    "rec-1",
		Kind:        models.KindVideo,
		ContentType: "video/mp4",
		Size:        8,
		Body:        strings.NewReader("original"),
	}
	m, err := svc.Upload(ctx, owner, in)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	firstKey := m.ObjectKey

	repl := UploadInput{
		Kind:        models.KindVideo,
		ContentType: "video/webm",
		Size:        7,
		Body:        strings.NewReader("replace"),
	}
	updated, err := svc.ReplaceVideo(ctx, owner, m.PublicID, repl)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if updated.PublicID != m.PublicID {
		t.Fatalf("replace must keep the attachment id")
	}
	if updated.ObjectKey == firstKey {
		t.Fatalf("replace must store a new object")
	}
	if updated.ContentType != "video/webm" {
		t.Fatalf("expected updated content type, got %q", updated.ContentType)
	}
	if _, ok := objects.Object(firstKey); ok {
		t.Fatalf("replaced object should be removed")
	}

	if _, err := svc.ReplaceVideo(ctx, stranger, m.PublicID, repl); !dErrors.HasCode(err, dErrors.CodeForbidden) {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}
}
