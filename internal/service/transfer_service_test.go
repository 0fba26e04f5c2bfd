package service

import (
	"context"
	"testing"

	"github.com/studiopipe/gateway/internal/model"
	"github.com/studiopipe/gateway/internal/store"
)

func TestCreateTransferDefaultsToPending(t *testing.T) {
	svc := NewTransferService(nil)

	created := svc.Create(context.Background(), &model.CreateTransferRequest{
		SourcePath:      "/a",
		DestinationPath: "/b",
	})

	if created.Status != model.TransferStatusPending {
		t.Errorf("status = %q, want pending", created.Status)
	}
	if created.ID == 0 {
		t.Error("expected an assigned id")
	}
}

func TestPartialUpdatePreservesFields(t *testing.T) {
	svc := NewTransferService(nil)

	created := svc.Create(context.Background(), &model.CreateTransferRequest{
		SourcePath:      "/a",
		DestinationPath: "/b",
	})

	done := "done"
	updated, err := svc.Update(created.ID, &model.UpdateTransferRequest{Status: &done})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.SourcePath != "/a" || updated.DestinationPath != "/b" {
		t.Errorf("partial update clobbered paths: %+v", updated)
	}
	if updated.Status != "done" {
		t.Errorf("status = %q, want done", updated.Status)
	}
}

func TestTransferLifecycle(t *testing.T) {
	svc := NewTransferService(nil)
	svc.Seed()

	if len(svc.List()) != 2 {
		t.Fatalf("expected 2 seeded transfers, got %d", len(svc.List()))
	}

	created := svc.Create(context.Background(), &model.CreateTransferRequest{
		SourcePath:      "/x",
		DestinationPath: "/y",
	})

	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != created {
		t.Errorf("round trip mismatch: %+v vs %+v", got, created)
	}

	removed, err := svc.Delete(created.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if removed.SourcePath != "/x" {
		t.Errorf("delete returned wrong value: %+v", removed)
	}

	if _, err := svc.Delete(created.ID); !store.IsNotFound(err) {
		t.Errorf("second delete should be not found, got %v", err)
	}
}

func TestUserCRUD(t *testing.T) {
	svc := NewUserService()
	svc.Seed()

	created := svc.Create(&model.CreateUserRequest{
		Username: "newuser",
		Email:    "new@example.com",
		FullName: "New User",
	})

	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Username != "newuser" || got.Email != "new@example.com" {
		t.Errorf("round trip mismatch: %+v", got)
	}

	name := "Renamed User"
	updated, err := svc.Update(created.ID, &model.UpdateUserRequest{FullName: &name})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Username != "newuser" {
		t.Errorf("update clobbered username: %+v", updated)
	}
	if updated.FullName != "Renamed User" {
		t.Errorf("update did not apply: %+v", updated)
	}

	if _, ok := svc.GetByUsername("NEWUSER"); !ok {
		t.Error("expected case-insensitive username lookup to match")
	}

	first, ok := svc.First()
	if !ok || first.Username != "lynloveyounever" {
		t.Errorf("first user = %+v", first)
	}

	if _, err := svc.Delete(created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(created.ID); !store.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}
