package equipment

import (
	"context"
	"errors"
	"testing"

	"github.com/are3ej/heavytrade/internal/db"
	"github.com/are3ej/heavytrade/internal/docstore"
	"github.com/are3ej/heavytrade/internal/media"
	"github.com/are3ej/heavytrade/internal/model"
)

type staticPrincipals struct {
	p *model.Principal
}

func (s staticPrincipals) Current(context.Context) *model.Principal { return s.p }

// faultStore wraps a real store and fails selected operations, for
// exercising the partial-failure paths of the two-step moves.
type faultStore struct {
	docstore.Store
	failDeleteIn map[string]bool
}

func (f *faultStore) Delete(ctx context.Context, collection, id string) error {
	if f.failDeleteIn[collection] {
		return docstore.ErrUnavailable
	}
	return f.Store.Delete(ctx, collection, id)
}

var testAdmin = &model.Principal{UserID: 1, Username: "admin", Role: model.RoleAdmin}

func newTestRepo(t *testing.T, store docstore.Store, p *model.Principal, opts Options) *Repository {
	t.Helper()
	if store == nil {
		store = docstore.NewSQLiteStore(db.NewTestDB(t))
	}
	sanitizer := NewSanitizer(media.NewResolver(""), NopDiagnostics{}, "")
	return NewRepository(store, staticPrincipals{p}, sanitizer, nil, opts)
}

func validInput() WriteInput {
	return WriteInput{
		Name:     "Cat D6",
		Category: model.CategoryExcavator,
		Media:    []string{"https://res.cloudinary.com/demo/a.jpg"},
	}
}

func TestCreateAndListAvailable(t *testing.T) {
	repo := newTestRepo(t, nil, testAdmin, Options{})
	ctx := context.Background()

	id, err := repo.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("creating equipment: %v", err)
	}

	records, err := repo.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("listing equipment: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ID != id {
		t.Errorf("expected id %s, got %s", id, records[0].ID)
	}
	if records[0].CreatedAt.IsZero() || records[0].UpdatedAt.IsZero() {
		t.Error("expected repository-stamped timestamps")
	}
	if records[0].CreatedBy != "admin" {
		t.Errorf("expected created_by admin, got %q", records[0].CreatedBy)
	}
}

func TestCreateRequiresPrincipal(t *testing.T) {
	repo := newTestRepo(t, nil, nil, Options{})

	_, err := repo.Create(context.Background(), validInput())
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	repo := newTestRepo(t, nil, testAdmin, Options{})

	in := validInput()
	in.Media = nil
	_, err := repo.Create(context.Background(), in)

	var ire *InvalidRecordError
	if !errors.As(err, &ire) {
		t.Errorf("expected InvalidRecordError, got %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := newTestRepo(t, nil, testAdmin, Options{})

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	repo := newTestRepo(t, nil, testAdmin, Options{})
	ctx := context.Background()

	id, _ := repo.Create(ctx, validInput())

	in := validInput()
	in.Name = "Cat D6 XE"
	if err := repo.Update(ctx, id, in); err != nil {
		t.Fatalf("updating equipment: %v", err)
	}

	rec, _ := repo.GetByID(ctx, id)
	if rec.Name != "Cat D6 XE" {
		t.Errorf("expected updated name, got %q", rec.Name)
	}
	if rec.UpdatedBy != "admin" {
		t.Errorf("expected updated_by admin, got %q", rec.UpdatedBy)
	}

	if err := repo.Update(ctx, "missing", validInput()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing id, got %v", err)
	}
}

func TestDeleteNotIdempotent(t *testing.T) {
	repo := newTestRepo(t, nil, testAdmin, Options{})
	ctx := context.Background()

	id, _ := repo.Create(ctx, validInput())

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("deleting equipment: %v", err)
	}
	if err := repo.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMarkAsSoldAndReturn(t *testing.T) {
	repo := newTestRepo(t, nil, testAdmin, Options{})
	ctx := context.Background()

	id, _ := repo.Create(ctx, validInput())

	price := 1000.0
	if err := repo.MarkAsSold(ctx, id, SoldInput{SoldPrice: &price}); err != nil {
		t.Fatalf("marking as sold: %v", err)
	}

	available, _ := repo.ListAvailable(ctx)
	if len(available) != 0 {
		t.Errorf("expected empty available collection, got %d records", len(available))
	}

	sold, _ := repo.ListSold(ctx)
	if len(sold) != 1 {
		t.Fatalf("expected 1 sold record, got %d", len(sold))
	}
	if sold[0].SoldPrice == nil || *sold[0].SoldPrice != 1000 {
		t.Errorf("expected sold price 1000, got %v", sold[0].SoldPrice)
	}
	if sold[0].SoldAt.IsZero() {
		t.Error("expected sold_at timestamp")
	}

	if err := repo.ReturnToAvailable(ctx, sold[0].ID); err != nil {
		t.Fatalf("returning to available: %v", err)
	}

	available, _ = repo.ListAvailable(ctx)
	if len(available) != 1 {
		t.Fatalf("expected 1 available record after return, got %d", len(available))
	}
	if available[0].ID == id {
		t.Error("expected a fresh id after return by default")
	}

	sold, _ = repo.ListSold(ctx)
	if len(sold) != 0 {
		t.Errorf("expected empty sold collection after return, got %d records", len(sold))
	}

	// Sale fields must not survive the return trip.
	doc, err := repo.GetByID(ctx, available[0].ID)
	if err != nil {
		t.Fatalf("getting returned record: %v", err)
	}
	if doc.Name != "Cat D6" {
		t.Errorf("expected original name, got %q", doc.Name)
	}
}

func TestReturnPreservesIDWhenConfigured(t *testing.T) {
	store := docstore.NewSQLiteStore(db.NewTestDB(t))
	repo := newTestRepo(t, store, testAdmin, Options{PreserveIDOnReturn: true})
	ctx := context.Background()

	id, _ := repo.Create(ctx, validInput())
	repo.MarkAsSold(ctx, id, SoldInput{})

	sold, _ := repo.ListSold(ctx)
	if len(sold) != 1 {
		t.Fatalf("expected 1 sold record, got %d", len(sold))
	}

	if err := repo.ReturnToAvailable(ctx, sold[0].ID); err != nil {
		t.Fatalf("returning to available: %v", err)
	}

	available, _ := repo.ListAvailable(ctx)
	if len(available) != 1 || available[0].ID != sold[0].ID {
		t.Errorf("expected sold id %s to be preserved, got %v", sold[0].ID, available)
	}
}

func TestMarkAsSoldRejectsNegativePrice(t *testing.T) {
	repo := newTestRepo(t, nil, testAdmin, Options{})
	ctx := context.Background()

	id, _ := repo.Create(ctx, validInput())

	price := -5.0
	err := repo.MarkAsSold(ctx, id, SoldInput{SoldPrice: &price})
	var ire *InvalidRecordError
	if !errors.As(err, &ire) || ire.Field != "sold_price" {
		t.Errorf("expected InvalidRecordError on sold_price, got %v", err)
	}
}

func TestMarkAsSoldPartialFailureRollsBack(t *testing.T) {
	inner := docstore.NewSQLiteStore(db.NewTestDB(t))
	store := &faultStore{Store: inner, failDeleteIn: map[string]bool{CollectionAvailable: true}}
	repo := newTestRepo(t, store, testAdmin, Options{})
	ctx := context.Background()

	id, _ := repo.Create(ctx, validInput())

	err := repo.MarkAsSold(ctx, id, SoldInput{})
	var pme *PartialMoveError
	if !errors.As(err, &pme) {
		t.Fatalf("expected PartialMoveError, got %v", err)
	}
	if !pme.RolledBack {
		t.Error("expected sold copy to be rolled back")
	}

	// After rollback the record is still (only) available.
	available, _ := repo.ListAvailable(ctx)
	sold, _ := repo.ListSold(ctx)
	if len(available) != 1 || len(sold) != 0 {
		t.Errorf("expected 1 available / 0 sold after rollback, got %d/%d", len(available), len(sold))
	}

	// A durable marker is left for the operator.
	markers, _ := inner.GetAll(ctx, "pending_moves")
	if len(markers) != 1 {
		t.Errorf("expected 1 pending-move marker, got %d", len(markers))
	}
}

func TestReturnPartialFailureRollsBack(t *testing.T) {
	inner := docstore.NewSQLiteStore(db.NewTestDB(t))
	store := &faultStore{Store: inner, failDeleteIn: map[string]bool{CollectionSold: true}}
	repo := newTestRepo(t, store, testAdmin, Options{})
	ctx := context.Background()

	id, _ := repo.Create(ctx, validInput())
	if err := repo.MarkAsSold(ctx, id, SoldInput{}); err != nil {
		t.Fatalf("marking as sold: %v", err)
	}
	sold, _ := repo.ListSold(ctx)

	err := repo.ReturnToAvailable(ctx, sold[0].ID)
	var pme *PartialMoveError
	if !errors.As(err, &pme) {
		t.Fatalf("expected PartialMoveError, got %v", err)
	}
	if !pme.RolledBack {
		t.Error("expected restored copy to be rolled back")
	}

	// After rollback the record is still (only) sold.
	available, _ := repo.ListAvailable(ctx)
	sold, _ = repo.ListSold(ctx)
	if len(available) != 0 || len(sold) != 1 {
		t.Errorf("expected 0 available / 1 sold after rollback, got %d/%d", len(available), len(sold))
	}

	markers, _ := inner.GetAll(ctx, "pending_moves")
	if len(markers) != 1 {
		t.Errorf("expected 1 pending-move marker, got %d", len(markers))
	}
}

func TestReturnPreservedIDCollision(t *testing.T) {
	store := docstore.NewSQLiteStore(db.NewTestDB(t))
	repo := newTestRepo(t, store, testAdmin, Options{PreserveIDOnReturn: true})
	ctx := context.Background()

	id, _ := repo.Create(ctx, validInput())
	repo.MarkAsSold(ctx, id, SoldInput{})
	sold, _ := repo.ListSold(ctx)

	// Occupy the sold record's id in the available collection.
	if err := store.InsertWithID(ctx, CollectionAvailable, sold[0].ID, map[string]any{"name": "Squatter"}); err != nil {
		t.Fatalf("seeding colliding document: %v", err)
	}

	err := repo.ReturnToAvailable(ctx, sold[0].ID)
	if err == nil {
		t.Fatal("expected error when the preserved id is taken")
	}
	var pme *PartialMoveError
	if errors.As(err, &pme) {
		t.Fatalf("expected the move to fail before its second step, got %v", err)
	}

	// The first step failed, so the sold record must be untouched.
	sold, _ = repo.ListSold(ctx)
	if len(sold) != 1 {
		t.Errorf("expected sold record to remain, got %d records", len(sold))
	}
	available, _ := repo.ListAvailable(ctx)
	if len(available) != 1 || available[0].Name != "Squatter" {
		t.Errorf("expected only the colliding document in available, got %v", available)
	}
}

func TestMarkAsSoldPartialFailureWithoutRollback(t *testing.T) {
	inner := docstore.NewSQLiteStore(db.NewTestDB(t))
	store := &faultStore{Store: inner, failDeleteIn: map[string]bool{
		CollectionAvailable: true,
		CollectionSold:      true,
	}}
	repo := newTestRepo(t, store, testAdmin, Options{})
	ctx := context.Background()

	id, _ := repo.Create(ctx, validInput())

	err := repo.MarkAsSold(ctx, id, SoldInput{})
	var pme *PartialMoveError
	if !errors.As(err, &pme) {
		t.Fatalf("expected PartialMoveError, got %v", err)
	}
	if pme.RolledBack {
		t.Error("expected rollback to have failed")
	}

	// The known consistency gap: the record is now duplicated.
	available, _ := repo.ListAvailable(ctx)
	sold, _ := repo.ListSold(ctx)
	if len(available) != 1 || len(sold) != 1 {
		t.Errorf("expected duplicate across collections, got %d/%d", len(available), len(sold))
	}
}
