package equipment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/are3ej/heavytrade/internal/docstore"
	"github.com/are3ej/heavytrade/internal/model"
)

// Collection names in the backing store. Availability is partition
// membership: a record id lives in exactly one of the two collections.
const (
	CollectionAvailable = "equipment"
	CollectionSold      = "sold_equipment"

	// collectionPendingMoves holds durable markers for moves that failed
	// halfway, for operator reconciliation.
	collectionPendingMoves = "pending_moves"
)

// PrincipalSource supplies the acting principal for a request. A nil
// principal means the caller is not authenticated.
type PrincipalSource interface {
	Current(ctx context.Context) *model.Principal
}

// IDPreservingStore is an optional store capability: inserting a document
// under a caller-chosen id instead of a generated one.
type IDPreservingStore interface {
	InsertWithID(ctx context.Context, collection, id string, data map[string]any) error
}

// SoldInput carries the sale fields for MarkAsSold.
type SoldInput struct {
	SoldPrice *float64 `json:"sold_price"`
	SoldNotes string   `json:"sold_notes"`
}

// Options tune repository behavior.
type Options struct {
	// PreserveIDOnReturn re-inserts a returned record under its original id
	// when the store supports it. Off by default: the store assigns a fresh
	// id, so the pre-sale id is not recoverable.
	PreserveIDOnReturn bool
}

// Repository owns the two equipment collections and their lifecycle:
// create/update/delete while available, the move to sold, and the move back.
type Repository struct {
	store      docstore.Store
	principals PrincipalSource
	sanitizer  *Sanitizer
	diag       Diagnostics
	now        func() time.Time
	opts       Options
}

// NewRepository wires a repository. diag may be nil.
func NewRepository(store docstore.Store, principals PrincipalSource, sanitizer *Sanitizer, diag Diagnostics, opts Options) *Repository {
	if diag == nil {
		diag = NopDiagnostics{}
	}
	return &Repository{
		store:      store,
		principals: principals,
		sanitizer:  sanitizer,
		diag:       diag,
		now:        time.Now,
		opts:       opts,
	}
}

// Create validates input and writes a new record into the available
// collection, returning its assigned id.
func (r *Repository) Create(ctx context.Context, in WriteInput) (string, error) {
	p := r.principals.Current(ctx)
	if p == nil {
		return "", ErrUnauthorized
	}

	rec, err := r.sanitizer.ValidateForWrite(in)
	if err != nil {
		return "", err
	}

	now := r.now().UTC()
	doc := writeDoc(rec)
	doc["created_at"] = now.Format(time.RFC3339)
	doc["updated_at"] = now.Format(time.RFC3339)
	doc["created_by"] = p.Username

	id, err := r.store.Insert(ctx, CollectionAvailable, doc)
	if err != nil {
		return "", fmt.Errorf("creating equipment: %w", err)
	}
	return id, nil
}

// ListAvailable returns every record in the available collection, sanitized
// for display. Malformed stored documents still render.
func (r *Repository) ListAvailable(ctx context.Context) ([]model.Equipment, error) {
	docs, err := r.store.GetAll(ctx, CollectionAvailable)
	if err != nil {
		return nil, fmt.Errorf("listing equipment: %w", err)
	}

	records := make([]model.Equipment, 0, len(docs))
	for _, doc := range docs {
		records = append(records, r.sanitizer.SanitizeForDisplay(doc.ID, doc.Data))
	}
	return records, nil
}

// ListSold returns every record in the sold collection with its sale details.
func (r *Repository) ListSold(ctx context.Context) ([]model.SoldEquipment, error) {
	docs, err := r.store.GetAll(ctx, CollectionSold)
	if err != nil {
		return nil, fmt.Errorf("listing sold equipment: %w", err)
	}

	records := make([]model.SoldEquipment, 0, len(docs))
	for _, doc := range docs {
		records = append(records, r.sanitizer.SanitizeSoldForDisplay(doc.ID, doc.Data))
	}
	return records, nil
}

// GetByID returns a single available record.
func (r *Repository) GetByID(ctx context.Context, id string) (model.Equipment, error) {
	doc, err := r.store.GetByID(ctx, CollectionAvailable, id)
	if errors.Is(err, docstore.ErrNoDocument) {
		return model.Equipment{}, ErrNotFound
	}
	if err != nil {
		return model.Equipment{}, fmt.Errorf("getting equipment %s: %w", id, err)
	}
	return r.sanitizer.SanitizeForDisplay(doc.ID, doc.Data), nil
}

// Update replaces the client-editable fields of an available record.
func (r *Repository) Update(ctx context.Context, id string, in WriteInput) error {
	p := r.principals.Current(ctx)
	if p == nil {
		return ErrUnauthorized
	}

	rec, err := r.sanitizer.ValidateForWrite(in)
	if err != nil {
		return err
	}

	patch := writeDoc(rec)
	patch["updated_at"] = r.now().UTC().Format(time.RFC3339)
	patch["updated_by"] = p.Username

	err = r.store.Update(ctx, CollectionAvailable, id, patch)
	if errors.Is(err, docstore.ErrNoDocument) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("updating equipment %s: %w", id, err)
	}
	return nil
}

// Delete permanently removes a record from the available collection. Not
// idempotent: deleting an absent id fails with ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.principals.Current(ctx) == nil {
		return ErrUnauthorized
	}

	err := r.store.Delete(ctx, CollectionAvailable, id)
	if errors.Is(err, docstore.ErrNoDocument) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting equipment %s: %w", id, err)
	}
	return nil
}

// MarkAsSold moves a record from available to sold, stamping the sale fields.
// The move is two store writes with no transaction across them; when the
// second step fails the first is rolled back best-effort, a durable marker is
// written, and the caller gets a *PartialMoveError.
func (r *Repository) MarkAsSold(ctx context.Context, id string, in SoldInput) error {
	p := r.principals.Current(ctx)
	if p == nil {
		return ErrUnauthorized
	}
	if in.SoldPrice != nil && *in.SoldPrice < 0 {
		return &InvalidRecordError{Field: "sold_price", Reason: "must not be negative"}
	}

	doc, err := r.store.GetByID(ctx, CollectionAvailable, id)
	if errors.Is(err, docstore.ErrNoDocument) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading equipment %s: %w", id, err)
	}

	now := r.now().UTC().Format(time.RFC3339)
	soldDoc := cloneDoc(doc.Data)
	soldDoc["sold_at"] = now
	if in.SoldPrice != nil {
		soldDoc["sold_price"] = *in.SoldPrice
	}
	if in.SoldNotes != "" {
		soldDoc["sold_notes"] = in.SoldNotes
	}
	soldDoc["updated_at"] = now
	soldDoc["updated_by"] = p.Username

	soldID, err := r.store.Insert(ctx, CollectionSold, soldDoc)
	if err != nil {
		return fmt.Errorf("marking equipment %s as sold: %w", id, err)
	}

	if err := r.store.Delete(ctx, CollectionAvailable, id); err != nil {
		return r.failMove(ctx, id, CollectionAvailable, CollectionSold, soldID, err)
	}
	return nil
}

// ReturnToAvailable moves a sold record back, dropping the sale fields. By
// default the record gets a fresh id; Options.PreserveIDOnReturn keeps the
// sold-collection id when the store can insert under a chosen id.
func (r *Repository) ReturnToAvailable(ctx context.Context, soldID string) error {
	p := r.principals.Current(ctx)
	if p == nil {
		return ErrUnauthorized
	}

	doc, err := r.store.GetByID(ctx, CollectionSold, soldID)
	if errors.Is(err, docstore.ErrNoDocument) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading sold equipment %s: %w", soldID, err)
	}

	restored := cloneDoc(doc.Data)
	delete(restored, "sold_at")
	delete(restored, "sold_price")
	delete(restored, "sold_notes")
	restored["updated_at"] = r.now().UTC().Format(time.RFC3339)
	restored["updated_by"] = p.Username

	newID, err := r.insertRestored(ctx, soldID, restored)
	if err != nil {
		return fmt.Errorf("returning equipment %s to available: %w", soldID, err)
	}

	if err := r.store.Delete(ctx, CollectionSold, soldID); err != nil {
		return r.failMove(ctx, soldID, CollectionSold, CollectionAvailable, newID, err)
	}
	return nil
}

func (r *Repository) insertRestored(ctx context.Context, soldID string, restored map[string]any) (string, error) {
	if r.opts.PreserveIDOnReturn {
		if ips, ok := r.store.(IDPreservingStore); ok {
			if err := ips.InsertWithID(ctx, CollectionAvailable, soldID, restored); err != nil {
				return "", err
			}
			return soldID, nil
		}
	}
	return r.store.Insert(ctx, CollectionAvailable, restored)
}

// failMove handles a failed second move step: best-effort rollback of the
// already-written copy, a durable pending-move marker, and a
// *PartialMoveError for the caller.
func (r *Repository) failMove(ctx context.Context, id, from, to, copyID string, cause error) error {
	rolledBack := r.store.Delete(ctx, to, copyID) == nil

	marker := map[string]any{
		"record_id":   id,
		"copy_id":     copyID,
		"from":        from,
		"to":          to,
		"rolled_back": rolledBack,
		"failed_at":   r.now().UTC().Format(time.RFC3339),
		"cause":       cause.Error(),
	}
	if _, err := r.store.Insert(ctx, collectionPendingMoves, marker); err != nil {
		r.diag.Event("equipment.pending_move_marker_failed", map[string]any{
			"id":    id,
			"error": err.Error(),
		})
	}

	r.diag.Event("equipment.partial_move", map[string]any{
		"id":          id,
		"from":        from,
		"to":          to,
		"rolled_back": rolledBack,
	})

	return &PartialMoveError{ID: id, From: from, To: to, RolledBack: rolledBack, Err: cause}
}

// writeDoc serializes the validated client-editable fields of a record.
func writeDoc(rec model.Equipment) map[string]any {
	urls := make([]any, 0, len(rec.Media))
	for _, ref := range rec.Media {
		urls = append(urls, ref.URL)
	}
	return map[string]any{
		"name":        rec.Name,
		"category":    rec.Category,
		"description": rec.Description,
		"media":       urls,
	}
}

func cloneDoc(data map[string]any) map[string]any {
	clone := make(map[string]any, len(data))
	for k, v := range data {
		clone[k] = v
	}
	return clone
}
