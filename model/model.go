package model

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ONSdigital/dp-catalog-api/attributes"
	"github.com/ONSdigital/dp-catalog-api/config"
	"github.com/ONSdigital/dp-catalog-api/pagination"
	"github.com/ONSdigital/dp-catalog-api/storage"
	"github.com/ONSdigital/log.go/v2/log"
)

// Generate mocks of dependencies
//
//go:generate mockgen -destination=mock_store_test.go -package=model_test github.com/ONSdigital/dp-catalog-api/model Store
//go:generate mockgen -destination=mock_tx_test.go -package=model_test github.com/ONSdigital/dp-catalog-api/storage Tx

// Store describes what we expect our underlying storage layer to implement.
//
type Store interface {
	Begin(ctx context.Context) (storage.Tx, error)
}

// Model implements the catalog's business logic on top of the storage
// layer. It holds no per-request state and is safe for concurrent use.
//
type Model struct {
	store        Store
	deletePolicy string
}

// New returns a new Model using store as its underlying storage layer.
// deletePolicy is one of the config.DeletePolicy values.
//
func New(store Store, deletePolicy string) *Model {
	if deletePolicy == "" {
		deletePolicy = config.DeletePolicyBlock
	}
	return &Model{
		store:        store,
		deletePolicy: deletePolicy,
	}
}

// Collection returns the collection of every record of kind.
//
func (m *Model) Collection(kind *storage.Kind) *Collection {
	return &Collection{model: m, kind: kind}
}

// withTx runs fn in a new transaction, committing when fn succeeds and
// rolling back otherwise.
func (m *Model) withTx(ctx context.Context, fn func(tx storage.Tx) error) (err error) {
	tx, err := m.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error(ctx, "failed to roll back transaction", rbErr)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Collection is the set of records of one kind, optionally narrowed to
// the children of one parent. A narrowed collection behaves exactly like
// the full one except that its parent must exist.
//
type Collection struct {
	model  *Model
	kind   *storage.Kind
	filter storage.Filter
}

// Page is one window of a listed collection.
type Page struct {
	Items  []*attributes.Bag
	Window *pagination.Window
}

// Scoped returns the collection of c's records whose parent is parentID.
func (c *Collection) Scoped(parentID int64) *Collection {
	return &Collection{
		model:  c.model,
		kind:   c.kind,
		filter: storage.ForParent(parentID),
	}
}

// checkScope fails with RecordNotFound when the collection is narrowed
// to a parent that does not exist.
func (c *Collection) checkScope(ctx context.Context, tx storage.Tx) error {
	if c.filter.ParentID == nil || !c.kind.IsChild() {
		return nil
	}
	return c.requireParent(ctx, tx, *c.filter.ParentID)
}

func (c *Collection) requireParent(ctx context.Context, tx storage.Tx, parentID int64) error {
	_, err := tx.Get(ctx, c.kind.Parent, storage.Filter{}, parentID)
	if errors.Is(err, storage.ErrRecordNotFound) {
		return &Error{
			Reason:  RecordNotFound,
			Message: c.kind.Parent.Name + " not found",
			Err:     err,
			Data:    log.Data{c.kind.ParentKey: parentID},
		}
	}
	return err
}

func (c *Collection) get(ctx context.Context, tx storage.Tx, id int64) (*storage.Record, error) {
	rec, err := tx.Get(ctx, c.kind, c.filter, id)
	if errors.Is(err, storage.ErrRecordNotFound) {
		return nil, &Error{
			Reason:  RecordNotFound,
			Message: "requested " + c.kind.Name + " not found",
			Err:     err,
			Data:    log.Data{"kind": c.kind.Name, "id": id},
		}
	}
	return rec, err
}

// List returns the window of the collection selected by p, counted and
// read in one transaction.
func (c *Collection) List(ctx context.Context, p pagination.Params) (*Page, error) {
	var page Page
	err := c.model.withTx(ctx, func(tx storage.Tx) error {
		if err := c.checkScope(ctx, tx); err != nil {
			return err
		}

		total, err := tx.Count(ctx, c.kind, c.filter)
		if err != nil {
			return err
		}
		window, err := pagination.NewWindow(p, total)
		if err != nil {
			return err
		}

		records, err := tx.List(ctx, c.kind, c.filter, window.Offset(), window.Limit())
		if err != nil {
			return err
		}

		page.Window = window
		page.Items = make([]*attributes.Bag, 0, len(records))
		for _, rec := range records {
			page.Items = append(page.Items, c.kind.Serialize(rec))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns the serialized record with id.
func (c *Collection) Get(ctx context.Context, id int64) (*attributes.Bag, error) {
	var doc *attributes.Bag
	err := c.model.withTx(ctx, func(tx storage.Tx) error {
		if err := c.checkScope(ctx, tx); err != nil {
			return err
		}
		rec, err := c.get(ctx, tx, id)
		if err != nil {
			return err
		}
		doc = c.kind.Serialize(rec)
		return nil
	})
	return doc, err
}

// Create stores a new record whose attributes are the body object and
// returns it serialized. Child kinds take their parent id from the body.
func (c *Collection) Create(ctx context.Context, body []byte) (*attributes.Bag, error) {
	if c.filter.ParentID != nil {
		return nil, ErrNotImplemented
	}

	attrs, err := parseBody(body)
	if err != nil {
		return nil, err
	}

	rec := &storage.Record{Attributes: attributes.New()}
	rec.Attributes.Replace(attrs)

	err = c.model.withTx(ctx, func(tx storage.Tx) error {
		if c.kind.IsChild() {
			if !rec.Attributes.Has(c.kind.ParentKey) {
				return newError(InvalidBody, nil, "%s is required", c.kind.ParentKey)
			}
			if err := c.takeParent(ctx, tx, rec); err != nil {
				return err
			}
		}

		id, err := tx.Insert(ctx, c.kind, rec)
		if err != nil {
			return err
		}
		rec.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info(ctx, "record created", log.Data{"kind": c.kind.Name, "id": rec.ID})
	return c.kind.Serialize(rec), nil
}

// Merge upserts every top-level key of the body into the record's
// attributes. Keys not in the body are kept.
func (c *Collection) Merge(ctx context.Context, id int64, body []byte) error {
	attrs, err := parseBody(body)
	if err != nil {
		return err
	}
	return c.update(ctx, id, []mutation{{set: attrs}})
}

// Patch applies a patch document: "$del" lists attribute names to
// remove, "$set" holds entries to upsert, plain keys are upserted and
// any other "$" key is rejected before anything changes.
func (c *Collection) Patch(ctx context.Context, id int64, body []byte) error {
	doc, err := parseBody(body)
	if err != nil {
		return err
	}
	muts, err := parsePatch(doc)
	if err != nil {
		return err
	}
	return c.update(ctx, id, muts)
}

// update applies muts to a shadow copy of the record's attributes and
// writes it back in the same transaction as the read. A child must still
// name its parent once every mutation is applied.
func (c *Collection) update(ctx context.Context, id int64, muts []mutation) error {
	return c.model.withTx(ctx, func(tx storage.Tx) error {
		if err := c.checkScope(ctx, tx); err != nil {
			return err
		}
		rec, err := c.get(ctx, tx, id)
		if err != nil {
			return err
		}

		shadow := rec.Attributes.Clone()
		if shadow == nil {
			shadow = attributes.New()
		}
		apply(shadow, muts)
		rec.Attributes = shadow

		if c.kind.IsChild() {
			switch {
			case shadow.Has(c.kind.ParentKey):
				if err := c.takeParent(ctx, tx, rec); err != nil {
					return err
				}
			case deletes(muts, c.kind.ParentKey):
				return newError(InvalidBody, nil, "%s cannot be removed", c.kind.ParentKey)
			}
		}

		return tx.Update(ctx, c.kind, rec)
	})
}

// Delete removes the record with id. Deleting a record that still has
// children is refused unless the delete policy allows it.
func (c *Collection) Delete(ctx context.Context, id int64) error {
	return c.model.withTx(ctx, func(tx storage.Tx) error {
		if err := c.checkScope(ctx, tx); err != nil {
			return err
		}
		if _, err := c.get(ctx, tx, id); err != nil {
			return err
		}

		for _, child := range c.kind.Children() {
			n, err := tx.Count(ctx, child, storage.ForParent(id))
			if err != nil {
				return err
			}
			if n == 0 {
				continue
			}
			data := log.Data{"kind": c.kind.Name, "id": id, "children": n, "child_kind": child.Name}
			if c.model.deletePolicy != config.DeletePolicyAllow {
				return newError(RecordInUse, data, "%s is still referenced by %d %s record(s)", c.kind.Name, n, child.Name)
			}
			log.Warn(ctx, "deleting record that is still referenced", data)
		}

		return tx.Delete(ctx, c.kind, id)
	})
}

// takeParent moves the parent key out of rec's attributes into its
// parent reference, checking the parent exists.
func (c *Collection) takeParent(ctx context.Context, tx storage.Tx, rec *storage.Record) error {
	key := c.kind.ParentKey
	value, _ := rec.Attributes.Get(key)

	num, ok := value.(json.Number)
	if !ok {
		return newError(InvalidBody, log.Data{key: value}, "%s must be an integer", key)
	}
	parentID, err := num.Int64()
	if err != nil {
		return newError(InvalidBody, log.Data{key: value}, "%s must be an integer", key)
	}

	if err := c.requireParent(ctx, tx, parentID); err != nil {
		var mErr *Error
		if errors.As(err, &mErr) && mErr.Reason == RecordNotFound {
			return newError(InvalidBody, log.Data{key: parentID}, "%s %d does not exist", c.kind.Parent.Name, parentID)
		}
		return err
	}

	rec.ParentID = parentID
	rec.Attributes.Delete(key)
	return nil
}

func parseBody(body []byte) (*attributes.Bag, error) {
	bag, err := attributes.Parse(body)
	if err != nil {
		return nil, &Error{
			Reason:  InvalidBody,
			Message: "request body must be a JSON object",
			Err:     err,
		}
	}
	return bag, nil
}
