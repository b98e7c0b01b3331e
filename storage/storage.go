package storage

import (
	"errors"

	"github.com/ONSdigital/dp-catalog-api/attributes"
)

// ErrRecordNotFound is returned by the storage layer when no row matches.
var ErrRecordNotFound = errors.New("record not found")

// Kind describes one type of record and the table holding it.
//
// Child kinds name their parent kind and the column referencing it,
// which is also the key the parent id is serialized under:
//
//	{
//	    "format": "csv",
//	    "id": 7,
//	    "dataset_id": 3
//	}
//
type Kind struct {
	Name      string
	Table     string
	Parent    *Kind
	ParentKey string
}

// Dataset is the parent record kind.
var Dataset = &Kind{
	Name:  "dataset",
	Table: "dataset",
}

// Distribution is a child of Dataset.
var Distribution = &Kind{
	Name:      "distribution",
	Table:     "distribution",
	Parent:    Dataset,
	ParentKey: "dataset_id",
}

// IsChild reports whether records of this kind reference a parent.
func (k *Kind) IsChild() bool {
	return k.Parent != nil
}

// Record is one persisted row. ParentID is only meaningful for child kinds.
type Record struct {
	ID         int64
	Attributes *attributes.Bag
	ParentID   int64
}

// Serialize returns the public form of rec: its attributes, then "id",
// then the parent key for child kinds. The explicit keys overwrite
// attributes of the same name.
func (k *Kind) Serialize(rec *Record) *attributes.Bag {
	doc := attributes.New()
	doc.Merge(rec.Attributes)
	doc.Set("id", rec.ID)
	if k.IsChild() {
		doc.Set(k.ParentKey, rec.ParentID)
	}
	return doc
}

// Filter narrows a collection. A nil ParentID means every record of
// the kind.
type Filter struct {
	ParentID *int64
}

// ForParent returns a filter selecting the children of parentID.
func ForParent(parentID int64) Filter {
	return Filter{ParentID: &parentID}
}

// Kinds lists every record kind, parents before children.
var Kinds = []*Kind{Dataset, Distribution}

// Children returns the kinds whose records reference k.
func (k *Kind) Children() []*Kind {
	var children []*Kind
	for _, c := range Kinds {
		if c.Parent == k {
			children = append(children, c)
		}
	}
	return children
}
