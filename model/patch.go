package model

import (
	"strings"

	"github.com/ONSdigital/dp-catalog-api/attributes"
	"github.com/ONSdigital/log.go/v2/log"
)

// Patch operators. Any other key starting with '$' is rejected.
const (
	opDelete = "$del"
	opSet    = "$set"
)

// mutation is one step of a patch: keys to remove, then entries to
// upsert.
type mutation struct {
	del []string
	set *attributes.Bag
}

// parsePatch turns a PATCH body into mutations, in document order. The
// whole body is checked before anything is applied, so a bad key leaves
// the record untouched.
func parsePatch(body *attributes.Bag) ([]mutation, error) {
	var (
		muts []mutation
		err  error
	)
	body.Range(func(key string, value any) bool {
		switch {
		case key == opDelete:
			var keys []string
			keys, err = stringList(value)
			if err != nil {
				return false
			}
			muts = append(muts, mutation{del: keys})
		case key == opSet:
			set, ok := value.(*attributes.Bag)
			if !ok {
				err = newError(InvalidBody, log.Data{"key": key}, "value of %s must be an object", opSet)
				return false
			}
			muts = append(muts, mutation{set: set})
		case strings.HasPrefix(key, "$"):
			err = newError(InvalidPatchKey, log.Data{"key": key}, "invalid PATCH key: %s", key)
			return false
		default:
			set := attributes.New()
			set.Set(key, value)
			muts = append(muts, mutation{set: set})
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return muts, nil
}

func stringList(value any) ([]string, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, newError(InvalidBody, log.Data{"key": opDelete}, "value of %s must be a list of attribute names", opDelete)
	}
	keys := make([]string, 0, len(list))
	for _, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, newError(InvalidBody, log.Data{"key": opDelete}, "value of %s must be a list of attribute names", opDelete)
		}
		keys = append(keys, s)
	}
	return keys, nil
}

// apply runs the mutations against bag in order.
func apply(bag *attributes.Bag, muts []mutation) {
	for _, m := range muts {
		bag.Delete(m.del...)
		bag.Merge(m.set)
	}
}

// deletes reports whether any mutation removes key. Stored records keep
// their parent key out of the attributes, so a later set of it is seen
// on the shadow rather than here.
func deletes(muts []mutation, key string) bool {
	for _, m := range muts {
		for _, k := range m.del {
			if k == key {
				return true
			}
		}
	}
	return false
}
