package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	vault.Persistent
	Validate() error
}

// ModelBucket is implemented by buckets that operates on Models.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db vault.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key exists,
	// ErrNotFound otherwise.
	Has(db vault.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. All indexes are updated.
	Put(db vault.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db vault.KVStore, key []byte) error

	// ByIndex returns the primary keys of all entities that are indexed
	// under given value.
	ByIndex(db vault.ReadOnlyKVStore, indexName string, value []byte) ([][]byte, error)

	// Register the bucket and all indexes in the query router. The bucket
	// is served under /<name>, indexes under /<name>/<index>.
	Register(name string, r vault.QueryRouter)

	// DBKey returns the full key used in the store for given primary key.
	DBKey(key []byte) []byte
}

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities stored in the bucket are indexed using value returned by the
// indexer function. An indexer returning a nil value skips the entity.
func WithIndex(name string, indexer Indexer) ModelBucketOption {
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic(fmt.Sprintf("index %q registered twice", name))
		}
		mb.indexes[name] = newIndex(mb.name, name, indexer)
	}
}

// NewModelBucket returns a ModelBucket instance storing models of the same
// type as given example under the prefix "<name>:".
func NewModelBucket(name string, example Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	tp := reflect.TypeOf(example)
	if tp.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("model %T must be a pointer", example))
	}
	mb := &modelBucket{
		name:    name,
		prefix:  append([]byte(name), ':'),
		model:   tp.Elem(),
		indexes: make(map[string]index),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes map[string]index
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) DBKey(key []byte) []byte {
	// append(b.prefix, key...) would just append to this slice and
	// return b.prefix. The next call would do the same an overwrite it.
	out := make([]byte, len(mb.prefix)+len(key))
	copy(out, mb.prefix)
	copy(out[len(mb.prefix):], key)
	return out
}

func (mb *modelBucket) One(db vault.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(mb.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if reflect.TypeOf(dest) != reflect.PtrTo(mb.model) {
		return errors.Wrapf(errors.ErrType, "%s cannot be represented as %T", mb.model, dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal: %s", err)
	}
	return nil
}

func (mb *modelBucket) Has(db vault.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot query the database")
	}
	if !ok {
		return errors.Wrap(errors.ErrNotFound, mb.name)
	}
	return nil
}

func (mb *modelBucket) Put(db vault.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if reflect.TypeOf(m) != reflect.PtrTo(mb.model) {
		return errors.Wrapf(errors.ErrType, "cannot store %T in %q bucket", m, mb.name)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal")
	}

	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	for _, idx := range mb.indexes {
		if err := idx.update(db, key, prev, m); err != nil {
			return errors.Wrapf(err, "index %q", idx.name)
		}
	}

	if err := db.Set(mb.DBKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db vault.KVStore, key []byte) error {
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", mb.model)
	}
	for _, idx := range mb.indexes {
		if err := idx.update(db, key, prev, nil); err != nil {
			return errors.Wrapf(err, "index %q", idx.name)
		}
	}
	return db.Delete(mb.DBKey(key))
}

func (mb *modelBucket) ByIndex(db vault.ReadOnlyKVStore, indexName string, value []byte) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrap(ErrInvalidIndex, indexName)
	}
	return idx.keys(db, value)
}

// load returns the currently stored instance or nil if absent.
func (mb *modelBucket) load(db vault.ReadOnlyKVStore, key []byte) (Model, error) {
	raw, err := db.Get(mb.DBKey(key))
	if err != nil {
		return nil, errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return nil, nil
	}
	m := reflect.New(mb.model).Interface().(Model)
	if err := m.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal: %s", err)
	}
	return m, nil
}

func (mb *modelBucket) Register(name string, r vault.QueryRouter) {
	if name == "" {
		name = mb.name
	}
	root := "/" + name
	r.Register(root, bucketQuery{mb})
	for n, idx := range mb.indexes {
		r.Register(fmt.Sprintf("%s/%s", root, n), indexQuery{bucket: mb, index: idx})
	}
}
