package store

// Recorder is implemented by every store returned from
// NewRecordingStore.
type Recorder interface {
	// KVPairs maps each written key to the value set, or nil if the
	// key was deleted.
	KVPairs() map[string][]byte
}

// NewRecordingStore wraps db so that every Set and Delete is
// remembered. If db can be cache wrapped, so can the result,
// which keeps Savepoint working underneath a recorder. Writes that
// stay in a discarded cache wrap are never recorded.
func NewRecordingStore(db KVStore) KVStore {
	changes := make(map[string][]byte)
	if cached, ok := db.(CacheableKVStore); ok {
		return &cacheableRecordingStore{
			CacheableKVStore: cached,
			changes:          changes,
		}
	}
	return &recordingStore{
		KVStore: db,
		changes: changes,
	}
}

type recordingStore struct {
	KVStore
	changes map[string][]byte
}

var _ KVStore = (*recordingStore)(nil)
var _ Recorder = (*recordingStore)(nil)

func (r *recordingStore) KVPairs() map[string][]byte {
	return r.changes
}

func (r *recordingStore) Set(key, value []byte) error {
	if err := r.KVStore.Set(key, value); err != nil {
		return err
	}
	r.changes[string(key)] = value
	return nil
}

func (r *recordingStore) Delete(key []byte) error {
	if err := r.KVStore.Delete(key); err != nil {
		return err
	}
	r.changes[string(key)] = nil
	return nil
}

// NewBatch makes sure batched writes are recorded as well.
func (r *recordingStore) NewBatch() Batch {
	return &recorderBatch{
		changes: r.changes,
		b:       r.KVStore.NewBatch(),
	}
}

type cacheableRecordingStore struct {
	CacheableKVStore
	changes map[string][]byte
}

var _ CacheableKVStore = (*cacheableRecordingStore)(nil)
var _ Recorder = (*cacheableRecordingStore)(nil)

func (r *cacheableRecordingStore) KVPairs() map[string][]byte {
	return r.changes
}

func (r *cacheableRecordingStore) Set(key, value []byte) error {
	if err := r.CacheableKVStore.Set(key, value); err != nil {
		return err
	}
	r.changes[string(key)] = value
	return nil
}

func (r *cacheableRecordingStore) Delete(key []byte) error {
	if err := r.CacheableKVStore.Delete(key); err != nil {
		return err
	}
	r.changes[string(key)] = nil
	return nil
}

func (r *cacheableRecordingStore) NewBatch() Batch {
	return &recorderBatch{
		changes: r.changes,
		b:       r.CacheableKVStore.NewBatch(),
	}
}

// CacheWrap reads through the recorder and flushes into a recording
// batch, so only committed cache writes show up in KVPairs.
func (r *cacheableRecordingStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(r, r.NewBatch(), nil)
}

// recorderBatch only reports its operations to the recorder once
// Write succeeds, since cache wraps fill their batch eagerly.
type recorderBatch struct {
	changes map[string][]byte
	pending []Op
	b       Batch
}

var _ Batch = (*recorderBatch)(nil)

func (r *recorderBatch) Set(key, value []byte) error {
	if err := r.b.Set(key, value); err != nil {
		return err
	}
	r.pending = append(r.pending, SetOp(key, value))
	return nil
}

func (r *recorderBatch) Delete(key []byte) error {
	if err := r.b.Delete(key); err != nil {
		return err
	}
	r.pending = append(r.pending, DelOp(key))
	return nil
}

func (r *recorderBatch) Write() error {
	if err := r.b.Write(); err != nil {
		return err
	}
	for _, op := range r.pending {
		if err := op.Apply(recordTo(r.changes)); err != nil {
			return err
		}
	}
	r.pending = nil
	return nil
}

// recordTo replays batch operations into a change set.
type recordTo map[string][]byte

func (c recordTo) Set(key, value []byte) error {
	c[string(key)] = value
	return nil
}

func (c recordTo) Delete(key []byte) error {
	c[string(key)] = nil
	return nil
}
