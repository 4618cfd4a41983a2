package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/dgraph-io/badger/v4"
)

const (
	// Key prefixes for different entity types
	BlogKeyPrefix      = "blog:"
	CommentKeyPrefix   = "comment:"
	UserKeyPrefix      = "user:"
	UserEmailKeyPrefix = "user_email:"
	SessionKeyPrefix   = "session:"

	maxTxnRetries      = 50
	txnRetryInitial    = 2 * time.Millisecond
	txnRetryMaxBackoff = 50 * time.Millisecond
	keyLockStripes     = 64
)

func blogKey(id string) []byte {
	return []byte(BlogKeyPrefix + id)
}

// commentKey embeds the post ID so a comment can only be reached through its post.
func commentKey(postID, commentID string) []byte {
	return []byte(CommentKeyPrefix + postID + ":" + commentID)
}

func commentPrefix(postID string) []byte {
	return []byte(CommentKeyPrefix + postID + ":")
}

func userKey(id string) []byte {
	return []byte(UserKeyPrefix + id)
}

func userEmailKey(email string) []byte {
	return []byte(UserEmailKeyPrefix + email)
}

func sessionKey(id string) []byte {
	return []byte(SessionKeyPrefix + id)
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// getEntity loads the JSON value stored under key into entity.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// setEntity stores entity as JSON under key.
func setEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// update runs fn in a read-write transaction, retrying with jittered
// exponential backoff while a concurrent writer touched the same keys.
// Any other error, or a done context, stops the retries.
func update(ctx context.Context, db *badger.DB, fn func(txn *badger.Txn) error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = txnRetryInitial
	policy.MaxInterval = txnRetryMaxBackoff

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		if err := ctx.Err(); err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		err := db.Update(fn)
		if err != nil && !errors.Is(err, badger.ErrConflict) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(maxTxnRetries))
	return err
}

// keyLocks serializes writers of the same key inside this process so
// read-modify-write transactions queue instead of conflicting.
type keyLocks struct {
	stripes [keyLockStripes]sync.Mutex
}

func (l *keyLocks) lock(key []byte) func() {
	h := fnv.New32a()
	h.Write(key)
	mu := &l.stripes[h.Sum32()%keyLockStripes]
	mu.Lock()
	return mu.Unlock
}

// view runs fn in a read-only transaction.
func view(ctx context.Context, db *badger.DB, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.View(fn)
}

// scanPrefix decodes every value under prefix with decode.
func scanPrefix(txn *badger.Txn, prefix []byte, decode func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := it.Item().Value(decode); err != nil {
			return err
		}
	}
	return nil
}
