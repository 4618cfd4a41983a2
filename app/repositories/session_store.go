package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"toyblog/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/redis/go-redis/v9"
)

// BadgerSessionStore keeps sessions as badger entries that expire with their TTL.
type BadgerSessionStore struct {
	db *badger.DB
}

func NewBadgerSessionStore(db *badger.DB) *BadgerSessionStore {
	return &BadgerSessionStore{db: db}
}

func (s *BadgerSessionStore) Save(ctx context.Context, session *models.Session, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("session ttl must be positive, got %v", ttl)
	}
	data, err := marshalEntity(session)
	if err != nil {
		return err
	}
	return update(ctx, s.db, func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(sessionKey(session.ID), data).WithTTL(ttl))
	})
}

func (s *BadgerSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := view(ctx, s.db, func(txn *badger.Txn) error {
		return getEntity(txn, sessionKey(id), &session)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *BadgerSessionStore) Delete(ctx context.Context, id string) error {
	return update(ctx, s.db, func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(id))
	})
}

// RedisSessionStore keeps sessions as JSON strings with a redis TTL.
type RedisSessionStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisSessionStore(rdb *redis.Client, prefix string) *RedisSessionStore {
	if prefix == "" {
		prefix = SessionKeyPrefix
	}
	return &RedisSessionStore{rdb: rdb, prefix: prefix}
}

func (s *RedisSessionStore) Save(ctx context.Context, session *models.Session, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("session ttl must be positive, got %v", ttl)
	}
	data, err := marshalEntity(session)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.prefix+session.ID, data, ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	res, err := s.rdb.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var session models.Session
	if err := unmarshalEntity(res, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, s.prefix+id).Err()
}
