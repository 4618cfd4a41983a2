package repositories

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store bundles the repositories of one backend together with the handles
// that must be released on shutdown.
type Store struct {
	Blogs    BlogRepository
	Comments CommentRepository
	Users    UserRepository
	Sessions SessionStore

	ping    func(ctx context.Context) error
	closers []func(ctx context.Context) error
}

// NewBadgerStore serves every repository, sessions included, from db.
func NewBadgerStore(db *badger.DB) *Store {
	return &Store{
		Blogs:    NewBadgerBlogRepository(db),
		Comments: NewBadgerCommentRepository(db),
		Users:    NewBadgerUserRepository(db),
		Sessions: NewBadgerSessionStore(db),
		ping: func(ctx context.Context) error {
			if db.IsClosed() {
				return errors.New("badger database is closed")
			}
			return nil
		},
		closers: []func(context.Context) error{func(context.Context) error { return db.Close() }},
	}
}

// NewMongoStore serves the document repositories from a mongo database.
// Sessions must be attached with WithRedisSessions.
func NewMongoStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		Blogs:    NewMongoBlogRepository(db),
		Comments: NewMongoCommentRepository(db),
		Users:    NewMongoUserRepository(db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		closers: []func(context.Context) error{client.Disconnect},
	}
}

// WithRedisSessions replaces the session store with one backed by rdb.
func (s *Store) WithRedisSessions(rdb *redis.Client) *Store {
	s.Sessions = NewRedisSessionStore(rdb, SessionKeyPrefix)
	s.closers = append(s.closers, func(context.Context) error { return rdb.Close() })
	prev := s.ping
	s.ping = func(ctx context.Context) error {
		if err := prev(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	}
	return s
}

// Ping reports whether the backing stores are reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases every handle, newest first.
func (s *Store) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
