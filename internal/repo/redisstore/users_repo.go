package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nmorales89/accounthub/internal/domain/user"
	"github.com/nmorales89/accounthub/internal/repo"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// UsersRepo stores user documents as JSON under user:{id} with a
// secondary index user:email:{email} -> id. The document and the index
// are written separately, so the email uniqueness check done by callers
// stays a check-then-write sequence, same as the memory backend.
type UsersRepo struct {
	rdb *redis.Client
}

func New(cfg Config) *UsersRepo {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &UsersRepo{rdb: rdb}
}

func NewWithClient(rdb *redis.Client) *UsersRepo {
	return &UsersRepo{rdb: rdb}
}

// userDoc is the persisted shape. The domain struct hides password and
// lastToken from JSON, which is exactly wrong for storage, so the
// document gets its own tags.
type userDoc struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Level     string `json:"level"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
	LastToken string `json:"lastToken,omitempty"`
}

func toDoc(u user.User) userDoc {
	return userDoc(u)
}

func (d userDoc) toUser() user.User {
	return user.User(d)
}

func userKey(id string) string {
	return "user:" + id
}

func emailKey(email string) string {
	return "user:email:" + user.NormalizeEmail(email)
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	raw, err := r.rdb.Get(ctx, userKey(id)).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return user.User{}, repo.ErrUserNotFound
		}

		return user.User{}, err
	}

	var doc userDoc

	if err := json.Unmarshal(raw, &doc); err != nil {
		return user.User{}, err
	}

	return doc.toUser(), nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	id, err := r.rdb.Get(ctx, emailKey(email)).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return user.User{}, repo.ErrUserNotFound
		}

		return user.User{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) error {
	if err := r.putDoc(ctx, u); err != nil {
		return err
	}

	return r.rdb.Set(ctx, emailKey(u.Email), u.ID, 0).Err()
}

func (r *UsersRepo) Update(ctx context.Context, u user.User) error {
	old, err := r.GetByID(ctx, u.ID)

	if err != nil {
		return err
	}

	if old.Email != u.Email {
		if err := r.rdb.Del(ctx, emailKey(old.Email)).Err(); err != nil {
			return err
		}

		if err := r.rdb.Set(ctx, emailKey(u.Email), u.ID, 0).Err(); err != nil {
			return err
		}
	}

	return r.putDoc(ctx, u)
}

func (r *UsersRepo) SetLastToken(ctx context.Context, id, token string) error {
	u, err := r.GetByID(ctx, id)

	if err != nil {
		return err
	}

	u.LastToken = token

	return r.putDoc(ctx, u)
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	u, err := r.GetByID(ctx, id)

	if err != nil {
		return err
	}

	if err := r.rdb.Del(ctx, userKey(id)).Err(); err != nil {
		return err
	}

	return r.rdb.Del(ctx, emailKey(u.Email)).Err()
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *UsersRepo) Close() error {
	return r.rdb.Close()
}

func (r *UsersRepo) putDoc(ctx context.Context, u user.User) error {
	raw, err := json.Marshal(toDoc(u))

	if err != nil {
		return err
	}

	return r.rdb.Set(ctx, userKey(u.ID), raw, 0).Err()
}
