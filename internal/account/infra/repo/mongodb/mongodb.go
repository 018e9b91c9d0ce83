// Package mongodb 基于 mongo-driver 的账号存储。
package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"PromiseRouter/internal/account/domain"
)

const (
	userCollection    = "user_info"
	historyCollection = "login_history"
)

// EnsureIndexes 用户名唯一索引，登录记录按 (uid, ctime) 建索引。
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(userCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(historyCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "uid", Value: 1}, {Key: "ctime", Value: -1}},
	})
	return err
}

type UserRepo struct {
	coll *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{coll: db.Collection(userCollection)}
}

func (r *UserRepo) GetUserByUserName(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}}, "username", username)
}

func (r *UserRepo) GetUserByID(ctx context.Context, uid string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: uid}}, "uid", uid)
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.D, key, value string) (*domain.User, error) {
	var user domain.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if err == nil {
		return &user, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrUserNotFound.WithData(key, value)
	}
	return nil, domain.ErrSystemUnavailable.WithData(key, value).WithCause(err)
}

func (r *UserRepo) Create(ctx context.Context, user domain.User) error {
	_, err := r.coll.InsertOne(ctx, user)
	switch {
	case err == nil:
		return nil
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrUserExist.WithData("username", user.Username).WithCause(err)
	default:
		return domain.ErrSystemUnavailable.WithData("username", user.Username).WithCause(err)
	}
}

type LoginHistoryRepo struct {
	coll *mongo.Collection
}

func NewLoginHistoryRepo(db *mongo.Database) *LoginHistoryRepo {
	return &LoginHistoryRepo{coll: db.Collection(historyCollection)}
}

func (r *LoginHistoryRepo) Save(ctx context.Context, history domain.LoginHistory) error {
	if _, err := r.coll.InsertOne(ctx, history); err != nil {
		return domain.ErrSystemUnavailable.WithData("uid", history.UId).WithCause(err)
	}
	return nil
}

func (r *LoginHistoryRepo) ListByUser(ctx context.Context, uid string, limit int) ([]domain.LoginHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "ctime", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.coll.Find(ctx, bson.D{{Key: "uid", Value: uid}}, opts)
	if err != nil {
		return nil, domain.ErrSystemUnavailable.WithData("uid", uid).WithCause(err)
	}
	var out []domain.LoginHistory
	if err = cur.All(ctx, &out); err != nil {
		return nil, domain.ErrSystemUnavailable.WithData("uid", uid).WithCause(err)
	}
	return out, nil
}
