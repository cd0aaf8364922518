package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"engagelens/internal/model"
	pkgerrors "engagelens/pkg/errors"
)

// accountMongoRepo 每个账户一个文档，_id 为用户名
type accountMongoRepo struct {
	coll *mongo.Collection
}

// NewAccountMongoRepo 创建基于 MongoDB 集合的 AccountRepository
func NewAccountMongoRepo(coll *mongo.Collection) AccountRepository {
	return &accountMongoRepo{coll: coll}
}

func (r *accountMongoRepo) Create(ctx context.Context, account *model.Account) error {
	now := time.Now().UTC()
	account.CreatedAt, account.UpdatedAt = now, now

	if _, err := r.coll.InsertOne(ctx, account); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return pkgerrors.ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *accountMongoRepo) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	var account model.Account
	err := r.coll.FindOne(ctx, bson.M{"_id": username}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountMongoRepo) Update(ctx context.Context, account *model.Account) error {
	account.UpdatedAt = time.Now().UTC()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": account.Username},
		bson.M{"$set": bson.M{
			"password":   account.PasswordHash,
			"email":      account.Email,
			"updated_at": account.UpdatedAt,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}
