package repositories

import (
	"context"
	"fmt"
	"time"

	"toyblog/app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	FirstName    string             `bson:"firstName,omitempty"`
	LastName     string             `bson:"lastName,omitempty"`
	Phone        string             `bson:"phone,omitempty"`
	Role         string             `bson:"role"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d *userDoc) model() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Phone:        d.Phone,
		Role:         models.Role(d.Role),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// MongoUserRepository implements UserRepository on the users collection.
// Email uniqueness comes from the unique index created by EnsureMongoIndexes.
type MongoUserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(UsersCollection), now: time.Now}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	now := r.now().UTC().Truncate(time.Millisecond)
	oid := primitive.NewObjectID()
	user.ID = oid.Hex()
	user.Email = models.NormalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	if err := user.Validate(); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}
	_, err := r.coll.InsertOne(ctx, userDoc{
		ID:           oid,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Phone:        user.Phone,
		Role:         string(user.Role),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	return mongoErr(err)
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": models.NormalizeEmail(email)})
}

func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id string, profile models.Profile) (*models.User, error) {
	return r.set(ctx, id, bson.M{
		"firstName": profile.FirstName,
		"lastName":  profile.LastName,
		"phone":     profile.Phone,
	})
}

func (r *MongoUserRepository) SetRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	return r.set(ctx, id, bson.M{"role": string(role)})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mongoErr(err)
	}
	return doc.model(), nil
}

func (r *MongoUserRepository) set(ctx context.Context, id string, fields bson.M) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	fields["updatedAt"] = r.now().UTC()
	var doc userDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, returnAfter()).Decode(&doc)
	if err != nil {
		return nil, mongoErr(err)
	}
	return doc.model(), nil
}
