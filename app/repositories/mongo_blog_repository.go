package repositories

import (
	"context"
	"fmt"
	"time"

	"toyblog/app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type blogDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Snippet   string             `bson:"snippet"`
	Body      string             `bson:"body"`
	Author    string             `bson:"author"`
	Image     string             `bson:"image"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *blogDoc) model() *models.BlogPost {
	return &models.BlogPost{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Snippet:   d.Snippet,
		Body:      d.Body,
		Author:    d.Author,
		Image:     d.Image,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoBlogRepository implements BlogRepository on the blogs collection
type MongoBlogRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoBlogRepository(db *mongo.Database) *MongoBlogRepository {
	return &MongoBlogRepository{coll: db.Collection(BlogsCollection), now: time.Now}
}

func (r *MongoBlogRepository) FindAllSorted(ctx context.Context) ([]*models.BlogPost, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	var docs []blogDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	posts := make([]*models.BlogPost, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].model())
	}
	return posts, nil
}

func (r *MongoBlogRepository) FindByID(ctx context.Context, id string) (*models.BlogPost, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc blogDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mongoErr(err)
	}
	return doc.model(), nil
}

func (r *MongoBlogRepository) Create(ctx context.Context, post *models.BlogPost) error {
	oid := primitive.NewObjectID()
	post.ID = oid.Hex()
	post.BeforeCreate(r.now().UTC().Truncate(time.Millisecond))
	if err := post.Validate(); err != nil {
		return fmt.Errorf("invalid blog post: %w", err)
	}
	_, err := r.coll.InsertOne(ctx, blogDoc{
		ID:        oid,
		Title:     post.Title,
		Snippet:   post.Snippet,
		Body:      post.Body,
		Author:    post.Author,
		Image:     post.Image,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	})
	return mongoErr(err)
}

func (r *MongoBlogRepository) UpdateByID(ctx context.Context, id string, changes *models.BlogPost) (*models.BlogPost, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	if err := changes.Validate(); err != nil {
		return nil, fmt.Errorf("invalid blog post: %w", err)
	}
	set := bson.M{"$set": bson.M{
		"title":     changes.Title,
		"snippet":   changes.Snippet,
		"body":      changes.Body,
		"author":    changes.Author,
		"image":     changes.Image,
		"updatedAt": r.now().UTC(),
	}}
	var doc blogDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, set, returnAfter()).Decode(&doc); err != nil {
		return nil, mongoErr(err)
	}
	return doc.model(), nil
}

func (r *MongoBlogRepository) DeleteByID(ctx context.Context, id string) (*models.BlogPost, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc blogDoc
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mongoErr(err)
	}
	return doc.model(), nil
}

func (r *MongoBlogRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	oid, err := objectID(id)
	if err != nil {
		return false, nil
	}
	return r.exists(ctx, bson.M{"_id": oid})
}

func (r *MongoBlogRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	return r.exists(ctx, bson.M{"title": title})
}

func (r *MongoBlogRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
