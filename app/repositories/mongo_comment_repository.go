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

type replyDoc struct {
	ReplyID      primitive.ObjectID `bson:"replyId"`
	AuthorName   string             `bson:"authorName"`
	ReplyContent string             `bson:"replyContent"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

type commentDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	BlogPostID     primitive.ObjectID `bson:"blogPostId"`
	AuthorName     string             `bson:"authorName"`
	CommentContent string             `bson:"commentContent"`
	CreatedAt      time.Time          `bson:"createdAt"`
	Replies        []replyDoc         `bson:"replies"`
}

func (d *commentDoc) model() *models.BlogComment {
	c := &models.BlogComment{
		ID:             d.ID.Hex(),
		BlogPostID:     d.BlogPostID.Hex(),
		AuthorName:     d.AuthorName,
		CommentContent: d.CommentContent,
		CreatedAt:      d.CreatedAt,
		Replies:        make([]models.Reply, 0, len(d.Replies)),
	}
	for _, r := range d.Replies {
		c.Replies = append(c.Replies, models.Reply{
			ReplyID:      r.ReplyID.Hex(),
			AuthorName:   r.AuthorName,
			ReplyContent: r.ReplyContent,
			CreatedAt:    r.CreatedAt,
		})
	}
	return c
}

// MongoCommentRepository implements CommentRepository on the blogComments
// collection. Mutations filter on both _id and blogPostId.
type MongoCommentRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{coll: db.Collection(CommentsCollection), now: time.Now}
}

func scopedFilter(postID, commentID string) (bson.M, error) {
	pid, err := objectID(postID)
	if err != nil {
		return nil, err
	}
	cid, err := objectID(commentID)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": cid, "blogPostId": pid}, nil
}

func (r *MongoCommentRepository) FindByPostID(ctx context.Context, postID string) ([]*models.BlogComment, error) {
	pid, err := objectID(postID)
	if err != nil {
		return []*models.BlogComment{}, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"blogPostId": pid}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	comments := make([]*models.BlogComment, 0, len(docs))
	for i := range docs {
		comments = append(comments, docs[i].model())
	}
	return comments, nil
}

func (r *MongoCommentRepository) Create(ctx context.Context, comment *models.BlogComment) error {
	pid, err := objectID(comment.BlogPostID)
	if err != nil {
		return fmt.Errorf("invalid comment: malformed post id %q", comment.BlogPostID)
	}
	oid := primitive.NewObjectID()
	comment.ID = oid.Hex()
	comment.BeforeCreate(r.now().UTC().Truncate(time.Millisecond))
	if err := comment.Validate(); err != nil {
		return fmt.Errorf("invalid comment: %w", err)
	}
	_, err = r.coll.InsertOne(ctx, commentDoc{
		ID:             oid,
		BlogPostID:     pid,
		AuthorName:     comment.AuthorName,
		CommentContent: comment.CommentContent,
		CreatedAt:      comment.CreatedAt,
		Replies:        []replyDoc{},
	})
	return mongoErr(err)
}

// AddReply pushes the reply onto the scoped comment in a single update.
func (r *MongoCommentRepository) AddReply(ctx context.Context, postID, commentID string, reply models.Reply) (*models.BlogComment, error) {
	filter, err := scopedFilter(postID, commentID)
	if err != nil {
		return nil, err
	}
	if err := reply.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reply: %w", err)
	}
	rid, err := primitive.ObjectIDFromHex(reply.ReplyID)
	if err != nil {
		return nil, fmt.Errorf("invalid reply id: %w", err)
	}
	push := bson.M{"$push": bson.M{"replies": replyDoc{
		ReplyID:      rid,
		AuthorName:   reply.AuthorName,
		ReplyContent: reply.ReplyContent,
		CreatedAt:    reply.CreatedAt.UTC(),
	}}}
	var doc commentDoc
	if err := r.coll.FindOneAndUpdate(ctx, filter, push, returnAfter()).Decode(&doc); err != nil {
		return nil, mongoErr(err)
	}
	return doc.model(), nil
}

func (r *MongoCommentRepository) Update(ctx context.Context, postID, commentID, authorName, content string) (*models.BlogComment, error) {
	filter, err := scopedFilter(postID, commentID)
	if err != nil {
		return nil, err
	}
	probe := models.BlogComment{BlogPostID: postID, AuthorName: authorName, CommentContent: content}
	if err := probe.Validate(); err != nil {
		return nil, fmt.Errorf("invalid comment: %w", err)
	}
	set := bson.M{"$set": bson.M{"authorName": authorName, "commentContent": content}}
	var doc commentDoc
	if err := r.coll.FindOneAndUpdate(ctx, filter, set, returnAfter()).Decode(&doc); err != nil {
		return nil, mongoErr(err)
	}
	return doc.model(), nil
}

func (r *MongoCommentRepository) Delete(ctx context.Context, postID, commentID string) (*models.BlogComment, error) {
	filter, err := scopedFilter(postID, commentID)
	if err != nil {
		return nil, err
	}
	var doc commentDoc
	if err := r.coll.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		return nil, mongoErr(err)
	}
	return doc.model(), nil
}
