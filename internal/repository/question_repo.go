package repository

import (
	"context"
	"sort"

	"quizbank/internal/model"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const questionsCollection = "questions"

// QuestionRepo handles MongoDB operations for catalogued questions.
// Lookups by quesID are canonical; GetByID is for the storage key only.
type QuestionRepo interface {
	// Basic CRUD Operations
	Create(ctx context.Context, question *model.Question) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Question, error)
	GetByQuesID(ctx context.Context, quesID string) (*model.Question, error)
	Update(ctx context.Context, quesID string, fields map[string]interface{}) (*model.Question, error)
	Delete(ctx context.Context, quesID string) error
	DeleteAll(ctx context.Context) (int64, error)

	// Listing
	List(ctx context.Context, skip, limit int64) ([]*model.Question, error)
	Count(ctx context.Context) (int64, error)
	Sample(ctx context.Context, subject string, size int) ([]*model.Question, error)

	// Suggestions
	DistinctChapters(ctx context.Context, subject string) ([]string, error)
	DistinctTopics(ctx context.Context, chapter string) ([]string, error)
}

type questionRepo struct {
	collection *mongo.Collection
	log        logrus.FieldLogger
}

// NewQuestionRepo creates a new question repository with indexes
func NewQuestionRepo(ctx context.Context, db *mongo.Database, logger logrus.FieldLogger) QuestionRepo {
	repo := &questionRepo{
		collection: db.Collection(questionsCollection),
		log:        logger.WithField("collection", questionsCollection),
	}

	repo.ensureIndexes(ctx)

	return repo
}

func (r *questionRepo) ensureIndexes(ctx context.Context) {
	r.createIndex(ctx, bson.D{{Key: "quesID", Value: 1}}, true)
	r.createIndex(ctx, bson.D{
		{Key: "subject", Value: 1},
		{Key: "chapter", Value: 1},
	}, false)
	r.createIndex(ctx, bson.D{
		{Key: "chapter", Value: 1},
		{Key: "topic", Value: 1},
	}, false)
}

func (r *questionRepo) createIndex(ctx context.Context, keys bson.D, unique bool) {
	opts := options.Index().SetUnique(unique)
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts})
	if err != nil {
		r.log.WithError(err).Warnf("failed to create index %v", keys)
	}
}

func (r *questionRepo) Create(ctx context.Context, question *model.Question) (primitive.ObjectID, error) {
	result, err := r.collection.InsertOne(ctx, question)
	if err != nil {
		return primitive.NilObjectID, classify(err, "insert question")
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, pkgerrors.Errorf("insert question: unexpected id type %T", result.InsertedID)
	}
	return oid, nil
}

func (r *questionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Question, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *questionRepo) GetByQuesID(ctx context.Context, quesID string) (*model.Question, error) {
	return r.findOne(ctx, bson.M{"quesID": quesID})
}

func (r *questionRepo) findOne(ctx context.Context, filter bson.M) (*model.Question, error) {
	var question model.Question
	if err := r.collection.FindOne(ctx, filter).Decode(&question); err != nil {
		return nil, classify(err, "find question")
	}
	return &question, nil
}

func (r *questionRepo) Update(ctx context.Context, quesID string, fields map[string]interface{}) (*model.Question, error) {
	if len(fields) == 0 {
		return r.GetByQuesID(ctx, quesID)
	}

	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var question model.Question
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"quesID": quesID}, bson.M{"$set": set}, opts).Decode(&question)
	if err != nil {
		return nil, classify(err, "update question")
	}
	return &question, nil
}

func (r *questionRepo) Delete(ctx context.Context, quesID string) error {
	err := r.collection.FindOneAndDelete(ctx, bson.M{"quesID": quesID}).Err()
	return classify(err, "delete question")
}

// DeleteAll empties the collection but keeps its indexes
func (r *questionRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, classify(err, "delete questions")
	}
	return res.DeletedCount, nil
}

func (r *questionRepo) List(ctx context.Context, skip, limit int64) ([]*model.Question, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "quesID", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, classify(err, "list questions")
	}
	defer cursor.Close(ctx)

	questions := []*model.Question{}
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, classify(err, "decode questions")
	}
	return questions, nil
}

func (r *questionRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, classify(err, "count questions")
	}
	return n, nil
}

func (r *questionRepo) Sample(ctx context.Context, subject string, size int) ([]*model.Question, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"subject": subject}}},
		{{Key: "$sample", Value: bson.M{"size": size}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, classify(err, "sample questions")
	}
	defer cursor.Close(ctx)

	questions := []*model.Question{}
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, classify(err, "decode questions")
	}
	return questions, nil
}

func (r *questionRepo) DistinctChapters(ctx context.Context, subject string) ([]string, error) {
	return r.distinct(ctx, "chapter", bson.M{"subject": subject})
}

func (r *questionRepo) DistinctTopics(ctx context.Context, chapter string) ([]string, error) {
	return r.distinct(ctx, "topic", bson.M{"chapter": chapter})
}

func (r *questionRepo) distinct(ctx context.Context, field string, filter bson.M) ([]string, error) {
	raw, err := r.collection.Distinct(ctx, field, filter)
	if err != nil {
		return nil, classify(err, "distinct "+field)
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			values = append(values, s)
		}
	}
	sort.Strings(values)
	return values, nil
}
