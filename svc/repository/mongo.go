package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/filesmanager/pkg/logger"
)

const (
	usersCollection = "users"
	filesCollection = "files"
)

type userDoc struct {
	ID        bson.ObjectID `bson:"_id"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password"`
	CreatedAt time.Time     `bson:"createdAt"`
}

func (d userDoc) model() *User {
	return &User{ID: d.ID.Hex(), Email: d.Email, PasswordHash: d.Password, CreatedAt: d.CreatedAt}
}

type fileDoc struct {
	ID        bson.ObjectID `bson:"_id"`
	UserID    bson.ObjectID `bson:"userId"`
	Name      string        `bson:"name"`
	Type      FileType      `bson:"type"`
	IsPublic  bool          `bson:"isPublic"`
	ParentID  string        `bson:"parentId"`
	LocalPath string        `bson:"localPath,omitempty"`
	CreatedAt time.Time     `bson:"createdAt"`
}

func (d fileDoc) model() File {
	return File{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		Name:        d.Name,
		Type:        d.Type,
		IsPublic:    d.IsPublic,
		ParentID:    d.ParentID,
		StoragePath: d.LocalPath,
		CreatedAt:   d.CreatedAt,
	}
}

// MongoRepository stores users and files in MongoDB.
type MongoRepository struct {
	db     *mongo.Database
	users  *mongo.Collection
	files  *mongo.Collection
	logger *slog.Logger
	now    func() time.Time
}

// MongoOption configures a MongoRepository.
type MongoOption func(*MongoRepository)

// WithMongoLogger sets the logger used to report database faults.
func WithMongoLogger(l *slog.Logger) MongoOption {
	return func(r *MongoRepository) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewMongoRepository uses the users and files collections of db.
func NewMongoRepository(db *mongo.Database, opts ...MongoOption) *MongoRepository {
	if db == nil {
		panic(ErrRepositoryNil)
	}
	r := &MongoRepository{
		db:     db,
		users:  db.Collection(usersCollection),
		files:  db.Collection(filesCollection),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EnsureIndexes creates the unique email index and the listing index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return r.unavailable(ctx, "create users index", err)
	}
	_, err = r.files.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "parentId", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return r.unavailable(ctx, "create files index", err)
	}
	return nil
}

func (r *MongoRepository) CreateUser(ctx context.Context, email, passwordHash string) (*User, error) {
	_, found, err := r.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, ErrEmailTaken
	}

	doc := userDoc{ID: bson.NewObjectID(), Email: email, Password: passwordHash, CreatedAt: r.now().UTC()}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, r.unavailable(ctx, "insert user", err)
	}
	return doc.model(), nil
}

func (r *MongoRepository) FindUserByEmail(ctx context.Context, email string) (*User, bool, error) {
	return r.findUser(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *MongoRepository) FindUserByID(ctx context.Context, id string) (*User, bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, false, nil
	}
	return r.findUser(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *MongoRepository) findUser(ctx context.Context, filter bson.D) (*User, bool, error) {
	var doc userDoc
	err := r.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, r.unavailable(ctx, "find user", err)
	}
	return doc.model(), true, nil
}

func (r *MongoRepository) CreateFile(ctx context.Context, f *File) error {
	if err := validateFile(f); err != nil {
		return err
	}
	userID, err := bson.ObjectIDFromHex(f.UserID)
	if err != nil {
		return ErrInvalidFile
	}

	doc := fileDoc{
		ID:        bson.NewObjectID(),
		UserID:    userID,
		Name:      f.Name,
		Type:      f.Type,
		IsPublic:  f.IsPublic,
		ParentID:  f.ParentID,
		LocalPath: f.StoragePath,
		CreatedAt: r.now().UTC(),
	}
	if _, err := r.files.InsertOne(ctx, doc); err != nil {
		return r.unavailable(ctx, "insert file", err)
	}

	f.ID = doc.ID.Hex()
	f.CreatedAt = doc.CreatedAt
	return nil
}

func (r *MongoRepository) FindFileByID(ctx context.Context, id, ownerID string) (*File, bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, false, nil
	}
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, false, nil
	}
	return r.findFile(ctx, bson.D{{Key: "_id", Value: oid}, {Key: "userId", Value: owner}})
}

func (r *MongoRepository) FindFile(ctx context.Context, id string) (*File, bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, false, nil
	}
	return r.findFile(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *MongoRepository) findFile(ctx context.Context, filter bson.D) (*File, bool, error) {
	var doc fileDoc
	err := r.files.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, r.unavailable(ctx, "find file", err)
	}
	f := doc.model()
	return &f, true, nil
}

func (r *MongoRepository) ListFiles(ctx context.Context, ownerID, parentID string, page int) ([]File, error) {
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return []File{}, nil
	}
	if parentID == "" {
		parentID = RootParentID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(max(page, 0) * PageSize)).
		SetLimit(PageSize)

	cur, err := r.files.Find(ctx, bson.D{{Key: "userId", Value: owner}, {Key: "parentId", Value: parentID}}, opts)
	if err != nil {
		return nil, r.unavailable(ctx, "list files", err)
	}

	var docs []fileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, r.unavailable(ctx, "decode files", err)
	}

	out := make([]File, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *MongoRepository) SetFilePublic(ctx context.Context, id, ownerID string, public bool) (*File, bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, false, nil
	}
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, false, nil
	}

	var doc fileDoc
	err = r.files.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}, {Key: "userId", Value: owner}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "isPublic", Value: public}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, r.unavailable(ctx, "update file", err)
	}
	f := doc.model()
	return &f, true, nil
}

func (r *MongoRepository) CountUsers(ctx context.Context) (int64, error) {
	n, err := r.users.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, r.unavailable(ctx, "count users", err)
	}
	return n, nil
}

func (r *MongoRepository) CountFiles(ctx context.Context) (int64, error) {
	n, err := r.files.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, r.unavailable(ctx, "count files", err)
	}
	return n, nil
}

// Ping checks the connection to the server.
func (r *MongoRepository) Ping(ctx context.Context) error {
	if err := r.db.Client().Ping(ctx, nil); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

func (r *MongoRepository) unavailable(ctx context.Context, op string, err error) error {
	r.logger.ErrorContext(ctx, "mongo operation failed",
		logger.Component("repository"),
		slog.String("operation", op),
		logger.Error(err),
	)
	return errors.Join(ErrUnavailable, err)
}
