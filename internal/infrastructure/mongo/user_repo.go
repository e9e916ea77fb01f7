package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/baechuer/userhub/internal/application/user"
	"github.com/baechuer/userhub/internal/domain"
)

const userCollection = "app_user"

type UserRepo struct {
	coll *mongo.Collection
}

func NewUserRepo(c *Client) *UserRepo {
	return &UserRepo{coll: c.Database().Collection(userCollection)}
}

// userDoc is the stored shape of a user. Field names match the filter keys
// accepted at the transport boundary.
type userDoc struct {
	UserID          string    `bson:"user_id"`
	Username        string    `bson:"username"`
	FirstName       string    `bson:"first_name"`
	LastName        string    `bson:"last_name"`
	Email           string    `bson:"email"`
	HashedPassword  string    `bson:"hashed_password"`
	IsActive        bool      `bson:"is_active"`
	Roles           []string  `bson:"roles"`
	Age             int       `bson:"age"`
	CreatedBy       string    `bson:"created_by,omitempty"`
	CreatedDate     time.Time `bson:"created_date,omitempty"`
	LastUpdatedBy   string    `bson:"last_updated_by,omitempty"`
	LastUpdatedDate time.Time `bson:"last_updated_date,omitempty"`
}

func toDoc(u domain.User) userDoc {
	return userDoc{
		UserID:          u.UserID,
		Username:        u.Username,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		HashedPassword:  u.PasswordHash,
		IsActive:        u.IsActive,
		Roles:           u.Roles,
		Age:             u.Age,
		CreatedBy:       u.CreatedBy,
		CreatedDate:     u.CreatedDate,
		LastUpdatedBy:   u.LastUpdatedBy,
		LastUpdatedDate: u.LastUpdatedDate,
	}
}

func (d userDoc) toDomain() domain.User {
	return domain.User{
		UserID:          d.UserID,
		Username:        d.Username,
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		Email:           d.Email,
		PasswordHash:    d.HashedPassword,
		IsActive:        d.IsActive,
		Roles:           d.Roles,
		Age:             d.Age,
		CreatedBy:       d.CreatedBy,
		CreatedDate:     d.CreatedDate,
		LastUpdatedBy:   d.LastUpdatedBy,
		LastUpdatedDate: d.LastUpdatedDate,
	}
}

// EnsureIndexes creates the unique username/email indexes. Safe to call on
// every startup; index creation is idempotent.
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
	})
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	_, err := r.coll.InsertOne(ctx, toDoc(u))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, duplicateKeyError(err)
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return u, nil
}

// duplicateKeyError maps a unique-index violation to the conflicting field.
// The server names the violated index in the error message (username_1 or
// email_1). Both conflicts are reachable here despite the service-layer
// pre-checks, since two inserts can race past them.
func duplicateKeyError(err error) error {
	if strings.Contains(err.Error(), "email") {
		return domain.ErrEmailAlreadyExists()
	}
	return domain.ErrUsernameAlreadyExists()
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (domain.User, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepo) List(ctx context.Context, q user.ListQuery) ([]domain.User, error) {
	sortDoc := bson.D{}
	for _, f := range q.Sort {
		dir := 1
		if f.Desc {
			dir = -1
		}
		sortDoc = append(sortDoc, bson.E{Key: f.Key, Value: dir})
	}

	opts := options.Find().SetSkip(q.Page).SetLimit(q.Limit)
	if len(sortDoc) > 0 {
		opts = opts.SetSort(sortDoc)
	}

	cur, err := r.coll.Find(ctx, filterDoc(q.Filter), opts)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer cur.Close(ctx)

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}

	users := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}

func (r *UserRepo) Count(ctx context.Context, filter map[string]any) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, filterDoc(filter))
	if err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	return n, nil
}

func (r *UserRepo) Update(ctx context.Context, userID string, p user.Patch) (domain.User, error) {
	set := bson.M{
		"last_updated_by":   p.LastUpdatedBy,
		"last_updated_date": p.LastUpdatedDate,
	}
	if p.FirstName != nil {
		set["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		set["last_name"] = *p.LastName
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.IsActive != nil {
		set["is_active"] = *p.IsActive
	}
	if p.Roles != nil {
		set["roles"] = p.Roles
	}
	if p.Age != nil {
		set["age"] = *p.Age
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	if res.MatchedCount == 0 {
		return domain.User{}, domain.ErrUserNotFound()
	}

	return r.GetByID(ctx, userID)
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"hashed_password": newHash}},
	)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func filterDoc(filter map[string]any) bson.M {
	if len(filter) == 0 {
		return bson.M{}
	}
	return bson.M(filter)
}
