package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/orderfood/ordering-system/internal/core/domain"
	"github.com/orderfood/ordering-system/internal/core/ports"
)

const usersCollection = "users"

// mongoUser is the stored shape of a user row. user_id is the reconciled
// identity id; it lives outside _id because _id is immutable in MongoDB and
// relinkage must be able to rewrite it.
type mongoUser struct {
	UserID    string `bson:"user_id"`
	Email     string `bson:"email"`
	FullName  string `bson:"full_name,omitempty"`
	Phone     string `bson:"phone,omitempty"`
	CompanyID string `bson:"company_id,omitempty"`
	Role      string `bson:"role"`
	IsActive  bool   `bson:"is_active"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func toDoc(u *domain.User) mongoUser {
	return mongoUser{
		UserID:    u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		CompanyID: u.CompanyID,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Unix(),
		UpdatedAt: u.UpdatedAt.Unix(),
	}
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:        mu.UserID,
		Email:     mu.Email,
		FullName:  mu.FullName,
		Phone:     mu.Phone,
		CompanyID: mu.CompanyID,
		Role:      mu.Role,
		IsActive:  mu.IsActive,
		CreatedAt: unixToTime(mu.CreatedAt),
		UpdatedAt: unixToTime(mu.UpdatedAt),
	}
}

// ElevatedUserRepository is the unrestricted capability over the users
// collection. Construct it once at startup and hand it only to the
// reconciler, the authorizer, and the admin service.
type ElevatedUserRepository struct {
	coll *mongo.Collection
}

func NewElevatedUserRepository(db *mongo.Database) *ElevatedUserRepository {
	return &ElevatedUserRepository{coll: db.Collection(usersCollection)}
}

func (r *ElevatedUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"user_id": id})
}

func (r *ElevatedUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *ElevatedUserRepository) Insert(ctx context.Context, user *domain.User) error {
	if _, err := r.coll.InsertOne(ctx, toDoc(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Relink rewrites the row's identity id, keyed by email. Repeating the write
// with the same id is a no-op, which keeps concurrent relink attempts for the
// same sign-in safe.
func (r *ElevatedUserRepository) Relink(ctx context.Context, email, newID string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"user_id": newID, "updated_at": at.Unix()}},
	)
	if err != nil {
		return fmt.Errorf("relink user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *ElevatedUserRepository) SetFullName(ctx context.Context, id, fullName string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": id},
		bson.M{"$set": bson.M{"full_name": fullName, "updated_at": at.Unix()}},
	)
	if err != nil {
		return fmt.Errorf("set full name: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *ElevatedUserRepository) Update(ctx context.Context, id string, upd ports.UserUpdate, at time.Time) (*domain.User, error) {
	set := bson.M{"updated_at": at.Unix()}
	if upd.FullName != nil {
		set["full_name"] = *upd.FullName
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.CompanyID != nil {
		set["company_id"] = *upd.CompanyID
	}
	if upd.Role != nil {
		set["role"] = *upd.Role
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"user_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *ElevatedUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	for cursor.Next(ctx) {
		var mu mongoUser
		if err := cursor.Decode(&mu); err != nil {
			return nil, fmt.Errorf("list users: decode: %w", err)
		}
		users = append(users, mu.toDomain())
	}
	return users, cursor.Err()
}

func (r *ElevatedUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// RestrictedUserRepository is the ordinary capability: every query carries
// the caller's own id, the MongoDB rendition of a row-level policy keyed on
// id == caller.
type RestrictedUserRepository struct {
	coll *mongo.Collection
}

func NewRestrictedUserRepository(db *mongo.Database) *RestrictedUserRepository {
	return &RestrictedUserRepository{coll: db.Collection(usersCollection)}
}

func (r *RestrictedUserRepository) FindOwn(ctx context.Context, callerID string) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"user_id": callerID}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find own user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *RestrictedUserRepository) UpdateOwnProfile(ctx context.Context, callerID, fullName, phone string, at time.Time) (*domain.User, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": callerID},
		bson.M{"$set": bson.M{"full_name": fullName, "phone": phone, "updated_at": at.Unix()}},
	)
	if err != nil {
		return nil, fmt.Errorf("update own profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindOwn(ctx, callerID)
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
