package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/orderfood/ordering-system/internal/core/domain"
	"github.com/orderfood/ordering-system/internal/infrastructure/authprovider"
)

const credentialsCollection = "auth_credentials"

// CredentialRepository stores the local auth provider's password credentials.
// This collection belongs to the provider, not to the application's users
// relation.
type CredentialRepository struct {
	coll *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{coll: db.Collection(credentialsCollection)}
}

type mongoCredential struct {
	ID           string `bson:"_id"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`
	DisplayName  string `bson:"display_name,omitempty"`
	Phone        string `bson:"phone,omitempty"`
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*authprovider.Credential, error) {
	var mc mongoCredential
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return &authprovider.Credential{
		ID:           mc.ID,
		Email:        mc.Email,
		PasswordHash: mc.PasswordHash,
		DisplayName:  mc.DisplayName,
		Phone:        mc.Phone,
	}, nil
}

// Insert registers a credential. Used by seeding tooling; the application
// itself never creates credentials (account provisioning is the provider's
// concern).
func (r *CredentialRepository) Insert(ctx context.Context, cred *authprovider.Credential) error {
	doc := mongoCredential{
		ID:           cred.ID,
		Email:        cred.Email,
		PasswordHash: cred.PasswordHash,
		DisplayName:  cred.DisplayName,
		Phone:        cred.Phone,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}
