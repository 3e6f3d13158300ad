package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/orderfood/ordering-system/internal/core/domain"
)

const companiesCollection = "companies"

type CompanyRepository struct {
	coll *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{coll: db.Collection(companiesCollection)}
}

type mongoCompany struct {
	ID        string `bson:"_id"`
	Name      string `bson:"name"`
	IsActive  bool   `bson:"is_active"`
	CreatedAt int64  `bson:"created_at"`
}

func (mc *mongoCompany) toDomain() *domain.Company {
	return &domain.Company{
		ID:        mc.ID,
		Name:      mc.Name,
		IsActive:  mc.IsActive,
		CreatedAt: time.Unix(mc.CreatedAt, 0).UTC(),
	}
}

func (r *CompanyRepository) Create(ctx context.Context, c *domain.Company) error {
	doc := mongoCompany{ID: c.ID, Name: c.Name, IsActive: c.IsActive, CreatedAt: c.CreatedAt.Unix()}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrCompanyExists
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*domain.Company, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *CompanyRepository) FindByName(ctx context.Context, name string) (*domain.Company, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *CompanyRepository) List(ctx context.Context) ([]*domain.Company, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer cursor.Close(ctx)

	var companies []*domain.Company
	for cursor.Next(ctx) {
		var mc mongoCompany
		if err := cursor.Decode(&mc); err != nil {
			return nil, fmt.Errorf("list companies: decode: %w", err)
		}
		companies = append(companies, mc.toDomain())
	}
	return companies, cursor.Err()
}

func (r *CompanyRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_active": active}})
	if err != nil {
		return fmt.Errorf("set company active: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCompanyNotFound
	}
	return nil
}

func (r *CompanyRepository) findOne(ctx context.Context, filter bson.M) (*domain.Company, error) {
	var mc mongoCompany
	if err := r.coll.FindOne(ctx, filter).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return mc.toDomain(), nil
}
