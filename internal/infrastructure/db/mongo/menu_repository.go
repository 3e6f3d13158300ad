package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/orderfood/ordering-system/internal/core/domain"
)

const (
	menusCollection  = "menus"
	dishesCollection = "dishes"
)

type MenuRepository struct {
	menus  *mongo.Collection
	dishes *mongo.Collection
}

func NewMenuRepository(db *mongo.Database) *MenuRepository {
	return &MenuRepository{
		menus:  db.Collection(menusCollection),
		dishes: db.Collection(dishesCollection),
	}
}

type mongoMenu struct {
	ID          string `bson:"_id"`
	MenuDate    string `bson:"menu_date"`
	IsPublished bool   `bson:"is_published"`
	PublishedAt int64  `bson:"published_at,omitempty"`
	CreatedBy   string `bson:"created_by,omitempty"`
	CreatedAt   int64  `bson:"created_at"`
	UpdatedAt   int64  `bson:"updated_at"`
}

func (mm *mongoMenu) toDomain() *domain.Menu {
	menu := &domain.Menu{
		ID:          mm.ID,
		MenuDate:    mm.MenuDate,
		IsPublished: mm.IsPublished,
		CreatedBy:   mm.CreatedBy,
		CreatedAt:   unixToTime(mm.CreatedAt),
		UpdatedAt:   unixToTime(mm.UpdatedAt),
	}
	if mm.PublishedAt != 0 {
		at := unixToTime(mm.PublishedAt)
		menu.PublishedAt = &at
	}
	return menu
}

type mongoDish struct {
	ID                string  `bson:"_id"`
	MenuID            string  `bson:"menu_id"`
	Name              string  `bson:"name"`
	Description       string  `bson:"description,omitempty"`
	Price             float64 `bson:"price"`
	ImageURL          string  `bson:"image_url,omitempty"`
	Category          string  `bson:"category"`
	InitialQuantity   int     `bson:"initial_quantity"`
	AvailableQuantity int     `bson:"available_quantity"`
	CreatedAt         int64   `bson:"created_at"`
	UpdatedAt         int64   `bson:"updated_at"`
}

func (md *mongoDish) toDomain() *domain.Dish {
	return &domain.Dish{
		ID:                md.ID,
		MenuID:            md.MenuID,
		Name:              md.Name,
		Description:       md.Description,
		Price:             md.Price,
		ImageURL:          md.ImageURL,
		Category:          domain.DishCategory(md.Category),
		InitialQuantity:   md.InitialQuantity,
		AvailableQuantity: md.AvailableQuantity,
		CreatedAt:         unixToTime(md.CreatedAt),
		UpdatedAt:         unixToTime(md.UpdatedAt),
	}
}

func (r *MenuRepository) CreateMenu(ctx context.Context, m *domain.Menu) error {
	doc := mongoMenu{
		ID:        m.ID,
		MenuDate:  m.MenuDate,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt.Unix(),
		UpdatedAt: m.UpdatedAt.Unix(),
	}
	if _, err := r.menus.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrMenuExists
		}
		return fmt.Errorf("insert menu: %w", err)
	}
	return nil
}

func (r *MenuRepository) FindMenuByID(ctx context.Context, id string) (*domain.Menu, error) {
	return r.findMenu(ctx, bson.M{"_id": id})
}

func (r *MenuRepository) FindMenuByDate(ctx context.Context, date string) (*domain.Menu, error) {
	return r.findMenu(ctx, bson.M{"menu_date": date})
}

func (r *MenuRepository) Publish(ctx context.Context, id string, at time.Time) error {
	res, err := r.menus.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_published": true, "published_at": at.Unix(), "updated_at": at.Unix()}},
	)
	if err != nil {
		return fmt.Errorf("publish menu: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrMenuNotFound
	}
	return nil
}

func (r *MenuRepository) InsertDish(ctx context.Context, d *domain.Dish) error {
	doc := mongoDish{
		ID:                d.ID,
		MenuID:            d.MenuID,
		Name:              d.Name,
		Description:       d.Description,
		Price:             d.Price,
		ImageURL:          d.ImageURL,
		Category:          string(d.Category),
		InitialQuantity:   d.InitialQuantity,
		AvailableQuantity: d.AvailableQuantity,
		CreatedAt:         d.CreatedAt.Unix(),
		UpdatedAt:         d.UpdatedAt.Unix(),
	}
	if _, err := r.dishes.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert dish: %w", err)
	}
	return nil
}

func (r *MenuRepository) FindDishByID(ctx context.Context, id string) (*domain.Dish, error) {
	var md mongoDish
	if err := r.dishes.FindOne(ctx, bson.M{"_id": id}).Decode(&md); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrDishNotFound
		}
		return nil, fmt.Errorf("find dish: %w", err)
	}
	return md.toDomain(), nil
}

func (r *MenuRepository) ListDishes(ctx context.Context, menuID string) ([]*domain.Dish, error) {
	cursor, err := r.dishes.Find(ctx, bson.M{"menu_id": menuID})
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	defer cursor.Close(ctx)

	var dishes []*domain.Dish
	for cursor.Next(ctx) {
		var md mongoDish
		if err := cursor.Decode(&md); err != nil {
			return nil, fmt.Errorf("list dishes: decode: %w", err)
		}
		dishes = append(dishes, md.toDomain())
	}
	return dishes, cursor.Err()
}

// DecrementDishStock atomically takes qty units of stock. The filter requires
// enough remaining stock, so concurrent orders can never drive availability
// below zero.
func (r *MenuRepository) DecrementDishStock(ctx context.Context, dishID string, qty int) error {
	res, err := r.dishes.UpdateOne(ctx,
		bson.M{"_id": dishID, "available_quantity": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"available_quantity": -qty}},
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if res.MatchedCount == 0 {
		// Distinguish missing dish from exhausted stock.
		if _, findErr := r.FindDishByID(ctx, dishID); findErr != nil {
			return findErr
		}
		return domain.ErrDishUnavailable
	}
	return nil
}

// RestoreDishStock gives back qty units taken by a decrement whose order did
// not go through.
func (r *MenuRepository) RestoreDishStock(ctx context.Context, dishID string, qty int) error {
	res, err := r.dishes.UpdateOne(ctx,
		bson.M{"_id": dishID},
		bson.M{"$inc": bson.M{"available_quantity": qty}},
	)
	if err != nil {
		return fmt.Errorf("restore stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrDishNotFound
	}
	return nil
}

func (r *MenuRepository) findMenu(ctx context.Context, filter bson.M) (*domain.Menu, error) {
	var mm mongoMenu
	if err := r.menus.FindOne(ctx, filter).Decode(&mm); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrMenuNotFound
		}
		return nil, fmt.Errorf("find menu: %w", err)
	}
	return mm.toDomain(), nil
}
