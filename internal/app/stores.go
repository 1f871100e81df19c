package app

import (
	"context"

	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/address"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/blog"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/cart"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/contact"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/coupon"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/newsletter"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/notification"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/order"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/product"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/review"
	"github.com/jonh-steve/RunOut-Biliard-sub002/modules/user"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
)

// Stores holds one collection per resource.
type Stores struct {
	Users         store.Collection[user.User]
	Products      store.Collection[product.Product]
	Orders        store.Collection[order.Order]
	Carts         store.Collection[cart.Cart]
	Reviews       store.Collection[review.Review]
	Addresses     store.Collection[address.Address]
	Contacts      store.Collection[contact.Contact]
	Notifications store.Collection[notification.Notification]
	Subscribers   store.Collection[newsletter.Subscriber]
	Coupons       store.Collection[coupon.Coupon]
	Posts         store.Collection[blog.Post]
}

// Unique constraints per collection name.
var uniqueKeys = map[string][][]string{
	"users":       {{"email"}},
	"carts":       {{"user"}},
	"reviews":     {{"user", "product"}},
	"newsletters": {{"email"}},
	"coupons":     {{"code"}},
	"blogs":       {{"slug"}},
}

// MemoryStores returns in-process collections with the same unique
// constraints as MongoStores.
func MemoryStores() Stores {
	return Stores{
		Users:         memory[user.User]("users"),
		Products:      memory[product.Product]("products"),
		Orders:        memory[order.Order]("orders"),
		Carts:         memory[cart.Cart]("carts"),
		Reviews:       memory[review.Review]("reviews"),
		Addresses:     memory[address.Address]("addresses"),
		Contacts:      memory[contact.Contact]("contacts"),
		Notifications: memory[notification.Notification]("notifications"),
		Subscribers:   memory[newsletter.Subscriber]("newsletters"),
		Coupons:       memory[coupon.Coupon]("coupons"),
		Posts:         memory[blog.Post]("blogs"),
	}
}

func memory[T any](name string) *store.Memory[T] {
	var opts []store.MemoryOption
	for _, fields := range uniqueKeys[name] {
		opts = append(opts, store.WithUniqueFields(fields...))
	}
	return store.NewMemory[T](opts...)
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// MongoStores returns collections of db and creates their unique indexes.
func MongoStores(ctx context.Context, db *mongodriver.Database) (Stores, error) {
	var idx []indexer
	s := Stores{
		Users:         collection[user.User](db, "users", &idx),
		Products:      collection[product.Product](db, "products", &idx),
		Orders:        collection[order.Order](db, "orders", &idx),
		Carts:         collection[cart.Cart](db, "carts", &idx),
		Reviews:       collection[review.Review](db, "reviews", &idx),
		Addresses:     collection[address.Address](db, "addresses", &idx),
		Contacts:      collection[contact.Contact](db, "contacts", &idx),
		Notifications: collection[notification.Notification](db, "notifications", &idx),
		Subscribers:   collection[newsletter.Subscriber](db, "newsletters", &idx),
		Coupons:       collection[coupon.Coupon](db, "coupons", &idx),
		Posts:         collection[blog.Post](db, "blogs", &idx),
	}
	for _, c := range idx {
		if err := c.EnsureIndexes(ctx); err != nil {
			return Stores{}, err
		}
	}
	return s, nil
}

func collection[T any](db *mongodriver.Database, name string, idx *[]indexer) *store.Mongo[T] {
	var opts []store.MongoOption
	for _, fields := range uniqueKeys[name] {
		opts = append(opts, store.WithUniqueIndex(fields...))
	}
	c := store.NewMongo[T](db.Collection(name), opts...)
	*idx = append(*idx, c)
	return c
}
