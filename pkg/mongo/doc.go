// Package mongo connects the API to MongoDB.
//
// Config is read from the environment (MONGODB_URL, MONGODB_DATABASE, pool and
// retry settings). New retries the initial connect and ping, which absorbs a
// database container that starts after the API:
//
//	db, err := mongo.NewWithDatabase(ctx, cfg.Mongo)
//	if err != nil {
//		return err
//	}
//	products := store.NewMongo[product.Product](db.Collection("products"))
//
// Healthcheck returns a ping function for the /healthz endpoint.
package mongo
