package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureCustomerIndexes creates the unique phone index. Phone is the sole
// natural key; the index turns the concurrent create/create race into a
// duplicate-key error the directory retries as an update.
func EnsureCustomerIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	phoneIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "phone", Value: 1}},
		Options: options.Index().
			SetName("phone_unique").
			SetUnique(true),
	}

	log.Println("EnsureCustomerIndexes: creating phone_unique index")
	_, err := db.Collection("customers").Indexes().CreateOne(ctx, phoneIndex)
	if err != nil {
		log.Println("EnsureCustomerIndexes: phone index error:", err)
		return err
	}
	return nil
}

// EnsureOrderIndexes creates the listing sort index and the partial unique
// index backing checkout request-token dedup.
func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	createdAtIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	}

	log.Println("EnsureOrderIndexes: creating createdAt_desc index")
	if _, err := indexes.CreateOne(ctx, createdAtIndex); err != nil {
		log.Println("EnsureOrderIndexes: createdAt index error:", err)
		return err
	}

	tokenIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "requestToken", Value: 1}},
		Options: options.Index().
			SetName("requestToken_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"requestToken": bson.M{"$type": "string"},
			}),
	}

	log.Println("EnsureOrderIndexes: creating requestToken_unique index")
	if _, err := indexes.CreateOne(ctx, tokenIndex); err != nil {
		log.Println("EnsureOrderIndexes: requestToken index error:", err)
		return err
	}
	return nil
}

// EnsureAdminIndexes creates the unique admin username index.
func EnsureAdminIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	usernameIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}},
		Options: options.Index().
			SetName("username_unique").
			SetUnique(true),
	}

	log.Println("EnsureAdminIndexes: creating username_unique index")
	_, err := db.Collection("admins").Indexes().CreateOne(ctx, usernameIndex)
	if err != nil {
		log.Println("EnsureAdminIndexes: username index error:", err)
		return err
	}
	return nil
}
