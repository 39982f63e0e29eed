package orders

import (
	"context"

	"sewago/db"
	"sewago/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Display joins. Mongo has no populate; these are the explicit lookups the
// order and transaction listings share.

func LookupUserSummary(ctx context.Context, userID string) *models.UserSummary {
	if userID == "" {
		return nil
	}
	var u models.UserSummary
	if err := db.UserCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&u); err != nil {
		return nil
	}
	return &u
}

func LookupAddress(ctx context.Context, addressID string) *models.Address {
	if addressID == "" {
		return nil
	}
	var a models.Address
	if err := db.AddressCollection.FindOne(ctx, bson.M{"addressId": addressID}).Decode(&a); err != nil {
		return nil
	}
	return &a
}

func LookupWorkerContact(ctx context.Context, workerID string) *models.WorkerContact {
	if workerID == "" {
		return nil
	}
	var u models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userId": workerID}).Decode(&u); err != nil {
		return nil
	}
	return &models.WorkerContact{UserID: u.UserID, Name: u.Name, Mobile: u.Mobile}
}
