package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"sewago/db"
	"sewago/models"
	"sewago/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type addToCartRequest struct {
	ProductID      string   `json:"productId"`
	SelectedUnits  int      `json:"selectedUnits"`
	SelectedAddOns []string `json:"selectedAddOns"`
	Quantity       int      `json:"quantity"`
}

// AddToCart upserts a cart line for the user. Adding the same product again
// bumps its quantity; units and add-ons are replaced with the new selection.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		http.Error(w, "productId is required", http.StatusBadRequest)
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productId": req.ProductID}).Decode(&product); err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	// Selections below the product minimum are rejected here; the calculator
	// floors independently, so a stale client cannot under-pay either way.
	if product.PricingModel != models.PricingFixed && req.SelectedUnits > 0 && req.SelectedUnits < product.MinUnits {
		http.Error(w, "selectedUnits below product minimum", http.StatusBadRequest)
		return
	}

	filter := bson.M{"userId": userID, "productId": req.ProductID}
	update := bson.M{
		"$inc": bson.M{"quantity": req.Quantity},
		"$set": bson.M{
			"selectedUnits":  req.SelectedUnits,
			"selectedAddOns": req.SelectedAddOns,
			"addedAt":        time.Now(),
		},
		"$setOnInsert": bson.M{
			"id": utils.GetUUID(),
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := db.CartCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		log.Println("AddToCart UpdateOne error:", err)
		http.Error(w, "Failed to add to cart", http.StatusInternalServerError)
		return
	}

	utils.SendResponse(w, http.StatusCreated, nil, "Item added to cart", nil)
}

// UpdateCartItem sets the quantity of a line; zero removes it.
func UpdateCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	productID := ps.ByName("productid")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity < 0 {
		http.Error(w, "Invalid quantity", http.StatusBadRequest)
		return
	}

	filter := bson.M{"userId": userID, "productId": productID}

	if req.Quantity == 0 {
		res, err := db.CartCollection.DeleteOne(ctx, filter)
		if err != nil {
			http.Error(w, "Failed to update cart", http.StatusInternalServerError)
			return
		}
		if res.DeletedCount == 0 {
			http.Error(w, "Cart item not found", http.StatusNotFound)
			return
		}
		utils.SendResponse(w, http.StatusOK, nil, "Item removed", nil)
		return
	}

	res, err := db.CartCollection.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{"quantity": req.Quantity, "addedAt": time.Now()},
	})
	if err != nil {
		http.Error(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Cart item not found", http.StatusNotFound)
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Cart updated", nil)
}

// DeleteCartItem removes one line from the user's cart.
func DeleteCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	productID := ps.ByName("productid")

	res, err := db.CartCollection.DeleteOne(ctx, bson.M{"userId": userID, "productId": productID})
	if err != nil {
		http.Error(w, "Failed to delete item", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Cart item not found", http.StatusNotFound)
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Cart item deleted", nil)
}

// ClearCart drops every line for the user.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := ClearUserCart(ctx, userID); err != nil {
		http.Error(w, "Failed to clear cart", http.StatusInternalServerError)
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Cart cleared", nil)
}

// ClearUserCart removes all cart lines for a user. Checkout calls this after
// the order write lands.
func ClearUserCart(ctx context.Context, userID string) error {
	_, err := db.CartCollection.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

// ItemsForUser loads the raw cart lines for a user.
func ItemsForUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	cursor, err := db.CartCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetCart returns the user's cart lines re-quoted against the live catalog,
// with cart-level totals and the current delivery surcharge.
func GetCart(agg *Aggregator) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		userID := utils.GetUserIDFromRequest(r)
		if userID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := ItemsForUser(ctx, userID)
		if err != nil {
			log.Println("GetCart Find error:", err)
			http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
			return
		}

		totals, priced, err := agg.Aggregate(ctx, items)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				http.Error(w, "Cart references an unknown product", http.StatusConflict)
				return
			}
			log.Println("GetCart aggregate error:", err)
			http.Error(w, "Could not price cart", http.StatusInternalServerError)
			return
		}

		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"items":  priced,
			"totals": totals,
		})
	}
}
