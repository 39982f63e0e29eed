package products

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"sewago/db"
	"sewago/models"
	"sewago/pricing"
	"sewago/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetProduct returns one product by id.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productId": ps.ByName("productid")}).Decode(&product); err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

// ListProducts returns published products, newest first.
func ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := db.ProductCollection.Find(ctx, bson.M{"publish": true}, opts)
	if err != nil {
		http.Error(w, "Failed to fetch products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Product
	if err := cursor.All(ctx, &list); err != nil {
		http.Error(w, "Failed to fetch products", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// QuoteProduct settles a selection against the live product record so that
// client previews and checkout run the exact same arithmetic.
func QuoteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var sel pricing.Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productId": ps.ByName("productid")}).Decode(&product); err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	quote := pricing.Compute(&product, sel)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"productId": product.ProductID,
		"unitLabel": pricing.UnitLabel(&product),
		"quote":     quote,
	})
}
