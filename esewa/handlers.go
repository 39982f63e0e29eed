package esewa

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"sewago/cart"
	"sewago/db"
	"sewago/models"
	"sewago/mq"
	"sewago/orders"
	"sewago/rdx"
	"sewago/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// checkoutLockTTL bounds how long a user's checkout lock is held.
const checkoutLockTTL = 10 * time.Second

type initiateRequest struct {
	AddressID string `json:"addressId"`
}

// InitiatePayment starts the gateway checkout path: the cart is settled
// server side, the gateway is asked for a payment session, and only on
// acceptance is a pending transaction persisted. The cart is NOT cleared
// here — that happens once the gateway reports the payment complete, so both
// payment paths converge on the same post-condition.
func InitiatePayment(agg *cart.Aggregator, client *Client) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
		defer cancel()

		userID := utils.GetUserIDFromRequest(r)
		if userID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req initiateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
			return
		}
		if req.AddressID == "" {
			http.Error(w, "addressId is required", http.StatusBadRequest)
			return
		}

		// Replay: a duplicate initiate must not create a second transaction.
		idempotencyKey := r.Header.Get("Idempotency-Key")
		if idempotencyKey != "" {
			var existing models.Transaction
			if err := db.TransactionCollection.FindOne(ctx, bson.M{"external_ref": idempotencyKey, "userId": userID}).Decode(&existing); err == nil {
				utils.RespondWithJSON(w, http.StatusOK, utils.M{"url": existing.PaymentURL, "transactionId": existing.TransactionID})
				return
			}
		}

		// One checkout in flight per user.
		acquired, err := rdx.RdxSetNX("checkout_lock:"+userID, "1", checkoutLockTTL)
		if err != nil || !acquired {
			http.Error(w, "Checkout already in progress, please retry", http.StatusTooManyRequests)
			return
		}
		defer rdx.RdxDel("checkout_lock:" + userID)

		items, err := cart.ItemsForUser(ctx, userID)
		if err != nil {
			http.Error(w, "Could not load cart", http.StatusInternalServerError)
			return
		}
		if len(items) == 0 {
			http.Error(w, "Cart is empty", http.StatusBadRequest)
			return
		}

		totals, priced, err := agg.Aggregate(ctx, items)
		if err != nil {
			log.Println("InitiatePayment aggregate error:", err)
			http.Error(w, "Could not price cart", http.StatusInternalServerError)
			return
		}

		orderRef := "TXN-" + utils.GetUUID()

		redirectURL, err := client.Initiate(ctx, totals.GrandTotal, orderRef)
		if err != nil {
			// Gateway rejection leaves no partial record behind.
			log.Println("InitiatePayment gateway error:", err)
			http.Error(w, "Payment gateway unavailable", http.StatusBadGateway)
			return
		}

		txn := models.Transaction{
			TransactionID:   orderRef,
			UserID:          userID,
			ProductRef:      orderRef,
			Amount:          totals.GrandTotal,
			ProductDetails:  orders.Snapshot(priced),
			TotalQty:        totals.TotalQty,
			DeliveryAddress: req.AddressID,
			Status:          "PENDING",
			OrderStatus:     orders.StatusPending,
			Worker:          "",
			Revision:        1,
			PaymentURL:      redirectURL,
			IdempotencyKey:  idempotencyKey,
			CartCleared:     false,
			CreatedAt:       time.Now(),
			UpdatedAt:       time.Now(),
		}

		if _, err := db.TransactionCollection.InsertOne(ctx, txn); err != nil {
			log.Println("InitiatePayment insert error:", err)
			http.Error(w, "Failed to record transaction", http.StatusInternalServerError)
			return
		}

		mq.EmitOrderEvent(mq.OrderEvent{
			Kind:          mq.KindOrderCreated,
			OrderID:       txn.TransactionID,
			UserID:        userID,
			OrderStatus:   txn.OrderStatus,
			PaymentStatus: txn.Status,
		})

		utils.RespondWithJSON(w, http.StatusOK, utils.M{"url": redirectURL, "transactionId": txn.TransactionID})
	}
}

type statusCheckRequest struct {
	ProductRef string `json:"productRef"`
}

// PaymentStatus is the pull-based reconciliation step: look up the persisted
// transaction, ask the gateway where the money actually is, and store the
// gateway's answer. A COMPLETE payment also clears the user's cart, finishing
// the checkout post-condition the initiate call deferred.
func PaymentStatus(client *Client) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
		defer cancel()

		var req statusCheckRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductRef == "" {
			http.Error(w, "productRef is required", http.StatusBadRequest)
			return
		}

		var txn models.Transaction
		if err := db.TransactionCollection.FindOne(ctx, bson.M{"product_id": req.ProductRef}).Decode(&txn); err != nil {
			if err == mongo.ErrNoDocuments {
				http.Error(w, "Transaction not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to load transaction", http.StatusInternalServerError)
			return
		}

		result, err := client.CheckStatus(ctx, txn.Amount, txn.ProductRef)
		if err != nil {
			log.Println("PaymentStatus gateway error:", err)
			http.Error(w, "Payment gateway unavailable", http.StatusBadGateway)
			return
		}

		update := bson.M{
			"status":    result.Status,
			"updatedAt": time.Now(),
		}

		clearCart := result.Status == StatusComplete && !txn.CartCleared
		if clearCart {
			update["cartCleared"] = true
		}

		if _, err := db.TransactionCollection.UpdateOne(ctx,
			bson.M{"transactionId": txn.TransactionID},
			bson.M{"$set": update, "$inc": bson.M{"revision": 1}},
		); err != nil {
			http.Error(w, "Failed to update transaction", http.StatusInternalServerError)
			return
		}

		if clearCart {
			if err := cart.ClearUserCart(ctx, txn.UserID); err != nil {
				// The status update already landed; the cart clear retries on
				// the next poll because cartCleared is only set together with
				// a successful clear below.
				log.Printf("PaymentStatus cart clear failed for %s: %v", txn.UserID, err)
				_, _ = db.TransactionCollection.UpdateOne(ctx,
					bson.M{"transactionId": txn.TransactionID},
					bson.M{"$set": bson.M{"cartCleared": false}},
				)
			}
		}

		mq.EmitOrderEvent(mq.OrderEvent{
			Kind:          mq.KindPaymentUpdate,
			OrderID:       txn.TransactionID,
			UserID:        txn.UserID,
			PaymentStatus: result.Status,
		})

		utils.SendResponse(w, http.StatusOK, utils.M{"status": result.Status, "refId": result.RefID},
			"Transaction status updated successfully", nil)
	}
}

// UpdateTransactionStatus is the worker-assignment transition for the gateway
// path; same gate and compare-and-swap as the cash-on-delivery orders.
func UpdateTransactionStatus(flow *orders.StatusFlow) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		txnID := ps.ByName("orderid")
		workerID := utils.GetUserIDFromRequest(r)
		if workerID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var worker models.User
		if err := db.UserCollection.FindOne(ctx, bson.M{"userId": workerID}).Decode(&worker); err != nil || !worker.HasRole(models.RoleWorker) {
			http.Error(w, "Only workers can accept orders", http.StatusForbidden)
			return
		}

		var req struct {
			OrderStatus      string `json:"orderStatus"`
			ExpectedRevision int    `json:"expectedRevision"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderStatus == "" {
			http.Error(w, "orderStatus is required", http.StatusBadRequest)
			return
		}

		var current models.Transaction
		if err := db.TransactionCollection.FindOne(ctx, bson.M{"transactionId": txnID}).Decode(&current); err != nil {
			if err == mongo.ErrNoDocuments {
				http.Error(w, "Order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to load transaction", http.StatusInternalServerError)
			return
		}

		if !flow.CanTransition(current.OrderStatus, req.OrderStatus) {
			http.Error(w, "Illegal status transition", http.StatusUnprocessableEntity)
			return
		}

		expected := req.ExpectedRevision
		if expected == 0 {
			expected = current.Revision
		}

		res := db.TransactionCollection.FindOneAndUpdate(ctx,
			bson.M{"transactionId": txnID, "revision": expected},
			bson.M{
				"$set": bson.M{
					"orderStatus": req.OrderStatus,
					"worker":      workerID,
					"updatedAt":   time.Now(),
				},
				"$inc": bson.M{"revision": 1},
			},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		)

		var updated models.Transaction
		if err := res.Decode(&updated); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				http.Error(w, "Order was modified concurrently, retry", http.StatusConflict)
				return
			}
			http.Error(w, "Failed to update transaction", http.StatusInternalServerError)
			return
		}

		updated.WorkerInfo = orders.LookupWorkerContact(ctx, updated.Worker)

		mq.EmitOrderEvent(mq.OrderEvent{
			Kind:        mq.KindStatusUpdated,
			OrderID:     updated.TransactionID,
			UserID:      updated.UserID,
			OrderStatus: updated.OrderStatus,
			Worker:      updated.Worker,
		})

		utils.SendResponse(w, http.StatusOK, updated, "Order status updated successfully!", nil)
	}
}

func populate(ctx context.Context, list []models.Transaction) {
	for i := range list {
		list[i].User = orders.LookupUserSummary(ctx, list[i].UserID)
		list[i].Address = orders.LookupAddress(ctx, list[i].DeliveryAddress)
		list[i].WorkerInfo = orders.LookupWorkerContact(ctx, list[i].Worker)
	}
}

func findTransactions(ctx context.Context, filter bson.M) ([]models.Transaction, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := db.TransactionCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var list []models.Transaction
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	populate(ctx, list)
	return list, nil
}

// GetUserTransactions lists the caller's gateway transactions, newest first.
func GetUserTransactions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	list, err := findTransactions(ctx, bson.M{"userId": userID})
	if err != nil {
		log.Println("GetUserTransactions error:", err)
		http.Error(w, "Failed to fetch transactions", http.StatusInternalServerError)
		return
	}

	utils.SendResponse(w, http.StatusOK, list, "User orders fetched successfully!", nil)
}

// GetAllTransactions lists every gateway transaction.
func GetAllTransactions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, err := findTransactions(ctx, bson.M{})
	if err != nil {
		log.Println("GetAllTransactions error:", err)
		http.Error(w, "Failed to fetch transactions", http.StatusInternalServerError)
		return
	}

	utils.SendResponse(w, http.StatusOK, list, "All Transaction Fetched.", nil)
}
