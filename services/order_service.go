package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pawfinder/pawfinder-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderService owns the order lifecycle: the availability guard that
// serializes reservations on a dog, the status transition table, and
// the shipment tracking sub-state. Every mutating operation runs in a
// single transaction and returns the outbound notification events for
// the caller to dispatch after commit.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates an order service bound to the given database
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// ReserveInput carries the buyer contact details captured with a reservation
type ReserveInput struct {
	BuyerName  string
	BuyerEmail string
	BuyerPhone string
	Message    *string
}

// Reserve creates a pending order for the dog and flips the dog to
// pending, holding an exclusive row lock on the dog for the duration of
// the check-and-set. Under concurrent attempts exactly one buyer wins;
// the others get ErrUnavailable with no side effects.
func (s *OrderService) Reserve(buyer *models.User, dogID uint, input ReserveInput) (*models.Order, []Event, error) {
	if buyer.IsSeller() {
		return nil, nil, ErrForbidden
	}

	var order models.Order
	var dog models.Dog

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Exclusive lock on the dog row serializes concurrent buyers;
		// released on commit or rollback.
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&dog, dogID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if dog.SellerID == buyer.ID {
			return ErrForbidden
		}

		var activeCount int64
		if err := tx.Model(&models.Order{}).
			Where("dog_id = ? AND buyer_id = ? AND status IN ?", dog.ID, buyer.ID,
				[]string{models.OrderStatusPending, models.OrderStatusConfirmed}).
			Count(&activeCount).Error; err != nil {
			return err
		}
		if activeCount > 0 {
			return ErrDuplicateActiveOrder
		}

		if dog.Status != models.DogStatusAvailable {
			return ErrUnavailable
		}

		order = models.Order{
			BuyerID:        buyer.ID,
			DogID:          dog.ID,
			Status:         models.OrderStatusPending,
			BuyerName:      input.BuyerName,
			BuyerEmail:     input.BuyerEmail,
			BuyerPhone:     input.BuyerPhone,
			Message:        input.Message,
			ShipmentStatus: models.ShipmentStatusNone,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Model(&dog).Update("status", models.DogStatusPending).Error
	})
	if err != nil {
		return nil, nil, err
	}

	if err := s.db.Preload("Buyer").Preload("Dog").Preload("Dog.Seller").
		First(&order, order.ID).Error; err != nil {
		// The reservation committed; failing to reload is not fatal
		log.Printf("failed to reload order %d after reservation: %v", order.ID, err)
	}

	events := []Event{
		ThreadEvent{
			DogID:    dog.ID,
			BuyerID:  buyer.ID,
			SellerID: dog.SellerID,
			SenderID: buyer.ID,
			Subject:  fmt.Sprintf("Order placed for %s", dog.Name),
			Content:  fmt.Sprintf("%s has placed an order for %s.", input.BuyerName, dog.Name),
		},
		EmailEvent{
			To:      order.Dog.Seller.Email,
			Subject: fmt.Sprintf("New order for %s", dog.Name),
			Body:    fmt.Sprintf("%s wants to buy %s. Review the order in your dashboard.", input.BuyerName, dog.Name),
		},
		EmailEvent{
			To:      input.BuyerEmail,
			Subject: fmt.Sprintf("Your order for %s", dog.Name),
			Body:    fmt.Sprintf("Your order for %s has been submitted. The seller will contact you soon.", dog.Name),
		},
	}

	return &order, events, nil
}

// transitionRule describes one legal edge of the order state machine
type transitionRule struct {
	from       []string
	to         string
	sellerOnly bool
	buyerOnly  bool
	dogStatus  string // dog status implied by the transition, empty for none
}

var transitionRules = map[string]transitionRule{
	"accept":   {from: []string{models.OrderStatusPending}, to: models.OrderStatusConfirmed, sellerOnly: true},
	"decline":  {from: []string{models.OrderStatusPending}, to: models.OrderStatusCancelled, sellerOnly: true, dogStatus: models.DogStatusAvailable},
	"cancel":   {from: []string{models.OrderStatusPending, models.OrderStatusConfirmed}, to: models.OrderStatusCancelled, dogStatus: models.DogStatusAvailable},
	"complete": {from: []string{models.OrderStatusConfirmed}, to: models.OrderStatusCompleted, sellerOnly: true, dogStatus: models.DogStatusSold},
}

// Accept confirms a pending order. Seller only.
func (s *OrderService) Accept(actor *models.User, orderID uint) (*models.Order, []Event, error) {
	return s.transition(actor, orderID, "accept")
}

// Decline cancels a pending order and releases the dog. Seller only.
func (s *OrderService) Decline(actor *models.User, orderID uint) (*models.Order, []Event, error) {
	return s.transition(actor, orderID, "decline")
}

// Cancel cancels an active order and releases the dog. The buyer may
// cancel a pending or confirmed order; the seller may cancel a
// confirmed one (declining is the seller's way out of a pending order).
func (s *OrderService) Cancel(actor *models.User, orderID uint) (*models.Order, []Event, error) {
	return s.transition(actor, orderID, "cancel")
}

// Complete marks a confirmed order as completed and the dog as sold. Seller only.
func (s *OrderService) Complete(actor *models.User, orderID uint) (*models.Order, []Event, error) {
	return s.transition(actor, orderID, "complete")
}

// transition is the single writer for order status and the derived dog
// status. All four lifecycle operations go through it so the two
// columns cannot drift apart.
func (s *OrderService) transition(actor *models.User, orderID uint, action string) (*models.Order, []Event, error) {
	rule, ok := transitionRules[action]
	if !ok {
		return nil, nil, ErrInvalidTransition
	}

	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Dog").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if order.IsTerminal() {
			return ErrAlreadyFinalized
		}

		isSeller := order.Dog.SellerID == actor.ID
		isBuyer := order.BuyerID == actor.ID
		switch {
		case !isSeller && !isBuyer:
			return ErrForbidden
		case rule.sellerOnly && !isSeller:
			return ErrForbidden
		case rule.buyerOnly && !isBuyer:
			return ErrForbidden
		case action == "cancel" && isSeller && order.Status == models.OrderStatusPending:
			// A seller backs out of a pending order by declining it
			return ErrForbidden
		}

		validSource := false
		for _, from := range rule.from {
			if order.Status == from {
				validSource = true
				break
			}
		}
		if !validSource {
			return ErrInvalidTransition
		}

		if err := tx.Model(&order).
			Updates(map[string]interface{}{"status": rule.to, "updated_at": time.Now()}).Error; err != nil {
			return err
		}
		order.Status = rule.to

		return s.rederiveDogStatus(tx, order.DogID)
	})
	if err != nil {
		return nil, nil, err
	}

	if err := s.db.Preload("Buyer").Preload("Dog").Preload("Dog.Seller").
		First(&order, order.ID).Error; err != nil {
		log.Printf("failed to reload order %d after %s: %v", order.ID, action, err)
	}

	return &order, s.transitionEvents(actor, &order, action), nil
}

// rederiveDogStatus recomputes the dog's status from its orders:
// a completed order means sold, an active order means pending,
// otherwise the dog is available again.
func (s *OrderService) rederiveDogStatus(tx *gorm.DB, dogID uint) error {
	var completed int64
	if err := tx.Model(&models.Order{}).
		Where("dog_id = ? AND status = ?", dogID, models.OrderStatusCompleted).
		Count(&completed).Error; err != nil {
		return err
	}

	status := models.DogStatusAvailable
	if completed > 0 {
		status = models.DogStatusSold
	} else {
		var active int64
		if err := tx.Model(&models.Order{}).
			Where("dog_id = ? AND status IN ?", dogID,
				[]string{models.OrderStatusPending, models.OrderStatusConfirmed}).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			status = models.DogStatusPending
		}
	}

	return tx.Model(&models.Dog{}).Where("id = ?", dogID).
		Update("status", status).Error
}

// transitionEvents builds the counter-party notification for a completed transition
func (s *OrderService) transitionEvents(actor *models.User, order *models.Order, action string) []Event {
	var subject, body, recipient string

	switch action {
	case "accept":
		subject = fmt.Sprintf("Order for %s accepted", order.Dog.Name)
		body = fmt.Sprintf("Good news! The seller has accepted your order for %s.", order.Dog.Name)
		recipient = order.BuyerEmail
	case "decline":
		subject = fmt.Sprintf("Order for %s declined", order.Dog.Name)
		body = fmt.Sprintf("The seller has declined your order for %s. The listing is available again.", order.Dog.Name)
		recipient = order.BuyerEmail
	case "cancel":
		subject = fmt.Sprintf("Order for %s cancelled", order.Dog.Name)
		if actor.ID == order.BuyerID {
			body = fmt.Sprintf("The buyer has cancelled the order for %s.", order.Dog.Name)
			recipient = order.Dog.Seller.Email
		} else {
			body = fmt.Sprintf("The seller has cancelled the order for %s.", order.Dog.Name)
			recipient = order.BuyerEmail
		}
	case "complete":
		subject = fmt.Sprintf("Order for %s completed", order.Dog.Name)
		body = fmt.Sprintf("Congratulations! Your purchase of %s is complete.", order.Dog.Name)
		recipient = order.BuyerEmail
	default:
		return nil
	}

	return []Event{
		EmailEvent{To: recipient, Subject: subject, Body: body},
		ThreadEvent{
			DogID:    order.DogID,
			BuyerID:  order.BuyerID,
			SellerID: order.Dog.SellerID,
			SenderID: actor.ID,
			Subject:  subject,
			Content:  body,
		},
	}
}

// TrackingInput carries a shipment tracking update. All fields except
// ShipmentStatus are optional; a malformed estimated-delivery date is
// ignored rather than failing the update.
type TrackingInput struct {
	ShipmentStatus    string
	Carrier           *string
	TrackingNumber    *string
	EstimatedDelivery *string // "2006-01-02"
}

// normalizeShipmentStatus maps any unrecognized value to "processing".
// Deliberately permissive: the caller's UI treats an unknown carrier
// status as "still being prepared" instead of erroring.
func normalizeShipmentStatus(status string) string {
	switch status {
	case models.ShipmentStatusProcessing,
		models.ShipmentStatusShipped,
		models.ShipmentStatusInTransit,
		models.ShipmentStatusDelivered:
		return status
	default:
		return models.ShipmentStatusProcessing
	}
}

// UpdateTracking updates the shipment sub-state of an order. Seller
// only. The sub-state never drives the order status. ShippedAt is set
// on the first transition to shipped only; DeliveredAt is set whenever
// the status becomes delivered.
func (s *OrderService) UpdateTracking(actor *models.User, orderID uint, input TrackingInput) (*models.Order, []Event, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Dog").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if order.Dog.SellerID != actor.ID {
			return ErrForbidden
		}

		status := normalizeShipmentStatus(input.ShipmentStatus)
		now := time.Now()

		updates := map[string]interface{}{
			"shipment_status": status,
			"updated_at":      now,
		}
		if input.Carrier != nil {
			updates["carrier"] = *input.Carrier
		}
		if input.TrackingNumber != nil {
			updates["tracking_number"] = *input.TrackingNumber
		}
		if input.EstimatedDelivery != nil {
			if eta, err := time.Parse("2006-01-02", *input.EstimatedDelivery); err == nil {
				updates["estimated_delivery"] = eta
			}
			// Malformed dates are dropped field-by-field, never fatal
		}
		if status == models.ShipmentStatusShipped && order.ShippedAt == nil {
			updates["shipped_at"] = now
		}
		if status == models.ShipmentStatusDelivered {
			updates["delivered_at"] = now
		}

		return tx.Model(&order).Updates(updates).Error
	})
	if err != nil {
		return nil, nil, err
	}

	if err := s.db.Preload("Buyer").Preload("Dog").Preload("Dog.Seller").
		First(&order, order.ID).Error; err != nil {
		log.Printf("failed to reload order %d after tracking update: %v", order.ID, err)
	}

	events := []Event{
		EmailEvent{
			To:      order.BuyerEmail,
			Subject: fmt.Sprintf("Shipping update for %s", order.Dog.Name),
			Body:    fmt.Sprintf("The shipment status of your order for %s is now %q.", order.Dog.Name, order.ShipmentStatus),
		},
	}

	return &order, events, nil
}
