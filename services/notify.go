package services

import (
	"log"

	"github.com/pawfinder/pawfinder-api/models"
	"gorm.io/gorm"
)

// Event is an outbound notification produced by a core operation.
// Operations return events instead of dispatching inline so their
// correctness never depends on a mail server or the messages table
// being writable; the caller hands the slice to a Dispatcher after the
// primary transaction commits.
type Event interface {
	eventKind() string
}

// EmailEvent is a fire-and-forget email.
type EmailEvent struct {
	To      string
	Subject string
	Body    string
}

func (EmailEvent) eventKind() string { return "email" }

// ThreadEvent appends a system-generated entry to the buyer/seller
// conversation about a dog, creating the conversation if needed.
// SenderID must be either BuyerID or SellerID.
type ThreadEvent struct {
	DogID    uint
	BuyerID  uint
	SellerID uint
	SenderID uint
	Subject  string
	Content  string
}

func (ThreadEvent) eventKind() string { return "thread" }

// EmailSender sends a single email. Implemented by SESEmailService in
// production and MockEmailService in tests.
type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// Dispatcher delivers outbound events. Every failure is logged and
// swallowed; dispatch never reports an error to the caller.
type Dispatcher struct {
	db     *gorm.DB
	sender EmailSender
}

var dispatcherInstance *Dispatcher

// InitDispatcher wires the global dispatcher instance.
func InitDispatcher(db *gorm.DB, sender EmailSender) *Dispatcher {
	dispatcherInstance = &Dispatcher{db: db, sender: sender}
	return dispatcherInstance
}

// GetDispatcher returns the initialized dispatcher instance.
func GetDispatcher() *Dispatcher {
	return dispatcherInstance
}

// NewDispatcher creates a dispatcher bound to the given DB and sender.
func NewDispatcher(db *gorm.DB, sender EmailSender) *Dispatcher {
	return &Dispatcher{db: db, sender: sender}
}

// Dispatch delivers each event best-effort. A failing recipient never
// affects delivery to the others.
func (d *Dispatcher) Dispatch(events []Event) {
	if d == nil {
		return
	}
	for _, event := range events {
		switch e := event.(type) {
		case EmailEvent:
			if d.sender == nil {
				continue
			}
			if err := d.sender.SendEmail(e.To, e.Subject, e.Body); err != nil {
				log.Printf("notification email to %s failed: %v", e.To, err)
			}
		case ThreadEvent:
			if err := d.appendThreadMessage(e); err != nil {
				log.Printf("notification thread entry for dog %d failed: %v", e.DogID, err)
			}
		default:
			log.Printf("unknown notification event %T dropped", event)
		}
	}
}

// appendThreadMessage finds or creates the conversation between the two
// users about the dog and records the message in it.
func (d *Dispatcher) appendThreadMessage(e ThreadEvent) error {
	if d.db == nil {
		return nil
	}

	var conversation models.Conversation
	err := d.db.
		Where("dog_id = ? AND buyer_id = ? AND seller_id = ?", e.DogID, e.BuyerID, e.SellerID).
		First(&conversation).Error
	if err != nil {
		dogID := e.DogID
		conversation = models.Conversation{
			DogID:    &dogID,
			BuyerID:  e.BuyerID,
			SellerID: e.SellerID,
		}
		if err := d.db.Create(&conversation).Error; err != nil {
			return err
		}
	}

	receiverID := conversation.OtherParticipantID(e.SenderID)
	subject := e.Subject
	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       e.SenderID,
		ReceiverID:     receiverID,
		Subject:        &subject,
		Content:        e.Content,
	}
	if err := d.db.Create(&message).Error; err != nil {
		return err
	}

	// Bump the conversation's updated_at so inboxes sort correctly
	return d.db.Model(&conversation).Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
