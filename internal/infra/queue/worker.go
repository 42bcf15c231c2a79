package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sandtoninsights/api/internal/entity"
	"github.com/sandtoninsights/api/internal/infra/http/middleware"
)

// LeadAlertSender is what the worker needs from the mail layer.
type LeadAlertSender interface {
	SendLeadAlert(to string, payload LeadCapturedPayload) error
}

// Worker consumes lead-captured events and emails the assigned agent, falling
// back to the sales inbox when no agent was assigned.
type Worker struct {
	Channel       *amqp.Channel
	Mail          LeadAlertSender
	AgentByID     func(id string) (entity.Agent, bool)
	FallbackEmail string
}

func NewWorker(ch *amqp.Channel, mail LeadAlertSender, agentByID func(string) (entity.Agent, bool), fallbackEmail string) *Worker {
	return &Worker{
		Channel:       ch,
		Mail:          mail,
		AgentByID:     agentByID,
		FallbackEmail: fallbackEmail,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual, so failed alerts hit the DLQ)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload LeadCapturedPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("[worker] malformed event, dropping: %s", err)
				d.Nack(false, false)
				continue
			}

			if err := w.processMessage(payload); err != nil {
				log.Printf("[worker] alert for lead %s failed: %s", payload.LeadID, err)
				middleware.RecordLeadAlert("failed")
				d.Nack(false, false)
			} else {
				middleware.RecordLeadAlert("sent")
				d.Ack(false)
			}
		}
	}()

	log.Printf("[worker] waiting for lead alerts on '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(payload LeadCapturedPayload) error {
	to := w.FallbackEmail
	if payload.AssignedAgentID != "" && w.AgentByID != nil {
		if agent, ok := w.AgentByID(payload.AssignedAgentID); ok {
			to = agent.Contacts.Email
		}
	}
	if to == "" {
		// No recipient configured at all. Ack and move on rather than
		// poisoning the queue.
		log.Printf("[worker] no recipient for lead %s, skipping alert", payload.LeadID)
		return nil
	}

	return w.Mail.SendLeadAlert(to, payload)
}
