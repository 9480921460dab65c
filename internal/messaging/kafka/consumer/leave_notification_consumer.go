package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-leave/internal/events"
	"go-leave/internal/notify"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveStageAdvanced tells the next stage's eligible actors that an
// application is waiting for them.
func ConsumeLeaveStageAdvanced(
	ctx context.Context,
	reader *kafkago.Reader,
	gateway notify.Gateway,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_stage")
	log.Info("leave stage consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave stage consumer stopped")
				return
			}
			log.Error("fetch leave stage message failed", zap.Error(err))
			continue
		}

		var event events.LeaveStageAdvancedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave stage event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		err = gateway.Send(ctx, notify.Notification{
			RecipientEmployeeIDs: event.RecipientEmployeeIDs,
			Subject:              fmt.Sprintf("Leave %s awaiting %s", event.ApplicationNo, event.Stage),
			Body:                 fmt.Sprintf("Application %s is waiting for action at stage %s.", event.ApplicationNo, event.Stage),
			ApplicationID:        event.ApplicationID,
		})
		if err != nil {
			log.Error("deliver stage notification failed",
				zap.String("application_id", event.ApplicationID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave stage message failed", zap.Error(err))
			continue
		}

		log.Info("stage notification delivered",
			zap.String("application_id", event.ApplicationID),
			zap.String("stage", event.Stage),
			zap.Int("recipients", len(event.RecipientEmployeeIDs)),
		)
	}
}

// ConsumeLeaveDecided tells the applicant the final outcome.
func ConsumeLeaveDecided(
	ctx context.Context,
	reader *kafkago.Reader,
	gateway notify.Gateway,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_decided")
	log.Info("leave decided consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave decided consumer stopped")
				return
			}
			log.Error("fetch leave decided message failed", zap.Error(err))
			continue
		}

		var event events.LeaveDecidedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave decided event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		err = gateway.Send(ctx, notify.Notification{
			RecipientEmployeeIDs: []string{event.ApplicantID},
			Subject:              fmt.Sprintf("Leave %s %s", event.ApplicationNo, event.Status),
			Body:                 fmt.Sprintf("Your application %s is now %s.", event.ApplicationNo, event.Status),
			ApplicationID:        event.ApplicationID,
		})
		if err != nil {
			log.Error("deliver decision notification failed",
				zap.String("application_id", event.ApplicationID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave decided message failed", zap.Error(err))
			continue
		}

		log.Info("decision notification delivered",
			zap.String("application_id", event.ApplicationID),
			zap.String("status", event.Status),
		)
	}
}
