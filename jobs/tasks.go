package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/meridian-cms/meridian-cms/internal/mail"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendMail is the task type for activation and reset mails.
	TaskTypeSendMail = "mail:send"
)

// NewSendMailTask constructs an Asynq task carrying the message.
func NewSendMailTask(msg mail.Message) (*asynq.Task, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendMail, data), nil
}

// SendMailHandler returns the handler delivering queued messages
// through the given mailer.
func SendMailHandler(mailer mail.Mailer) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var msg mail.Message
		if err := json.Unmarshal(t.Payload(), &msg); err != nil {
			return asynq.SkipRetry
		}
		return mailer.Send(ctx, msg)
	}
}
