package jobs

import (
	"context"
	"errors"

	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/meridian-cms/meridian-cms/internal/mail"
	"github.com/meridian-cms/meridian-cms/internal/observability"
)

// Worker wraps the Asynq server processing the mail queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *slog.Logger
}

// WorkerConfig collects dependencies required to bootstrap the worker.
type WorkerConfig struct {
	RedisOpts asynq.RedisClientOpt
	Logger    *slog.Logger
	Mailer    mail.Mailer
	Metrics   *observability.Metrics
}

// NewWorker constructs a Worker instance.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if cfg.Mailer == nil {
		return nil, errors.New("jobs: mailer required")
	}
	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			QueueDefault: 1,
		},
	})
	mux := asynq.NewServeMux()
	sendMail := SendMailHandler(cfg.Mailer)
	mux.HandleFunc(TaskTypeSendMail, func(ctx context.Context, t *asynq.Task) error {
		err := sendMail(ctx, t)
		cfg.Metrics.RecordJob(t.Type(), err == nil)
		return err
	})

	return &Worker{server: srv, mux: mux, logger: cfg.Logger}, nil
}

// Run starts processing jobs until context cancellation.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("jobs: worker not configured")
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// QueueMailer enqueues messages instead of delivering them inline; the
// worker binary picks them up.
type QueueMailer struct {
	client *asynq.Client
}

// NewQueueMailer constructs a QueueMailer.
func NewQueueMailer(redisOpts asynq.RedisClientOpt) *QueueMailer {
	return &QueueMailer{client: asynq.NewClient(redisOpts)}
}

// Send implements mail.Mailer by enqueueing a mail:send task.
func (q *QueueMailer) Send(ctx context.Context, msg mail.Message) error {
	task, err := NewSendMailTask(msg)
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// Close releases client resources.
func (q *QueueMailer) Close() error {
	return q.client.Close()
}

var _ mail.Mailer = (*QueueMailer)(nil)
