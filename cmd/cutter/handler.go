package main

import (
	"context"
	"encoding/json"
	"github.com/aws/aws-lambda-go/events"
	"github.com/sklirg/cutter/internal/domain"
	"github.com/sklirg/cutter/internal/settings"
	"net/url"
	"path"
)

// Handler processes function invocations. The payload is either the direct
// {"bucket","prefix"} form or an S3 bucket notification, which is mapped
// to one job per touched gallery.
type Handler struct {
	cfg *settings.Config
}

func NewHandler(cfg *settings.Config) Handler {
	return Handler{
		cfg: cfg,
	}
}

func (h Handler) Handle(ctx context.Context, payload json.RawMessage) (domain.Output, error) {
	jobs, err := decodeJobs(payload)
	if err != nil {
		return domain.Output{}, err
	}

	for _, event := range jobs {
		if err := event.Validate(); err != nil {
			return domain.Output{}, err
		}

		logger.Infof("Processing s3://%s/%s", event.Bucket, event.Prefix)

		app, err := InjectApp(h.cfg.ForEvent(event))
		if err != nil {
			return domain.Output{}, err
		}

		report, err := app.Run(ctx)
		if err != nil {
			return domain.Output{}, err
		}

		logger.Infof("Run %s produced %d variants", report.RunId, len(report.Variants))
	}

	return domain.Output{Message: "Success!"}, nil
}

// decodeJobs accepts both payload shapes and dedupes notification records
// down to one job per bucket and prefix.
func decodeJobs(payload json.RawMessage) ([]domain.InvocationEvent, error) {
	var notification events.S3Event
	if err := json.Unmarshal(payload, &notification); err == nil && len(notification.Records) > 0 {
		var jobs []domain.InvocationEvent
		seen := make(map[string]bool)

		for _, record := range notification.Records {
			key := record.S3.Object.Key
			if unescaped, err := url.QueryUnescape(key); err == nil {
				key = unescaped
			}

			prefix := path.Dir(key)
			if prefix == "." {
				prefix = ""
			}

			job := domain.InvocationEvent{
				Bucket: record.S3.Bucket.Name,
				Prefix: prefix,
			}

			id := job.Bucket + "\x00" + job.Prefix
			if seen[id] {
				continue
			}
			seen[id] = true

			jobs = append(jobs, job)
		}

		return jobs, nil
	}

	var event domain.InvocationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}

	return []domain.InvocationEvent{event}, nil
}
