package deploy

import (
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/sklirg/cutter/internal/settings"
	"strings"
	"time"
)

// CloudWatchLogsApi is the subset of the CloudWatch Logs client used to
// read function output.
type CloudWatchLogsApi interface {
	DescribeLogStreams(input *cloudwatchlogs.DescribeLogStreamsInput) (*cloudwatchlogs.DescribeLogStreamsOutput, error)
	GetLogEvents(input *cloudwatchlogs.GetLogEventsInput) (*cloudwatchlogs.GetLogEventsOutput, error)
}

type LogService struct {
	cfg    *settings.Config
	client CloudWatchLogsApi
}

func NewLogService(cfg *settings.Config, client CloudWatchLogsApi) *LogService {
	return &LogService{
		cfg:    cfg,
		client: client,
	}
}

// Tail returns the most recent events from the latest log stream of the
// function, oldest first.
func (service LogService) Tail(limit int64) ([]string, error) {
	if service.cfg.FunctionName == "" {
		return nil, MissingSettingError{flag: "function-name", env: settings.EnvFunctionName}
	}

	group := "/aws/lambda/" + service.cfg.FunctionName

	streams, err := service.client.DescribeLogStreams(&cloudwatchlogs.DescribeLogStreamsInput{
		LogGroupName: aws.String(group),
		OrderBy:      aws.String(cloudwatchlogs.OrderByLastEventTime),
		Descending:   aws.Bool(true),
		Limit:        aws.Int64(1),
	})
	if err != nil {
		return nil, LogsError{group: group, base: err}
	}

	if len(streams.LogStreams) == 0 {
		logger.Infof("No log streams in %s yet", group)
		return nil, nil
	}

	events, err := service.client.GetLogEvents(&cloudwatchlogs.GetLogEventsInput{
		LogGroupName:  aws.String(group),
		LogStreamName: streams.LogStreams[0].LogStreamName,
		Limit:         aws.Int64(limit),
		StartFromHead: aws.Bool(false),
	})
	if err != nil {
		return nil, LogsError{group: group, base: err}
	}

	var lines []string
	for _, event := range events.Events {
		timestamp := time.UnixMilli(aws.Int64Value(event.Timestamp)).UTC()
		message := strings.TrimRight(aws.StringValue(event.Message), "\n")
		lines = append(lines, fmt.Sprintf("%s  %s", timestamp.Format(time.RFC3339), message))
	}

	return lines, nil
}
