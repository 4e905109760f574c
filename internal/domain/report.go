package domain

import (
	"strconv"
	"time"
)

const timeFormat = "2006-01-02T15:04:05.999Z"

type JsonTime time.Time

func (t JsonTime) MarshalJSON() ([]byte, error) {
	value := time.Time(t).UTC().Format(timeFormat)
	return []byte(strconv.Quote(value)), nil
}

func (t *JsonTime) UnmarshalJSON(bytes []byte) error {
	value, err := strconv.Unquote(string(bytes))
	if err != nil {
		return err
	}

	parsed, err := time.Parse(timeFormat, value)
	if err != nil {
		return err
	}

	*t = JsonTime(parsed)
	return nil
}

// Report summarizes one processing run.
type Report struct {
	RunId      string   `json:"runId"`
	Bucket     string   `json:"bucket,omitempty"`
	Prefix     string   `json:"prefix,omitempty"`
	Sources    int      `json:"sources"`
	Skipped    int      `json:"skipped"`
	Uploaded   int      `json:"uploaded"`
	Variants   []string `json:"variants"`
	StartedAt  JsonTime `json:"startedAt"`
	FinishedAt JsonTime `json:"finishedAt"`
}

func (r Report) Duration() time.Duration {
	return time.Time(r.FinishedAt).Sub(time.Time(r.StartedAt))
}
