package task

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultNameMax        = 40
	DefaultDescriptionMax = 350

	// DeadlineLayout is the format produced by the deadline input.
	DeadlineLayout = "2006-01-02T15:04"
)

type Interval string

const (
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
	IntervalYearly  Interval = "yearly"
)

// Intervals lists the selectable recurring intervals in picker order.
var Intervals = []Interval{IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly}

func ParseInterval(v string) (Interval, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, iv := range Intervals {
		if string(iv) == v {
			return iv, nil
		}
	}
	return "", fmt.Errorf("unknown recurring interval %q", v)
}

type Category struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Emoji string `json:"emoji,omitempty" yaml:"emoji,omitempty"`
	Color string `json:"color" yaml:"color"`
}

// Task is a committed todo item. Optional fields are nil when absent.
type Task struct {
	ID                string     `json:"id" yaml:"id"`
	Name              string     `json:"name" yaml:"name"`
	Description       *string    `json:"description,omitempty" yaml:"description,omitempty"`
	Emoji             *string    `json:"emoji,omitempty" yaml:"emoji,omitempty"`
	Color             string     `json:"color" yaml:"color"`
	Date              time.Time  `json:"date" yaml:"date"`
	Deadline          *time.Time `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Category          []Category `json:"category" yaml:"category"`
	Recurring         bool       `json:"recurring" yaml:"recurring"`
	RecurringInterval *Interval  `json:"recurringInterval,omitempty" yaml:"recurringInterval,omitempty"`
	Done              bool       `json:"done" yaml:"done"`
	Pinned            bool       `json:"pinned" yaml:"pinned"`
}

// Draft is the raw, unvalidated state of the add-task form.
type Draft struct {
	Name              string
	Emoji             *string
	Color             string
	Description       string
	Recurring         bool
	RecurringInterval string
	Deadline          string
	Categories        []Category
}

func ParseDeadline(v string) (time.Time, error) {
	t, err := time.ParseInLocation(DeadlineLayout, strings.TrimSpace(v), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDeadline, v)
	}
	return t, nil
}

func FormatDeadline(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(time.Local).Format(DeadlineLayout)
}
