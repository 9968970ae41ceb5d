package task

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrMalformedDeadline = errors.New("malformed deadline")

// EffectiveInterval applies the recurrence rule: a stale interval left in
// the draft is ignored unless the task is recurring.
func EffectiveInterval(recurring bool, interval string) *Interval {
	if !recurring || interval == "" {
		return nil
	}
	iv := Interval(interval)
	return &iv
}

type Assembler struct {
	Now   func() time.Time
	NewID func() string
}

func NewAssembler() Assembler {
	return Assembler{
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

// Assemble builds a new Task from a draft that has already passed
// validation. The only failure is a deadline the input control should
// never have produced.
func (a Assembler) Assemble(d Draft) (Task, error) {
	now, newID := a.Now, a.NewID
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = uuid.NewString
	}

	t := Task{
		Name:      d.Name,
		Color:     d.Color,
		Recurring: d.Recurring,
	}
	if d.Description != "" {
		desc := d.Description
		t.Description = &desc
	}
	if d.Emoji != nil && *d.Emoji != "" {
		emoji := *d.Emoji
		t.Emoji = &emoji
	}
	if d.Deadline != "" {
		deadline, err := ParseDeadline(d.Deadline)
		if err != nil {
			return Task{}, err
		}
		t.Deadline = &deadline
	}
	t.Category = make([]Category, len(d.Categories))
	copy(t.Category, d.Categories)
	t.RecurringInterval = EffectiveInterval(d.Recurring, d.RecurringInterval)
	t.ID = newID()
	t.Date = now()
	return t, nil
}
