/*
Package storage provides data models for raw interaction logs, behavior
history snapshots, and the graph edge audit log.

Records are validated at the store boundary: before insert and after scan.
*/
package storage

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// JSON cannot encode Inf or NaN, so they never enter the store.
	if err := v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsInf(f, 0) && !math.IsNaN(f)
	}); err != nil {
		panic(err)
	}
	return v
}

// InteractionLog is one raw interaction recorded for a student.
type InteractionLog struct {
	// ID is assigned by the store.
	ID int64 `json:"id"`

	// StudentID identifies the student.
	StudentID string `json:"student_id" validate:"required,max=50"`

	// ResponseTime is the response latency in seconds.
	ResponseTime float64 `json:"response_time" validate:"finite,gte=0"`

	// Attempts is the number of attempts taken.
	Attempts float64 `json:"attempts" validate:"finite,gte=0"`

	// Correct is the correctness score in [0,1].
	Correct float64 `json:"correct" validate:"finite,gte=0,lte=1"`

	// Marks is the optional graded mark.
	Marks *int `json:"marks,omitempty"`

	// LoggedAt is when the interaction was recorded.
	LoggedAt time.Time `json:"logged_at"`
}

// Validate checks field constraints.
func (l InteractionLog) Validate() error {
	return validate.Struct(l)
}

// Snapshot is one persisted record of a student's profile, cluster and
// recommendation for a single analysis run. Snapshots are append-only.
type Snapshot struct {
	// ID is assigned by the store and increases monotonically.
	ID int64 `json:"id"`

	// RunID identifies the analysis run that produced the snapshot.
	RunID string `json:"run_id,omitempty"`

	StudentID       string  `json:"student_id" validate:"required,max=50"`
	AvgResponseTime float64 `json:"avg_response_time" validate:"finite,gte=0"`
	AvgAttempts     float64 `json:"avg_attempts" validate:"finite,gte=0"`
	Accuracy        float64 `json:"accuracy" validate:"finite,gte=0,lte=1"`
	Cluster         int     `json:"cluster" validate:"gte=0"`
	Recommendation  string  `json:"recommendation" validate:"max=255"`

	// RecordedAt is assigned by the store at insert.
	RecordedAt time.Time `json:"recorded_at"`
}

// Validate checks field constraints.
func (s Snapshot) Validate() error {
	return validate.Struct(s)
}

// Edge is one audit row of a graph edge submitted by a client.
// The pathfinding engine never reads these back.
type Edge struct {
	From       string    `json:"from" validate:"required"`
	To         string    `json:"to" validate:"required"`
	Cost       float64   `json:"cost" validate:"finite"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Validate checks field constraints.
func (e Edge) Validate() error {
	return validate.Struct(e)
}
