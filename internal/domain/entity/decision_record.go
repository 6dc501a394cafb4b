package entity

import (
	"time"
)

// DecisionRecord archives one reservation admission decision, admitted
// or rejected, for audit. Stored in MongoDB keyed by Reference.
type DecisionRecord struct {
	ID         string    `bson:"_id,omitempty"`
	Reference  string    `bson:"reference"` // unique index
	UserID     uint      `bson:"userId"`
	AircraftID uint      `bson:"aircraftId"`
	StartTime  time.Time `bson:"startTime"`
	EndTime    time.Time `bson:"endTime"`
	Admissible bool      `bson:"admissible"`
	Admitted   bool      `bson:"admitted"`
	Overridden bool      `bson:"overridden"`
	Blockers   []string  `bson:"blockers"`
	Warnings   []string  `bson:"warnings"`
	Reason     string    `bson:"reason,omitempty"` // rejection reason
	CreatedAt  time.Time `bson:"createdAt"`
}
