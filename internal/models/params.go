package models

import (
	"fmt"
	"time"
)

// Params is one row of the k/w/base/threshold configuration history.
// ActiveTo == nil marks the single currently active row; superseded rows are
// immutable.
type Params struct {
	ID         int64      `bson:"id_params" json:"id_params"`
	K          int        `bson:"k" json:"k"`
	W          int        `bson:"w" json:"w"`
	Base       int        `bson:"base" json:"base"`
	Threshold  float64    `bson:"threshold" json:"threshold"`
	ActiveFrom time.Time  `bson:"active_from" json:"active_from"`
	ActiveTo   *time.Time `bson:"active_to" json:"active_to"`
}

// Validate checks the engine constraints on a params row.
func (p *Params) Validate() error {
	if p.K <= 0 {
		return fmt.Errorf("k must be greater than 0")
	}
	if p.W <= 0 {
		return fmt.Errorf("w must be greater than 0")
	}
	if p.Base <= 1 {
		return fmt.Errorf("base must be greater than 1")
	}
	if p.Threshold <= 0 || p.Threshold >= 1 {
		return fmt.Errorf("threshold must be in (0,1)")
	}
	return nil
}

// CreateParamsRequest is the POST /api/admin/params body.
type CreateParamsRequest struct {
	K         int     `json:"k" binding:"required"`
	W         int     `json:"w" binding:"required"`
	Base      int     `json:"base" binding:"required"`
	Threshold float64 `json:"threshold" binding:"required"`
	Activate  bool    `json:"activate"`
}
