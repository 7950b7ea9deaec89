package request

import "shareit/pkg/utils"

// PageRequest is the from/size pair taken by list endpoints
type PageRequest struct {
	From int `json:"from" validate:"min=0"`
	Size int `json:"size" validate:"min=1"`
}

func (p PageRequest) Valid() bool {
	return p.From >= 0 && p.Size >= 1
}

func (p PageRequest) Offset() int {
	return utils.CalculateOffset(p.From, p.Size)
}

func (p PageRequest) Limit() int {
	return p.Size
}
