package flag

import (
	"io"

	"github.com/elC0mpa/etl-cost-monitor/model"
)

type service struct {
	args   []string
	output io.Writer
}

type FlagService interface {
	GetParsedFlags() (model.Flags, error)
}
