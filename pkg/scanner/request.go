package scanner

import (
	"errors"
	"net"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxPort is the highest TCP port number.
	MaxPort = 65535

	// DefaultAddress is scanned when no address is given.
	DefaultAddress = "127.0.0.1"

	// DefaultStartPort is the inclusive lower bound used when none is given.
	DefaultStartPort = 1

	// DefaultEndPort is the exclusive upper bound used when none is given.
	DefaultEndPort = MaxPort

	// DefaultConcurrency caps in-flight connection attempts.
	DefaultConcurrency = 1000
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Request describes one scan: every port in [Start, End) on Address.
type Request struct {
	Address string `json:"address" yaml:"address" validate:"required,ip"`
	Start   int    `json:"start_port" yaml:"start_port" validate:"gt=0,lte=65535"`
	End     int    `json:"end_port" yaml:"end_port" validate:"gte=0,lte=65535"`
}

// DefaultRequest returns the loopback full-range request.
func DefaultRequest() Request {
	return Request{
		Address: DefaultAddress,
		Start:   DefaultStartPort,
		End:     DefaultEndPort,
	}
}

// Validate checks the request bounds. A Start at or beyond End is valid and
// describes an empty scan.
func (r Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	// Report the first failing field, in declaration order.
	switch verrs[0].StructField() {
	case "Address":
		return newInvalidAddressError(r.Address)
	case "Start":
		return newInvalidStartPortError(r.Start)
	case "End":
		return newInvalidEndPortError(r.End)
	default:
		return err
	}
}

// Len is the number of ports the request covers.
func (r Request) Len() int {
	if r.Start >= r.End {
		return 0
	}
	return r.End - r.Start
}

// IP returns the parsed target address, or nil if it does not parse.
func (r Request) IP() net.IP {
	return net.ParseIP(r.Address)
}
