package reader

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hitzhangjie/dwunwind/pkg/log"
)

var (
	// ErrShortRead is returned when a record runs past the end of its section.
	ErrShortRead = errors.New("short read")
	// ErrUnknownAbbrev is returned for an abbreviation id missing from the
	// unit's table.
	ErrUnknownAbbrev = errors.New("unknown abbreviation id")
	// ErrClassMismatch is returned by typed accessors when the attribute's
	// class does not permit the requested interpretation.
	ErrClassMismatch = errors.New("attribute class mismatch")
	// ErrUnsupportedForm is returned for forms this reader cannot decode.
	ErrUnsupportedForm = errors.New("unsupported form")
	// ErrNotSupported is returned for constructs that decode but cannot be
	// resolved, type signature references for instance.
	ErrNotSupported = errors.New("not supported")
)

func shortRead(what string, off uint64) error {
	return errors.Wrapf(ErrShortRead, "%s at %#x", what, off)
}

// Diagnostics collects structural violations found while decoding. They do
// not stop the decode but are never dropped either.
type Diagnostics struct {
	merr *multierror.Error
}

// Addf records one violation and logs it at warn level.
func (d *Diagnostics) Addf(format string, args ...interface{}) {
	err := fmt.Errorf(format, args...)
	log.L().Warn("dwarf diagnostic", zap.Error(err))
	d.merr = multierror.Append(d.merr, err)
}

// Add records err when it is non-nil.
func (d *Diagnostics) Add(err error) {
	if err == nil {
		return
	}
	log.L().Warn("dwarf diagnostic", zap.Error(err))
	d.merr = multierror.Append(d.merr, err)
}

// Len returns the number of recorded violations.
func (d *Diagnostics) Len() int {
	if d.merr == nil {
		return 0
	}
	return d.merr.Len()
}

// Errors returns the recorded violations in order.
func (d *Diagnostics) Errors() []error {
	if d.merr == nil {
		return nil
	}
	return d.merr.Errors
}

// Err returns the violations as a single error, nil when there are none.
func (d *Diagnostics) Err() error {
	return d.merr.ErrorOrNil()
}
