package app

import (
	"time"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (Recovery) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx, next pairswap.Checker) (_ *pairswap.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

// Deliver turns panics into normal errors
func (Recovery) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx, next pairswap.Deliverer) (_ *pairswap.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (Logging) Check(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx, next pairswap.Checker) (*pairswap.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (Logging) Deliver(ctx pairswap.Context, db pairswap.KVStore, tx pairswap.Tx, next pairswap.Deliverer) (*pairswap.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, false)
	return res, err
}

func logDuration(ctx pairswap.Context, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := pairswap.GetLogger(ctx).With("duration", delta/time.Microsecond)

	// An empty message still carries the duration and error.
	switch {
	case err != nil:
		logger.With("err", err).Error(msg)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
