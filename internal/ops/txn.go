package ops

import (
	"go.uber.org/zap"
)

// txn collects compensating actions for the filesystem steps of one
// operation. When a later step fails, rollback runs them newest first so
// the bundle, descriptor and registry return to where they started.
type txn struct {
	op     string
	logger *zap.Logger
	undo   []compensation
}

type compensation struct {
	desc string
	fn   func() error
}

func newTxn(op string, logger *zap.Logger) *txn {
	return &txn{op: op, logger: logger}
}

// onFailure registers fn to run if the operation fails after this point.
func (t *txn) onFailure(desc string, fn func() error) {
	t.undo = append(t.undo, compensation{desc: desc, fn: fn})
}

// rollback runs every registered compensation in reverse order. Failures are
// logged and do not stop the remaining compensations.
func (t *txn) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		c := t.undo[i]
		if err := c.fn(); err != nil {
			t.logger.Warn("compensation failed",
				zap.String("op", t.op),
				zap.String("step", c.desc),
				zap.Error(err))
			continue
		}
		t.logger.Debug("compensated",
			zap.String("op", t.op),
			zap.String("step", c.desc))
	}
	t.undo = nil
}

// finish rolls back when *errp is non-nil. Use with a named error result:
//
//	defer tx.finish(&err)
func (t *txn) finish(errp *error) {
	if *errp != nil {
		t.rollback()
	}
}
