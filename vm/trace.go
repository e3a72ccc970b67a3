package vm

import (
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

// Tracer logs transaction lifecycle through commonlog. A nil Tracer is
// valid and silent, so the hot path carries no logging cost unless tracing
// was attached at environment construction.
type Tracer struct {
	log commonlog.Logger
}

// NewTracer creates a tracer logging under the given commonlog name
// (conventionally "veneer.render").
func NewTracer(name string) *Tracer {
	return &Tracer{log: commonlog.GetLogger(name)}
}

func (t *Tracer) begin() {
	if t == nil {
		return
	}
	t.log.Debug("transaction begin")
}

func (t *Tracer) commit(tx *Transaction) {
	if t == nil {
		return
	}
	t.log.Debugf("transaction commit: %d created, %d updated, %d destroyed, %d installs, %d modifier updates",
		len(tx.created), len(tx.updated), len(tx.destructors),
		len(tx.installModifier), len(tx.updateModifier))
}
