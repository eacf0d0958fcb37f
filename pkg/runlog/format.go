package runlog

import (
	"fmt"

	"github.com/Menatic/AI-insights/pkg/sim"
)

// EpochLine is the one-line progress record shared by the dashboard log and
// the headless runner.
func EpochLine(st sim.State) string {
	acc, loss := st.LatestAccuracy(), st.LatestLoss()
	return fmt.Sprintf(
		"[epoch] %d/%d acc=%.2f val_acc=%.2f loss=%.4f val_loss=%.4f speed=%dx eta=%s",
		st.Epoch, st.MaxEpochs,
		acc.Training, acc.Validation,
		loss.Training, loss.Validation,
		st.Speed, sim.FormatRemaining(st.TimeRemaining),
	)
}

// EventLine formats a simulator event as a tagged log line.
func EventLine(ev sim.Event) string {
	return fmt.Sprintf("[train] %s (run %s, epoch %d)", ev.Message(), ShortID(ev.RunID), ev.Epoch)
}

func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
