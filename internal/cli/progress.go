package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/Makepad-fr/breeds/internal/activity"
	"github.com/Makepad-fr/breeds/internal/ui"
)

const progressWidth = 24

// progressLine redraws a single status line on w while requests are
// outstanding and erases it once the tracker goes idle.
func progressLine(w io.Writer) func(activity.State) {
	var (
		mu    sync.Mutex
		last  activity.State
		drawn bool
	)
	return func(s activity.State) {
		mu.Lock()
		defer mu.Unlock()
		if !s.Supersedes(last) {
			return
		}
		last = s
		if !s.Busy {
			if drawn {
				ui.ClearLine(w)
				drawn = false
			}
			return
		}
		fmt.Fprintf(w, "\r%s %s", ui.C(ui.Current().Busy, "fetching"), ui.ProgressBar(s.Percent, 100, progressWidth))
		drawn = true
	}
}
