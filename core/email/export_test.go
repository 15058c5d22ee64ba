package email

import "time"

// SetClock fixes the time used for file names.
func (d *DevSender) SetClock(now func() time.Time) {
	d.now = now
}
