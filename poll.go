package n25q

import "time"

// MatchMode selects how a polled status value is compared against
// PollConfig.Match under PollConfig.Mask.
type MatchMode uint8

const (
	// MatchAll: every masked bit must equal its expected value.
	MatchAll MatchMode = iota
	// MatchAny: at least one masked bit must equal its expected value.
	MatchAny
)

// PollConfig is the match condition for one status poll: which register
// bytes to fetch, which bits to compare, and how often to retry.
type PollConfig struct {
	Match       uint32
	Mask        uint32
	Mode        MatchMode
	Interval    time.Duration // zero: the device default cadence
	StatusBytes uint8         // register width on the wire, 1 to 4
}

// matches reports whether got satisfies the condition.
func (cfg PollConfig) matches(got uint32) bool {
	eq := ^(got ^ cfg.Match)
	if cfg.Mode == MatchAny {
		return eq&cfg.Mask != 0
	}
	return eq&cfg.Mask == cfg.Mask
}

// poll re-issues cmd until the received status satisfies cfg or timeout
// elapses. The first read happens immediately, later ones at the cfg
// cadence. This is the only timeout-driven failure path in the driver:
// every asynchronous device state change (reset, address-mode entry, write
// enable, program, erase, suspend) funnels through here.
func (d *Dev) poll(cmd Command, cfg PollConfig, timeout time.Duration) error {
	interval := cfg.Interval
	if interval <= 0 {
		interval = d.interval
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		got, err := d.pollRead(cmd, cfg, timeout)
		if err != nil {
			return err
		}
		if cfg.matches(got) {
			return nil
		}
		select {
		case <-timer.C:
			return ErrTimeout
		case <-ticker.C:
		}
	}
}

// pollRead fetches one status sample, packing the received bytes LSB first.
func (d *Dev) pollRead(cmd Command, cfg PollConfig, timeout time.Duration) (uint32, error) {
	n := int(cfg.StatusBytes)
	if n < 1 {
		n = 1
	} else if n > 4 {
		n = 4
	}
	var buf [4]byte
	if err := d.t.Command(cmd, timeout); err != nil {
		return 0, err
	}
	if err := d.t.Receive(buf[:n], timeout); err != nil {
		return 0, err
	}
	got := uint32(0)
	for i := range n {
		got |= uint32(buf[i]) << (8 * i)
	}
	return got, nil
}

// Poll conditions reused across operations.
var (
	// Write-in-progress clear: the program/erase controller is idle.
	pollReady = PollConfig{
		Match:       0,
		Mask:        uint32(SRWriteInProgress),
		Mode:        MatchAll,
		StatusBytes: 1,
	}
	// Write-enable latch set after WRITE ENABLE.
	pollWriteEnabled = PollConfig{
		Match:       uint32(SRWriteEnable),
		Mask:        uint32(SRWriteEnable),
		Mode:        MatchAll,
		StatusBytes: 1,
	}
)
