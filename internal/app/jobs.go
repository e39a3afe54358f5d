package app

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"go.uber.org/zap"

	"github.com/storekit/storeadmin/internal/domain"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	// Vouchers derive Active/Expired from their expiration date; the sweep
	// keeps tab tallies truthful between mutations.
	_, err = a.sched.AddFunc("@hourly", func() {
		a.SchedVoucherSweepTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedVoucherSweepTask re-derives voucher statuses against the clock.
func (a *Application) SchedVoucherSweepTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	changed := a.vouchers.Recompute(time.Now(), func(v domain.Voucher) string { return v.Status })
	if changed > 0 {
		zap.S().Infof("voucher sweep expired %d vouchers", changed)
	}
}

// SchedSystemMonitorTask samples host cpu/mem for the dashboard.
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	a.monitor.Sample()
}

// SystemSnapshot is the dashboard's view of host health.
type SystemSnapshot struct {
	CPUPercent float64   `json:"cpuPercent"`
	MemUsedMB  uint64    `json:"memUsedMb"`
	MemPercent float64   `json:"memPercent"`
	SampledAt  time.Time `json:"sampledAt"`
}

// SystemMonitor caches the latest host sample between scheduler runs.
type SystemMonitor struct {
	mu   sync.RWMutex
	last SystemSnapshot
}

func NewSystemMonitor() *SystemMonitor {
	return &SystemMonitor{}
}

func (m *SystemMonitor) Sample() {
	snap := SystemSnapshot{SampledAt: time.Now()}
	if cpuuse, err := cpu.Percent(0, false); err == nil && len(cpuuse) > 0 {
		snap.CPUPercent = cpuuse[0]
	}
	if meminfo, err := mem.VirtualMemory(); err == nil {
		snap.MemUsedMB = meminfo.Used / 1024 / 1024
		snap.MemPercent = meminfo.UsedPercent
	}
	m.mu.Lock()
	m.last = snap
	m.mu.Unlock()
}

// Latest returns the cached sample, taking one first when none exists yet.
func (m *SystemMonitor) Latest() SystemSnapshot {
	m.mu.RLock()
	last := m.last
	m.mu.RUnlock()
	if last.SampledAt.IsZero() {
		m.Sample()
		m.mu.RLock()
		last = m.last
		m.mu.RUnlock()
	}
	return last
}
