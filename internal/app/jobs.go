package app

import (
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"
	"go.uber.org/zap"

	"github.com/jam3ahq/jam3a/internal/domain"
	"github.com/jam3ahq/jam3a/pkg/metrics"
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
		go a.SchedProcessMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@every 1m", func() {
		a.SchedDealSweepTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedClearExpireData()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		metrics.SetGauge("system_cpuuse", int64(_cpuuse[0]*100))
	}

	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		metrics.SetGauge("system_memuse", int64(_meminfo.Used/1024/1024))
	}
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return
	}

	cpuuse, err := p.CPUPercent()
	if err == nil {
		metrics.SetGauge("jam3a_cpuuse", int64(cpuuse*100))
	}

	meminfo, err := p.MemoryInfo()
	if err == nil {
		metrics.SetGauge("jam3a_memuse", int64(meminfo.RSS/1024/1024))
	}
}

// SchedDealSweepTask runs the deal lifecycle sweep and records the counts.
func (a *Application) SchedDealSweepTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	completed, cancelled := a.SweepDeals()
	if completed > 0 || cancelled > 0 {
		zap.L().Info("deal sweep finished",
			zap.Int("completed", completed),
			zap.Int("cancelled", cancelled),
		)
	}
}

// SweepDeals completes active deals that reached their participant target
// and cancels active deals past their expiry. Completed deals are published
// on the event bus.
func (a *Application) SweepDeals() (completed int, cancelled int) {
	now := time.Now()

	var full []domain.Deal
	a.gormDB.
		Where("status = ? and current_participants >= max_participants and max_participants > 0",
			domain.DealStatusActive).
		Find(&full)
	for _, deal := range full {
		if err := a.gormDB.Model(&domain.Deal{}).Where("id = ? and status = ?", deal.ID, domain.DealStatusActive).
			Updates(map[string]interface{}{"status": domain.DealStatusCompleted, "updated_at": now}).Error; err != nil {
			zap.L().Error("failed to complete deal", zap.Int64("deal_id", deal.ID), zap.Error(err))
			continue
		}
		deal.Status = domain.DealStatusCompleted
		a.bus.Publish(EventDealCompleted, deal)
		completed++
	}

	var expired []domain.Deal
	a.gormDB.
		Where("status = ? and expires_at < ?", domain.DealStatusActive, now).
		Find(&expired)
	for _, deal := range expired {
		if err := a.gormDB.Model(&domain.Deal{}).Where("id = ? and status = ?", deal.ID, domain.DealStatusActive).
			Updates(map[string]interface{}{"status": domain.DealStatusCancelled, "updated_at": now}).Error; err != nil {
			zap.L().Error("failed to cancel expired deal", zap.Int64("deal_id", deal.ID), zap.Error(err))
			continue
		}
		cancelled++
	}

	metrics.IncrCounter("deals_completed_total", int64(completed))
	metrics.IncrCounter("deals_cancelled_total", int64(cancelled))
	return completed, cancelled
}

// SchedClearExpireData prunes old audit rows and participants of dead deals.
func (a *Application) SchedClearExpireData() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	a.gormDB.
		Where("opt_time < ? ", time.Now().
			Add(-time.Hour*24*365)).Delete(domain.SysOprLog{})

	a.gormDB.
		Where("deal_id in (?)",
			a.gormDB.Model(&domain.Deal{}).Select("id").Where("status = ?", domain.DealStatusCancelled),
		).Delete(&domain.DealParticipant{})
}
