// Package sysstats samples host load for the Training view's system panel.
package sysstats

import (
	"os"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

type Stats struct {
	PID        int
	CPUPercent float64
	MemUsedMB  int64
	MemFreeMB  int64
	MemTotalMB int64
	MemUsedPct float64
	ProcRSSKB  int64
	Available  bool
}

// Sample reads CPU, memory and the resident size of pid. A pid <= 0 means the
// current process. Any probe that fails leaves its fields zero.
func Sample(pid int) Stats {
	if pid <= 0 {
		pid = os.Getpid()
	}
	stats := Stats{PID: pid}
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		stats.CPUPercent = pct[0]
		stats.Available = true
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemTotalMB = int64(vm.Total / 1024 / 1024)
		stats.MemUsedMB = int64(vm.Used / 1024 / 1024)
		stats.MemFreeMB = int64(vm.Available / 1024 / 1024)
		stats.MemUsedPct = vm.UsedPercent
		stats.Available = true
	}
	if p, err := process.NewProcess(int32(pid)); err == nil {
		if mi, err := p.MemoryInfo(); err == nil && mi != nil {
			stats.ProcRSSKB = int64(mi.RSS / 1024)
		}
	}
	return stats
}
