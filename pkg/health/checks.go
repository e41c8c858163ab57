package health

import (
	"runtime"
	"time"
)

// SimpleCheck always reports healthy
func SimpleCheck(name string) Check {
	return Check{
		Name:        name,
		Status:      StatusHealthy,
		LastChecked: time.Now(),
	}
}

// DatasetCheck reports unhealthy when no dataset is loaded and degraded when it is empty.
func DatasetCheck(size func() (markers, connections int, loaded bool)) CheckFunc {
	return func() Check {
		markers, connections, loaded := size()
		check := Check{
			Name: "dataset",
			Details: map[string]any{
				"markers":     markers,
				"connections": connections,
			},
		}

		switch {
		case !loaded:
			check.Status = StatusUnhealthy
			check.Message = "Dataset not loaded"
		case markers == 0:
			check.Status = StatusDegraded
			check.Message = "Dataset is empty"
		default:
			check.Status = StatusHealthy
			check.Message = "Dataset loaded"
		}
		return check
	}
}

// ShutdownCheck fails readiness once the server starts draining.
func ShutdownCheck(shuttingDown func() bool) CheckFunc {
	return func() Check {
		if shuttingDown() {
			return Check{Name: "shutdown", Status: StatusUnhealthy, Message: "Server is shutting down"}
		}
		return Check{Name: "shutdown", Status: StatusHealthy}
	}
}

// MemoryCheck reports degraded when the heap uses more than 90% of memory obtained from the OS.
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		alloc, sys := getUsage()
		check := Check{
			Name: "memory",
			Details: map[string]any{
				"alloc_bytes": alloc,
				"sys_bytes":   sys,
			},
			Status: StatusHealthy,
		}
		if sys > 0 && float64(alloc)/float64(sys) > 0.9 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		}
		return check
	}
}

// RuntimeMemory reads heap usage from the Go runtime.
func RuntimeMemory() (alloc, sys uint64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc, m.Sys
}
