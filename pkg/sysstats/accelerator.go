package sysstats

import "fmt"

// Gauge is one row of the simulated accelerator panel.
type Gauge struct {
	Name  string
	Value string
	Fill  float64
}

// Accelerator returns the canned GPU profile shown next to the host numbers.
// There is no GPU behind it; the values only follow whether a run is active.
func Accelerator(running bool) []Gauge {
	if running {
		return []Gauge{
			{Name: "GPU Utilization", Value: "94%", Fill: 0.94},
			{Name: "Memory Usage", Value: memLabel(16.4, 24), Fill: 0.68},
			{Name: "CPU Utilization", Value: "45%", Fill: 0.45},
			{Name: "GPU Temperature", Value: "78°C", Fill: 0.78},
		}
	}
	return []Gauge{
		{Name: "GPU Utilization", Value: "12%", Fill: 0.12},
		{Name: "Memory Usage", Value: memLabel(3.2, 24), Fill: 0.13},
		{Name: "CPU Utilization", Value: "8%", Fill: 0.08},
		{Name: "GPU Temperature", Value: "42°C", Fill: 0.42},
	}
}

func memLabel(used, total float64) string {
	return fmt.Sprintf("%.1fGB / %.0fGB", used, total)
}
