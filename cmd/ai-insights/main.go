// Command ai-insights is a terminal dashboard for a simulated model training
// run, with companion views for model metrics, feature importance, network
// layout and the data pipeline.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Menatic/AI-insights/pkg/config"
	"github.com/Menatic/AI-insights/pkg/sim"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "ai-insights")
		if err != nil {
			fmt.Println("error:", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		// The alt screen owns the terminal; stray log output would corrupt it.
		log.SetOutput(io.Discard)
	}

	m := newModel(cfg, sim.NewSource(cfg.Seed), sim.SystemClock{})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}
