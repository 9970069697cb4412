package network

import (
	"log/slog"
	"slices"
)

type panelUpdate struct {
	addr      string
	connected bool
}

// panelManager tracks the panels with an open session.
type panelManager struct {
	updates chan panelUpdate
	gets    chan chan []string
	done    <-chan struct{}
}

func startPanelManager(done <-chan struct{}) *panelManager {
	mgr := &panelManager{
		updates: make(chan panelUpdate),
		gets:    make(chan chan []string),
		done:    done,
	}
	go mgr.run()
	return mgr
}

func (mgr *panelManager) run() {
	var panels []string
	for {
		select {
		case update := <-mgr.updates:
			if update.connected {
				panels = append(panels, update.addr)
				slog.Info("New panel connected", "panel", update.addr, "totalPanels", len(panels))
				continue
			}
			if i := slices.Index(panels, update.addr); i >= 0 {
				panels = slices.Delete(panels, i, i+1)
			}
			slog.Info("Panel lost", "panel", update.addr, "totalPanels", len(panels))
		case reply := <-mgr.gets:
			reply <- slices.Clone(panels)
		case <-mgr.done:
			return
		}
	}
}

func (mgr *panelManager) update(addr string, connected bool) {
	select {
	case mgr.updates <- panelUpdate{addr: addr, connected: connected}:
	case <-mgr.done:
	}
}

func (mgr *panelManager) current() []string {
	reply := make(chan []string, 1)
	select {
	case mgr.gets <- reply:
		return <-reply
	case <-mgr.done:
		return nil
	}
}
