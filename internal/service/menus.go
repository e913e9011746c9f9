package service

import (
	"fmt"

	"netdiagram/internal/domain"
	"netdiagram/internal/ui"
)

// Menu returns the context menu of the canvas, a device or a link
func (s *Session) Menu(t Target) (*ui.ContextMenu, error) {
	switch t.Kind {
	case TargetCanvas:
		return s.canvasMenu, nil
	case TargetDevice:
		if m, ok := s.deviceMenus[domain.DeviceID(t.ID)]; ok {
			return m, nil
		}
		return nil, fmt.Errorf("menu %s: %w", t, domain.ErrUnknownDevice)
	case TargetLink:
		if m, ok := s.linkMenus[domain.LinkID(t.ID)]; ok {
			return m, nil
		}
		return nil, fmt.Errorf("menu %s: %w", t, domain.ErrUnknownLink)
	}
	return nil, fmt.Errorf("menu %s: %w", t, ErrInvalidTarget)
}

// InvokeMenu opens the target's menu at (x, y) and runs the named option
func (s *Session) InvokeMenu(t Target, option string, x, y float64) error {
	m, err := s.Menu(t)
	if err != nil {
		return err
	}
	m.Open(x, y)
	if err := m.Invoke(option); err != nil {
		m.Close()
		return fmt.Errorf("menu %s: %w", t, err)
	}
	return nil
}

func (s *Session) newCanvasMenu() *ui.ContextMenu {
	m := ui.NewContextMenu()
	m.AddOption(OptionCreateHost, func(x, y float64) { s.AddHost(x, y) })
	m.AddOption(OptionCreateLink, func(float64, float64) { s.StartLink() })
	m.AddOption(OptionCreateRouter, func(x, y float64) { s.AddRouter(x, y) })
	return m
}

func (s *Session) newDeviceMenu(id domain.DeviceID) *ui.ContextMenu {
	m := ui.NewContextMenu()
	m.AddOption(OptionLinkTo, func(float64, float64) {
		s.warn(s.StartLinkFrom(id))
	})
	m.AddOption(OptionRename, func(float64, float64) {
		s.warn(s.BeginRename(DeviceTarget(uint64(id))))
	})
	m.AddOption(OptionDelete, func(float64, float64) {
		s.warn(s.RemoveDevice(id))
	})
	return m
}

func (s *Session) newLinkMenu(id domain.LinkID) *ui.ContextMenu {
	m := ui.NewContextMenu()
	m.AddOption(OptionRename, func(float64, float64) {
		s.warn(s.BeginRename(LinkTarget(uint64(id))))
	})
	m.AddOption(OptionDelete, func(float64, float64) {
		s.warn(s.RemoveLink(id))
	})
	return m
}

func (s *Session) warn(err error) {
	if err != nil {
		s.logger.Warn("menu action failed", "err", err)
	}
}
