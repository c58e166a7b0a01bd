package dbus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
)

// ErrNotConnected is returned when the portal is used before Connect or
// after Close.
var ErrNotConnected = errors.New("not connected to D-Bus")

// ColorSchemeHandler is called when the portal reports a new color scheme.
type ColorSchemeHandler func(scheme ColorScheme)

// SettingsPortal is a client of the org.freedesktop.portal.Settings
// interface on a private session bus connection.
type SettingsPortal struct {
	conn   *dbus.Conn
	logger *slog.Logger

	mu       sync.Mutex
	nextID   int
	handlers map[int]ColorSchemeHandler
	signals  chan *dbus.Signal
	stopCh   chan struct{}
}

// NewSettingsPortal creates a new portal client.
func NewSettingsPortal(logger *slog.Logger) *SettingsPortal {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsPortal{
		logger:   logger,
		handlers: make(map[int]ColorSchemeHandler),
	}
}

// Connect opens a private session bus connection.
func (p *SettingsPortal) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil {
		return nil
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	p.conn = conn
	return nil
}

// ColorScheme reads the current color scheme preference.
func (p *SettingsPortal) ColorScheme() (ColorScheme, error) {
	value, err := p.Read(AppearanceNamespace, ColorSchemeKey)
	if err != nil {
		return NoPreference, err
	}
	return ParseColorScheme(value)
}

// Read returns a single portal setting. It uses ReadOne and falls back to
// the deprecated Read method for portals older than version 2.
func (p *SettingsPortal) Read(namespace, key string) (dbus.Variant, error) {
	conn := p.connection()
	if conn == nil {
		return dbus.Variant{}, ErrNotConnected
	}
	obj := conn.Object(PortalBusName, PortalPath)

	var value dbus.Variant
	err := obj.Call(SettingsInterface+".ReadOne", 0, namespace, key).Store(&value)
	if err == nil {
		return value, nil
	}
	p.logger.Debug("ReadOne not available, trying Read", "error", err)

	if err := obj.Call(SettingsInterface+".Read", 0, namespace, key).Store(&value); err != nil {
		return dbus.Variant{}, fmt.Errorf("failed to read %s %s: %w", namespace, key, err)
	}
	return value, nil
}

// Subscribe registers handler for color scheme changes and returns a
// function that removes it. The signal match is installed on first use.
func (p *SettingsPortal) Subscribe(handler ColorSchemeHandler) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil, ErrNotConnected
	}

	if p.signals == nil {
		err := p.conn.AddMatchSignal(
			dbus.WithMatchObjectPath(PortalPath),
			dbus.WithMatchInterface(SettingsInterface),
			dbus.WithMatchMember("SettingChanged"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to add SettingChanged match: %w", err)
		}

		p.signals = make(chan *dbus.Signal, 16)
		p.stopCh = make(chan struct{})
		p.conn.Signal(p.signals)
		go p.processSignals(p.signals, p.stopCh)
	}

	id := p.nextID
	p.nextID++
	p.handlers[id] = handler

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.handlers, id)
	}, nil
}

// processSignals dispatches color scheme changes until stop is closed.
func (p *SettingsPortal) processSignals(ch chan *dbus.Signal, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case sig, ok := <-ch:
			if !ok {
				return
			}
			p.handleSignal(sig)
		}
	}
}

func (p *SettingsPortal) handleSignal(sig *dbus.Signal) {
	change, ok := parseSettingChanged(sig)
	if !ok {
		return
	}
	if change.Namespace != AppearanceNamespace || change.Key != ColorSchemeKey {
		return
	}

	scheme, err := ParseColorScheme(change.Value)
	if err != nil {
		p.logger.Warn("invalid color-scheme signal", "error", err)
		return
	}

	p.logger.Debug("color scheme changed", "scheme", scheme.String())
	p.dispatch(scheme)
}

func (p *SettingsPortal) dispatch(scheme ColorScheme) {
	p.mu.Lock()
	handlers := make([]ColorSchemeHandler, 0, len(p.handlers))
	for i := 0; i < p.nextID; i++ {
		if h, ok := p.handlers[i]; ok {
			handlers = append(handlers, h)
		}
	}
	p.mu.Unlock()

	for _, h := range handlers {
		h(scheme)
	}
}

// Close stops signal processing and closes the connection.
func (p *SettingsPortal) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil
	}
	if p.signals != nil {
		p.conn.RemoveSignal(p.signals)
		close(p.stopCh)
		p.signals = nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

func (p *SettingsPortal) connection() *dbus.Conn {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn
}
