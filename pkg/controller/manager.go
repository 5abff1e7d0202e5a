package controller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/txn2/kusto-notebook/pkg/connection"
	"github.com/txn2/kusto-notebook/pkg/execution"
	"github.com/txn2/kusto-notebook/pkg/store"
)

// Manager owns the live controller set, keyed by (document type,
// encoded connection token). Controllers are created lazily through
// RegisterController and torn down when their connection is removed.
type Manager struct {
	registry *connection.Registry
	store    store.Store
	engine   *execution.Engine
	host     KernelHost
	docTypes []string

	mu          sync.Mutex
	controllers map[string]*Controller
}

// NewManager creates a manager for the given supported document types.
func NewManager(registry *connection.Registry, st store.Store, engine *execution.Engine, host KernelHost, docTypes []string) *Manager {
	return &Manager{
		registry:    registry,
		store:       st,
		engine:      engine,
		host:        host,
		docTypes:    docTypes,
		controllers: make(map[string]*Controller),
	}
}

func controllerKey(docType string, token connection.Token) string {
	return docType + "|" + string(token)
}

// RegisterController returns the live controller for (docType, info),
// constructing and exposing it to the host when none exists.
// Registration is idempotent.
func (m *Manager) RegisterController(docType string, info connection.Info) (*Controller, error) {
	token := connection.Encode(info)
	key := controllerKey(docType, token)

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.controllers[key]; ok {
		return existing, nil
	}

	capability, err := m.registry.Resolve(info)
	if err != nil {
		return nil, fmt.Errorf("registering controller: %w", err)
	}

	ctrl := &Controller{
		docType:    docType,
		info:       info,
		token:      token,
		capability: capability,
		engine:     m.engine,
		store:      m.store,
	}
	if err := m.host.RegisterKernel(docType, token, info.DisplayName()); err != nil {
		return nil, fmt.Errorf("registering kernel with host: %w", err)
	}

	m.controllers[key] = ctrl
	return ctrl, nil
}

// Get returns the live controller for (docType, info), if any.
func (m *Manager) Get(docType string, info connection.Info) (*Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctrl, ok := m.controllers[controllerKey(docType, connection.Encode(info))]
	return ctrl, ok
}

// Len returns the number of live controllers.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.controllers)
}

// HandleConnectionChange reacts to connection events. Removals tear down
// every controller keyed by the removed connection; additions are
// ignored because controllers are created lazily via RegisterController.
func (m *Manager) HandleConnectionChange(e Event) {
	if e.Type != ConnectionRemoved {
		return
	}
	token := connection.Encode(e.Info)

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, ctrl := range m.controllers {
		if ctrl.token != token {
			continue
		}
		m.host.UnregisterKernel(ctrl.docType, ctrl.token)
		delete(m.controllers, key)
		slog.Info("controller torn down",
			"doc_type", ctrl.docType, "connection", ctrl.info.DisplayName())
	}
}

// Startup re-registers a controller for every connection recorded as
// last used for each supported document type, so previously selected
// kernels remain selectable without reselection.
func (m *Manager) Startup(ctx context.Context) error {
	for _, docType := range m.docTypes {
		infos, err := m.store.ListLastUsed(ctx, docType)
		if err != nil {
			return fmt.Errorf("listing last-used connections for %s: %w", docType, err)
		}
		for _, info := range infos {
			if _, err := m.RegisterController(docType, info); err != nil {
				slog.Warn("restoring controller failed",
					"doc_type", docType, "connection", info.DisplayName(), "error", err)
			}
		}
	}
	return nil
}
