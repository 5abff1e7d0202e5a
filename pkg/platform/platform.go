package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/txn2/kusto-notebook/pkg/auth"
	"github.com/txn2/kusto-notebook/pkg/connection"
	"github.com/txn2/kusto-notebook/pkg/connection/appinsights"
	"github.com/txn2/kusto-notebook/pkg/connection/azauth"
	"github.com/txn2/kusto-notebook/pkg/controller"
	"github.com/txn2/kusto-notebook/pkg/execution"
	"github.com/txn2/kusto-notebook/pkg/kusto"
	"github.com/txn2/kusto-notebook/pkg/store"
	storepg "github.com/txn2/kusto-notebook/pkg/store/postgres"
)

// Platform is the process-scoped context object. All process-wide state
// (capability registry, schema cache, controller set) hangs off it;
// nothing in the repo is an ambient singleton.
type Platform struct {
	config    *Config
	lifecycle *Lifecycle

	store    store.Store
	cache    *connection.SchemaCache
	registry *connection.Registry
	notifier *controller.Notifier
	engine   *execution.Engine
	manager  *controller.Manager

	mcpServer *mcp.Server
}

// New creates a platform instance and wires its components.
func New(opts ...Option) (*Platform, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	if options.Config == nil {
		options.Config = DefaultConfig()
	}
	if options.Host == nil {
		options.Host = logHost{}
	}
	if options.Prompter == nil {
		options.Prompter = noPrompter{}
	}

	p := &Platform{
		config:    options.Config,
		lifecycle: NewLifecycle(),
		cache:     connection.NewSchemaCache(),
		registry:  connection.NewRegistry(),
		notifier:  controller.NewNotifier(),
		engine:    execution.NewEngine(),
	}

	if err := p.initStore(options); err != nil {
		return nil, err
	}
	p.initCapabilities(options)

	p.manager = controller.NewManager(p.registry, p.store, p.engine, options.Host, p.config.DocumentTypes)
	p.notifier.Subscribe(p.manager.HandleConnectionChange)

	p.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    p.config.Server.Name,
		Version: p.config.Server.Version,
	}, nil)
	p.registerTools()

	p.lifecycle.OnStart(p.provisionConnections)
	p.lifecycle.OnStart(p.manager.Startup)

	return p, nil
}

func (p *Platform) initStore(opts *Options) error {
	switch {
	case opts.Store != nil:
		p.store = opts.Store
	case p.config.Database.Enabled:
		if opts.DB == nil {
			return fmt.Errorf("database enabled but no db handle provided")
		}
		p.store = storepg.New(opts.DB)
	default:
		p.store = store.NewMemoryStore()
	}
	return nil
}

// initCapabilities builds the capability binding table. Explicit, built
// once at startup; no runtime discovery.
func (p *Platform) initCapabilities(opts *Options) {
	azauth.Register(p.registry, azauth.Deps{
		Store:     p.store,
		Cache:     p.cache,
		NewClient: opts.NewClient,
		Tokens: func(cluster string) azauth.TokenResolver {
			return p.tokenChain(cluster, opts)
		},
	})
	appinsights.Register(p.registry, appinsights.Deps{
		Store:     p.store,
		Cache:     p.cache,
		Prompter:  opts.Prompter,
		NewClient: opts.NewClient,
	})
}

// tokenChain builds the ordered bearer-token fallback chain for one
// cluster: CLI credential, host session, then manual entry.
func (p *Platform) tokenChain(cluster string, opts *Options) *auth.Chain {
	sources := []auth.Source{auth.NewCLISource(cluster)}
	if opts.Sessions != nil {
		sources = append(sources, &auth.SessionSource{
			Provider: opts.Sessions,
			Scopes:   []string{cluster + "/.default"},
		})
	}
	sources = append(sources, &auth.ManualSource{Prompter: opts.Prompter})
	return auth.NewChain(sources...)
}

// provisionConnections saves the connections declared in config so they
// survive into the store and are resolvable on later boots.
func (p *Platform) provisionConnections(ctx context.Context) error {
	for _, cc := range p.config.Connections {
		info, err := cc.Info()
		if err != nil {
			return err
		}
		if err := p.AddConnection(ctx, info); err != nil {
			return err
		}
	}
	return nil
}

// Start runs the lifecycle startup phase.
func (p *Platform) Start(ctx context.Context) error {
	return p.lifecycle.Start(ctx)
}

// Close runs the lifecycle shutdown phase.
func (p *Platform) Close(ctx context.Context) error {
	return p.lifecycle.Stop(ctx)
}

// Run serves the MCP surface over stdio until ctx is cancelled.
func (p *Platform) Run(ctx context.Context) error {
	return p.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// Config returns the platform configuration.
func (p *Platform) Config() *Config { return p.config }

// Store returns the persistence backend.
func (p *Platform) Store() store.Store { return p.store }

// Manager returns the controller lifecycle manager.
func (p *Platform) Manager() *controller.Manager { return p.manager }

// Lifecycle returns the platform lifecycle.
func (p *Platform) Lifecycle() *Lifecycle { return p.lifecycle }

// AddConnection persists a connection and announces it.
func (p *Platform) AddConnection(ctx context.Context, info connection.Info) error {
	capability, err := p.registry.Resolve(info)
	if err != nil {
		return err
	}
	if err := capability.Save(ctx); err != nil {
		return err
	}
	p.notifier.Publish(controller.Event{Type: controller.ConnectionAdded, Info: info})
	return nil
}

// RemoveConnection deletes a connection and announces the removal, which
// tears down every controller bound to it.
func (p *Platform) RemoveConnection(ctx context.Context, info connection.Info) error {
	capability, err := p.registry.Resolve(info)
	if err != nil {
		return err
	}
	if err := capability.Delete(ctx); err != nil {
		return err
	}
	p.notifier.Publish(controller.Event{Type: controller.ConnectionRemoved, Info: info})
	return nil
}

// ListConnections returns the stored connection set.
func (p *Platform) ListConnections(ctx context.Context) ([]connection.Info, error) {
	return p.store.List(ctx)
}

// ExecuteCell registers (or reuses) the controller for the document
// type/connection pair and runs one cell through it, returning the
// appended artifacts and the terminal task.
func (p *Platform) ExecuteCell(ctx context.Context, docType, documentID string, info connection.Info, text string) ([]execution.Output, *execution.Task, error) {
	ctrl, err := p.manager.RegisterController(docType, info)
	if err != nil {
		return nil, nil, err
	}

	cell := NewBufferCell(documentID, text)
	tasks := ctrl.ExecuteCells(ctx, []execution.Cell{cell})

	slog.Debug("cell executed",
		"doc_type", docType, "document", documentID, "state", tasks[0].State())
	return cell.Outputs(), tasks[0], nil
}

// SelectKernel binds a document to the controller for the document
// type/connection pair, persisting the binding and refreshing the
// most-recently-used record startup restore reads from.
func (p *Platform) SelectKernel(ctx context.Context, docType, documentID string, info connection.Info) error {
	ctrl, err := p.manager.RegisterController(docType, info)
	if err != nil {
		return err
	}
	return ctrl.OnSelected(ctx, documentID)
}

// Schema returns the (cached) schema for a stored connection.
func (p *Platform) Schema(ctx context.Context, info connection.Info, opts connection.SchemaOptions) (*kusto.ClusterSchema, error) {
	capability, err := p.registry.Resolve(info)
	if err != nil {
		return nil, err
	}
	return capability.Schema(ctx, opts)
}
