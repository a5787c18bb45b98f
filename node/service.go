package node

type ServiceContext struct {
	config   *Config
	services map[string]Service
}

func (ctx *ServiceContext) Config() *Config {
	return ctx.config
}

func (ctx *ServiceContext) ResolvePath(path string) string {
	return ctx.config.ResolvePath(path)
}

func (ctx *ServiceContext) Service(name string) (interface{}, error) {
	if running, ok := ctx.services[name]; ok {
		return running, nil
	}
	return nil, ErrServiceUnknown
}

type ServiceConstructor func(ctx *ServiceContext) (Service, error)

type Service interface {
	// start the service once the node's account and wallets are ready
	Start(node *Node) error

	// stop all goroutines belonging to the service,
	// blocking until all of them are terminated.
	Stop() error
}

// NewServiceContext is for services built outside of Start.
func NewServiceContext(config *Config) *ServiceContext {
	return &ServiceContext{config: config, services: make(map[string]Service)}
}
