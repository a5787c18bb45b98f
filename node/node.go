package node

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/coschain/walletkeeper/account"
	"github.com/coschain/walletkeeper/db/storage"
	"github.com/coschain/walletkeeper/mylog"
	"github.com/coschain/walletkeeper/securestore"
	"github.com/coschain/walletkeeper/wallet"
	"github.com/coschain/walletkeeper/wallet/local"
	"github.com/sirupsen/logrus"
)

// Node is the composition root: it owns the single Account and active wallet handle
// of the process, and the services presenting them.
type Node struct {
	config *Config

	EvBus EventBus.Bus

	DB      storage.Database
	Store   *securestore.Store
	Gateway wallet.Gateway
	Proxy   *wallet.Proxy
	Wallets *account.Wallets
	Account *account.Account

	serviceNames []string
	services     map[string]Service
	serviceFuncs []NamedServiceConstructor // registered services store into this slice

	running bool
	tmpDir  string // backing dir of an ephemeral node
	stop    chan struct{}
	lock    sync.RWMutex

	Log *logrus.Logger
}

type NamedServiceConstructor struct {
	name        string
	constructor ServiceConstructor
}

func New(conf *Config) (*Node, error) {
	// Copy config
	confCopy := *conf
	conf = &confCopy
	if conf.DataDir != "" {
		dir, err := filepath.Abs(conf.DataDir)
		if err != nil {
			return nil, err
		}
		conf.DataDir = dir
	}
	// Ensure that the instance name doesn't cause weird conflicts with
	// other files in the data directory.
	if strings.ContainsAny(conf.Name, `/\`) {
		return nil, errors.New(`Config.Name must not contain '/' or '\'`)
	}

	return &Node{
		config:       conf,
		serviceNames: []string{},
		serviceFuncs: []NamedServiceConstructor{},
		Log:          mylog.Discard(),
	}, nil
}

func (n *Node) Config() *Config {
	return n.config
}

func (n *Node) Register(name string, constructor ServiceConstructor) error {
	n.lock.Lock()
	defer n.lock.Unlock()

	n.serviceFuncs = append(n.serviceFuncs, NamedServiceConstructor{name: name, constructor: constructor})
	return nil
}

func (n *Node) Start() error {
	n.lock.Lock()
	defer n.lock.Unlock()

	if n.running {
		return ErrNodeRunning
	}
	n.EvBus = EventBus.New()
	n.services, n.serviceNames = nil, nil

	if err := n.openDataDir(); err != nil {
		return err
	}
	if err := n.assemble(); err != nil {
		n.teardown()
		return err
	}

	serviceNames := make([]string, 0, len(n.serviceFuncs))
	services := make(map[string]Service)

	for _, namedConstructor := range n.serviceFuncs {
		ctx := &ServiceContext{
			config: n.config,
			// to support services to share, the list of services pass by reference
			services: services,
		}
		name := namedConstructor.name
		serviceNames = append(serviceNames, name)

		service, err := namedConstructor.constructor(ctx)
		if err != nil {
			n.teardown()
			return err
		}
		if _, exists := services[name]; exists {
			n.teardown()
			return &DuplicateServiceError{Kind: name}
		}
		services[name] = service
	}

	var started []string
	for _, kind := range serviceNames {
		service := services[kind]
		if err := service.Start(n); err != nil {
			for _, kind := range started {
				_ = services[kind].Stop()
			}
			n.teardown()
			return err
		}
		started = append(started, kind)
	}

	n.services, n.serviceNames = services, serviceNames
	n.running = true
	n.stop = make(chan struct{})
	n.Log.WithFields(logrus.Fields{"node": n.config.NodeName(), "datadir": n.config.instanceDir()}).Info("node started")
	return nil
}

// assemble builds the object graph: storage, secure store, wallet gateway, registry and account.
func (n *Node) assemble() error {
	var (
		deviceKey  []byte
		walletsDir string
		err        error
	)
	if n.config.DataDir == "" {
		n.DB = storage.NewMemoryDatabase()
		if deviceKey, err = securestore.NewDeviceKey(); err != nil {
			return err
		}
		if n.tmpDir, err = ioutil.TempDir("", "walletkeeper"); err != nil {
			return err
		}
		walletsDir = n.tmpDir
	} else {
		db, err := storage.NewLevelDatabase(n.config.ResolvePath(datadirDatabase))
		if err != nil {
			return err
		}
		n.DB = db
		if deviceKey, err = securestore.LoadOrCreateDeviceKey(n.config.ResolvePath(datadirDeviceKey)); err != nil {
			return err
		}
		walletsDir = n.config.ResolvePath(datadirWallets)
	}

	params := securestore.StandardScrypt
	if n.config.ScryptN > 0 {
		params = securestore.ScryptParams{N: n.config.ScryptN, R: 8, P: n.config.ScryptP}
		if params.P == 0 {
			params.P = 1
		}
	}
	if n.Store, err = securestore.New(n.DB, deviceKey, params, n.Log); err != nil {
		return err
	}
	if n.Gateway, err = local.NewGateway(walletsDir, n.config.ScryptN, n.config.ScryptP, n.Log); err != nil {
		return err
	}
	if n.Wallets, err = account.NewWallets(n.Gateway, n.Store, n.DB, n.EvBus, n.config.WalletCacheSize, n.Log); err != nil {
		return err
	}
	n.Proxy = n.Wallets.Proxy()
	n.Account = account.New(n.Store, n.Wallets,
		account.PasswordPolicy{MinLength: n.config.MinPasswordLength},
		account.ConnectionSettings{
			URI:      n.config.Node.URI,
			Login:    n.config.Node.Login,
			Password: n.config.Node.Password,
			UseTLS:   n.config.Node.UseTLS,
		},
		n.Log)
	return nil
}

func (n *Node) teardown() {
	// detaching first lets the cache purge close the active wallet too
	if n.Account != nil {
		n.Account.Select(nil)
	}
	if n.Wallets != nil {
		n.Wallets.Close()
	}
	if n.DB != nil {
		n.DB.Close()
	}
	if n.tmpDir != "" {
		_ = os.RemoveAll(n.tmpDir)
	}
	n.DB, n.Store, n.Gateway, n.Proxy, n.Wallets, n.Account, n.tmpDir = nil, nil, nil, nil, nil, nil, ""
}

func (n *Node) openDataDir() error {
	if n.config.DataDir == "" {
		return nil
	}

	confdir := n.config.instanceDir()
	if _, err := os.Stat(confdir); os.IsNotExist(err) {
		fmt.Printf("fatal: not be initialized (do `init` first)\n")
		return err
	}

	return nil
}

func (n *Node) Stop() error {
	n.lock.Lock()
	defer n.lock.Unlock()

	if !n.running {
		return ErrNodeStopped
	}
	failure := &StopError{
		Services: make(map[string]error),
	}

	length := len(n.serviceNames)
	for i := range n.serviceNames {
		kind := n.serviceNames[length-1-i]
		service := n.services[kind]
		if err := service.Stop(); err != nil {
			failure.Services[kind] = err
		}
	}
	n.services, n.serviceNames = nil, nil
	n.teardown()
	n.running = false
	close(n.stop)
	n.Log.Info("node stopped")

	if len(failure.Services) > 0 {
		return failure
	}

	return nil
}

// Wait blocks until the node is stopped.
func (n *Node) Wait() {
	n.lock.RLock()
	stop := n.stop
	n.lock.RUnlock()

	if stop == nil {
		return
	}
	<-stop
}

func (n *Node) Restart() error {
	if err := n.Stop(); err != nil {
		return err
	}

	if err := n.Start(); err != nil {
		return err
	}

	return nil
}

func (n *Node) Service(serviceName string) (interface{}, error) {
	n.lock.RLock()
	defer n.lock.RUnlock()

	if running, ok := n.services[serviceName]; ok {
		return running, nil
	}
	return nil, ErrServiceUnknown
}
